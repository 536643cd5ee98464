package plugins

import (
	"context"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/shpaw415/frame-master-sub000/internal/capture"
	"github.com/shpaw415/frame-master-sub000/internal/pattern"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// textnormPattern covers the plain-text sources the normalizer claims.
var textnormPattern = pattern.MustCompile(`\.(txt|md|csv)$`)

// Textnorm returns the builtin plugin that normalizes text resources to
// UTF-8: byte-order marks are honored for UTF-16 input and stripped from
// the output. It registers globally (no namespace) so it applies in every
// namespace group.
func Textnorm() capture.Plugin {
	return capture.Plugin{
		Name:        "textnorm",
		Priority:    100,
		HasPriority: true,
		Setup: func(b capture.Builder) error {
			return b.OnLoad(registry.LoadOptions{Pattern: textnormPattern}, normalizeText)
		},
	}
}

func normalizeText(_ context.Context, in types.Input) (*types.LoadResult, error) {
	content := in.Content
	if in.First {
		raw, err := os.ReadFile(in.Resource.Path)
		if err != nil {
			return nil, err
		}
		content = raw
	}

	// BOMOverride switches to UTF-16 when a BOM says so and otherwise
	// passes UTF-8 through, minus its own BOM.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return nil, err
	}
	return &types.LoadResult{Content: out, Kind: types.KindText}, nil
}
