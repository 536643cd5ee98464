package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// Loader is the host's own default loading mechanism, used for resources no
// chain handler claimed.
type Loader interface {
	Load(path string) ([]byte, types.Kind, error)
}

// FileLoader reads resources from disk, inferring the content kind from the
// file extension.
type FileLoader struct{}

// Load reads the file at path.
func (FileLoader) Load(path string) ([]byte, types.Kind, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("default loading %q: %w", path, err)
	}
	return content, KindForPath(path), nil
}

// KindForPath maps a file extension to a content kind.
func KindForPath(path string) types.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		return types.KindScript
	case ".css", ".scss", ".less":
		return types.KindStyle
	case ".html", ".htm", ".xhtml":
		return types.KindMarkup
	case ".json":
		return types.KindJSON
	case ".txt", ".md", ".csv", ".svg", ".xml":
		return types.KindText
	default:
		return types.KindBinary
	}
}
