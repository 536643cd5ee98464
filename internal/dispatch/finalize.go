package dispatch

import (
	"context"

	"github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// finalize chains the hooks registered for exactly kind, each rewriting the
// content, strictly in registration order. It runs whether the content came
// from a transform chain (stopped early or not) or from the host's default
// loading; a kind with no hooks passes the content through untouched.
func (e *Engine) finalize(ctx context.Context, kind types.Kind, content []byte, path string) ([]byte, error) {
	for _, hook := range e.registry.Finalizers(kind) {
		out, err := hook.Callback(ctx, types.FinalizeInput{
			Content: content,
			Kind:    kind,
			Path:    path,
		})
		if err != nil {
			return nil, &errors.FinalizeError{
				Owner:    hook.Owner,
				Kind:     string(kind),
				Resource: path,
				Err:      err,
			}
		}
		content = out
	}
	return content, nil
}
