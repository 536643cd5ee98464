// Package dispatch is the runtime side of the transform pipeline: deciding
// which registered handlers apply to a concrete resource, running the
// matched chain with content hand-off between handlers, and applying
// finalization hooks to the result.
package dispatch

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/logging"
	"github.com/shpaw415/frame-master-sub000/internal/pattern"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// Result is what a completed dispatch hands back to the host bundler.
type Result struct {
	Content []byte
	Kind    types.Kind
}

// Engine runs dispatches against one registry. The registry must not be
// mutated while dispatches are in flight; the host may run dispatches for
// distinct resources concurrently.
type Engine struct {
	registry *registry.Registry
	logger   logging.Logger
}

// NewEngine creates an engine over the given registry.
func NewEngine(reg *registry.Registry, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		registry: reg,
		logger:   logger.WithComponent("dispatch"),
	}
}

// Entry is one dispatch registration handed to the host bundler: a group's
// combined pattern, its namespace, and the function the host calls per
// resource. The host registers exactly one entry per namespace group.
type Entry struct {
	Pattern   pattern.Pattern
	Namespace string
	Dispatch  func(ctx context.Context, path string) (*Result, error)
}

// Entries returns one Entry per namespace group, ordered by namespace for
// deterministic host registration.
func (e *Engine) Entries() ([]Entry, error) {
	groups, err := e.registry.Groups()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(groups))
	for key, group := range groups {
		key := key
		entries = append(entries, Entry{
			Pattern:   group.Combined,
			Namespace: key,
			Dispatch: func(ctx context.Context, path string) (*Result, error) {
				return e.Dispatch(ctx, types.Resource{Path: path, Namespace: key})
			},
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Namespace < entries[j].Namespace
	})
	return entries, nil
}

// Dispatch runs the full pipeline for one resource: match, chain, finalize.
// It returns errors.ErrUnhandled when no handler's individual pattern
// matches the path, telling the host to fall back to its default loading
// (finalizers then run on the host's default-loaded content via Finalize).
func (e *Engine) Dispatch(ctx context.Context, res types.Resource) (*Result, error) {
	groups, err := e.registry.Groups()
	if err != nil {
		return nil, err
	}
	group, ok := groups[res.Namespace]
	if !ok {
		return nil, errors.ErrUnhandled
	}

	matched := Matching(group, res.Path)
	if len(matched) == 0 {
		// The combined pattern is a superset filter, so a host-side match
		// does not guarantee any individual member matches.
		return nil, errors.ErrUnhandled
	}

	log := e.logger.With(
		"dispatch_id", uuid.NewString(),
		"resource", res.Path,
		"namespace", res.Namespace,
	)
	log.Debug(ctx, "running transform chain", "handlers", len(matched))

	state, err := runChain(ctx, log, matched, res)
	if err != nil {
		log.Error(ctx, err, "transform chain failed")
		return nil, err
	}
	log.Debug(ctx, "transform chain completed",
		"kind", string(state.kind),
		"stopped", state.stopped,
		"executed", state.executed,
	)

	content, err := e.finalize(ctx, state.kind, state.content, res.Path)
	if err != nil {
		log.Error(ctx, err, "finalization failed")
		return nil, err
	}
	return &Result{Content: content, Kind: state.kind}, nil
}

// Finalize applies the hooks registered for kind to content, in
// registration order. It is exported separately because finalization is
// keyed purely by content kind: the host calls it directly for resources
// its own default loader produced when no chain handler matched.
func (e *Engine) Finalize(ctx context.Context, kind types.Kind, content []byte, path string) ([]byte, error) {
	return e.finalize(ctx, kind, content, path)
}
