// Package host is the engine's boundary with the surrounding bundler. The
// Bundler facade registers the engine's dispatch entries, tries them per
// resource, falls back to default loading for unhandled resources, and
// still applies finalizers to default-loaded content. It also carries the
// passthrough resolve/start registrations replayed from plugin capture.
package host

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shpaw415/frame-master-sub000/internal/capture"
	"github.com/shpaw415/frame-master-sub000/internal/dispatch"
	perrors "github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/logging"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// Bundler drives the transform pipeline for concrete resources.
type Bundler struct {
	engine *dispatch.Engine
	loader Loader
	logger logging.Logger

	mu       sync.RWMutex
	entries  []dispatch.Entry
	resolves []capture.ResolveRegistration
	starts   []types.StartFunc
}

// New creates a bundler over the engine, pulling the current dispatch
// entries. Call Refresh after a registry rebuild.
func New(engine *dispatch.Engine, loader Loader, logger logging.Logger) (*Bundler, error) {
	if loader == nil {
		loader = FileLoader{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	b := &Bundler{
		engine: engine,
		loader: loader,
		logger: logger.WithComponent("bundler"),
	}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Refresh re-pulls the dispatch entries from the engine, picking up a new
// registry generation after a hot reload. The replayed passthrough
// registrations are dropped too; the new generation's recorders replay
// theirs afterwards.
func (b *Bundler) Refresh() error {
	entries, err := b.engine.Entries()
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.entries = entries
	b.resolves = nil
	b.starts = nil
	b.mu.Unlock()
	return nil
}

// OnResolve receives a replayed resolve registration. Part of the
// capture.PassthroughHost surface.
func (b *Bundler) OnResolve(opts capture.ResolveOptions, fn types.ResolveFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resolves = append(b.resolves, capture.ResolveRegistration{Options: opts, Fn: fn})
	return nil
}

// OnStart receives a replayed start registration. Part of the
// capture.PassthroughHost surface.
func (b *Bundler) OnStart(fn types.StartFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starts = append(b.starts, fn)
	return nil
}

// RunStarts invokes every replayed start registration once, in order.
func (b *Bundler) RunStarts(ctx context.Context) error {
	b.mu.RLock()
	starts := b.starts
	b.mu.RUnlock()
	for _, fn := range starts {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Resolve applies the replayed resolve registrations to an import, first
// match wins. A (nil, nil) return means no handler claimed the import and
// the host should resolve it itself.
func (b *Bundler) Resolve(ctx context.Context, args types.ResolveArgs) (*types.ResolveResult, error) {
	b.mu.RLock()
	resolves := b.resolves
	b.mu.RUnlock()

	for _, reg := range resolves {
		if reg.Options.Namespace != "" && reg.Options.Namespace != args.Namespace {
			continue
		}
		if !reg.Options.Pattern.Match(args.Path) {
			continue
		}
		result, err := reg.Fn(ctx, args)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}
	return nil, nil
}

// Load runs one resource through the pipeline. The dispatch entries are
// tried the way the host bundler would: a resource whose path clears a
// group's combined pattern goes through that group's dispatch. When no
// entry claims the resource the default loader supplies the content, and
// finalizers still run, keyed by the loaded kind.
func (b *Bundler) Load(ctx context.Context, res types.Resource) (*dispatch.Result, error) {
	b.mu.RLock()
	entries := b.entries
	b.mu.RUnlock()

	for _, entry := range entries {
		if entry.Namespace != res.Namespace || !entry.Pattern.Match(res.Path) {
			continue
		}
		result, err := entry.Dispatch(ctx, res.Path)
		if perrors.IsUnhandled(err) {
			// Combined-pattern false positive; fall through to default
			// loading.
			break
		}
		return result, err
	}

	content, kind, err := b.loader.Load(res.Path)
	if err != nil {
		return nil, err
	}
	content, err = b.engine.Finalize(ctx, kind, content, res.Path)
	if err != nil {
		return nil, err
	}
	return &dispatch.Result{Content: content, Kind: kind}, nil
}

// BuildDir walks root and writes every transformed resource under outDir,
// preserving relative paths. It returns the number of resources written.
func (b *Bundler) BuildDir(ctx context.Context, root, outDir string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		result, err := b.Load(ctx, types.Resource{Path: path, Namespace: registry.DefaultNamespace})
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(out, result.Content, 0o644); err != nil {
			return err
		}

		b.logger.Debug(ctx, "resource built", "path", rel, "kind", string(result.Kind))
		count++
		return nil
	})
	return count, err
}
