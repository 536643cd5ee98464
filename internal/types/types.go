// Package types contains the data types shared across the transform
// pipeline: resources, handler inputs and results, and content kinds. It
// exists so the registry, dispatch, and capture packages can share handler
// signatures without import cycles.
package types

import "context"

// Kind tags content with how it should be interpreted downstream (the
// bundler's "loader" concept). Kinds are open-ended strings; the constants
// below cover the common cases.
type Kind string

const (
	KindText   Kind = "text"
	KindScript Kind = "script"
	KindStyle  Kind = "style"
	KindMarkup Kind = "markup"
	KindJSON   Kind = "json"
	KindBinary Kind = "binary"
)

// Resource identifies a file or virtual module by path and namespace.
// Resources in different namespaces are never chained together.
type Resource struct {
	Path      string
	Namespace string
}

// Input is the view a load handler receives. It is an explicit tagged
// variant: when First is true the accumulator is absent and the handler must
// source the original resource content itself; otherwise Content and Kind
// carry the previous handler's output.
type Input struct {
	Resource Resource

	// First reports whether the accumulator is still absent. A handler that
	// passes through leaves the accumulator untouched, so the next handler
	// may still see First=true.
	First   bool
	Content []byte
	Kind    Kind
}

// LoadResult is what a load handler returns when it transforms a resource.
type LoadResult struct {
	Content []byte
	Kind    Kind

	// Stop terminates the chain after this handler. Finalization still runs
	// on the accumulated result.
	Stop bool
}

// LoadFunc transforms one resource. Returning (nil, nil) is a pass-through:
// the handler declines this particular file even though its pattern matched,
// and the chain continues with the accumulator unchanged.
type LoadFunc func(ctx context.Context, in Input) (*LoadResult, error)

// FinalizeInput is handed to every finalization hook registered for the
// resulting content kind.
type FinalizeInput struct {
	Content []byte
	Kind    Kind
	Path    string
}

// FinalizeFunc rewrites the final content for its registered kind. Hooks for
// one kind chain strictly in registration order.
type FinalizeFunc func(ctx context.Context, in FinalizeInput) ([]byte, error)

// ResolveArgs describes an import the host bundler is resolving. Resolve
// handlers are passthrough registrations: the engine collects them during
// capture and replays them against the host without chaining.
type ResolveArgs struct {
	Path      string
	Importer  string
	Namespace string
}

// ResolveResult redirects an import to a concrete path and namespace.
type ResolveResult struct {
	Path      string
	Namespace string
	External  bool
}

// ResolveFunc handles one resolve registration. Returning (nil, nil) lets
// the next resolve handler, or the host itself, resolve the import.
type ResolveFunc func(ctx context.Context, args ResolveArgs) (*ResolveResult, error)

// StartFunc runs once when the host begins a build.
type StartFunc func(ctx context.Context) error
