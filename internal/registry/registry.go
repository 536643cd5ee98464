// Package registry stores the load handlers and finalization hooks captured
// from plugins for one build generation, and partitions the handlers into
// namespace groups carrying a combined dispatch pattern each.
//
// The registry is a plain value owned by the build session and passed by
// reference into the dispatch engine; there is no ambient global state.
// Registrations happen synchronously while plugins are loaded. During
// dispatch the registry is treated as read-only; mutation (new plugins, a
// hot-reload rebuild) must happen between generations, never concurrently
// with in-flight dispatches.
package registry

import (
	"sync"

	"github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/pattern"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// DefaultNamespace is the host bundler's namespace for on-disk resources.
// It also names the group synthesized when only global handlers exist.
const DefaultNamespace = "file"

// DefaultPriority is assigned to registrations whose plugin did not specify
// a priority. Lower priorities run first.
const DefaultPriority = 1000

// HandlerRegistration is one captured load handler. Immutable once captured
// into the registry for a build.
type HandlerRegistration struct {
	Owner    string
	Priority int
	// Namespace is empty for global handlers, which apply in every group.
	Namespace string
	Pattern   pattern.Pattern
	Callback  types.LoadFunc

	// seq is the registration order, the tiebreaker for equal priorities.
	seq int
}

// FinalizerHook is one captured finalization hook. Hooks have no priority:
// for a given kind they run in exact registration order.
type FinalizerHook struct {
	Owner    string
	Kind     types.Kind
	Callback types.FinalizeFunc
}

// LoadOptions selects which resources a load handler applies to.
type LoadOptions struct {
	Pattern   pattern.Pattern
	Namespace string
}

// Registry holds one generation of handler and finalizer registrations.
type Registry struct {
	mu         sync.RWMutex
	handlers   []HandlerRegistration
	finalizers map[types.Kind][]FinalizerHook
	nextSeq    int
	generation uint64

	// groups caches the namespace grouping until the next mutation.
	groups      map[string]*NamespaceGroup
	groupsValid bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		finalizers: make(map[types.Kind][]FinalizerHook),
	}
}

// RegisterLoader captures a load handler. Malformed registrations are
// rejected and never enter the registry. Duplicate patterns from different
// owners are both kept.
func (r *Registry) RegisterLoader(owner string, priority int, opts LoadOptions, fn types.LoadFunc) error {
	if opts.Pattern.IsZero() {
		return &errors.RegistrationError{Owner: owner, Reason: "missing pattern"}
	}
	if fn == nil {
		return &errors.RegistrationError{Owner: owner, Reason: "missing load callback"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, HandlerRegistration{
		Owner:     owner,
		Priority:  priority,
		Namespace: opts.Namespace,
		Pattern:   opts.Pattern,
		Callback:  fn,
		seq:       r.nextSeq,
	})
	r.nextSeq++
	r.invalidateLocked()
	return nil
}

// RegisterFinalizer captures a finalization hook for one content kind.
func (r *Registry) RegisterFinalizer(owner string, kind types.Kind, fn types.FinalizeFunc) error {
	if kind == "" {
		return &errors.RegistrationError{Owner: owner, Reason: "missing content kind"}
	}
	if fn == nil {
		return &errors.RegistrationError{Owner: owner, Reason: "missing finalize callback"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalizers[kind] = append(r.finalizers[kind], FinalizerHook{
		Owner:    owner,
		Kind:     kind,
		Callback: fn,
	})
	r.invalidateLocked()
	return nil
}

// Clear removes all registrations and invalidates the cached grouping,
// starting a fresh generation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = nil
	r.finalizers = make(map[types.Kind][]FinalizerHook)
	r.nextSeq = 0
	r.invalidateLocked()
}

// invalidateLocked bumps the generation and drops the group cache. Callers
// must hold the write lock.
func (r *Registry) invalidateLocked() {
	r.generation++
	r.groups = nil
	r.groupsValid = false
}

// Len returns the number of captured load handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// FinalizerCount returns the total number of captured finalization hooks.
func (r *Registry) FinalizerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, hooks := range r.finalizers {
		n += len(hooks)
	}
	return n
}

// Generation returns the current registry generation. It changes on every
// mutation, so dispatch-side caches can detect staleness.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Handlers returns a snapshot copy of all load handler registrations in
// registration order.
func (r *Registry) Handlers() []HandlerRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]HandlerRegistration, len(r.handlers))
	copy(out, r.handlers)
	return out
}

// Finalizers returns the hooks registered for exactly kind, in registration
// order. The returned slice is a copy.
func (r *Registry) Finalizers(kind types.Kind) []FinalizerHook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hooks := r.finalizers[kind]
	out := make([]FinalizerHook, len(hooks))
	copy(out, hooks)
	return out
}
