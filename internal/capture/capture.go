// Package capture records a plugin's registration calls against a stand-in
// of the host bundler's registration surface. Load handlers and finalizers
// are redirected into the shared registry, tagged with the plugin's name and
// priority; resolve and start registrations are collected into typed lists
// and replayed verbatim against the real host surface later. The recorder
// never executes a handler itself.
package capture

import (
	"fmt"

	"github.com/shpaw415/frame-master-sub000/internal/errors"
	"github.com/shpaw415/frame-master-sub000/internal/pattern"
	"github.com/shpaw415/frame-master-sub000/internal/registry"
	"github.com/shpaw415/frame-master-sub000/internal/types"
)

// Builder is the registration surface a plugin's setup routine sees. The
// real host bundler exposes the passthrough part of it too; during capture
// the plugin talks to a Recorder instead.
type Builder interface {
	OnLoad(opts registry.LoadOptions, fn types.LoadFunc) error
	OnResolve(opts ResolveOptions, fn types.ResolveFunc) error
	OnStart(fn types.StartFunc) error
	OnFinalize(kind types.Kind, fn types.FinalizeFunc) error
}

// PassthroughHost is the part of the real host surface that receives the
// replayed resolve and start registrations.
type PassthroughHost interface {
	OnResolve(opts ResolveOptions, fn types.ResolveFunc) error
	OnStart(fn types.StartFunc) error
}

// ResolveOptions selects which imports a resolve handler applies to.
type ResolveOptions struct {
	Pattern   pattern.Pattern
	Namespace string
}

// Plugin is what a plugin author provides: a name, an optional priority for
// its load handlers, and a setup routine that performs registrations
// against the builder.
type Plugin struct {
	Name string

	// Priority applies to the plugin's load handlers when HasPriority is
	// set; otherwise registry.DefaultPriority is used. The flag keeps an
	// explicit priority of zero distinguishable from an unspecified one.
	Priority    int
	HasPriority bool

	Setup func(b Builder) error
}

// ResolveRegistration is one recorded resolve call awaiting replay.
type ResolveRegistration struct {
	Owner   string
	Options ResolveOptions
	Fn      types.ResolveFunc
}

// Recorder implements Builder by observing registration calls.
type Recorder struct {
	registry *registry.Registry
	owner    string
	priority int

	resolves []ResolveRegistration
	starts   []types.StartFunc
}

// Capture runs one plugin's setup routine against a fresh recorder and
// returns the recorder holding its passthrough registrations.
func Capture(reg *registry.Registry, p Plugin) (*Recorder, error) {
	if p.Name == "" {
		return nil, &errors.RegistrationError{Owner: "(unnamed)", Reason: "plugin name is required"}
	}
	priority := registry.DefaultPriority
	if p.HasPriority {
		priority = p.Priority
	}

	rec := &Recorder{registry: reg, owner: p.Name, priority: priority}
	if p.Setup == nil {
		return rec, nil
	}
	if err := p.Setup(rec); err != nil {
		return nil, fmt.Errorf("plugin %q setup: %w", p.Name, err)
	}
	return rec, nil
}

// CaptureAll captures a plugin set in order and returns one recorder per
// plugin.
func CaptureAll(reg *registry.Registry, plugins []Plugin) ([]*Recorder, error) {
	recorders := make([]*Recorder, 0, len(plugins))
	for _, p := range plugins {
		rec, err := Capture(reg, p)
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, rec)
	}
	return recorders, nil
}

// OnLoad redirects a load handler registration into the shared registry.
func (r *Recorder) OnLoad(opts registry.LoadOptions, fn types.LoadFunc) error {
	return r.registry.RegisterLoader(r.owner, r.priority, opts, fn)
}

// OnFinalize redirects a finalization hook into the shared registry.
func (r *Recorder) OnFinalize(kind types.Kind, fn types.FinalizeFunc) error {
	return r.registry.RegisterFinalizer(r.owner, kind, fn)
}

// OnResolve records a resolve registration for later replay.
func (r *Recorder) OnResolve(opts ResolveOptions, fn types.ResolveFunc) error {
	if opts.Pattern.IsZero() {
		return &errors.RegistrationError{Owner: r.owner, Reason: "missing resolve pattern"}
	}
	if fn == nil {
		return &errors.RegistrationError{Owner: r.owner, Reason: "missing resolve callback"}
	}
	r.resolves = append(r.resolves, ResolveRegistration{Owner: r.owner, Options: opts, Fn: fn})
	return nil
}

// OnStart records a start registration for later replay.
func (r *Recorder) OnStart(fn types.StartFunc) error {
	if fn == nil {
		return &errors.RegistrationError{Owner: r.owner, Reason: "missing start callback"}
	}
	r.starts = append(r.starts, fn)
	return nil
}

// Resolves returns the recorded resolve registrations in call order.
func (r *Recorder) Resolves() []ResolveRegistration {
	out := make([]ResolveRegistration, len(r.resolves))
	copy(out, r.resolves)
	return out
}

// Starts returns the recorded start registrations in call order.
func (r *Recorder) Starts() []types.StartFunc {
	out := make([]types.StartFunc, len(r.starts))
	copy(out, r.starts)
	return out
}

// Replay installs the collected passthrough registrations on the real host
// surface, in the order they were recorded. Load and finalize calls were
// already redirected into the registry during capture and are not replayed.
func (r *Recorder) Replay(host PassthroughHost) error {
	for _, reg := range r.resolves {
		if err := host.OnResolve(reg.Options, reg.Fn); err != nil {
			return fmt.Errorf("replaying resolve for plugin %q: %w", reg.Owner, err)
		}
	}
	for _, fn := range r.starts {
		if err := host.OnStart(fn); err != nil {
			return fmt.Errorf("replaying start for plugin %q: %w", r.owner, err)
		}
	}
	return nil
}
