// Package errors defines the pipeline's error taxonomy. All errors are
// resource-scoped: a failing handler aborts its own resource's build and
// leaves every other in-flight dispatch untouched.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the dispatch engine.
var (
	// ErrUnhandled tells the host bundler that no registered handler applies
	// to the resource and it should fall back to its default loading. It is
	// not a failure.
	ErrUnhandled = errors.New("resource unhandled by transform pipeline")

	// ErrEmptyChain marks a matched chain in which no handler ever produced
	// content. That is a plugin-authoring defect, surfaced distinctly from a
	// handler crash so diagnostics can say "handler returned nothing".
	ErrEmptyChain = errors.New("transform chain produced no content")
)

// RegistrationError reports a malformed registration rejected at capture
// time. Rejected registrations never enter the registry.
type RegistrationError struct {
	Owner  string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("plugin %q: invalid registration: %s", e.Owner, e.Reason)
}

// ChainError wraps an error returned by a load handler with the owning
// plugin's identity and the resource being transformed.
type ChainError struct {
	Owner    string
	Resource string
	Err      error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("plugin %q failed transforming %q: %v", e.Owner, e.Resource, e.Err)
}

func (e *ChainError) Unwrap() error { return e.Err }

// FinalizeError wraps an error returned by a finalization hook.
type FinalizeError struct {
	Owner    string
	Kind     string
	Resource string
	Err      error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("plugin %q failed finalizing %q as %s: %v", e.Owner, e.Resource, e.Kind, e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }

// AsChainError is errors.As specialized for *ChainError.
func AsChainError(err error, target **ChainError) bool {
	return errors.As(err, target)
}

// AsFinalizeError is errors.As specialized for *FinalizeError.
func AsFinalizeError(err error, target **FinalizeError) bool {
	return errors.As(err, target)
}

// IsUnhandled reports whether err is the unhandled sentinel.
func IsUnhandled(err error) bool {
	return errors.Is(err, ErrUnhandled)
}
