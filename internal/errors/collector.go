package errors

import (
	"sync"
	"time"
)

// PipelineError is one recorded resource failure, kept for the dev server's
// error reporting.
type PipelineError struct {
	Resource  string
	Owner     string
	Message   string
	Timestamp time.Time
}

// ErrorCollector accumulates resource failures across dispatches. It is safe
// for concurrent use; dispatches for distinct resources may fail in
// parallel.
type ErrorCollector struct {
	mu     sync.RWMutex
	errors []PipelineError
}

// NewErrorCollector creates an empty collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Record stores a failure for the given resource. The owner is extracted
// from chain and finalize errors when present.
func (ec *ErrorCollector) Record(resource string, err error) {
	if err == nil {
		return
	}

	entry := PipelineError{
		Resource:  resource,
		Message:   err.Error(),
		Timestamp: time.Now(),
	}
	var chainErr *ChainError
	var finalizeErr *FinalizeError
	switch {
	case AsChainError(err, &chainErr):
		entry.Owner = chainErr.Owner
	case AsFinalizeError(err, &finalizeErr):
		entry.Owner = finalizeErr.Owner
	}

	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.errors = append(ec.errors, entry)
}

// All returns a copy of every recorded failure.
func (ec *ErrorCollector) All() []PipelineError {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	out := make([]PipelineError, len(ec.errors))
	copy(out, ec.errors)
	return out
}

// ByResource returns the recorded failures for one resource path.
func (ec *ErrorCollector) ByResource(resource string) []PipelineError {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	var out []PipelineError
	for _, e := range ec.errors {
		if e.Resource == resource {
			out = append(out, e)
		}
	}
	return out
}

// HasErrors reports whether anything was recorded.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	return len(ec.errors) > 0
}

// Clear drops all recorded failures, typically on a rebuild generation.
func (ec *ErrorCollector) Clear() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.errors = ec.errors[:0]
}
