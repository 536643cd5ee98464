// Package watcher watches project files and coalesces rapid changes into
// debounced batches. The serve command uses it to drive registry rebuild
// generations: plugins are re-captured between dispatches, never during
// them.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches for file changes with debouncing
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	mutex     sync.RWMutex
}

// ChangeEvent represents a file change event
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// EventType represents the type of file change
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines if a changed file is interesting
type FileFilter func(path string) bool

// IgnoreFilter builds a FileFilter that rejects paths matching any of the
// given patterns. A pattern is tried with filepath.Match against the file's
// base name, then as a plain substring of the full path, so both "*.tmp"
// and "node_modules" work.
func IgnoreFilter(patterns []string) FileFilter {
	return func(path string) bool {
		base := filepath.Base(path)
		for _, pattern := range patterns {
			if matched, _ := filepath.Match(pattern, base); matched {
				return false
			}
			if strings.Contains(path, pattern) {
				return false
			}
		}
		return true
	}
}

// ChangeHandler handles a debounced batch of change events
type ChangeHandler func(events []ChangeEvent) error

// debouncer groups rapid file changes together
type debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	pending []ChangeEvent
	mutex   sync.Mutex
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounceDelay time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher: watcher,
		debouncer: &debouncer{
			delay:  debounceDelay,
			events: make(chan ChangeEvent, 100),
			output: make(chan []ChangeEvent, 10),
		},
	}, nil
}

// AddFilter adds a file filter
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddRecursive adds a directory and all subdirectories to the watch set
func (fw *FileWatcher) AddRecursive(root string) error {
	cleanRoot, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return fmt.Errorf("invalid root path: %w", err)
	}

	return filepath.Walk(cleanRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.watcher.Add(path)
		}
		return nil
	})
}

// Start begins watching; it returns immediately and runs until ctx is done
// or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.debouncer.run(ctx)
	go fw.translateEvents(ctx)
	go fw.dispatchBatches(ctx)
}

// Stop closes the underlying fsnotify watcher.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}

// translateEvents converts fsnotify events into ChangeEvents that pass the
// filters and feeds them to the debouncer.
func (fw *FileWatcher) translateEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.accepts(event.Name) {
				continue
			}
			fw.debouncer.add(ChangeEvent{
				Type:    eventTypeFor(event.Op),
				Path:    event.Name,
				ModTime: time.Now(),
			})
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// dispatchBatches hands debounced batches to the registered handlers.
func (fw *FileWatcher) dispatchBatches(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-fw.debouncer.output:
			if !ok {
				return
			}
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()
			for _, handler := range handlers {
				_ = handler(batch)
			}
		}
	}
}

func (fw *FileWatcher) accepts(path string) bool {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()
	if len(fw.filters) == 0 {
		return true
	}
	for _, filter := range fw.filters {
		if filter(path) {
			return true
		}
	}
	return false
}

func eventTypeFor(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

// add queues one event for debouncing.
func (d *debouncer) add(event ChangeEvent) {
	select {
	case d.events <- event:
	default:
		// Queue full; the pending batch already represents the change storm.
	}
}

// run collects events until the delay elapses without new ones, then emits
// the batch.
func (d *debouncer) run(ctx context.Context) {
	timer := time.NewTimer(d.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.mutex.Lock()
			d.pending = append(d.pending, event)
			d.mutex.Unlock()
			timer.Reset(d.delay)
		case <-timer.C:
			d.flush()
		}
	}
}

// flush emits the pending batch, deduplicated by path keeping the latest
// event.
func (d *debouncer) flush() {
	d.mutex.Lock()
	if len(d.pending) == 0 {
		d.mutex.Unlock()
		return
	}
	seen := make(map[string]int, len(d.pending))
	batch := make([]ChangeEvent, 0, len(d.pending))
	for _, event := range d.pending {
		if i, ok := seen[event.Path]; ok {
			batch[i] = event
			continue
		}
		seen[event.Path] = len(batch)
		batch = append(batch, event)
	}
	d.pending = nil
	d.mutex.Unlock()

	select {
	case d.output <- batch:
	default:
	}
}
