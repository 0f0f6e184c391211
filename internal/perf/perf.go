// Package perf keeps the most recent timing of every resolved endpoint.
//
// Entries are keyed by full path (base URL plus resolved path, no query).
// A later call to the same path overwrites the earlier entry; no history
// is retained.
//
// Example Usage:
//
//	timer := perf.Default().Start("GetUser", "https://api.example.com/users/1")
//	// ... dispatch ...
//	entry := timer.End()
//	fmt.Println(entry.Duration)
package perf

import (
	"sync"
	"time"
)

// Entry is the latest timing for one path
type Entry struct {
	ActionName string        `json:"action_name"`
	FullPath   string        `json:"full_path"`
	Duration   time.Duration `json:"duration"`
	StartedAt  time.Time     `json:"started_at"`
}

// Observer is notified of every completed timing
type Observer func(Entry)

// Recorder is a concurrent-safe path to Entry accumulator
type Recorder struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	observers []Observer
	now       func() time.Time
}

var (
	defaultRecorder *Recorder
	once            sync.Once
)

// Default returns the process-wide recorder
func Default() *Recorder {
	once.Do(func() {
		defaultRecorder = New()
	})
	return defaultRecorder
}

// New creates an empty recorder
func New() *Recorder {
	return &Recorder{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Observe registers fn for every completed timing
func (r *Recorder) Observe(fn Observer) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// Start begins timing a call to fullPath
func (r *Recorder) Start(actionName, fullPath string) *Timer {
	return &Timer{
		recorder:   r,
		actionName: actionName,
		fullPath:   fullPath,
		start:      r.now(),
	}
}

// Report returns a copy of the current mapping
func (r *Recorder) Report() map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Entry, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Get returns the entry for fullPath
func (r *Recorder) Get(fullPath string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[fullPath]
	return e, ok
}

// Reset drops every entry, observers stay registered
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = make(map[string]Entry)
	r.mu.Unlock()
}

func (r *Recorder) store(e Entry) {
	r.mu.Lock()
	r.entries[e.FullPath] = e
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	for _, fn := range observers {
		fn(e)
	}
}

// Timer measures one call
type Timer struct {
	recorder   *Recorder
	actionName string
	fullPath   string
	start      time.Time

	once  sync.Once
	entry Entry
}

// End stops the timer and stores the entry. Calling End again returns the
// first result without storing twice.
func (t *Timer) End() Entry {
	t.once.Do(func() {
		t.entry = Entry{
			ActionName: t.actionName,
			FullPath:   t.fullPath,
			Duration:   t.recorder.now().Sub(t.start),
			StartedAt:  t.start,
		}
		t.recorder.store(t.entry)
	})
	return t.entry
}
