// Package progress normalizes raw byte-transfer ticks into events.
//
// Every tick produces exactly one Event; there is no buffering, throttling
// or deduplication. A Tracker fans each event out to a generic handler and
// to the handler registered for the event's direction.
package progress

import (
	"context"
	"sync"
)

// Direction tags which side of the exchange a tick belongs to
type Direction int

const (
	Upload Direction = iota
	Download
)

// String returns the direction name
func (d Direction) String() string {
	if d == Upload {
		return "upload"
	}
	return "download"
}

// Event is a single normalized progress notification
type Event struct {
	Sent       int64
	Total      int64
	Percentage float64
	Direction  Direction
}

// NewEvent derives the percentage from sent/total, clamped to [0, 100].
// An unknown or zero total yields 0.
func NewEvent(sent, total int64, dir Direction) Event {
	if total < 0 {
		total = 0
	}
	pct := 0.0
	if total > 0 {
		pct = float64(sent) / float64(total) * 100
		if pct > 100 {
			pct = 100
		} else if pct < 0 {
			pct = 0
		}
	}
	return Event{Sent: sent, Total: total, Percentage: pct, Direction: dir}
}

// Done reports completion
func (e Event) Done() bool {
	return e.Total > 0 && (e.Percentage >= 100 || e.Sent >= e.Total)
}

// Handler receives progress events. Upload ticks may arrive on a transport
// goroutine, so handlers must be safe to call concurrently with the caller.
// A panicking handler is skipped for that tick.
type Handler func(Event)

// Tracker dispatches ticks to registered handlers
type Tracker struct {
	mu       sync.RWMutex
	any      []Handler
	upload   []Handler
	download []Handler
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// OnProgress registers a handler for both directions
func (t *Tracker) OnProgress(h Handler) *Tracker {
	return t.add(&t.any, h)
}

// OnUpload registers an upload handler
func (t *Tracker) OnUpload(h Handler) *Tracker {
	return t.add(&t.upload, h)
}

// OnDownload registers a download handler
func (t *Tracker) OnDownload(h Handler) *Tracker {
	return t.add(&t.download, h)
}

func (t *Tracker) add(list *[]Handler, h Handler) *Tracker {
	if h == nil {
		return t
	}
	t.mu.Lock()
	*list = append(*list, h)
	t.mu.Unlock()
	return t
}

// Tick converts a raw (transferred, total) pair to an Event and dispatches it
func (t *Tracker) Tick(dir Direction, transferred, total int64) {
	if t == nil {
		return
	}
	ev := NewEvent(transferred, total, dir)

	t.mu.RLock()
	handlers := make([]Handler, 0, len(t.any)+len(t.upload)+len(t.download))
	handlers = append(handlers, t.any...)
	if dir == Upload {
		handlers = append(handlers, t.upload...)
	} else {
		handlers = append(handlers, t.download...)
	}
	t.mu.RUnlock()

	for _, h := range handlers {
		dispatch(h, ev)
	}
}

// dispatch contains handler panics; upload ticks run on the transport's
// write goroutine where nothing else could recover them.
func dispatch(h Handler, ev Event) {
	defer func() { _ = recover() }()
	h(ev)
}

// Callback returns the raw (transferred, total) shape for one direction
func (t *Tracker) Callback(dir Direction) func(transferred, total int64) {
	return func(transferred, total int64) {
		t.Tick(dir, transferred, total)
	}
}

// Empty reports whether no handler is registered
func (t *Tracker) Empty() bool {
	if t == nil {
		return true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.any)+len(t.upload)+len(t.download) == 0
}

// Clone copies the registered handlers into a new tracker
func (t *Tracker) Clone() *Tracker {
	out := NewTracker()
	if t == nil {
		return out
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	out.any = append(out.any, t.any...)
	out.upload = append(out.upload, t.upload...)
	out.download = append(out.download, t.download...)
	return out
}

type trackerKey struct{}

// WithTracker attaches a tracker to ctx for the transport to pick up
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// FromContext returns the tracker attached to ctx, or nil
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}
