package action

import (
	"context"
	"sync"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/progress"
)

// Subscriber receives the terminal outcome of a queued execution. Exactly
// one of OnSuccess, OnError or OnSkip fires, then OnDone.
type Subscriber[T any] struct {
	OnSuccess func(T)
	OnError   func(*apierr.Error)
	OnSkip    func()
	OnDone    func()
}

// Future is the one-shot result of a queued execution
type Future[T any] struct {
	done chan struct{}

	mu          sync.Mutex
	result      Result[T]
	completed   bool
	delivered   bool
	subscribers []Subscriber[T]

	progress       chan progress.Event
	progressClosed bool
}

func newFuture[T any](buffer int) *Future[T] {
	return &Future[T]{
		done:     make(chan struct{}),
		progress: make(chan progress.Event, buffer),
	}
}

// Queue starts the action on its own goroutine and returns immediately
func (a *Action[T]) Queue(ctx context.Context) *Future[T] {
	e := a.engineOrDefault()
	snap := a.snapshot()
	f := newFuture[T](e.buffer)

	go func() {
		r := run(ctx, e, snap, f.sendProgress)
		f.complete(r)
		f.closeProgress()
	}()
	return f
}

// Subscribe registers s for the terminal outcome. Subscribers registered
// before completion are all notified. A completed result nobody has seen
// yet goes to the first subscriber. Once delivered, Subscribe returns false
// and s is never called.
func (f *Future[T]) Subscribe(s Subscriber[T]) bool {
	f.mu.Lock()
	if f.delivered {
		f.mu.Unlock()
		return false
	}
	if !f.completed {
		f.subscribers = append(f.subscribers, s)
		f.mu.Unlock()
		return true
	}
	f.delivered = true
	r := f.result
	f.mu.Unlock()

	deliver(s, r)
	return true
}

// Wait blocks until the result is available or ctx ends. It does not
// count as a subscription.
func (f *Future[T]) Wait(ctx context.Context) (Result[T], error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.result, nil
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	}
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Closed reports whether the terminal outcome was delivered
func (f *Future[T]) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.delivered
}

// Progress streams progress events; it is closed after completion.
// Events are dropped, not blocked on, when the buffer is full.
func (f *Future[T]) Progress() <-chan progress.Event {
	return f.progress
}

func (f *Future[T]) complete(r Result[T]) {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return
	}
	f.completed = true
	f.result = r
	subs := f.subscribers
	f.subscribers = nil
	if len(subs) > 0 {
		f.delivered = true
	}
	f.mu.Unlock()
	close(f.done)

	for _, s := range subs {
		deliver(s, r)
	}
}

func (f *Future[T]) sendProgress(ev progress.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.progressClosed {
		return
	}
	select {
	case f.progress <- ev:
	default:
	}
}

func (f *Future[T]) closeProgress() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.progressClosed {
		f.progressClosed = true
		close(f.progress)
	}
}

func deliver[T any](s Subscriber[T], r Result[T]) {
	switch r.Outcome {
	case OutcomeSucceeded:
		if s.OnSuccess != nil {
			safely(func() { s.OnSuccess(r.Value) })
		}
	case OutcomeSkipped:
		if s.OnSkip != nil {
			safely(s.OnSkip)
		}
	default:
		if s.OnError != nil {
			safely(func() { s.OnError(r.Err) })
		}
	}
	if s.OnDone != nil {
		safely(s.OnDone)
	}
}

// safely keeps a subscriber panic from killing the queue goroutine
func safely(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
