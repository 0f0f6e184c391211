package action

import (
	"context"
	"sync"
)

// CancelToken aborts the executions it is attached to. One token may be
// shared by several actions. The zero value is ready to use.
type CancelToken struct {
	mu        sync.Mutex
	ch        chan struct{}
	cancelled bool
}

// NewCancelToken creates an armed token
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel aborts every attached execution; later calls are no-ops
func (t *CancelToken) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.cancelled = true
	if t.ch == nil {
		t.ch = make(chan struct{})
	}
	close(t.ch)
}

// Cancelled reports whether Cancel was called
func (t *CancelToken) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// Done is closed on Cancel
func (t *CancelToken) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch == nil {
		t.ch = make(chan struct{})
	}
	return t.ch
}

// bind derives a context cancelled by either ctx or the token
func (t *CancelToken) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	if t == nil {
		return ctx, cancel
	}
	if t.Cancelled() {
		cancel()
		return ctx, cancel
	}
	done := t.Done()
	go func() {
		select {
		case <-done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
