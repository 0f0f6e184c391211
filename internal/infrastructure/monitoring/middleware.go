package monitoring

import (
	"context"
	"strconv"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/transport"
)

// Middleware records dispatch status and in-flight requests
func Middleware(metrics *Metrics) transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return func(ctx context.Context, call *transport.Call) (*transport.Response, error) {
			metrics.InFlight.Inc()
			defer metrics.InFlight.Dec()

			resp, err := next(ctx, call)

			status := "error"
			if resp != nil {
				status = strconv.Itoa(resp.StatusCode())
			}
			metrics.RecordDispatch(call.Method, status)
			return resp, err
		}
	}
}

// Timer measures action duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	action  string
	method  string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, action, method string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		action:  action,
		method:  method,
	}
}

// Stop stops the timer and records the outcome
func (t *Timer) Stop(outcome string) time.Duration {
	duration := time.Since(t.start)
	t.metrics.RecordAction(t.action, t.method, outcome, duration)
	return duration
}
