package action

import (
	"errors"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/shared/id"
	"github.com/GriffinCanCode/actionkit/internal/transport"
)

// Outcome is the terminal result category
type Outcome int

const (
	OutcomeSucceeded Outcome = iota + 1
	OutcomeFailed
	OutcomeSkipped
)

// String returns the outcome label
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ErrSkipped is returned by Result.Get for skipped executions
var ErrSkipped = errors.New("action skipped: credential required but unavailable")

// Result is the single terminal value of an execution
type Result[T any] struct {
	Outcome Outcome
	Value   T
	Err     *apierr.Error
	// Response is nil when nothing was received
	Response    *transport.Response
	ExecutionID id.ExecutionID
	// Lifecycle lists the states the execution passed through
	Lifecycle []State
}

// OK reports success
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeSucceeded
}

// Skipped reports the auth short-circuit
func (r Result[T]) Skipped() bool {
	return r.Outcome == OutcomeSkipped
}

// Get returns the value, the classified error, or ErrSkipped
func (r Result[T]) Get() (T, error) {
	switch r.Outcome {
	case OutcomeSucceeded:
		return r.Value, nil
	case OutcomeSkipped:
		var zero T
		return zero, ErrSkipped
	default:
		var zero T
		if r.Err == nil {
			return zero, errors.New("action failed without an error")
		}
		return zero, r.Err
	}
}
