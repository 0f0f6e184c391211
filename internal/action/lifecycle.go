package action

import (
	"errors"
	"fmt"
)

// State is a lifecycle stage
type State int

const (
	StateCreated State = iota
	StateInitialized
	StateResolved
	StateDispatched
	StateSucceeded
	StateFailed
	StateDone
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateResolved:
		return "resolved"
	case StateDispatched:
		return "dispatched"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrIllegalTransition is returned for a transition the machine forbids
var ErrIllegalTransition = errors.New("illegal lifecycle transition")

// Initialized may end early: Done for the auth skip, Failed when the call
// cannot be built.
var transitions = map[State][]State{
	StateCreated:     {StateInitialized},
	StateInitialized: {StateResolved, StateFailed, StateDone},
	StateResolved:    {StateDispatched, StateFailed},
	StateDispatched:  {StateSucceeded, StateFailed},
	StateSucceeded:   {StateDone},
	StateFailed:      {StateDone},
}

type lifecycle struct {
	state   State
	history []State
}

func newLifecycle() *lifecycle {
	return &lifecycle{state: StateCreated, history: []State{StateCreated}}
}

func (l *lifecycle) to(next State) error {
	for _, allowed := range transitions[l.state] {
		if allowed == next {
			l.state = next
			l.history = append(l.history, next)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, l.state, next)
}

func (l *lifecycle) terminal() bool {
	return l.state == StateDone
}
