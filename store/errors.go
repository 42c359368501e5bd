package store

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingReducer is returned by Dispatch before SetStateAndReducer has
	// installed a reducer. No middleware runs and the state is untouched.
	ErrMissingReducer = errors.New("no reducer set")

	// ErrReentrantDispatch is returned by Dispatch under the reject policy when
	// another dispatch is in flight.
	ErrReentrantDispatch = errors.New("dispatch already in progress")

	// ErrQueueFull is returned by Dispatch under the queue policy when the
	// pending queue has reached its bound.
	ErrQueueFull = errors.New("dispatch queue full")
)

// Stage names the dispatch phase a Callable was invoked in.
type Stage string

const (
	StageMiddleware Stage = "middleware"
	StageReducer    Stage = "reducer"
	StageSubscriber Stage = "subscriber"
)

// DispatchError captures context when a Callable fails during a dispatch.
//
//   - DispatchID: the UUIDv7 of the failing dispatch
//   - Stage: middleware, reducer or subscriber
//   - Position: index within the stage (always 0 for the reducer)
//   - Callable: Name() of the failing Callable
//   - Action: the action value the Callable received
//   - Err: the invocation error
type DispatchError struct {
	DispatchID string
	Stage      Stage
	Position   int
	Callable   string
	Action     Action
	Err        error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %d failed at %s %d (%s): %v", e.Action, e.Stage, e.Position, e.Callable, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
