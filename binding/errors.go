package binding

import (
	"errors"
	"fmt"
)

// ErrInvalidBinding is the root of every failure to resolve or invoke a
// Callable. Stores propagate it to their callers instead of recovering.
var ErrInvalidBinding = errors.New("invalid callable binding")

// Sentinel errors for binding resolution and invocation.
var (
	ErrNilTarget        = fmt.Errorf("%w: nil target", ErrInvalidBinding)
	ErrMethodNotFound   = fmt.Errorf("%w: method not found", ErrInvalidBinding)
	ErrArgumentMismatch = fmt.Errorf("%w: argument mismatch", ErrInvalidBinding)
)
