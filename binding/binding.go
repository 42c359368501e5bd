package binding

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/redux/state"
)

// Callable is an invokable reference: a target plus a method identity, a free
// function, or a closure. It is the only invocation primitive a store uses.
//
// Implementations return an error only when the invocation itself fails
// (unresolvable method, argument mismatch, a runtime error raised by the
// target). Whatever the target returns, well-formed or not, comes back as a
// Result for the caller to interpret.
type Callable interface {
	Invoke(ctx context.Context, args ...any) (Result, error)
	Name() string
}

// Releaser is implemented by Callables that hold resources outside Go, such
// as a pinned value in a script runtime. A store calls Release once it has
// dropped the binding and no dispatch can still invoke it.
type Releaser interface {
	Release()
}

// FuncCallable wraps a Go function as a Callable.
type FuncCallable struct {
	name string
	fn   func(ctx context.Context, args []any) (any, error)
}

// Func creates a Callable from a function. The function's return value is
// wrapped with Recognized, so returning nil yields an Unrecognized Result.
//
// Example:
//
//	double := binding.Func("double", func(ctx context.Context, args []any) (any, error) {
//	    action, _ := args[1].(int64)
//	    return action * 2, nil
//	})
func Func(name string, fn func(ctx context.Context, args []any) (any, error)) *FuncCallable {
	return &FuncCallable{name: name, fn: fn}
}

// Invoke runs the wrapped function.
func (f *FuncCallable) Invoke(ctx context.Context, args ...any) (Result, error) {
	if f == nil || f.fn == nil {
		return Unrecognized(), fmt.Errorf("%w: func is nil", ErrInvalidBinding)
	}
	v, err := f.fn(ctx, args)
	if err != nil {
		return Unrecognized(), err
	}
	return Recognized(v), nil
}

// Name returns the identifier given to Func.
func (f *FuncCallable) Name() string {
	return f.name
}

// Reducer adapts a typed reducer function. The Callable expects
// (state.State, int64) arguments, the shape a store passes to its reducer.
func Reducer(name string, fn func(s state.State, action int64) state.State) Callable {
	return Func(name, func(_ context.Context, args []any) (any, error) {
		s, action, err := stateAndAction(name, args)
		if err != nil {
			return nil, err
		}
		return fn(s, action), nil
	})
}

// Middleware adapts a typed middleware function. Returning false cancels the
// dispatch; returning true forwards the (possibly rewritten) action.
func Middleware(name string, fn func(s state.State, action int64) (int64, bool)) Callable {
	return Func(name, func(_ context.Context, args []any) (any, error) {
		s, action, err := stateAndAction(name, args)
		if err != nil {
			return nil, err
		}
		next, ok := fn(s, action)
		if !ok {
			return nil, nil
		}
		return next, nil
	})
}

// Subscriber adapts a typed subscriber function. The Callable expects a single
// state.State argument.
func Subscriber(name string, fn func(s state.State)) Callable {
	return Func(name, func(_ context.Context, args []any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s: want 1 argument, got %d", ErrArgumentMismatch, name, len(args))
		}
		s, ok := args[0].(state.State)
		if !ok {
			return nil, fmt.Errorf("%w: %s: argument 0 is %T, want state.State", ErrArgumentMismatch, name, args[0])
		}
		fn(s)
		return nil, nil
	})
}

func stateAndAction(name string, args []any) (state.State, int64, error) {
	if len(args) != 2 {
		return state.State{}, 0, fmt.Errorf("%w: %s: want 2 arguments, got %d", ErrArgumentMismatch, name, len(args))
	}
	s, ok := args[0].(state.State)
	if !ok {
		return state.State{}, 0, fmt.Errorf("%w: %s: argument 0 is %T, want state.State", ErrArgumentMismatch, name, args[0])
	}
	action, ok := Recognized(args[1]).Int()
	if !ok {
		return state.State{}, 0, fmt.Errorf("%w: %s: argument 1 is %T, want integer", ErrArgumentMismatch, name, args[1])
	}
	return s, action, nil
}
