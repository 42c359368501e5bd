package binding

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// MethodCallable binds an exported Go method to its receiver.
type MethodCallable struct {
	target any
	name   string
	method reflect.Value
}

// Method resolves the exported method called name on target.
//
// Resolution happens once, here. A nil target fails with ErrNilTarget; an
// unknown method fails with ErrMethodNotFound and suggests the closest
// exported method name.
//
// When invoked, the method receives ctx as its first argument if its first
// parameter is a context.Context. Remaining arguments are assigned or
// converted to the parameter types. Results are interpreted as follows:
//   - no results, or a nil first result: Unrecognized
//   - a trailing error result: returned as the invocation error
//   - (value, bool) with bool false: Unrecognized
//
// Example:
//
//	type Counter struct{}
//
//	func (Counter) Reduce(s state.State, action int64) state.State {
//	    n, _ := s.Int("count")
//	    return s.Set("count", n+action)
//	}
//
//	reducer, err := binding.Method(Counter{}, "Reduce")
func Method(target any, name string) (*MethodCallable, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: method %q", ErrNilTarget, name)
	}

	v := reflect.ValueOf(target)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, fmt.Errorf("%w: method %q on %T", ErrNilTarget, name, target)
	}

	m := v.MethodByName(name)
	if !m.IsValid() {
		return nil, methodNotFound(target, name, methodNames(v.Type()))
	}

	return &MethodCallable{target: target, name: name, method: m}, nil
}

// Name returns the receiver type and method name, e.g. "*game.Inventory.Reduce".
func (c *MethodCallable) Name() string {
	return fmt.Sprintf("%T.%s", c.target, c.name)
}

// Invoke calls the bound method.
func (c *MethodCallable) Invoke(ctx context.Context, args ...any) (Result, error) {
	mt := c.method.Type()

	in := make([]reflect.Value, 0, len(args)+1)
	params := mt.NumIn()
	next := 0

	if params > 0 && mt.In(0) == contextType {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
		next = 1
	}

	fixed := params - next
	if mt.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return Unrecognized(), c.arity(fixed, len(args), true)
		}
	} else if len(args) != fixed {
		return Unrecognized(), c.arity(fixed, len(args), false)
	}

	for i, arg := range args {
		var pt reflect.Type
		if i < fixed {
			pt = mt.In(next + i)
		} else {
			pt = mt.In(params - 1).Elem()
		}

		v, err := convertArg(arg, pt)
		if err != nil {
			return Unrecognized(), fmt.Errorf("%w: %s: argument %d: %v", ErrArgumentMismatch, c.Name(), i, err)
		}
		in = append(in, v)
	}

	return interpret(c.method.Call(in))
}

func (c *MethodCallable) arity(want, got int, variadic bool) error {
	if variadic {
		return fmt.Errorf("%w: %s: want at least %d arguments, got %d", ErrArgumentMismatch, c.Name(), want, got)
	}
	return fmt.Errorf("%w: %s: want %d arguments, got %d", ErrArgumentMismatch, c.Name(), want, got)
}

func convertArg(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", pt)
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(pt.Kind()) {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%T is not assignable to %s", arg, pt)
}

func interpret(out []reflect.Value) (Result, error) {
	if len(out) > 0 && out[len(out)-1].Type() == errorType {
		if errV := out[len(out)-1]; !errV.IsNil() {
			return Unrecognized(), errV.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	if len(out) == 0 {
		return Unrecognized(), nil
	}

	if len(out) == 2 && out[1].Kind() == reflect.Bool && !out[1].Bool() {
		return Unrecognized(), nil
	}

	first := out[0]
	switch first.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		if first.IsNil() {
			return Unrecognized(), nil
		}
	}
	return Recognized(first.Interface()), nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func methodNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumMethod())
	for i := range t.NumMethod() {
		names = append(names, t.Method(i).Name)
	}
	return names
}

func methodNotFound(target any, name string, candidates []string) error {
	if s := Suggest(name, candidates); s != "" {
		return fmt.Errorf("%w: %q on %T (did you mean %q?)", ErrMethodNotFound, name, target, s)
	}
	return fmt.Errorf("%w: %q on %T", ErrMethodNotFound, name, target)
}
