package binding

import (
	"github.com/spf13/cast"

	"github.com/tailored-agentic-units/redux/state"
)

// Result is the dynamically typed outcome of a Callable invocation.
//
// A Result is either Recognized, carrying a value, or Unrecognized, signalling
// the absence of a value. Consumers never assume a static type: they ask for
// an interpretation with Int or State and handle the false case explicitly.
type Result struct {
	value   any
	present bool
}

// Recognized wraps a returned value. A nil value is Unrecognized.
func Recognized(v any) Result {
	if v == nil {
		return Unrecognized()
	}
	return Result{value: v, present: true}
}

// Unrecognized is the explicit absence-of-value result.
func Unrecognized() Result {
	return Result{}
}

// Value returns the raw value and whether one is present.
func (r Result) Value() (any, bool) {
	return r.value, r.present
}

// IsRecognized reports whether the Result carries a value.
func (r Result) IsRecognized() bool {
	return r.present
}

// Int interprets the Result as an integer under the rules of state.ToInt.
// An Unrecognized Result has no integer interpretation.
func (r Result) Int() (int64, bool) {
	if !r.present {
		return 0, false
	}
	return state.ToInt(r.value)
}

// State interprets the Result as a state.State.
//
// States, non-nil *States, map[string]any, and map[any]any with keys that
// convert to strings are States. Everything else, including strings, is not.
func (r Result) State() (state.State, bool) {
	if !r.present {
		return state.State{}, false
	}

	switch v := r.value.(type) {
	case state.State:
		return v, true
	case *state.State:
		if v == nil {
			return state.State{}, false
		}
		return *v, true
	case map[string]any:
		return state.From(v), true
	case map[any]any:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return state.State{}, false
		}
		return state.From(m), true
	default:
		return state.State{}, false
	}
}
