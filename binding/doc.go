// Package binding provides the invocation capability a redux store depends on.
//
// A Callable is anything that can be invoked with a list of arguments and
// return a dynamically typed Result: a Go method resolved by name, a closure,
// or a function living in a scripting runtime (see package luahost).
//
//	reducer, err := binding.Method(&game, "Reduce")
//	logger := binding.Subscriber("log", func(s state.State) { fmt.Println(s) })
//
// # Results
//
// Result is an explicit tagged value: Recognized(v) or Unrecognized(). Stores
// never type-assert a Result. They ask for an interpretation and fall back
// when there is none:
//
//	if next, ok := res.Int(); ok {
//	    // forward next
//	}
//	if s, ok := res.State(); ok {
//	    // replace state
//	}
//
// # Errors
//
// Every resolution or invocation failure wraps ErrInvalidBinding:
//
//	if errors.Is(err, binding.ErrInvalidBinding) {
//	    // target, method, or arguments are wrong
//	}
package binding
