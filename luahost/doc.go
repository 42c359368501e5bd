// Package luahost lets Lua scripts configure and drive a store.
//
// Lua tables with methods become binding.Callable values through Method,
// and plain functions through Function, so reducers, middleware and
// subscribers can be written in Lua:
//
//	local counter = {}
//	function counter:reduce(state, action)
//	    state.count = (state.count or 0) + action
//	    return state
//	end
//
//	redux.set_state_and_reducer({count = 0}, counter, "reduce")
//	redux.dispatch(5)
//	print(redux.state().count) -- 5
//
// Values cross the boundary by copy: a state.State becomes a fresh Lua table
// on every call, and tables returned to Go become map[string]any (or []any
// for sequences). Lua numbers without a fractional part arrive as int.
package luahost
