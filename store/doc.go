// Package store implements a redux-style state container.
//
// A Store holds one state.State and changes it only through Dispatch. Each
// dispatch runs in three phases:
//
//  1. Middleware: each middleware Callable receives (state, action) in
//     registration order and returns the action for the next stage. A result
//     that is not an integer cancels the dispatch.
//  2. Reducer: the reducer Callable receives (state, action) and returns the
//     next state. A result that is not a state replaces the state with the
//     empty State.
//  3. Subscribers: each subscriber Callable receives the new state in
//     registration order.
//
// # Bindings
//
// Middleware, reducer and subscribers are binding.Callable values, so Go
// methods (binding.Method), closures (binding.Func, binding.Reducer, ...) and
// Lua methods (luahost.Method) can be mixed in one store.
//
//	s, _ := store.New(config.DefaultStoreConfig("counter"))
//	s.SetStateAndReducer(state.New().Set("count", 0), binding.Reducer("add",
//	    func(st state.State, action int64) state.State {
//	        n, _ := st.Int("count")
//	        return st.Set("count", n+action)
//	    }))
//	s.Dispatch(ctx, 5) // {"count":5}
//
// # Re-entrancy
//
// Callables may call back into the store. A Dispatch issued while another is
// in flight is queued and run afterwards (config.ReentrancyQueue) or refused
// with ErrReentrantDispatch (config.ReentrancyReject).
//
// # Observability
//
// Every phase emits observability events through the configured Observer,
// and each dispatch runs inside a "redux.dispatch" OpenTelemetry span.
package store
