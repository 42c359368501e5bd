package luahost

import (
	"context"
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/tailored-agentic-units/redux/binding"
	"github.com/tailored-agentic-units/redux/state"
	"github.com/tailored-agentic-units/redux/store"
)

// GlobalName is the Lua global Open installs the store API under.
const GlobalName = "redux"

type storeAPI struct {
	ctx   context.Context
	store *store.Store
}

// Open installs the global table redux on l, bound to s:
//
//	redux.set_state_and_reducer(initial, target, "method")
//	redux.state()            -- current state as a table
//	redux.dispatch(action)
//	redux.add_middleware(target, "method")
//	redux.subscribe(target, "method")
//
// Wherever a target and method name are expected, a plain function is also
// accepted. Store errors are raised as Lua errors. Dispatches started from
// Lua run with ctx.
func Open(ctx context.Context, l *lua.State, s *store.Store) {
	api := &storeAPI{ctx: ctx, store: s}

	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "set_state_and_reducer", Function: api.setStateAndReducer},
		{Name: "state", Function: api.state},
		{Name: "dispatch", Function: api.dispatch},
		{Name: "add_middleware", Function: api.addMiddleware},
		{Name: "subscribe", Function: api.subscribe},
	}, 0)
	l.SetGlobal(GlobalName)
}

// RunFile creates a Lua state with the standard libraries and the redux API
// bound to s, then runs the script at path. The returned state keeps any Lua
// callables the script registered alive.
func RunFile(ctx context.Context, s *store.Store, path string) (*lua.State, error) {
	l := newState(ctx, s)
	if err := lua.LoadFile(l, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	return l, nil
}

// RunString is RunFile for a script held in memory.
func RunString(ctx context.Context, s *store.Store, source string) (*lua.State, error) {
	l := newState(ctx, s)
	if err := lua.LoadString(l, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	return l, nil
}

func newState(ctx context.Context, s *store.Store) *lua.State {
	l := lua.NewState()
	lua.OpenLibraries(l)
	Open(ctx, l, s)
	return l
}

func (a *storeAPI) setStateAndReducer(l *lua.State) int {
	initial := state.New()
	if !l.IsNoneOrNil(1) {
		lua.CheckType(l, 1, lua.TypeTable)
		initial = state.From(tableToMap(l, 1))
	}

	reducer := bind(l, 2)
	if err := a.store.SetStateAndReducer(initial, reducer); err != nil {
		raise(l, err)
	}
	return 0
}

func (a *storeAPI) state(l *lua.State) int {
	pushGo(l, a.store.GetState())
	return 1
}

func (a *storeAPI) dispatch(l *lua.State) int {
	action := lua.CheckInteger(l, 1)
	if err := a.store.Dispatch(a.ctx, store.Action(action)); err != nil {
		raise(l, err)
	}
	return 0
}

func (a *storeAPI) addMiddleware(l *lua.State) int {
	if err := a.store.AddMiddleware(bind(l, 1)); err != nil {
		raise(l, err)
	}
	return 0
}

func (a *storeAPI) subscribe(l *lua.State) int {
	if err := a.store.Subscribe(bind(l, 1)); err != nil {
		raise(l, err)
	}
	return 0
}

// bind reads either a function at index or a target at index followed by a
// method name at index+1.
func bind(l *lua.State, index int) binding.Callable {
	var (
		c   *Callable
		err error
	)
	if l.IsFunction(index) {
		c, err = Function(l, index)
	} else {
		c, err = Method(l, index, lua.CheckString(l, index+1))
	}
	if err != nil {
		raise(l, err)
	}
	return c
}

func raise(l *lua.State, err error) {
	lua.Errorf(l, "%s", err.Error())
}
