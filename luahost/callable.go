package luahost

import (
	"context"
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/tailored-agentic-units/redux/binding"
)

// refsKey names the registry table that keeps bound Lua values alive.
const refsKey = "redux.refs"

// Callable invokes a Lua function, or a method on a Lua table or userdata.
//
// A Callable shares its lua.State with the script that created it and must be
// invoked from the goroutine running that script. The bound value is pinned
// in the Lua registry until Release; a store releases the Callables it drops
// on SetStateAndReducer.
type Callable struct {
	l      *lua.State
	ref    int
	method string
}

// Method binds the method called name on the table or userdata at index.
//
// The method is looked up on every invocation and called as
// target:method(args...). Binding fails with binding.ErrNilTarget when index
// holds nil, binding.ErrInvalidBinding for other non-indexable values, and
// binding.ErrMethodNotFound when the target has no such function.
func Method(l *lua.State, index int, name string) (*Callable, error) {
	index = l.AbsIndex(index)

	switch l.TypeOf(index) {
	case lua.TypeTable, lua.TypeUserData:
	case lua.TypeNil, lua.TypeNone:
		return nil, fmt.Errorf("%w: method %q", binding.ErrNilTarget, name)
	default:
		return nil, fmt.Errorf("%w: cannot call method %q on %s", binding.ErrInvalidBinding, name, lua.TypeNameOf(l, index))
	}

	l.Field(index, name)
	found := l.IsFunction(-1)
	l.Pop(1)
	if !found {
		return nil, methodNotFound(l, index, name)
	}

	return &Callable{l: l, ref: pin(l, index), method: name}, nil
}

// Function binds the Lua function at index.
func Function(l *lua.State, index int) (*Callable, error) {
	index = l.AbsIndex(index)
	if !l.IsFunction(index) {
		return nil, fmt.Errorf("%w: %s is not a function", binding.ErrInvalidBinding, lua.TypeNameOf(l, index))
	}
	return &Callable{l: l, ref: pin(l, index)}, nil
}

// Name returns "lua:<method>" for methods and "lua:function" otherwise.
func (c *Callable) Name() string {
	if c.method == "" {
		return "lua:function"
	}
	return "lua:" + c.method
}

// Invoke calls the bound Lua value under a protected call. Lua runtime errors
// are returned as errors; the first return value becomes the Result, with nil
// read as Unrecognized.
func (c *Callable) Invoke(ctx context.Context, args ...any) (binding.Result, error) {
	if err := ctx.Err(); err != nil {
		return binding.Unrecognized(), err
	}

	if c.ref == 0 {
		return binding.Unrecognized(), fmt.Errorf("%w: %s was released", binding.ErrInvalidBinding, c.Name())
	}

	l := c.l
	top := l.Top()
	defer l.SetTop(top)

	pushRefs(l)
	l.RawGetInt(-1, c.ref)

	nargs := len(args)
	if c.method != "" {
		l.Field(-1, c.method)
		if !l.IsFunction(-1) {
			l.Pop(1)
			return binding.Unrecognized(), methodNotFound(l, l.AbsIndex(-1), c.method)
		}
		l.PushValue(-2)
		nargs++
	}

	for _, arg := range args {
		pushGo(l, arg)
	}

	if err := l.ProtectedCall(nargs, 1, 0); err != nil {
		return binding.Unrecognized(), fmt.Errorf("%s: %w", c.Name(), err)
	}
	return binding.Recognized(toGo(l, -1)), nil
}

// Release unpins the bound value so Lua can collect it. Releasing twice is a
// no-op; invoking a released Callable fails with binding.ErrInvalidBinding.
func (c *Callable) Release() {
	if c.ref == 0 {
		return
	}
	l := c.l
	pushRefs(l)
	l.PushNil()
	l.RawSetInt(-2, c.ref)
	l.Pop(1)
	c.ref = 0
}

// pinned reports how many values the refs table of l holds.
func pinned(l *lua.State) int {
	pushRefs(l)
	defer l.Pop(1)

	count := 0
	l.PushNil()
	for l.Next(-2) {
		if l.TypeOf(-2) == lua.TypeNumber {
			count++
		}
		l.Pop(1)
	}
	return count
}

func pushRefs(l *lua.State) {
	l.Field(lua.RegistryIndex, refsKey)
	if l.IsNil(-1) {
		l.Pop(1)
		l.NewTable()
		l.PushValue(-1)
		l.SetField(lua.RegistryIndex, refsKey)
	}
}

// pin stores the value at index in the refs table and returns its key.
func pin(l *lua.State, index int) int {
	index = l.AbsIndex(index)
	pushRefs(l)

	l.Field(-1, "n")
	n, _ := l.ToInteger(-1)
	l.Pop(1)
	n++
	l.PushInteger(n)
	l.SetField(-2, "n")

	l.PushValue(index)
	l.RawSetInt(-2, n)
	l.Pop(1)
	return n
}

func methodNotFound(l *lua.State, index int, name string) error {
	candidates := functionKeys(l, index)
	if l.MetaTable(index) {
		l.Field(-1, "__index")
		if l.TypeOf(-1) == lua.TypeTable {
			candidates = append(candidates, functionKeys(l, -1)...)
		}
		l.Pop(2)
	}

	if s := binding.Suggest(name, candidates); s != "" {
		return fmt.Errorf("%w: %q on lua %s (did you mean %q?)", binding.ErrMethodNotFound, name, lua.TypeNameOf(l, index), s)
	}
	return fmt.Errorf("%w: %q on lua %s", binding.ErrMethodNotFound, name, lua.TypeNameOf(l, index))
}

func functionKeys(l *lua.State, index int) []string {
	if l.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = l.AbsIndex(index)
	var names []string
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString && l.IsFunction(-1) {
			key, _ := l.ToString(-2)
			names = append(names, key)
		}
		l.Pop(1)
	}
	return names
}
