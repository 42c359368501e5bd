package luahost

import (
	"fmt"
	"math"

	"github.com/Shopify/go-lua"
	"github.com/spf13/cast"

	"github.com/tailored-agentic-units/redux/state"
)

// toGo converts the Lua value at index. Tables become map[string]any or,
// when keyed 1..n, []any. Integral numbers become int.
func toGo(l *lua.State, index int) any {
	switch l.TypeOf(index) {
	case lua.TypeString:
		value, _ := l.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := l.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(l, index)
	case lua.TypeUserData:
		return l.ToUserData(index)
	default:
		return nil
	}
}

func tableToGo(l *lua.State, index int) any {
	index = l.AbsIndex(index)

	sequence := true
	highest, count := 0, 0
	l.PushNil()
	for l.Next(index) {
		if sequence {
			i, ok := 0, false
			if l.TypeOf(-2) == lua.TypeNumber {
				i, ok = l.ToInteger(-2)
			}
			if ok && i > 0 {
				count++
				highest = max(highest, i)
			} else {
				sequence = false
			}
		}
		l.Pop(1)
	}

	if sequence && count > 0 && highest == count {
		items := make([]any, 0, count)
		for i := 1; i <= count; i++ {
			l.RawGetInt(index, i)
			items = append(items, toGo(l, -1))
			l.Pop(1)
		}
		return items
	}

	return tableToMap(l, index)
}

// tableToMap reads the string-keyed entries of the table at index. Other keys
// are skipped.
func tableToMap(l *lua.State, index int) map[string]any {
	out := map[string]any{}
	if l.TypeOf(index) != lua.TypeTable {
		return out
	}

	index = l.AbsIndex(index)
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString {
			key, _ := l.ToString(-2)
			out[key] = toGo(l, -1)
		}
		l.Pop(1)
	}
	return out
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && value >= math.MinInt && value < math.MaxInt {
		return int(value)
	}
	return value
}

// pushGo pushes v onto the Lua stack.
func pushGo(l *lua.State, v any) {
	switch val := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(val)
	case string:
		l.PushString(val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		l.PushInteger(cast.ToInt(val))
	case float32:
		l.PushNumber(float64(val))
	case float64:
		l.PushNumber(val)
	case state.State:
		pushMap(l, val.Map())
	case map[string]any:
		pushMap(l, val)
	case []any:
		l.CreateTable(len(val), 0)
		for i, item := range val {
			pushGo(l, item)
			l.RawSetInt(-2, i+1)
		}
	default:
		l.PushString(fmt.Sprint(val))
	}
}

func pushMap(l *lua.State, m map[string]any) {
	l.CreateTable(0, len(m))
	for k, item := range m {
		pushGo(l, item)
		l.SetField(-2, k)
	}
}
