package state

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ToInt interprets v as an integer.
//
// Go integers, booleans (0/1), decimal strings, and finite floats within the
// int64 range (truncated toward zero) are integers. Strings are always read
// in base 10, so "010" is 10. Absence, NaN, infinities, non-numeric strings,
// and composite values are not integers.
func ToInt(v any) (int64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		return parseDecimal(val)
	case float64:
		return truncate(val)
	case float32:
		return truncate(float64(val))
	case map[string]any, []any, State, *State:
		return 0, false
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDecimal(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	// ParseFloat accepts hex floats such as 0x1p4.
	trimmed := strings.TrimLeft(s, "+-")
	if len(trimmed) > 1 && trimmed[0] == '0' && strings.ContainsAny(trimmed[1:2], "xXbBoO") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return truncate(f)
}

// truncate converts f toward zero, rejecting values outside int64.
func truncate(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
