package state

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"slices"

	"gopkg.in/yaml.v3"
)

// State is the value held by a store.
//
// State wraps a map[string]any but never exposes it: every read returns a
// deep copy of nested maps, slices, and arrays, whatever their element type,
// and every modification returns a new State. A State handed to a reducer, middleware, subscriber, or caller can
// therefore never be used to mutate the store's live value.
//
// The zero value is the empty State and is ready to use.
//
// Example:
//
//	s1 := state.New()
//	s2 := s1.Set("count", 0)
//	s3 := s2.Set("count", 5)
//	// s1 is empty, s2 has count=0, s3 has count=5
type State struct {
	data map[string]any
}

// New creates an empty State.
func New() State {
	return State{data: make(map[string]any)}
}

// Empty returns the empty State. Stores fall back to it when a reducer
// produces something that is not a State.
func Empty() State {
	return State{}
}

// From creates a State holding a deep copy of m.
func From(m map[string]any) State {
	if len(m) == 0 {
		return New()
	}
	return State{data: cloneMap(m)}
}

// Get retrieves a value by key.
//
// Nested maps and slices are returned as copies; modifying them has no effect
// on the State.
func (s State) Get(key string) (any, bool) {
	val, exists := s.data[key]
	if !exists {
		return nil, false
	}
	return cloneValue(val), true
}

// Int retrieves a value by key and interprets it as an integer.
//
// Returns false when the key is missing or the value has no integer
// interpretation.
func (s State) Int(key string) (int64, bool) {
	return ToInt(s.data[key])
}

// Set creates a new State with the key-value pair added or updated.
// The original State is not modified.
func (s State) Set(key string, value any) State {
	next := s.Clone()
	next.data[key] = cloneValue(value)
	return next
}

// Delete creates a new State without key.
// If the key does not exist, the returned State is a copy of the original.
func (s State) Delete(key string) State {
	next := s.Clone()
	delete(next.data, key)
	return next
}

// Merge creates a new State combining this State with other.
// Keys from other overwrite keys with the same name.
func (s State) Merge(other State) State {
	next := s.Clone()
	for k, v := range other.data {
		next.data[k] = cloneValue(v)
	}
	return next
}

// Clone creates an independent copy of the State.
func (s State) Clone() State {
	return State{data: cloneMap(s.data)}
}

// Len returns the number of top-level keys.
func (s State) Len() int {
	return len(s.data)
}

// IsEmpty reports whether the State holds no keys.
func (s State) IsEmpty() bool {
	return len(s.data) == 0
}

// IsZero reports whether the State is empty, so omitempty encoders skip it.
func (s State) IsZero() bool {
	return s.IsEmpty()
}

// Keys returns the top-level keys in sorted order.
func (s State) Keys() []string {
	return slices.Sorted(maps.Keys(s.data))
}

// Map returns a deep copy of the underlying data. The result is never nil.
func (s State) Map() map[string]any {
	return cloneMap(s.data)
}

// Equal reports whether both States hold deeply equal data.
// An empty State equals the zero State.
func (s State) Equal(other State) bool {
	if s.IsEmpty() && other.IsEmpty() {
		return true
	}
	return reflect.DeepEqual(s.data, other.data)
}

// String renders the State as compact JSON with sorted keys.
func (s State) String() string {
	data, err := json.Marshal(s.Map())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// MarshalJSON encodes the State as a JSON object.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON decodes a JSON object. Integral numbers decode as int64,
// other numbers as float64.
func (s *State) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}

	normalized, _ := normalizeNumbers(m).(map[string]any)
	*s = From(normalized)
	return nil
}

// MarshalYAML encodes the State as a YAML mapping.
func (s State) MarshalYAML() (any, error) {
	return s.Map(), nil
}

// UnmarshalYAML decodes a YAML mapping.
func (s *State) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]any
	if err := value.Decode(&m); err != nil {
		return err
	}
	*s = From(m)
	return nil
}

func normalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeNumbers(item)
		}
		return val
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

var stateType = reflect.TypeFor[State]()

// cloneValue deep-copies maps, slices, and arrays of any element type.
// Pointers, structs, and channels are shared.
func cloneValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case State:
		return val.Clone()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return cloneReflect(rv).Interface()
	default:
		return v
	}
}

func cloneReflect(rv reflect.Value) reflect.Value {
	if rv.Type() == stateType {
		return reflect.ValueOf(rv.Interface().(State).Clone())
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := range rv.Len() {
			out.Index(i).Set(cloneReflect(rv.Index(i)))
		}
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(cloneReflect(rv.Elem()))
		return out
	default:
		return rv
	}
}
