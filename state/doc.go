// Package state provides the immutable value held by a redux store.
//
// A store owns exactly one State at a time and replaces it wholesale after
// every reducer call. State never exposes its backing map, so the only way to
// change what a store holds is through the reducer's return value.
//
//	s := state.New().Set("count", 0)
//	s = s.Set("count", 5)
//
//	n, ok := s.Int("count") // 5, true
//
// # Copy-on-read
//
// Get and Map return deep copies of nested maps and slices. Set, Delete, and
// Merge return new States and leave the receiver untouched.
//
// # Codecs
//
// State implements json.Marshaler and yaml.Marshaler, so an initial state can
// be carried inside configuration files:
//
//	name: counter
//	initial_state:
//	  count: 0
//	  label: clicks
package state
