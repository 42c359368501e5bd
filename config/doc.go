// Package config provides configuration structures for redux stores.
//
// Configuration is used only at construction time: store.New resolves the
// named observer, validates the re-entrancy policy, and copies the initial
// state. Nothing here is consulted during a dispatch.
//
// Sources are layered, later ones winning on non-zero fields:
//
//	cfg := config.DefaultStoreConfig("counter")
//	loaded, err := config.LoadStoreConfig("counter.yaml") // defaults + file
//	err = config.ApplyEnv(loaded)                         // + REDUX_* variables
//
// Merge implements the layering and is what callers use to apply their own
// overrides, e.g. command-line flags.
package config
