package config

import (
	"fmt"
	"slices"

	"github.com/tailored-agentic-units/redux/state"
)

// Re-entrancy policies for dispatches issued while another dispatch is in
// flight.
const (
	ReentrancyQueue  = "queue"
	ReentrancyReject = "reject"
)

// Queue bounds. MaxPendingUnbounded lifts the bound; zero means unset and
// resolves to DefaultMaxPending.
const (
	DefaultMaxPending   = 1024
	MaxPendingUnbounded = -1
)

// StoreConfig defines configuration for a redux store.
//
// This configuration is used only during initialization, then transformed
// into the store. Observer is a string so JSON and YAML files can name an
// implementation that is resolved at runtime through the observability
// registry.
//
// Example YAML:
//
//	name: inventory
//	observer: slog
//	reentrancy: queue
//	max_pending: 64
//	initial_state:
//	  gold: 0
//	  items: []
type StoreConfig struct {
	// Name identifies the store in events
	Name string `json:"name" yaml:"name" env:"NAME"`

	// Observer names the observer implementation ("noop", "slog", "otel", ...)
	Observer string `json:"observer" yaml:"observer" env:"OBSERVER"`

	// Reentrancy selects how nested dispatches are handled ("queue" or "reject")
	Reentrancy string `json:"reentrancy" yaml:"reentrancy" env:"REENTRANCY"`

	// MaxPending bounds the re-entrant dispatch queue (-1 = unbounded, 0 = default)
	MaxPending int `json:"max_pending" yaml:"max_pending" env:"MAX_PENDING"`

	// InitialState is the state held before the first SetStateAndReducer
	InitialState state.State `json:"initial_state,omitempty" yaml:"initial_state,omitempty"`
}

// DefaultStoreConfig returns defaults for a store.
//
// Default values:
//   - Observer: "noop", stores stay silent unless the host opts in
//   - Reentrancy: "queue"
//   - MaxPending: 1024
func DefaultStoreConfig(name string) StoreConfig {
	return StoreConfig{
		Name:       name,
		Observer:   "noop",
		Reentrancy: ReentrancyQueue,
		MaxPending: DefaultMaxPending,
	}
}

// Merge applies non-zero values from source into c.
func (c *StoreConfig) Merge(source *StoreConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.Reentrancy != "" {
		c.Reentrancy = source.Reentrancy
	}

	if source.MaxPending != 0 {
		c.MaxPending = source.MaxPending
	}

	if !source.InitialState.IsEmpty() {
		c.InitialState = source.InitialState
	}
}

// Validate reports configuration values a store cannot run with.
func (c *StoreConfig) Validate() error {
	if !slices.Contains([]string{ReentrancyQueue, ReentrancyReject}, c.Reentrancy) {
		return fmt.Errorf("invalid reentrancy policy %q: want %q or %q", c.Reentrancy, ReentrancyQueue, ReentrancyReject)
	}
	if c.MaxPending < MaxPendingUnbounded {
		return fmt.Errorf("invalid max_pending %d: want a positive bound, 0 for the default, or %d for unbounded", c.MaxPending, MaxPendingUnbounded)
	}
	return nil
}
