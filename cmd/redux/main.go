package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/tailored-agentic-units/redux/config"
	"github.com/tailored-agentic-units/redux/luahost"
	"github.com/tailored-agentic-units/redux/observability"
	"github.com/tailored-agentic-units/redux/state"
	"github.com/tailored-agentic-units/redux/store"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to store config JSON or YAML file")
		script      = flag.String("script", "", "Lua script that configures the store (required)")
		dispatch    = flag.String("dispatch", "", "Comma-separated actions to dispatch after the script, e.g. 5,3,-1")
		observer    = flag.String("observer", "", "Observer name: noop, slog, otel (overrides config)")
		reentrancy  = flag.String("reentrancy", "", "Re-entrancy policy: queue or reject (overrides config)")
		interactive = flag.Bool("interactive", false, "Dispatch actions from the keyboard")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *script == "" {
		fmt.Fprintln(os.Stderr, "Usage: redux -script <file.lua> [-dispatch 1,2,3] [-interactive]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.DefaultStoreConfig("redux")
	if *configFile != "" {
		loaded, err := config.LoadStoreConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}
	cfg.Merge(&config.StoreConfig{
		Observer:   *observer,
		Reentrancy: *reentrancy,
	})

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
		if cfg.Observer == "noop" {
			cfg.Observer = "slog"
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	actions, err := parseActions(*dispatch)
	if err != nil {
		log.Fatalf("Invalid -dispatch: %v", err)
	}

	s, err := store.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := luahost.RunFile(ctx, s, *script); err != nil {
		log.Fatalf("Script failed: %v", err)
	}

	for _, action := range actions {
		if err := s.Dispatch(ctx, action); err != nil {
			log.Fatalf("Dispatch %d failed: %v", action, err)
		}
	}

	if *interactive {
		if err := runInteractive(ctx, s); err != nil {
			log.Fatalf("Interactive session failed: %v", err)
		}
	}

	fmt.Printf("State: %s\n", s.GetState())

	m := s.Metrics()
	fmt.Printf("\nDispatches: %d (cancelled %d, fallbacks %d, queued %d)\n",
		m.Dispatches, m.Cancellations, m.Fallbacks, m.Queued)
}

// parseActions splits a comma-separated list of decimal integers. Empty
// input yields no actions.
func parseActions(list string) ([]store.Action, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	parts := strings.Split(list, ",")
	actions := make([]store.Action, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("empty action in %q", list)
		}
		n, ok := state.ToInt(p)
		if !ok {
			return nil, fmt.Errorf("action %q is not an integer", p)
		}
		actions = append(actions, store.Action(n))
	}
	return actions, nil
}
