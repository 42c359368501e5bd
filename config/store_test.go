package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/redux/config"
	"github.com/tailored-agentic-units/redux/state"
)

func TestStoreConfig_DefaultStoreConfig(t *testing.T) {
	cfg := config.DefaultStoreConfig("counter")

	if cfg.Name != "counter" {
		t.Errorf("DefaultStoreConfig().Name = %v, want %v", cfg.Name, "counter")
	}
	if cfg.Observer != "noop" {
		t.Errorf("DefaultStoreConfig().Observer = %v, want %v", cfg.Observer, "noop")
	}
	if cfg.Reentrancy != config.ReentrancyQueue {
		t.Errorf("DefaultStoreConfig().Reentrancy = %v, want %v", cfg.Reentrancy, config.ReentrancyQueue)
	}
	if cfg.MaxPending != 1024 {
		t.Errorf("DefaultStoreConfig().MaxPending = %v, want %v", cfg.MaxPending, 1024)
	}
	if !cfg.InitialState.IsEmpty() {
		t.Errorf("DefaultStoreConfig().InitialState = %v, want empty", cfg.InitialState)
	}
}

func TestStoreConfig_Merge(t *testing.T) {
	tests := []struct {
		name   string
		source config.StoreConfig
		want   config.StoreConfig
	}{
		{
			name:   "empty source keeps defaults",
			source: config.StoreConfig{},
			want:   config.DefaultStoreConfig("base"),
		},
		{
			name: "overrides non-zero fields",
			source: config.StoreConfig{
				Name:       "other",
				Observer:   "slog",
				Reentrancy: config.ReentrancyReject,
				MaxPending: 8,
			},
			want: config.StoreConfig{
				Name:       "other",
				Observer:   "slog",
				Reentrancy: config.ReentrancyReject,
				MaxPending: 8,
			},
		},
		{
			name:   "zero max pending ignored",
			source: config.StoreConfig{Observer: "otel", MaxPending: 0},
			want: config.StoreConfig{
				Name:       "base",
				Observer:   "otel",
				Reentrancy: config.ReentrancyQueue,
				MaxPending: 1024,
			},
		},
		{
			name:   "unbounded max pending wins",
			source: config.StoreConfig{MaxPending: config.MaxPendingUnbounded},
			want: config.StoreConfig{
				Name:       "base",
				Observer:   "noop",
				Reentrancy: config.ReentrancyQueue,
				MaxPending: config.MaxPendingUnbounded,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultStoreConfig("base")
			cfg.Merge(&tt.source)

			if cfg.Name != tt.want.Name {
				t.Errorf("Name = %v, want %v", cfg.Name, tt.want.Name)
			}
			if cfg.Observer != tt.want.Observer {
				t.Errorf("Observer = %v, want %v", cfg.Observer, tt.want.Observer)
			}
			if cfg.Reentrancy != tt.want.Reentrancy {
				t.Errorf("Reentrancy = %v, want %v", cfg.Reentrancy, tt.want.Reentrancy)
			}
			if cfg.MaxPending != tt.want.MaxPending {
				t.Errorf("MaxPending = %v, want %v", cfg.MaxPending, tt.want.MaxPending)
			}
		})
	}
}

func TestStoreConfig_MergeInitialState(t *testing.T) {
	cfg := config.DefaultStoreConfig("base")
	cfg.Merge(&config.StoreConfig{InitialState: state.New().Set("count", 3)})

	if got, ok := cfg.InitialState.Int("count"); !ok || got != 3 {
		t.Errorf("InitialState count = %v (ok=%v), want 3", got, ok)
	}
}

func TestStoreConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.StoreConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*config.StoreConfig) {}},
		{name: "reject policy", mutate: func(c *config.StoreConfig) { c.Reentrancy = config.ReentrancyReject }},
		{name: "default queue bound", mutate: func(c *config.StoreConfig) { c.MaxPending = 0 }},
		{name: "unbounded queue", mutate: func(c *config.StoreConfig) { c.MaxPending = config.MaxPendingUnbounded }},
		{name: "unknown policy", mutate: func(c *config.StoreConfig) { c.Reentrancy = "drop" }, wantErr: true},
		{name: "empty policy", mutate: func(c *config.StoreConfig) { c.Reentrancy = "" }, wantErr: true},
		{name: "below unbounded", mutate: func(c *config.StoreConfig) { c.MaxPending = -2 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultStoreConfig("test")
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStoreConfig_JSONUnmarshalFromString(t *testing.T) {
	data := `{"name":"inventory","observer":"slog","reentrancy":"reject","max_pending":4,"initial_state":{"gold":10}}`

	var cfg config.StoreConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if cfg.Name != "inventory" {
		t.Errorf("Name = %v, want inventory", cfg.Name)
	}
	if cfg.Reentrancy != config.ReentrancyReject {
		t.Errorf("Reentrancy = %v, want reject", cfg.Reentrancy)
	}
	if cfg.MaxPending != 4 {
		t.Errorf("MaxPending = %v, want 4", cfg.MaxPending)
	}
	if got, ok := cfg.InitialState.Int("gold"); !ok || got != 10 {
		t.Errorf("InitialState gold = %v (ok=%v), want 10", got, ok)
	}
}

func TestStoreConfig_YAMLMarshalOmitsEmptyState(t *testing.T) {
	data, err := yaml.Marshal(config.DefaultStoreConfig("quiet"))
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if _, ok := raw["initial_state"]; ok {
		t.Errorf("marshaled config contains initial_state: %s", data)
	}
}

func TestLoadStoreConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		file       string
		content    string
		wantName   string
		wantObs    string
		wantPolicy string
		wantGold   int64
		wantMax    int
	}{
		{
			name:       "yaml",
			file:       "inventory.yaml",
			content:    "name: shop\nobserver: slog\nreentrancy: reject\ninitial_state:\n  gold: 7\n",
			wantName:   "shop",
			wantObs:    "slog",
			wantPolicy: config.ReentrancyReject,
			wantGold:   7,
			wantMax:    config.DefaultMaxPending,
		},
		{
			name:       "json",
			file:       "inventory.json",
			content:    `{"observer":"otel","initial_state":{"gold":2}}`,
			wantName:   "inventory",
			wantObs:    "otel",
			wantPolicy: config.ReentrancyQueue,
			wantGold:   2,
			wantMax:    config.DefaultMaxPending,
		},
		{
			name:       "yml partial keeps defaults",
			file:       "partial.yml",
			content:    "max_pending: 3\n",
			wantName:   "partial",
			wantObs:    "noop",
			wantPolicy: config.ReentrancyQueue,
			wantMax:    3,
		},
		{
			name:       "unbounded queue survives load",
			file:       "unbounded.yaml",
			content:    "max_pending: -1\n",
			wantName:   "unbounded",
			wantObs:    "noop",
			wantPolicy: config.ReentrancyQueue,
			wantMax:    config.MaxPendingUnbounded,
		},
		{
			name:       "zero max pending keeps default",
			file:       "zero.json",
			content:    `{"max_pending":0}`,
			wantName:   "zero",
			wantObs:    "noop",
			wantPolicy: config.ReentrancyQueue,
			wantMax:    config.DefaultMaxPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			cfg, err := config.LoadStoreConfig(path)
			if err != nil {
				t.Fatalf("LoadStoreConfig() error = %v", err)
			}

			if cfg.Name != tt.wantName {
				t.Errorf("Name = %v, want %v", cfg.Name, tt.wantName)
			}
			if cfg.Observer != tt.wantObs {
				t.Errorf("Observer = %v, want %v", cfg.Observer, tt.wantObs)
			}
			if cfg.Reentrancy != tt.wantPolicy {
				t.Errorf("Reentrancy = %v, want %v", cfg.Reentrancy, tt.wantPolicy)
			}
			if cfg.MaxPending != tt.wantMax {
				t.Errorf("MaxPending = %v, want %v", cfg.MaxPending, tt.wantMax)
			}
			gold, _ := cfg.InitialState.Int("gold")
			if gold != tt.wantGold {
				t.Errorf("InitialState gold = %v, want %v", gold, tt.wantGold)
			}
		})
	}
}

func TestLoadStoreConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := config.LoadStoreConfig(bad); err == nil {
		t.Error("LoadStoreConfig(malformed) error = nil, want error")
	}
	if _, err := config.LoadStoreConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadStoreConfig(missing) error = nil, want error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("REDUX_NAME", "from-env")
	t.Setenv("REDUX_OBSERVER", "slog")
	t.Setenv("REDUX_REENTRANCY", "reject")
	t.Setenv("REDUX_MAX_PENDING", "16")

	cfg := config.DefaultStoreConfig("base")
	if err := config.ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Name != "from-env" {
		t.Errorf("Name = %v, want from-env", cfg.Name)
	}
	if cfg.Observer != "slog" {
		t.Errorf("Observer = %v, want slog", cfg.Observer)
	}
	if cfg.Reentrancy != config.ReentrancyReject {
		t.Errorf("Reentrancy = %v, want reject", cfg.Reentrancy)
	}
	if cfg.MaxPending != 16 {
		t.Errorf("MaxPending = %v, want 16", cfg.MaxPending)
	}
}

func TestApplyEnv_Unset(t *testing.T) {
	cfg := config.DefaultStoreConfig("base")
	if err := config.ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Name != "base" || cfg.Observer != "noop" {
		t.Errorf("ApplyEnv() changed config without env: %+v", cfg)
	}
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv("REDUX_MAX_PENDING", "lots")

	cfg := config.DefaultStoreConfig("base")
	if err := config.ApplyEnv(&cfg); err == nil {
		t.Error("ApplyEnv() error = nil, want parse error")
	}
}
