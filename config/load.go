package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "REDUX_"

// LoadStoreConfig reads a config file, merges it with defaults, and returns
// the resulting StoreConfig. Files ending in .yaml or .yml are parsed as
// YAML, anything else as JSON.
func LoadStoreConfig(filename string) (*StoreConfig, error) {
	cfg := DefaultStoreConfig("")

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded StoreConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return &cfg, nil
}

// ApplyEnv merges REDUX_NAME, REDUX_OBSERVER, REDUX_REENTRANCY, and
// REDUX_MAX_PENDING into cfg. Unset variables leave cfg unchanged.
func ApplyEnv(cfg *StoreConfig) error {
	var fromEnv StoreConfig
	if err := env.ParseWithOptions(&fromEnv, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.Merge(&fromEnv)
	return nil
}
