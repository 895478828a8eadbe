package settings

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads, defaults, and validates a settings file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing settings file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithEnvOverrides loads the settings file and then applies credential
// overrides from the environment. Keys in the environment always win over
// keys in the file, so the file can be shared without secrets in it.
//
// The variable name for a provider is BEACON_<ID>_API_KEY with the
// identifier upper-cased (e.g. BEACON_ANTHROPIC_API_KEY).
func LoadWithEnvOverrides(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides replaces credentials from the environment in place.
func applyEnvOverrides(cfg *Config) {
	for i := range cfg.Providers {
		name := "BEACON_" + strings.ToUpper(cfg.Providers[i].ID) + "_API_KEY"
		if val := os.Getenv(name); val != "" {
			cfg.Providers[i].APIKey = val
		}
	}
}
