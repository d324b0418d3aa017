package heuristics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a full heuristic table set from a YAML file. The file
// replaces the built-in tables wholesale — there is no per-rule merging,
// which keeps "what tables are active" answerable from one place.
//
// Weights and saturations fall back to the defaults when omitted, so an
// override file only has to declare domains, rules, and complexity rubric.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading heuristic config: %w", err)
	}

	defaults := DefaultConfig()
	cfg := Config{
		Weights:     defaults.Weights,
		Saturations: defaults.Saturations,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing heuristic config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid heuristic config %s: %w", path, err)
	}
	return cfg, nil
}
