package validation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig is the configuration the rule engine reads:
// rule set -> key -> value, where rule entries are nested maps.
type RuntimeConfig map[string]map[string]any

// LoadRuntimeConfig reads a rule-engine configuration file.
func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runtime config: %w", err)
	}
	return ParseRuntimeConfig(data)
}

// ParseRuntimeConfig decodes rule-engine configuration YAML.
func ParseRuntimeConfig(data []byte) (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse runtime config: %w", err)
	}
	if cfg == nil {
		cfg = RuntimeConfig{}
	}
	return cfg, nil
}

// rule returns the settings of a single rule, if configured.
func (c RuntimeConfig) rule(ruleSet, name string) (map[string]any, bool) {
	set, ok := c[ruleSet]
	if !ok {
		return nil, false
	}
	settings, ok := set[name].(map[string]any)
	return settings, ok
}
