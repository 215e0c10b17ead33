// Package config loads the optional .aef.yaml tool configuration.
// Config only steers reporting and the long-running surfaces; the
// semantic validator itself is config-free.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/warmautomation/aef/internal/semantic"
)

// RulesConfig adjusts how rule violations surface in reports. Ignored
// rules are dropped entirely; promoted rules are warnings reported as
// errors (and then fail validation).
type RulesConfig struct {
	Ignore  []string `yaml:"ignore"`
	Promote []string `yaml:"promote"`
}

// RenderConfig holds HTML renderer options.
type RenderConfig struct {
	Title string `yaml:"title"`
}

// WatchConfig holds watch-mode options.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Config is the complete tool configuration.
type Config struct {
	Rules  RulesConfig  `yaml:"rules"`
	Render RenderConfig `yaml:"render"`
	Watch  WatchConfig  `yaml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Title: "AEF log"},
		Watch:  WatchConfig{DebounceMS: 200},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validateRules(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// validateRules rejects rule ids that no validator check emits, so a
// typo in the config fails loudly instead of silently matching nothing.
func (c *Config) validateRules() error {
	for _, rule := range append(append([]string{}, c.Rules.Ignore...), c.Rules.Promote...) {
		if semantic.SpecRef(rule) == "" {
			return fmt.Errorf("unknown rule id %q", rule)
		}
	}
	return nil
}
