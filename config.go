package research

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	BaseURL    string            `yaml:"base_url"`
	Headers    map[string]string `yaml:"headers"`
	MaxRetries int               `yaml:"max_retries"`
	MinBackoff string            `yaml:"min_backoff"`
	MaxBackoff string            `yaml:"max_backoff"`
}

// ConfigFromFile reads a YAML client configuration. Backoff values use Go
// duration syntax ("250ms", "5s"). Unset fields keep their defaults.
func ConfigFromFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		BaseURL:    fc.BaseURL,
		Headers:    fc.Headers,
		MaxRetries: fc.MaxRetries,
	}
	if fc.MinBackoff != "" {
		d, err := time.ParseDuration(fc.MinBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse min_backoff: %w", err)
		}
		cfg.MinBackoff = d
	}
	if fc.MaxBackoff != "" {
		d, err := time.ParseDuration(fc.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse max_backoff: %w", err)
		}
		cfg.MaxBackoff = d
	}
	return cfg, nil
}
