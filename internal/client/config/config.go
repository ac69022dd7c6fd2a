// Package config handles configuration for the API command-line client.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, e.g. http://127.0.0.1:8080.
//   - RequestTimeout: per-request timeout of the HTTP client.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then the optional JSON file given by -c or
// -config, then the API_URL environment variable and finally flags.
func LoadConfig(args []string, getenv func(string) string) (*Config, error) {
	flags, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(flags.configPath, cfg); err != nil {
		return nil, err
	}
	if v := getenv("API_URL"); v != "" {
		cfg.ServerURL = v
	}
	flags.apply(cfg)

	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("request timeout must be positive")
	}
	return cfg, nil
}
