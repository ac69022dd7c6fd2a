// Package config handles configuration for the API server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"runtime"
	"time"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - EndpointAddrGRPC: bind address for the gRPC mirror; empty disables it.
//   - DatabaseDSN: postgres:// (pgx) or sqlite:// (modernc) DSN.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Required.
//   - AccessTokenValidityDuration: lifetime of an issued access token.
//   - SuperUserEmail / SuperUserPassword: bootstrap superuser account.
//   - HashWorkers: number of concurrent bcrypt computations.
//   - OccupancyDataPath: occupancy CSV, a file path or s3://bucket/key.
//   - S3Region / S3BaseEndpoint / S3AccessKey / S3SecretKey: object storage settings.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	SuperUserEmail              string
	SuperUserPassword           string
	HashWorkers                 int
	OccupancyDataPath           string
	S3Region                    string
	S3BaseEndpoint              string
	S3AccessKey                 string
	S3SecretKey                 string
}

var ErrMissingSecretKey = errors.New("secret key is required")

// LoadDefaults populates Config with development defaults.
// SecretKey has no default and must be supplied.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "sqlite:///./app.db"
	c.AccessTokenValidityDuration = 8 * 24 * time.Hour
	c.SuperUserEmail = "admin@example.com"
	c.HashWorkers = runtime.NumCPU()
	c.S3Region = "us-east-1"
}

// Finalize fills values derived from other settings.
// An unset superuser password falls back to the secret key.
func (c *Config) Finalize() {
	if c.SuperUserPassword == "" {
		c.SuperUserPassword = c.SecretKey
	}
	if c.HashWorkers < 1 {
		c.HashWorkers = 1
	}
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.AccessTokenValidityDuration <= 0 {
		return errors.New("access token validity must be positive")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
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
	if err := parseEnv(getenv, cfg); err != nil {
		return nil, err
	}
	flags.apply(cfg)

	cfg.Finalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
