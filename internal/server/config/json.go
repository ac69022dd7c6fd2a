package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/apiapp/internal/timex"
)

// JsonConfig mirrors Config for reading JSON configuration files.
// Durations accept both strings such as "15m" and integer nanoseconds.
// Zero values are treated as "not set" and leave the current value alone.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	SuperUserEmail              string         `json:"super_user_email"`
	SuperUserPassword           string         `json:"super_user_password"`
	HashWorkers                 int            `json:"hash_workers"`
	OccupancyDataPath           string         `json:"occupancy_data"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
}

// parseJSON overlays values from the JSON file at path onto config.
// An empty path means no file was requested.
func parseJSON(path string, config *Config) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SuperUserEmail, c.SuperUserEmail)
	setString(&config.SuperUserPassword, c.SuperUserPassword)
	setString(&config.OccupancyDataPath, c.OccupancyDataPath)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.HashWorkers > 0 {
		config.HashWorkers = c.HashWorkers
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
