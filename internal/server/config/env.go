package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays values from environment variables onto config.
// ACCESS_TOKEN_EXPIRE_MINUTES is a whole number of minutes.
// SQLALCHEMY_URL is accepted as an alias of DATABASE_DSN, which wins when both are set.
func parseEnv(getenv func(string) string, config *Config) error {
	setString(&config.EndpointAddrHTTP, getenv("HTTP_ADDR"))
	setString(&config.EndpointAddrGRPC, getenv("GRPC_ADDR"))
	setString(&config.DatabaseDSN, getenv("SQLALCHEMY_URL"))
	setString(&config.DatabaseDSN, getenv("DATABASE_DSN"))
	setString(&config.SecretKey, getenv("SECRET_KEY"))
	setString(&config.SuperUserEmail, getenv("SUPER_USER_EMAIL"))
	setString(&config.SuperUserPassword, getenv("SUPER_USER_PASSWORD"))
	setString(&config.OccupancyDataPath, getenv("OCCUPANCY_DATA"))
	setString(&config.S3Region, getenv("S3_REGION"))
	setString(&config.S3BaseEndpoint, getenv("S3_BASE_ENDPOINT"))
	setString(&config.S3AccessKey, getenv("S3_ACCESS_KEY"))
	setString(&config.S3SecretKey, getenv("S3_SECRET_KEY"))

	if v := getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES %q", v)
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}

	if v := getenv("HASH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid HASH_WORKERS %q", v)
		}
		config.HashWorkers = n
	}
	return nil
}
