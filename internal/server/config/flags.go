package config

import (
	"flag"
	"io"
	"time"
)

// flagValues keeps the parsed command line until it is applied on top of
// the other sources. Only flags that were explicitly set are applied.
//
// Supported flags (short forms):
//
//	-c, -config string   JSON configuration file
//	-a string            HTTP bind address (e.g. ":8080")
//	-g string            gRPC bind address, empty disables the gRPC mirror
//	-d string            database DSN
//	-s string            token signing secret
//	-t int               access token validity, minutes
//	-e string            bootstrap superuser email
//	-p string            bootstrap superuser password
//	-w int               bcrypt worker count
//	-o string            occupancy dataset (path or s3://bucket/key)
type flagValues struct {
	fs *flag.FlagSet

	configPath   string
	httpAddr     string
	grpcAddr     string
	dsn          string
	secretKey    string
	tokenMinutes int
	suEmail      string
	suPassword   string
	hashWorkers  int
	occupancy    string
}

func parseFlags(args []string) (*flagValues, error) {
	v := &flagValues{}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&v.configPath, "c", "", "path to JSON config file")
	fs.StringVar(&v.configPath, "config", "", "path to JSON config file")
	fs.StringVar(&v.httpAddr, "a", "", "address and port to run HTTP server")
	fs.StringVar(&v.grpcAddr, "g", "", "address and port to run gRPC server")
	fs.StringVar(&v.dsn, "d", "", "database DSN")
	fs.StringVar(&v.secretKey, "s", "", "secret key")
	fs.IntVar(&v.tokenMinutes, "t", 0, "access_token_validity_duration (in minutes)")
	fs.StringVar(&v.suEmail, "e", "", "superuser email")
	fs.StringVar(&v.suPassword, "p", "", "superuser password")
	fs.IntVar(&v.hashWorkers, "w", 0, "bcrypt workers")
	fs.StringVar(&v.occupancy, "o", "", "occupancy dataset")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v.fs = fs
	return v, nil
}

func (v *flagValues) apply(config *Config) {
	v.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			config.EndpointAddrHTTP = v.httpAddr
		case "g":
			config.EndpointAddrGRPC = v.grpcAddr
		case "d":
			config.DatabaseDSN = v.dsn
		case "s":
			config.SecretKey = v.secretKey
		case "t":
			config.AccessTokenValidityDuration = time.Duration(v.tokenMinutes) * time.Minute
		case "e":
			config.SuperUserEmail = v.suEmail
		case "p":
			config.SuperUserPassword = v.suPassword
		case "w":
			config.HashWorkers = v.hashWorkers
		case "o":
			config.OccupancyDataPath = v.occupancy
		}
	})
}
