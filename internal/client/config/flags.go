package config

import (
	"flag"
	"io"
	"time"
)

type flagValues struct {
	fs *flag.FlagSet

	configPath string
	serverURL  string
	timeout    int
}

// parseFlags understands:
//
//	-c, -config string   JSON configuration file
//	-a string            base URL of the API server
//	-t int               request timeout in seconds
func parseFlags(args []string) (*flagValues, error) {
	v := &flagValues{fs: flag.NewFlagSet("cli", flag.ContinueOnError)}
	v.fs.SetOutput(io.Discard)

	v.fs.StringVar(&v.configPath, "c", "", "path to JSON config file")
	v.fs.StringVar(&v.configPath, "config", "", "path to JSON config file")
	v.fs.StringVar(&v.serverURL, "a", "", "base URL of the API server")
	v.fs.IntVar(&v.timeout, "t", 0, "request timeout (in seconds)")

	if err := v.fs.Parse(args); err != nil {
		return nil, err
	}
	return v, nil
}

// apply copies only the flags that were set explicitly.
func (v *flagValues) apply(cfg *Config) {
	v.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.ServerURL = v.serverURL
		case "t":
			cfg.RequestTimeout = time.Duration(v.timeout) * time.Second
		}
	})
}
