// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// a `.env` file is loaded once per process if present, then `env.Parse`
// populates any struct annotated with `env` tags. Each configuration type is
// parsed at most once; later loads of the same type are served from an
// in-memory cache, so independent packages can load their own config structs
// without coordinating.
//
// # Usage
//
// Declare a struct with env tags next to the code that consumes it:
//
//	type EdgeConfig struct {
//	    Table  string `env:"EDGE_METADATA_TABLE"`
//	    Region string `env:"AWS_REGION" envDefault:"us-east-1"`
//	}
//
// Then populate it at startup:
//
//	var cfg EdgeConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// Use MustLoad for configuration the process cannot run without:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
// # Error Handling
//
// Sentinel errors compare with `errors.Is`:
//
//   - ErrParsingConfig – env vars could not be parsed into the struct.
//   - ErrNilPointer – nil pointer passed to Load/MustLoad.
package config
