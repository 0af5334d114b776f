// Package config loads typed application configuration from environment
// variables, optionally seeded from .env files.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - LoadEnv reads one or more .env files into the process environment.
//   - Load parses the environment into any struct annotated with `env` tags.
//   - Every configuration type is parsed once and cached for the lifetime of
//     the process, so components can call Load for their own struct without
//     coordinating.
//
// # Usage
//
//	type MailConfig struct {
//	    User      string `env:"EMAIL_USER"`
//	    Recipient string `env:"RECIPIENT_EMAIL"`
//	}
//
//	var mail MailConfig
//	if err := config.Load(&mail); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Sentinel errors can be compared with errors.Is:
//
//   - ErrParsingConfig: the environment could not be parsed into the struct.
//   - ErrConfigNotLoaded: the cache has no value for the requested type.
//   - ErrNilPointer: a nil pointer was passed to Load or MustLoad.
//   - ErrLoadingEnvFile: a .env file could not be read.
//
// # Testing Helpers
//
// ResetCache clears the cache between tests and ForceReloadConfig re-parses a
// single type after the environment changed.
package config
