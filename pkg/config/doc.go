// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is read once (if present), then environment variables are
// parsed into any struct annotated with `env` tags. Each configuration type is
// parsed at most once per process and served from an in-process cache on
// subsequent calls, so independent components can load the same config struct
// without coordinating.
//
// Usage:
//
//	type AuthConfig struct {
//	    Secret         string `env:"JWT_SECRET,required"`
//	    AccessTokenTTL int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
//	}
//
//	var cfg AuthConfig
//	config.MustLoad(&cfg) // fails fast at startup if JWT_SECRET is absent
package config
