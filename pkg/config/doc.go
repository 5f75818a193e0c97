// Package config loads configuration structs from environment variables
// using caarlos0/env struct tags, merging an optional .env file first via
// godotenv. Every configurable package in this module (pg, authz cache,
// audit sinks) declares a Config struct with env tags and is loaded here.
//
//	type Config struct {
//	    TTL time.Duration `env:"AUTHZ_CACHE_TTL" envDefault:"5m"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
