package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load is called with a nil target.
	ErrNilPointer = errors.New("config: nil config pointer")

	// ErrParse is returned when environment variables cannot be parsed
	// into the target struct.
	ErrParse = errors.New("config: failed to parse environment")
)

// dotenvOnce makes the optional .env load happen at most once per process,
// regardless of how many config structs are loaded.
var dotenvOnce sync.Once

// Load populates cfg from environment variables according to its `env`
// struct tags. A .env file in the working directory is merged into the
// environment on first use; its absence is not an error.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}

// MustLoad is Load that panics on failure. Use for configuration the
// process cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
