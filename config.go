package rbac

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config controls registry construction and decision defaults. The zero
// value is usable; DefaultConfig fills in the documented defaults.
type Config struct {
	// ClaimLocation is the path to the claims object inside identity
	// payloads handed to ClaimsFromJSON and the header extractor.
	ClaimLocation string `env:"RBAC_CLAIM_LOCATION" envDefault:"user"`

	// ClaimKeys restricts candidate lookup to these claim keys. Empty means
	// every key present on the identity is consulted.
	ClaimKeys []string `env:"RBAC_CLAIM_KEYS" envSeparator:","`

	// Strict makes registry construction fail when two roles map the same
	// claim key/value pair instead of letting the pair grant both.
	Strict bool `env:"RBAC_STRICT" envDefault:"false"`
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		ClaimLocation: "user",
	}
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Join(ErrInvalidConfiguration, err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfiguration, err)
	}
	return cfg, nil
}
