// Package config loads service settings from the environment, with an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/nikolayk812/bookcart/internal/cart"
	"github.com/nikolayk812/bookcart/internal/logging"
	"golang.org/x/text/currency"
)

const EnvPrefix = "BOOKCART"

type Config struct {
	Env      string `default:"development"`
	HTTPAddr string `split_words:"true" default:":8080"`

	// DatabaseURL selects the Postgres cart repository; empty keeps carts in memory.
	DatabaseURL string `split_words:"true"`

	APIBaseURL string        `split_words:"true" default:"http://localhost:5000/api/v1"`
	APITimeout time.Duration `split_words:"true" default:"10s"`

	JWTSecret string `split_words:"true" required:"true"`

	Currency      Currency      `default:"USD"`
	StoragePolicy StoragePolicy `split_words:"true" default:"keep"`

	Log logging.Config
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Currency wraps currency.Unit so it can implement envconfig.Decoder.
type Currency struct {
	currency.Unit
}

// Decode implements envconfig.Decoder.
func (c *Currency) Decode(value string) error {
	unit, err := currency.ParseISO(value)
	if err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", value, err)
	}
	c.Unit = unit
	return nil
}

type StoragePolicy struct {
	cart.StorageFailurePolicy
}

// Decode implements envconfig.Decoder.
func (p *StoragePolicy) Decode(value string) error {
	policy, err := cart.ParseStorageFailurePolicy(value)
	if err != nil {
		return err
	}
	p.StorageFailurePolicy = policy
	return nil
}

// Load reads envFiles (missing files are skipped) and then the environment. Variables
// already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load[%s]: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("envconfig.Process: %w", err)
	}

	return cfg, nil
}
