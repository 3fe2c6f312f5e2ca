// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"PriceList/pkg/kit"
)

type Config struct {
	ServiceName    string `envconfig:"PRICE_SERVICE_NAME" default:"Price List Management Service"`
	Env            string `envconfig:"ENV" default:"development"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	Port           string `envconfig:"PORT" default:"8084"`

	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricsToken   string `envconfig:"METRICS_TOKEN"`

	WriteRateLimitPerMin int `envconfig:"WRITE_RATE_LIMIT_PER_MIN" default:"0"`

	Database Database
}

// Database holds connection settings that deployments may provide. Prices
// are kept in memory; the settings are only validated and reported.
type Database struct {
	URL      string `envconfig:"PRICE_DB_URL"`
	User     string `envconfig:"PRICE_DB_USER"`
	Password string `envconfig:"PRICE_DB_PASSWORD"`
	Name     string `envconfig:"PRICE_DB_NAME"`
}

// Load reads envFile (if it exists) into the process environment and then
// processes the environment. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.WriteRateLimitPerMin < 0 {
		return errors.New("WRITE_RATE_LIMIT_PER_MIN must not be negative")
	}
	if c.MetricsEnabled && c.MetricsToken == "" {
		return errors.New("METRICS_TOKEN is required when METRICS_ENABLED is set")
	}
	if _, _, err := c.Database.ConnConfig(); err != nil {
		return err
	}
	return nil
}

func (c Config) Origins() []string {
	return kit.ParseOrigins(c.AllowedOrigins)
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// ConnConfig parses the database settings. ok is false when no URL is set.
// Explicit user, password and name override what the URL carries.
func (d Database) ConnConfig() (cfg *pgx.ConnConfig, ok bool, err error) {
	if d.URL == "" {
		return nil, false, nil
	}

	cfg, err = pgx.ParseConfig(d.URL)
	if err != nil {
		return nil, false, fmt.Errorf("PRICE_DB_URL: %w", err)
	}
	if d.User != "" {
		cfg.User = d.User
	}
	if d.Password != "" {
		cfg.Password = d.Password
	}
	if d.Name != "" {
		cfg.Database = d.Name
	}
	return cfg, true, nil
}
