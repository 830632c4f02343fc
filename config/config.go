// Package config loads process settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the dashboard server configuration.
type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"       env-default:"http://localhost:5000"`
	Port           string        `env:"PORT"               env-default:"8080"`
	DataDir        string        `env:"DASHBOARD_DATA_DIR" env-default:"./data"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"    env-default:"15s"`
	FEOrigin       string        `env:"FE_ORIGIN"          env-default:"http://localhost:3000"`
	GinMode        string        `env:"GIN_MODE"           env-default:"debug"`
}

// DevAPIConfig configures the local stand-in for the remote API.
type DevAPIConfig struct {
	Port      string        `env:"DEVAPI_PORT"      env-default:"5000"`
	JWTSecret string        `env:"JWT_SECRET_KEY"   env-default:"dev-secret-change-me"`
	TokenTTL  time.Duration `env:"DEVAPI_TOKEN_TTL" env-default:"1h"`
	GinMode   string        `env:"GIN_MODE"         env-default:"debug"`
	SeedDemo  bool          `env:"DEVAPI_SEED_DEMO" env-default:"true"`
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Config: no .env file loaded: %v", err)
	}
}

func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func LoadDevAPI() (*DevAPIConfig, error) {
	loadDotEnv()

	var cfg DevAPIConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: validate: JWT_SECRET_KEY must not be empty")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("config: validate: DEVAPI_TOKEN_TTL must be positive")
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.DataDir == "" {
		return errors.New("DASHBOARD_DATA_DIR must not be empty")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}
