package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Env    string       `yaml:"env" validate:"oneof=local dev production test"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Quotes QuotesConfig `yaml:"quotes"`
	Redis  RedisConfig  `yaml:"redis"`
	// Postgres enables the persistent results board when URL is set.
	Postgres PostgresConfig `yaml:"postgres"`
	Session  SessionConfig  `yaml:"session"`
}

type ServerConfig struct {
	Port string `yaml:"port" validate:"omitempty,numeric"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

type QuotesConfig struct {
	BaseURL  string `yaml:"base_url" validate:"required,url"`
	APIKey   string `yaml:"-"`
	Timeout  string `yaml:"timeout"`
	CacheTTL string `yaml:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"min=0"`
	TTL      string `yaml:"ttl"`
}

type PostgresConfig struct {
	URL string `yaml:"url"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Env:    "local",
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info", Format: "json"},
		Quotes: QuotesConfig{
			BaseURL: "https://favqs.com/api",
			Timeout: "10s",
		},
		Session: SessionConfig{TTL: "2h"},
	}
}

// Load reads YAML config from path on top of the defaults, then applies environment overrides.
// A missing file is not an error. A local .env file, when present, is loaded first.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Quotes.APIKey = os.Getenv("API_KEY")
	if v := os.Getenv("QUOTES_BASE_URL"); v != "" {
		cfg.Quotes.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
}

// Validate checks field constraints and the duration strings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for name, raw := range map[string]string{
		"quotes.timeout":   c.Quotes.Timeout,
		"quotes.cache_ttl": c.Quotes.CacheTTL,
		"redis.ttl":        c.Redis.TTL,
		"session.ttl":      c.Session.TTL,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("invalid config: %s: %w", name, err)
		}
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
