package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backends accepted by CART_BACKEND.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Backend       string `env:"CART_BACKEND" envDefault:"json"`
	File          string `env:"CART_FILE" envDefault:"cart.json"`
	SQLitePath    string `env:"CART_SQLITE_PATH" envDefault:"cart.db"`
	RedisAddr     string `env:"CART_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"CART_REDIS_PASSWORD"`
	RedisDB       int    `env:"CART_REDIS_DB" envDefault:"0"`
	OrderedWrites bool   `env:"CART_ORDERED_WRITES" envDefault:"false"`
	Theme         string `env:"CART_THEME" envDefault:"classic"`
	LogLevel      string `env:"CART_LOG_LEVEL" envDefault:"warn"`
	LogFormat     string `env:"CART_LOG_FORMAT" envDefault:"console"`
}

// Load reads an optional .env file from the working directory, then the
// environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendJSON, BackendSQLite, BackendRedis, BackendMemory:
		return nil
	}
	return fmt.Errorf("unknown backend %q (want json, sqlite, redis or memory)", c.Backend)
}
