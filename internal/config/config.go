// Package config reads runtime settings for the workstate CLI and servers
// from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds settings shared by every command. Flags override these.
type Config struct {
	Dir      string `env:"WORKSTATE_DIR"       envDefault:"."`
	LogLevel string `env:"WORKSTATE_LOG_LEVEL" envDefault:"info"`
	Addr     string `env:"WORKSTATE_ADDR"      envDefault:":8080"`

	Store       string        `env:"WORKSTATE_STORE"        envDefault:"memory"`
	SnapshotDir string        `env:"WORKSTATE_SNAPSHOT_DIR" envDefault:".workstate/snapshots"`
	SnapshotTTL time.Duration `env:"WORKSTATE_SNAPSHOT_TTL" envDefault:"0s"`

	RedisAddr     string `env:"WORKSTATE_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"WORKSTATE_REDIS_PASSWORD"`
	RedisDB       int    `env:"WORKSTATE_REDIS_DB"       envDefault:"0"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
	}
	if c.SnapshotTTL < 0 {
		return fmt.Errorf("snapshot ttl must not be negative")
	}
	return nil
}
