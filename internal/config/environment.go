// Package config provides configuration loading and management for the Scriptlab application.
package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// Storage backends selectable through SCRIPTLAB_STORAGE.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds environment configuration for the Scriptlab application.
type Config struct {
	// Port is the port on which the API server runs.
	Port string `env:"SCRIPTLAB_PORT"`
	// Host is the execution context key, e.g. "excel" or "web".
	Host string `env:"SCRIPTLAB_HOST" envDefault:"web"`
	// Storage selects the snippet store backend.
	Storage string `env:"SCRIPTLAB_STORAGE" envDefault:"memory"`

	RedisAddr string `env:"REDIS_ADDR"`
	// CacheTTLSeconds enables the Redis cache in front of Postgres when > 0.
	CacheTTLSeconds int `env:"CACHE_TTL_SECONDS" envDefault:"60"`

	PostgresURL      string `env:"POSTGRES_URL"`
	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE"`

	// PlaylistBaseURL is where <host>.json galleries are served from.
	PlaylistBaseURL        string `env:"PLAYLIST_BASE_URL" envDefault:"http://localhost:8080/assets/snippets"`
	PlaylistTimeoutSeconds int    `env:"PLAYLIST_TIMEOUT_SECONDS" envDefault:"10"`
}

// Conf holds the global configuration for the Scriptlab application.
var Conf Config

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// PlaylistTimeout returns the playlist fetch timeout as a duration.
func (c Config) PlaylistTimeout() time.Duration {
	return time.Duration(c.PlaylistTimeoutSeconds) * time.Second
}

func loadDotEnv() error {
	// Load .env files listed in DOTENV_PATHS into the environment.
	// Does not override existing environ variables.
	path := os.Getenv("DOTENV_PATHS")
	if path != "" {
		return godotenv.Load(strings.Split(path, ",")...)
	}
	return nil
}

// Load reads .env files and the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := loadDotEnv(); err != nil {
		return c, err
	}
	if err := env.Parse(&c); err != nil {
		return c, err
	}
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	return c, nil
}

// InitConf initializes the global configuration by loading environment variables and .env files.
func InitConf() {
	c, err := Load()
	if err != nil {
		logger.Fatal(context.Background(), err.Error())
	}
	Conf = c
}
