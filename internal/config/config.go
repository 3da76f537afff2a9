package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() Config {
	return Config{
		Port:            getint("PORT", 5000),
		DatabaseURL:     getenv("DATABASE_URL", ""),
		MaxOpenConns:    getint("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getint("DB_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: getduration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrNoDatabaseURL
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("PORT must be between 1 and 65535")
	}
	return nil
}
