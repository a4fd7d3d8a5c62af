// Package config loads serve/store/respcache settings from the
// environment. All of it is optional: a deployment that only ever runs
// make_base/process_requests sets none of these variables. make_base
// consults HasDB to decide whether to read from Postgres, and serve reads
// the API port and Redis settings from here.
package config

import (
	"os"
	"strconv"
	"time"
)

// DBConfig configures the Postgres pool used by internal/store.
type DBConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// RedisConfig configures the client used by internal/respcache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// Config is the full set of optional network settings for serve mode.
type Config struct {
	APIPort int
	DB      DBConfig
	Redis   RedisConfig
}

// LoadFromEnv reads Config from the environment, falling back to the
// defaults below for anything unset.
func LoadFromEnv() Config {
	return Config{
		APIPort: atoiOr(getEnv("API_PORT", "8080"), 8080),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     atoiOr(getEnv("DB_PORT", "5432"), 5432),
			Name:     getEnv("DB_NAME", "transit_catalogue"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     atoiOr(getEnv("REDIS_PORT", "6379"), 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       atoiOr(getEnv("REDIS_DB", "0"), 0),
			TTL:      durationOr(getEnv("CACHE_TTL", "10m"), 10*time.Minute),
		},
	}
}

// HasDB reports whether DB_HOST, DB_NAME or DB_USER was set, i.e. whether
// store ingestion was asked for. The other DB_* variables alone do not
// count.
func HasDB() bool {
	return os.Getenv("DB_HOST") != "" || os.Getenv("DB_NAME") != "" || os.Getenv("DB_USER") != ""
}

// HasRedis reports whether REDIS_HOST or REDIS_PORT was set, i.e. whether
// the response cache was asked for. REDIS_PASSWORD or REDIS_DB alone does
// not count.
func HasRedis() bool {
	return os.Getenv("REDIS_HOST") != "" || os.Getenv("REDIS_PORT") != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func atoiOr(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return v
}

func durationOr(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}
