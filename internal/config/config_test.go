package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg := LoadFromEnv()
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CACHE_TTL", "30s")

	cfg := LoadFromEnv()
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
}

func TestHasDBAndHasRedisReflectEnv(t *testing.T) {
	assert.False(t, HasDB())
	assert.False(t, HasRedis())

	t.Setenv("DB_HOST", "somewhere")
	assert.True(t, HasDB())

	t.Setenv("REDIS_PORT", "6380")
	assert.True(t, HasRedis())
}

func TestAtoiOrFallsBackOnInvalid(t *testing.T) {
	assert.Equal(t, 42, atoiOr("not-a-number", 42))
	assert.Equal(t, 7, atoiOr("7", 42))
}
