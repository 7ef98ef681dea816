package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("STREAM_IDLE_TIMEOUT_SECONDS", "")

	LoadConfig()

	assert.Equal(t, "3000", AppConfig.Port)
	assert.Equal(t, 24*time.Hour, AppConfig.JWTExpiry)
	assert.Equal(t, 60*time.Second, AppConfig.StreamIdleTimeout)
	assert.Equal(t, "uploads", AppConfig.UploadDir)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("STREAM_IDLE_TIMEOUT_SECONDS", "5")
	t.Setenv("DB_DRIVER", "sqlite")

	LoadConfig()

	assert.Equal(t, "8080", AppConfig.Port)
	assert.Equal(t, 2*time.Hour, AppConfig.JWTExpiry)
	assert.Equal(t, 5*time.Second, AppConfig.StreamIdleTimeout)
	assert.Equal(t, "sqlite", AppConfig.DBDriver)
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SALT_ROUND", "ten")
	assert.Equal(t, 10, getEnvInt("SALT_ROUND", 10))
}
