package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_DefaultsAndRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 60*time.Minute, cfg.JWT.Expiry)
	assert.Equal(t, "jobboard", cfg.JWT.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.ReportInterval)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		JWT: JWTConfig{Secret: testSecret, Expiry: time.Hour},
		Log: LogConfig{Format: "text"},
	}
	require.NoError(t, base.Validate())

	short := base
	short.JWT.Secret = "short"
	assert.Error(t, short.Validate())

	badFormat := base
	badFormat.Log.Format = "xml"
	assert.Error(t, badFormat.Validate())

	redis := base
	redis.Redis.Addr = "localhost:6379"
	assert.Error(t, redis.Validate())
	redis.LoginRateLimit = 5
	redis.LoginRateWindow = time.Minute
	assert.NoError(t, redis.Validate())
}
