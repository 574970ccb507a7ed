package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t, "PORT", "DATABASE_URL")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry())
	assert.True(t, cfg.Auth.AllowSignup)
	assert.Equal(t, 8, cfg.Auth.MinPasswordLength)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.CORS.AllowCredentials)
	assert.Zero(t, cfg.Cache.HTTPMaxAge)
	assert.False(t, cfg.Notifications.Enabled)
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
  timeout: 10s
database:
  driver: Memory
jwt:
  secret: file-secret
  expiry_hours: 12
rate_limit:
  burst: 3
cache:
  http_max_age: 60
`)
	unsetenv(t, "JWT_SECRET", "PORT", "DATABASE_URL")
	t.Setenv("DENTAL_RATE_LIMIT_BURST", "7")
	t.Setenv("DENTAL_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiry())
	assert.Equal(t, 7, cfg.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 60, cfg.Cache.HTTPMaxAge)
}

func TestLoadConfigRejectsCredentialedWildcardOrigin(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: s
cors:
  allowed_origins: ["*"]
  allow_credentials: true
`)
	unsetenv(t, "PORT")
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "cors.allow_credentials")
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	unsetenv(t, "JWT_SECRET", "DENTAL_JWT_JWT_SECRET")
	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
jwt:
  secret: s
`)
	unsetenv(t, "PORT")
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.DSN())

	c.URL = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", c.DSN())
}
