package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.Origins)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  env: production
jwt:
  secret: s3cret
  expires_in: 2h
upload:
  max_bytes: 1024
mail:
  host: smtp.local
  report_to: ops@hospital.local
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.Mail.Enabled())
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "9000")
	t.Setenv("HOSPITAL_PORT", "9100")
	t.Setenv("CORS_ORIGIN", "http://a.local, http://b.local")
	t.Setenv("JWT_EXPIRES_IN", "30m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORS.Origins)
	assert.Equal(t, 30*time.Minute, cfg.JWT.ExpiresIn)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Server: ServerConfig{Port: 5000},
		JWT:    JWTConfig{Secret: "x", ExpiresIn: time.Hour},
		Upload: UploadConfig{MaxBytes: 10},
	}
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Server.Port = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.JWT.Secret = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Upload.MaxBytes = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Database.Driver = "mongo"
	assert.Error(t, bad.Validate())
}
