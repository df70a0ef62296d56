package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every recognised variable so the host environment cannot
// leak into a test
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(PathEnv, "")
	for name := range envKeys {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, ":8000", cfg.Server.Addr())
	assert.Equal(t, "http://localhost:8000", cfg.Server.PublicBaseURL)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "data/employees.json", cfg.EmployeesPath)
	assert.Equal(t, int64(2<<20), cfg.Avatars.MaxBytes)
	assert.Equal(t, 10, cfg.Auth.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.Auth.RateLimit.Window)
	assert.False(t, cfg.Auth.RateLimit.TrustForwarded)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  host: 127.0.0.1
  port: 9000
  shutdown_timeout: 3s
auth:
  jwt_secret: from-file
  rate_limit:
    requests: 5
    window: 30s
log:
  level: DEBUG
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "http://localhost:9000", cfg.Server.PublicBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 5, cfg.Auth.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.Auth.RateLimit.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "memory", cfg.Storage.Type)
}

func TestLoadFileFromEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv(PathEnv, writeFile(t, "employees_path: /srv/staff.json\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/staff.json", cfg.EmployeesPath)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "server:\n  port: 9000\nauth:\n  jwt_secret: from-file\n")
	t.Setenv("PORT", "9100")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORAGE_TYPE", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PUBLIC_BASE_URL", "https://staff.example.com/")
	t.Setenv("AVATAR_MAX_BYTES", "1024")
	t.Setenv("RATE_LIMIT_WINDOW", "2m")
	t.Setenv("RATE_LIMIT_TRUST_FORWARDED", "true")
	t.Setenv("UNRELATED_SETTING", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
	assert.Equal(t, "https://staff.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, int64(1024), cfg.Avatars.MaxBytes)
	assert.Equal(t, 2*time.Minute, cfg.Auth.RateLimit.Window)
	assert.True(t, cfg.Auth.RateLimit.TrustForwarded)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "redis without url", env: map[string]string{"STORAGE_TYPE": "redis"}},
		{name: "unknown storage", env: map[string]string{"STORAGE_TYPE": "postgres"}},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "port not a number", env: map[string]string{"PORT": "eighty"}},
		{name: "bad duration", env: map[string]string{"RATE_LIMIT_WINDOW": "soon"}},
		{name: "zero window", env: map[string]string{"RATE_LIMIT_WINDOW": "0s"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "bad bcrypt cost", env: map[string]string{"BCRYPT_COST": "2"}},
		{name: "malformed yaml", file: "server: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRateLimitDisabled(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("RATE_LIMIT_REQUESTS", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "0s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Auth.RateLimit.Requests)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Log{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	Log{Level: "debug", Format: "text"}.NewLogger(&buf).Debug("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
