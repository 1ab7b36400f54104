package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "8080"
database:
  mysql:
    user: hl
    database: hl_db
rate_limit:
  requests_per_minute: 2
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "5001", cfg.Server.AdminPort)
	assert.Equal(t, "hl", cfg.Database.MySQL.User)
	assert.Equal(t, 3306, cfg.Database.MySQL.Port)
	assert.Equal(t, 2, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerHour)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyEnv(envMap(map[string]string{
		"DB_HOST":         "db.internal",
		"DB_PORT":         "3307",
		"DB_NAME":         "hl",
		"API_KEY":         "k",
		"CORS_ORIGIN1":    "https://a.example",
		"CORS_ORIGIN2":    " https://b.example ",
		"CONTACT_CC":      "x@example.com, y@example.com,",
		"SMTP_PORT":       "not-a-number",
		"JWT_SECRET":      "s3cret",
		"LOG_LEVEL":       "",
		"CONTACT_EMAIL":   "sales@example.com",
		"TRUSTED_PROXIES": "10.0.0.1, 10.0.1.0/24",
	}))

	assert.Equal(t, "db.internal", cfg.Database.MySQL.Host)
	assert.Equal(t, 3307, cfg.Database.MySQL.Port)
	assert.Equal(t, "hl", cfg.Database.MySQL.Database)
	assert.Equal(t, "k", cfg.Server.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, []string{"x@example.com", "y@example.com"}, cfg.Mail.ContactCC)
	assert.Equal(t, 587, cfg.Mail.Port, "unparsable numbers keep the previous value")
	assert.Equal(t, "info", cfg.Logging.Level, "empty values keep the previous value")
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"10.0.0.1", "10.0.1.0/24"}, cfg.Server.TrustedProxies)
}

func TestDefaultConfig_TrustsNoProxy(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Positive(t, cfg.RateLimit.LoginPerMinute)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(false))

	cfg.Database.MySQL.User = "hl"
	cfg.Database.MySQL.Database = "hl"
	cfg.Server.APIKey = "k"
	assert.NoError(t, cfg.Validate(false))

	err := cfg.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
