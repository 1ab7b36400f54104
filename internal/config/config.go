package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Cache     CacheConfig     `yaml:"cache"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
	Timezone  string          `yaml:"timezone"`
}

// ServerConfig contains HTTP listener settings for both servers
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AdminPort      string   `yaml:"admin_port"`
	APIKey         string   `yaml:"api_key"`
	CORSOrigins    []string `yaml:"cors_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	// TrustedProxies may set X-Forwarded-For. Empty means the socket address is the client.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	MySQL MySQLConfig `yaml:"mysql"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// CacheConfig contains the Redis response cache settings.
// An empty Addr disables caching.
type CacheConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// AuthConfig contains dashboard token settings
type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	Issuer        string `yaml:"issuer"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// MailConfig contains SMTP settings for lead notifications.
// An empty Host disables sending.
type MailConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	User         string   `yaml:"user"`
	Password     string   `yaml:"password"`
	From         string   `yaml:"from"`
	ContactEmail string   `yaml:"contact_email"`
	ContactCC    []string `yaml:"contact_cc"`
}

// RateLimitConfig contains rate limiting settings for the public lead forms
// and the dashboard login.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	LoginPerMinute    int  `yaml:"login_per_minute"`
	LoginPerHour      int  `yaml:"login_per_hour"`
}

// SchedulerConfig contains the daily job settings. Times are HH:MM.
type SchedulerConfig struct {
	ReindexEnabled bool   `yaml:"reindex_enabled"`
	ReindexTime    string `yaml:"reindex_time"`
	DigestEnabled  bool   `yaml:"digest_enabled"`
	DigestTime     string `yaml:"digest_time"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "5000",
			AdminPort:      "5001",
			MaxUploadBytes: 64 << 20,
		},
		Database: DatabaseConfig{
			MySQL: MySQLConfig{
				Host:         "localhost",
				Port:         3306,
				MaxOpenConns: 10,
				MaxIdleConns: 5,
			},
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Auth: AuthConfig{
			Issuer:        "hl-admin",
			TokenTTLHours: 12,
		},
		Mail: MailConfig{
			Port: 587,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 5,
			RequestsPerHour:   30,
			LoginPerMinute:    10,
			LoginPerHour:      60,
		},
		Scheduler: SchedulerConfig{
			ReindexEnabled: true,
			ReindexTime:    "03:00",
			DigestEnabled:  false,
			DigestTime:     "08:00",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			LogRequests: true,
		},
		Timezone: "Asia/Dhaka",
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// A missing file means defaults.
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads the YAML file at path and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides file values with the deployment environment.
// lookup is os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}

	str("PORT", &c.Server.Port)
	str("ADMIN_PORT", &c.Server.AdminPort)
	str("API_KEY", &c.Server.APIKey)
	var origins []string
	for _, key := range []string{"CORS_ORIGIN1", "CORS_ORIGIN2"} {
		var origin string
		str(key, &origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) > 0 {
		c.Server.CORSOrigins = origins
	}
	var proxies string
	str("TRUSTED_PROXIES", &proxies)
	if proxies != "" {
		c.Server.TrustedProxies = splitList(proxies)
	}

	str("DB_HOST", &c.Database.MySQL.Host)
	num("DB_PORT", &c.Database.MySQL.Port)
	str("DB_USER", &c.Database.MySQL.User)
	str("DB_PASSWORD", &c.Database.MySQL.Password)
	str("DB_NAME", &c.Database.MySQL.Database)

	str("MEILISEARCH_HOST", &c.Search.Meilisearch.Host)
	str("MEILISEARCH_KEY", &c.Search.Meilisearch.APIKey)

	str("REDIS_ADDR", &c.Cache.Addr)
	str("REDIS_PASSWORD", &c.Cache.Password)

	str("JWT_SECRET", &c.Auth.JWTSecret)

	str("SMTP_HOST", &c.Mail.Host)
	num("SMTP_PORT", &c.Mail.Port)
	str("SMTP_USER", &c.Mail.User)
	str("SMTP_PASS", &c.Mail.Password)
	str("CONTACT_EMAIL", &c.Mail.ContactEmail)
	var cc string
	str("CONTACT_CC", &cc)
	if cc != "" {
		c.Mail.ContactCC = splitList(cc)
	}

	str("LOG_LEVEL", &c.Logging.Level)
}

// Validate reports settings a server cannot start without.
// The admin server additionally needs a JWT secret.
func (c *Config) Validate(admin bool) error {
	var errs []error
	if c.Database.MySQL.User == "" || c.Database.MySQL.Database == "" {
		errs = append(errs, errors.New("database user and name are required"))
	}
	if admin && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if !admin && c.Server.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required"))
	}
	return errors.Join(errs...)
}

// CacheTTL returns the response cache lifetime
func (c *CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// TokenTTL returns the dashboard token lifetime
func (c *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Location returns the configured time zone, or Local when it cannot be loaded.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			items = append(items, v)
		}
	}
	return items
}
