package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Minio     MinioConfig     `yaml:"minio"`
	Auth      AuthConfig      `yaml:"auth"`
	Payables  PayablesConfig  `yaml:"payables"`
	Reports   ReportsConfig   `yaml:"reports"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Users     []User          `yaml:"users"`
}

type ServerConfig struct {
	Port                int `yaml:"port"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver          string `yaml:"driver"` // postgres, sqlite
	DSN             string `yaml:"dsn"`
	SlowThresholdMS int    `yaml:"slow_threshold_ms"`
}

// SlowThreshold is the query duration above which SQL is logged as slow.
func (c DatabaseConfig) SlowThreshold() time.Duration {
	return time.Duration(c.SlowThresholdMS) * time.Millisecond
}

// RedisConfig is optional; an empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr           string `yaml:"addr"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	CashTTLSeconds int    `yaml:"cash_ttl_seconds"`
}

func (c RedisConfig) CashTTL() time.Duration {
	return time.Duration(c.CashTTLSeconds) * time.Second
}

// MinioConfig is optional; an empty Endpoint disables the report archive.
type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

func (c MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type PayablesConfig struct {
	PartialWindowDays   *int `yaml:"partial_window_days"` // nil = 7, 0 = due today only
	DefaultDaysForecast int  `yaml:"default_days_forecast"`
}

// PartialWindow returns the configured partial-payment window in days.
func (p PayablesConfig) PartialWindow() int {
	if p.PartialWindowDays == nil {
		return 7
	}
	return *p.PartialWindowDays
}

type ReportsConfig struct {
	MaxReports int `yaml:"max_reports"` // 0 = unlimited
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// User is a login account. PasswordHash is a bcrypt hash.
type User struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Tenant       string `yaml:"tenant"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 30
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "restoration.db"
	}
	if c.Database.SlowThresholdMS == 0 {
		c.Database.SlowThresholdMS = 500
	}
	if c.Redis.CashTTLSeconds == 0 {
		c.Redis.CashTTLSeconds = 300
	}
	if c.Minio.ExpireDays == 0 {
		c.Minio.ExpireDays = 7
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 24
	}
	if c.Payables.PartialWindowDays == nil {
		days := 7
		c.Payables.PartialWindowDays = &days
	}
	if c.Payables.DefaultDaysForecast == 0 {
		c.Payables.DefaultDaysForecast = 60
	}
	if c.Reports.MaxReports == 0 {
		c.Reports.MaxReports = 100
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 100
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Minio.Enabled() && c.Minio.Bucket == "" {
		return fmt.Errorf("minio.bucket is required when minio.endpoint is set")
	}
	if c.Payables.PartialWindowDays != nil && *c.Payables.PartialWindowDays < 0 {
		return fmt.Errorf("payables.partial_window_days must not be negative")
	}
	return nil
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
