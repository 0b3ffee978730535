package siteengine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a siteengine instance. Values come
// from an optional YAML file overlaid on environment variables; anything
// left unset falls back to a default.
type Config struct {
	Addr string `yaml:"addr"` // Listen address (default ":8080")

	SiteName        string `yaml:"site_name"`        // Site name for feeds and meta
	SiteURL         string `yaml:"site_url"`         // Canonical URL
	SiteDescription string `yaml:"site_description"` // Description for RSS

	AdminEmail    string `yaml:"admin_email"`    // Required: seed admin login
	AdminPassword string `yaml:"admin_password"` // Required: seed admin password

	SessionTTL       time.Duration `yaml:"session_ttl"`        // Session lifetime (default 7 days)
	MaxLoginAttempts int           `yaml:"max_login_attempts"` // Failed logins per IP per window (default 5)
	LoginWindow      time.Duration `yaml:"login_window"`       // Lockout window (default 15min)

	UploadDir     string `yaml:"upload_dir"`      // Media directory (default "data/uploads")
	MaxUploadSize int64  `yaml:"max_upload_size"` // Upload cap in bytes (default 10MB)

	AnalyticsRetentionDays int `yaml:"analytics_retention_days"` // Bucket retention (default 365)

	RateLimit float64 `yaml:"rate_limit"`       // Public API requests/sec per IP (default 20)
	RateBurst int     `yaml:"rate_limit_burst"` // Burst size (default 40)
}

// LoadConfig builds a Config from environment variables, then overlays
// the YAML file at path if one is given.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Addr:          EnvOr("SITE_ADDR", ""),
		SiteName:      EnvOr("SITE_NAME", ""),
		SiteURL:       EnvOr("SITE_URL", ""),
		AdminEmail:    EnvOr("SITE_ADMIN_EMAIL", ""),
		AdminPassword: EnvOr("SITE_ADMIN_PASSWORD", ""),
		UploadDir:     EnvOr("SITE_UPLOAD_DIR", ""),
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.SiteName == "" {
		c.SiteName = "Northbound Studio"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:8080"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 7 * 24 * time.Hour
	}
	if c.MaxLoginAttempts == 0 {
		c.MaxLoginAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = 15 * time.Minute
	}
	if c.UploadDir == "" {
		c.UploadDir = "data/uploads"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 10 << 20
	}
	if c.AnalyticsRetentionDays == 0 {
		c.AnalyticsRetentionDays = 365
	}
	if c.RateLimit == 0 {
		c.RateLimit = 20
	}
	if c.RateBurst == 0 {
		c.RateBurst = 40
	}
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
