package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment keys recognised by Load.
const (
	KeyDatabaseURL       = "DATABASE_URL"
	KeyBrightLocalAPIKey = "BRIGHTLOCAL_API_KEY"
	KeyGoogleMapsAPIKey  = "GOOGLE_MAPS_API_KEY"
	KeyPageSpeedAPIKey   = "PAGESPEED_API_KEY"
	KeySiteURL           = "SITE_URL"
	KeyJWTSecret         = "JWT_SECRET"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port               string
	SiteURL            string
	DatabaseURL        string
	BrightLocalAPIKey  string
	BrightLocalBaseURL string
	GoogleMapsAPIKey   string
	PageSpeedAPIKey    string
	PostsDir           string
	CaseStudiesDir     string
	JWTSecret          string
	TokenTTL           time.Duration
	RateLimitAudit     RateLimitConfig
	LogLevel           string
	LogFormat          string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		SiteURL:            strings.TrimRight(getEnv(KeySiteURL, "http://localhost:8080"), "/"),
		DatabaseURL:        os.Getenv(KeyDatabaseURL),
		BrightLocalAPIKey:  os.Getenv(KeyBrightLocalAPIKey),
		BrightLocalBaseURL: getEnv("BRIGHTLOCAL_BASE_URL", "https://api.brightlocal.com/manage/v1"),
		GoogleMapsAPIKey:   os.Getenv(KeyGoogleMapsAPIKey),
		PageSpeedAPIKey:    os.Getenv(KeyPageSpeedAPIKey),
		PostsDir:           getEnv("POSTS_DIR", "content/posts"),
		CaseStudiesDir:     getEnv("CASE_STUDIES_DIR", "content/case-studies"),
		JWTSecret:          os.Getenv(KeyJWTSecret),
		TokenTTL:           parseDuration(getEnv("JWT_TTL", "12h")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_AUDIT", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AUDIT value: %w", err)
	}
	cfg.RateLimitAudit = rl

	return cfg, nil
}

// Missing reports which of the given keys have no value configured.
func (c *Config) Missing(keys ...string) []string {
	var missing []string
	for _, key := range keys {
		if c.value(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func (c *Config) value(key string) string {
	switch key {
	case KeyDatabaseURL:
		return c.DatabaseURL
	case KeyBrightLocalAPIKey:
		return c.BrightLocalAPIKey
	case KeyGoogleMapsAPIKey:
		return c.GoogleMapsAPIKey
	case KeyPageSpeedAPIKey:
		return c.PageSpeedAPIKey
	case KeySiteURL:
		return c.SiteURL
	case KeyJWTSecret:
		return c.JWTSecret
	default:
		return os.Getenv(key)
	}
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}
