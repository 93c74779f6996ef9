package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultDatabaseURL    = "agencyhub.db"
	defaultTimezone       = "UTC"
	defaultLeadBuffer     = "30m"
	defaultReminderWindow = "24h"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultCronSecret     = "change-me-cron-secret"
	defaultPublicBaseURL  = "http://localhost:8080"
	defaultEmailFrom      = "hello@agencyhub.local"
	defaultEmailFromName  = "AgencyHub"
	defaultRateLimit      = 10
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string

	DatabaseURL string

	Location       *time.Location
	LeadBuffer     time.Duration
	ReminderWindow time.Duration

	JWTSecret  string
	JWTIssuer  string
	CronSecret string

	PublicBaseURL    string
	SendGridAPIKey   string
	EmailFrom        string
	EmailFromName    string
	StaffNotifyEmail string

	RedisURL           string
	RateLimitPerMinute int
	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", defaultHTTPAddr)
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("BUSINESS_TIMEZONE", defaultTimezone)
	v.SetDefault("LEAD_BUFFER", defaultLeadBuffer)
	v.SetDefault("REMINDER_WINDOW", defaultReminderWindow)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("CRON_SECRET", defaultCronSecret)
	v.SetDefault("PUBLIC_BASE_URL", defaultPublicBaseURL)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_FROM", defaultEmailFrom)
	v.SetDefault("EMAIL_FROM_NAME", defaultEmailFromName)
	v.SetDefault("STAFF_NOTIFY_EMAIL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", defaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:             strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel:           strings.TrimSpace(v.GetString("LOG_LEVEL")),
		HTTPAddr:           strings.TrimSpace(v.GetString("HTTP_ADDR")),
		DatabaseURL:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTSecret:          strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTIssuer:          strings.TrimSpace(v.GetString("JWT_ISSUER")),
		CronSecret:         strings.TrimSpace(v.GetString("CRON_SECRET")),
		PublicBaseURL:      strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/"),
		SendGridAPIKey:     strings.TrimSpace(v.GetString("SENDGRID_API_KEY")),
		EmailFrom:          strings.TrimSpace(v.GetString("EMAIL_FROM")),
		EmailFromName:      strings.TrimSpace(v.GetString("EMAIL_FROM_NAME")),
		StaffNotifyEmail:   strings.TrimSpace(v.GetString("STAFF_NOTIFY_EMAIL")),
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	tz := strings.TrimSpace(v.GetString("BUSINESS_TIMEZONE"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE value %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.LeadBuffer, err = parseDuration("LEAD_BUFFER", v.GetString("LEAD_BUFFER"))
	if err != nil {
		return nil, err
	}
	cfg.ReminderWindow, err = parseDuration("REMINDER_WINDOW", v.GetString("REMINDER_WINDOW"))
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.LeadBuffer <= 0 {
		return fmt.Errorf("LEAD_BUFFER must be > 0")
	}
	if cfg.ReminderWindow <= 0 {
		return fmt.Errorf("REMINDER_WINDOW must be > 0")
	}
	if cfg.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be > 0")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.CronSecret, defaultCronSecret) {
			return fmt.Errorf("in prod/release CRON_SECRET must be set and not default")
		}
	}

	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDuration(name, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
