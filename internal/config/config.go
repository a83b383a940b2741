package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTIssuer      = "fptrack"
	defaultJWTAudience    = "fptrack-dashboard"
	defaultAccessTTL      = "15m"
	defaultRefreshTTL     = "168h"
	defaultOTPTTL         = "5m"
	defaultSweepInterval  = "24h"
	defaultPollInterval   = "1m"
	defaultCookieSecure   = "false"
	defaultCookieSameSite = "Lax"
	defaultCookiePath     = "/"
	defaultHTTPAddr       = ":8080"
	defaultPythonBin      = "python"
	defaultMailer         = "console"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string

	JWTSecret    string
	JWTIssuer    string
	JWTAudience  string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	OTPTTL       time.Duration
	SweepInterval time.Duration

	CookieSecure   bool
	CookieSameSite string
	CookiePath     string

	Mailer       string // "smtp" or "console"
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	DeviceIPs       []string
	DeviceScriptDir string
	PythonBin       string
	PollInterval    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", defaultHTTPAddr)

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTIssuer = strings.TrimSpace(getEnv("JWT_ISSUER", defaultJWTIssuer))
	cfg.JWTAudience = strings.TrimSpace(getEnv("JWT_AUDIENCE", defaultJWTAudience))

	var err error
	if cfg.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.OTPTTL, err = parseDurationEnv("OTP_TTL", defaultOTPTTL); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = parseDurationEnv("POLL_INTERVAL", defaultPollInterval); err != nil {
		return nil, err
	}

	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.CookiePath = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	cfg.Mailer = strings.ToLower(strings.TrimSpace(getEnv("MAILER", defaultMailer)))
	cfg.SMTPHost = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	cfg.SMTPPort = strings.TrimSpace(getEnv("SMTP_PORT", "587"))
	cfg.SMTPUsername = strings.TrimSpace(os.Getenv("SMTP_USERNAME"))
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = strings.TrimSpace(getEnv("SMTP_FROM", "Attendance System"))

	if ips := strings.TrimSpace(os.Getenv("DEVICE_IPS")); ips != "" {
		for _, ip := range strings.Split(ips, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				cfg.DeviceIPs = append(cfg.DeviceIPs, ip)
			}
		}
	}
	cfg.DeviceScriptDir = strings.TrimSpace(getEnv("DEVICE_SCRIPT_DIR", "./scripts"))
	cfg.PythonBin = strings.TrimSpace(getEnv("PYTHON_BIN", defaultPythonBin))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	log.Printf("auth config: accessTTL=%s refreshTTL=%s otpTTL=%s sweep=%s cookieSecure=%t sameSite=%s",
		cfg.AccessTTL, cfg.RefreshTTL, cfg.OTPTTL, cfg.SweepInterval, cfg.CookieSecure, cfg.CookieSameSite)

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if cfg.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}
	if cfg.Mailer != "smtp" && cfg.Mailer != "console" {
		return fmt.Errorf("MAILER must be smtp or console")
	}
	if cfg.Mailer == "smtp" && cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when MAILER=smtp")
	}

	if isProdLike(cfg.AppEnv) {
		if trimmedOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
		// The console mailer prints OTP codes to the log.
		if cfg.Mailer != "smtp" {
			return fmt.Errorf("in prod/release MAILER must be smtp")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func trimmedOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
