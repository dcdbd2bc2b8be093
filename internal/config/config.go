package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName         = "SellerBridge"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultShutdownDelay   = 10 * time.Second
	defaultOutboundTimeout = 10 * time.Second
	defaultAccountCountry  = "US"
	outboundSecondsEnvVar  = "OUTBOUND_TIMEOUT_SECONDS"
	outboundDurationEnvVar = "OUTBOUND_TIMEOUT"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName     string
	AppEnv      string
	Port        string
	LogLevel    string
	DatabaseURL string
	RedisURL    string

	// Identity issuer settings for bearer-token verification.
	IssuerURL string
	Audience  string

	// Payment platform settings.
	StripeSecretKey string
	AccountCountry  string

	// Redirect destinations baked into onboarding links. Server-owned so
	// callers cannot steer the browser to arbitrary hosts.
	OnboardingRefreshURL string
	OnboardingReturnURL  string

	// Browser origins allowed to call the API, comma separated. Defaults to
	// the onboarding return URL's origin: that is where the frontend lives.
	AllowedOrigins string

	ShutdownPeriod  time.Duration
	OutboundTimeout time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:              getEnv("APP_NAME", defaultAppName),
		AppEnv:               getEnv("APP_ENV", defaultAppEnv),
		Port:                 getEnv("PORT", defaultPort),
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		IssuerURL:            os.Getenv("OIDC_ISSUER_URL"),
		Audience:             os.Getenv("OIDC_AUDIENCE"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		AccountCountry:       getEnv("ACCOUNT_COUNTRY", defaultAccountCountry),
		OnboardingRefreshURL: os.Getenv("ONBOARDING_REFRESH_URL"),
		OnboardingReturnURL:  os.Getenv("ONBOARDING_RETURN_URL"),
		AllowedOrigins:       os.Getenv("CORS_ALLOW_ORIGINS"),
		ShutdownPeriod:       defaultShutdownDelay,
		OutboundTimeout:      defaultOutboundTimeout,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(outboundSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", outboundSecondsEnvVar, err)
		}
		cfg.OutboundTimeout = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(outboundDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", outboundDurationEnvVar, err)
		}
		cfg.OutboundTimeout = d
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	if cfg.IssuerURL == "" {
		return Config{}, fmt.Errorf("OIDC_ISSUER_URL must be set")
	}

	if cfg.Audience == "" {
		return Config{}, fmt.Errorf("OIDC_AUDIENCE must be set")
	}

	if cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("STRIPE_SECRET_KEY must be set")
	}

	if cfg.OnboardingRefreshURL == "" {
		return Config{}, fmt.Errorf("ONBOARDING_REFRESH_URL must be set")
	}

	if cfg.OnboardingReturnURL == "" {
		return Config{}, fmt.Errorf("ONBOARDING_RETURN_URL must be set")
	}

	if cfg.AllowedOrigins == "" {
		origin, err := originOf(cfg.OnboardingReturnURL)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ONBOARDING_RETURN_URL: %w", err)
		}
		cfg.AllowedOrigins = origin
	}

	return cfg, nil
}

func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q has no scheme or host", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
