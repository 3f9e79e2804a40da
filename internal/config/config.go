package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/staticimport/swa/internal/fares"
)

// ErrConfig marks configuration the process must not start with.
var ErrConfig = errors.New("invalid configuration")

// ConfigError names the setting or file location that failed to load.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrConfig, e.Source, e.Err)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func (e *ConfigError) Unwrap() error { return e.Err }

type AppConfig struct {
	TripsFile     string
	PersonalsFile string

	// PollInterval is the base time between polls; up to PollJitter more is
	// added at random before each one.
	PollInterval time.Duration
	PollJitter   time.Duration

	DropRule fares.DropRule

	// Exactly one source is used; the replay file wins when both are set.
	FareSourceURL  string
	FareReplayFile string
	HTTPTimeout    time.Duration

	// In-memory alert retention.
	AlertMaxHistory int           // max alerts kept per trip (0 = unlimited)
	AlertMaxAge     time.Duration // max age of alerts (0 = unlimited)

	EmailRetry RetryConfig

	Port     string
	LogLevel slog.Level
}

// RetryConfig mirrors notify.RetryPolicy without importing it.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found or error loading it", "error", err)
	}
	cfg := &AppConfig{}

	cfg.TripsFile = getenvDefault("TRIPS_FILE", "trips.txt")
	cfg.PersonalsFile = getenvDefault("PERSONALS_FILE", "personals.txt")
	cfg.FareSourceURL = os.Getenv("FARE_SOURCE_URL")
	cfg.FareReplayFile = os.Getenv("FARE_REPLAY_FILE")
	if cfg.FareSourceURL == "" && cfg.FareReplayFile == "" {
		return nil, &ConfigError{Source: "FARE_SOURCE_URL", Err: errors.New("one of FARE_SOURCE_URL or FARE_REPLAY_FILE is required")}
	}

	var err error
	if cfg.PollInterval, err = getenvDuration("POLL_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if cfg.PollJitter, err = getenvDuration("POLL_JITTER", "2m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.AlertMaxAge, err = getenvDuration("ALERT_MAX_AGE", "168h"); err != nil {
		return nil, err
	}
	if cfg.EmailRetry.Delay, err = getenvDuration("EMAIL_RETRY_DELAY", "60s"); err != nil {
		return nil, err
	}
	cfg.EmailRetry.Attempts = getenvInt("EMAIL_RETRY_ATTEMPTS", 10)
	cfg.AlertMaxHistory = getenvInt("ALERT_MAX_HISTORY", 500)

	threshold, err := decimal.NewFromString(getenvDefault("DROP_THRESHOLD", "0.85"))
	if err != nil || !threshold.IsPositive() || threshold.GreaterThan(decimal.NewFromInt(1)) {
		return nil, &ConfigError{Source: "DROP_THRESHOLD", Err: fmt.Errorf("want a decimal in (0, 1], got %q", os.Getenv("DROP_THRESHOLD"))}
	}
	cfg.DropRule = fares.DropRule{Threshold: threshold, Policy: fares.OverwriteAlways}

	retain, err := strconv.ParseBool(getenvDefault("RETAIN_MISSING_PRICES", "false"))
	if err != nil {
		return nil, &ConfigError{Source: "RETAIN_MISSING_PRICES", Err: err}
	}
	if retain {
		cfg.DropRule.Policy = fares.RetainOnMissing
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, &ConfigError{Source: "LOG_LEVEL", Err: err}
	}
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, &ConfigError{Source: key, Err: err}
	}
	return d, nil
}
