package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// WatchConfig configures the statuswatch poller.
type WatchConfig struct {
	APIURL          string        `env:"STATUS_API_URL" envDefault:"http://localhost:3000"`
	RefreshInterval time.Duration `env:"STATUS_REFRESH_INTERVAL" envDefault:"30s"`
	BadgeInterval   time.Duration `env:"STATUS_BADGE_INTERVAL" envDefault:"60s"`
	MaxAttempts     int           `env:"STATUS_MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay      time.Duration `env:"STATUS_RETRY_DELAY" envDefault:"2s"`
	Timeout         time.Duration `env:"STATUS_TIMEOUT" envDefault:"5s"`
	Backoff         string        `env:"STATUS_BACKOFF" envDefault:"fixed"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

func LoadWatch() (*WatchConfig, error) {
	_ = godotenv.Load()
	return parseWatch(env.Options{})
}

func ParseWatch(vars map[string]string) (*WatchConfig, error) {
	return parseWatch(env.Options{Environment: vars})
}

func parseWatch(opts env.Options) (*WatchConfig, error) {
	cfg := &WatchConfig{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("STATUS_MAX_ATTEMPTS must be >= 1, got %d", cfg.MaxAttempts)
	}
	switch cfg.Backoff {
	case "fixed", "exponential":
	default:
		return nil, fmt.Errorf("STATUS_BACKOFF must be fixed or exponential, got %q", cfg.Backoff)
	}
	return cfg, nil
}
