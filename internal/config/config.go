package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

var (
	ErrDatabaseURLMissing   = errors.New("DATABASE_URL is not defined")
	ErrDatabaseURLMalformed = errors.New("DATABASE_URL has an invalid connection string format")
	ErrJWTSecretMissing     = errors.New("JWT_SECRET is not defined")
)

type DBConfig struct {
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MinIdleConns    int           `env:"DB_MIN_IDLE_CONNS" envDefault:"1"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"45s"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
	HealthCheck     time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"10s"`
	PingTimeout     time.Duration `env:"DB_PING_TIMEOUT" envDefault:"5s"`
	WatchInterval   time.Duration `env:"DB_WATCH_INTERVAL" envDefault:"30s"`
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
}

// AdminSeed describes the optional account created at boot.
type AdminSeed struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"production"`
	Port            int           `env:"PORT" envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	DatabaseURL string `env:"DATABASE_URL"`
	// DatabaseName is derived from DatabaseURL by Validate.
	DatabaseName string

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	// TrustProxy makes client addresses come from forwarding headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	DB        DBConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Admin     AdminSeed
}

func (c *Config) Development() bool { return strings.EqualFold(c.Env, "development") }

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a Config from an explicit variable set instead of the process environment.
func Parse(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	name, err := DatabaseNameFromURL(c.DatabaseURL)
	if err != nil {
		return err
	}
	c.DatabaseName = name
	if c.JWT.Secret == "" {
		return ErrJWTSecretMissing
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit must be positive: %d per %s", c.RateLimit.Requests, c.RateLimit.Window)
	}
	if c.DB.MaxOpenConns < 1 || c.DB.MinIdleConns < 0 || c.DB.MinIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("invalid pool bounds: min idle %d, max open %d", c.DB.MinIdleConns, c.DB.MaxOpenConns)
	}
	return nil
}

// DatabaseNameFromURL checks the connection string shape and returns the database it names.
func DatabaseNameFromURL(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", ErrDatabaseURLMissing
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return "", ErrDatabaseURLMalformed
	}
	pc, err := pgx.ParseConfig(dsn)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseURLMalformed, err)
	}
	return pc.Database, nil
}
