// Package db owns the Postgres connection pool and its gorm handle.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tacticalapi/internal/config"
	"tacticalapi/internal/metrics"
	"tacticalapi/internal/models"
)

// Conn is the process-wide database handle. It is constructed once in main
// and passed to whoever needs it.
type Conn struct {
	pool *pgxpool.Pool
	gorm *gorm.DB
	name string
}

// Open builds the pool, pings once and wraps it for gorm. Any failure here is
// meant to stop the process.
func Open(ctx context.Context, dsn string, cfg config.DBConfig, name string) (*Conn, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pcfg.MaxConns = int32(cfg.MaxOpenConns)
	pcfg.MinConns = int32(cfg.MinIdleConns)
	pcfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	if cfg.HealthCheck > 0 {
		pcfg.HealthCheckPeriod = cfg.HealthCheck
	}
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if name == "" {
		name = pcfg.ConnConfig.Database
	}
	return &Conn{pool: pool, gorm: gdb, name: name}, nil
}

func (c *Conn) Gorm() *gorm.DB { return c.gorm }

func (c *Conn) Name() string { return c.name }

func (c *Conn) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

// PoolStats reports connection counts for the health probe.
func (c *Conn) PoolStats() PoolStats {
	s := c.pool.Stat()
	return PoolStats{
		Total:    int(s.TotalConns()),
		InUse:    int(s.AcquiredConns()),
		Idle:     int(s.IdleConns()),
		MaxConns: int(s.MaxConns()),
	}
}

func (c *Conn) Close() { c.pool.Close() }

func (c *Conn) Migrate() error {
	return c.gorm.AutoMigrate(&models.User{}, &models.BotStat{})
}

type PoolStats struct {
	Total    int `json:"total"`
	InUse    int `json:"inUse"`
	Idle     int `json:"idle"`
	MaxConns int `json:"max"`
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// SQLSTATE codes that mean retrying the same connection string cannot help.
var fatalCodes = map[string]struct{}{
	"28000": {}, // invalid_authorization_specification
	"28P01": {}, // invalid_password
	"3D000": {}, // invalid_catalog_name
}

// IsFatal reports whether err should end the process rather than be left
// to pool reconnection.
func IsFatal(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := fatalCodes[pgErr.Code]
		return ok
	}
	return false
}

// Watch pings p every interval and logs state transitions. It returns nil
// when ctx ends and the ping error when that error is fatal.
func Watch(ctx context.Context, p Pinger, interval, timeout time.Duration, lg *zap.SugaredLogger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	healthy := true
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Ping(pingCtx)
		cancel()
		metrics.SetDatabaseUp(err == nil)
		switch {
		case err == nil && !healthy:
			healthy = true
			lg.Infow("database reconnected")
		case err == nil:
		case IsFatal(err):
			lg.Errorw("critical database error", "error", err)
			return err
		case ctx.Err() != nil:
			return nil
		default:
			if healthy {
				lg.Warnw("database connection is not ready, waiting for reconnect", "error", err)
			}
			healthy = false
		}
	}
}
