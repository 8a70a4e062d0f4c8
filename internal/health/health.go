// Package health computes the API, database and system probe snapshots.
// Probes never fail: problems are reported inside the payload.
package health

import (
	"context"
	"time"

	"tacticalapi/internal/db"
)

const DefaultTimeout = 5 * time.Second

const (
	StatusOnline       = "online"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusHealthy      = "healthy"
	StatusError        = "error"
)

// Database is what the database probe needs from a connection.
type Database interface {
	Ping(ctx context.Context) error
	Name() string
}

// PoolReporter is optionally implemented by a Database.
type PoolReporter interface {
	PoolStats() db.PoolStats
}

type APIStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

type DatabaseStatus struct {
	Status    string        `json:"status"`
	Name      string        `json:"name"`
	Latency   int64         `json:"latency"`
	Error     string        `json:"error,omitempty"`
	Pool      *db.PoolStats `json:"pool,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type SystemStatus struct {
	Status        string    `json:"status"`
	CPU           float64   `json:"cpu"`
	Memory        string    `json:"memory"`
	MemoryUsed    uint64    `json:"memory_used"`
	MemoryTotal   uint64    `json:"memory_total"`
	MemoryPercent float64   `json:"memory_percent"`
	Disk          string    `json:"disk"`
	Platform      string    `json:"platform"`
	Uptime        uint64    `json:"uptime"`
	Error         string    `json:"error,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Aggregator struct {
	db      Database
	sampler Sampler
	timeout time.Duration
	started time.Time
	now     func() time.Time
}

type Option func(*Aggregator)

func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func NewAggregator(database Database, sampler Sampler, opts ...Option) *Aggregator {
	a := &Aggregator{db: database, sampler: sampler, timeout: DefaultTimeout, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	a.started = a.now()
	return a
}

// API reports process liveness and uptime in seconds.
func (a *Aggregator) API() APIStatus {
	now := a.now()
	return APIStatus{
		Status:    StatusOnline,
		Timestamp: now.UTC(),
		Uptime:    now.Sub(a.started).Seconds(),
	}
}

func (a *Aggregator) Database(ctx context.Context) DatabaseStatus {
	out := DatabaseStatus{Status: StatusDisconnected, Timestamp: a.now().UTC()}
	if a.db == nil {
		out.Error = "database is not configured"
		return out
	}
	out.Name = a.db.Name()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	start := a.now()
	err := a.db.Ping(ctx)
	out.Latency = a.now().Sub(start).Milliseconds()
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Status = StatusConnected
	if pr, ok := a.db.(PoolReporter); ok {
		stats := pr.PoolStats()
		out.Pool = &stats
	}
	return out
}

func (a *Aggregator) System(ctx context.Context) SystemStatus {
	out := SystemStatus{Disk: "N/A", Timestamp: a.now().UTC()}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	s, err := a.sampler.Sample(ctx)
	if err != nil {
		out.Status = StatusError
		out.Error = err.Error()
		return out
	}
	out.Status = StatusHealthy
	out.CPU = s.CPU
	out.MemoryUsed = s.MemUsed
	out.MemoryTotal = s.MemTotal
	out.MemoryPercent = s.MemPercent()
	out.Memory = FormatMemory(s.MemUsed, s.MemTotal)
	out.Platform = s.Platform
	out.Uptime = s.Uptime
	return out
}
