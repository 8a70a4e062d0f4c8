package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacticalapi/internal/db"
)

type fakeDB struct {
	err   error
	delay time.Duration
	stats *db.PoolStats
}

func (f *fakeDB) Name() string { return "tactical" }

func (f *fakeDB) Ping(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

type pooledDB struct{ fakeDB }

func (p *pooledDB) PoolStats() db.PoolStats { return *p.stats }

type fakeSampler struct {
	s   Sample
	err error
}

func (f fakeSampler) Sample(context.Context) (Sample, error) { return f.s, f.err }

func TestAPI_Uptime(t *testing.T) {
	start := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	clock := start
	a := NewAggregator(nil, fakeSampler{}, WithClock(func() time.Time { return clock }))

	clock = start.Add(90 * time.Second)
	got := a.API()
	assert.Equal(t, StatusOnline, got.Status)
	assert.InDelta(t, 90.0, got.Uptime, 1e-9)
	assert.Equal(t, clock, got.Timestamp)
}

func TestDatabase_Connected(t *testing.T) {
	stats := db.PoolStats{Total: 2, InUse: 1, Idle: 1, MaxConns: 10}
	a := NewAggregator(&pooledDB{fakeDB{stats: &stats}}, fakeSampler{})

	got := a.Database(context.Background())
	assert.Equal(t, StatusConnected, got.Status)
	assert.Equal(t, "tactical", got.Name)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.Pool)
	assert.Equal(t, 10, got.Pool.MaxConns)
	assert.GreaterOrEqual(t, got.Latency, int64(0))
}

func TestDatabase_PingFailureIsReported(t *testing.T) {
	a := NewAggregator(&fakeDB{err: errors.New("connection refused")}, fakeSampler{})

	got := a.Database(context.Background())
	assert.Equal(t, StatusDisconnected, got.Status)
	assert.Equal(t, "connection refused", got.Error)
	assert.Nil(t, got.Pool)
}

func TestDatabase_Timeout(t *testing.T) {
	a := NewAggregator(&fakeDB{delay: time.Second}, fakeSampler{}, WithTimeout(20*time.Millisecond))

	got := a.Database(context.Background())
	assert.Equal(t, StatusDisconnected, got.Status)
	assert.Contains(t, got.Error, "deadline exceeded")
}

func TestDatabase_NotConfigured(t *testing.T) {
	a := NewAggregator(nil, fakeSampler{})
	assert.Equal(t, StatusDisconnected, a.Database(context.Background()).Status)
}

func TestSystem(t *testing.T) {
	const gb = 1 << 30
	a := NewAggregator(nil, fakeSampler{s: Sample{CPU: 42.5, MemUsed: 4 * gb, MemTotal: 16 * gb, Platform: "linux", Uptime: 3600}})

	got := a.System(context.Background())
	assert.Equal(t, StatusHealthy, got.Status)
	assert.Equal(t, 42.5, got.CPU)
	assert.Equal(t, "4.00/16.00 GB (25%)", got.Memory)
	assert.Equal(t, 25.0, got.MemoryPercent)
	assert.Equal(t, "N/A", got.Disk)
	assert.Equal(t, "linux", got.Platform)
	assert.Equal(t, uint64(3600), got.Uptime)
}

func TestSystem_SamplerError(t *testing.T) {
	a := NewAggregator(nil, fakeSampler{err: errors.New("no /proc")})

	got := a.System(context.Background())
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "no /proc", got.Error)
	assert.Equal(t, "N/A", got.Disk)
}

func TestCPUPercent(t *testing.T) {
	tests := []struct {
		name  string
		cores []cpu.TimesStat
		want  float64
	}{
		{"no cores", nil, 0},
		{"idle", []cpu.TimesStat{{Idle: 100}}, 0},
		{"busy", []cpu.TimesStat{{User: 100}}, 100},
		{"mean of cores", []cpu.TimesStat{{User: 25, Idle: 75}, {User: 50, System: 25, Idle: 25}}, 50},
		{"rounded", []cpu.TimesStat{{User: 1, Idle: 2}}, 33.33},
		{"empty core skipped", []cpu.TimesStat{{}, {User: 10, Idle: 10}}, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CPUPercent(tc.cores)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestHostSampler(t *testing.T) {
	s, err := HostSampler{}.Sample(context.Background())
	if err != nil {
		t.Skipf("host metrics unavailable: %v", err)
	}
	assert.GreaterOrEqual(t, s.CPU, 0.0)
	assert.LessOrEqual(t, s.CPU, 100.0)
	assert.NotZero(t, s.MemTotal)
	assert.LessOrEqual(t, s.MemUsed, s.MemTotal)
}
