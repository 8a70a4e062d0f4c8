package db

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type scriptedPinger struct {
	calls atomic.Int32
	errs  []error
}

func (p *scriptedPinger) Ping(context.Context) error {
	i := int(p.calls.Add(1)) - 1
	if i < len(p.errs) {
		return p.errs[i]
	}
	return nil
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFatal(&pgconn.PgError{Code: "28P01"}))
	assert.True(t, IsFatal(fmt.Errorf("ping: %w", &pgconn.PgError{Code: "3D000"})))
	assert.False(t, IsFatal(&pgconn.PgError{Code: "57P01"}))
	assert.False(t, IsFatal(errors.New("dial tcp: connection refused")))
	assert.False(t, IsFatal(nil))
}

func TestWatch_TransientThenRecovered(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	lg := zap.New(core).Sugar()
	p := &scriptedPinger{errs: []error{errors.New("connection reset"), errors.New("connection reset")}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, p, 5*time.Millisecond, time.Second, lg) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 4 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, 1, logs.FilterMessage("database connection is not ready, waiting for reconnect").Len())
	assert.Equal(t, 1, logs.FilterMessage("database reconnected").Len())
}

func TestWatch_FatalStops(t *testing.T) {
	t.Parallel()

	fatal := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	p := &scriptedPinger{errs: []error{fatal}}

	err := Watch(context.Background(), p, time.Millisecond, time.Second, zap.NewNop().Sugar())
	require.ErrorIs(t, err, fatal)
}
