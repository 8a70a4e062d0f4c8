package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/bot/status", "200"))
	RecordRequest("GET", "/bot/status", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/bot/status", "200"))
	assert.Equal(t, before+1, after)
}

func TestSetDatabaseUp(t *testing.T) {
	SetDatabaseUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(DatabaseUp))
	SetDatabaseUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(DatabaseUp))
}
