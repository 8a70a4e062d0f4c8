// Package metrics registers the process's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tacticalapi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tacticalapi_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tacticalapi_http_requests_in_flight",
			Help: "Requests currently being served",
		},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tacticalapi_rate_limited_total",
			Help: "Requests rejected by the per-address rate limit",
		},
	)

	DatabaseUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tacticalapi_database_up",
			Help: "1 when the last database ping succeeded",
		},
	)

	ClientLogs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tacticalapi_client_logs_total",
			Help: "Log entries reported by dashboard clients",
		},
		[]string{"level"},
	)

	BotStatSnapshots = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tacticalapi_bot_stat_snapshots_total",
			Help: "Bot statistics snapshots recorded",
		},
	)
)

// RecordRequest records one served request. route is the matched pattern,
// never the raw path.
func RecordRequest(method, route, statusCode string, d time.Duration) {
	RequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func SetDatabaseUp(up bool) {
	if up {
		DatabaseUp.Set(1)
		return
	}
	DatabaseUp.Set(0)
}
