package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseVars() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://tactical:pw@localhost:5432/tactical?sslmode=disable",
		"JWT_SECRET":   "test-secret",
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(baseVars())
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "tactical", cfg.DatabaseName)
	assert.False(t, cfg.Development())
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, 1, cfg.DB.MinIdleConns)
	assert.Equal(t, 30*time.Second, cfg.DB.WatchInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.TrustProxy)
}

func TestParse_Overrides(t *testing.T) {
	t.Parallel()

	vars := baseVars()
	vars["APP_ENV"] = "development"
	vars["PORT"] = "8081"
	vars["RATE_LIMIT_REQUESTS"] = "5"
	vars["RATE_LIMIT_WINDOW"] = "1m"
	vars["CORS_ALLOWED_ORIGINS"] = "https://a.example,https://b.example"

	cfg, err := Parse(vars)
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestParse_DatabaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{name: "missing", url: "", want: ErrDatabaseURLMissing},
		{name: "mongo scheme", url: "mongodb://localhost:27017/tactical", want: ErrDatabaseURLMalformed},
		{name: "bad port", url: "postgres://localhost:notaport/tactical", want: ErrDatabaseURLMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := baseVars()
			vars["DATABASE_URL"] = tt.url
			_, err := Parse(vars)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_MissingSecret(t *testing.T) {
	t.Parallel()

	vars := baseVars()
	delete(vars, "JWT_SECRET")
	_, err := Parse(vars)
	require.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestParse_BadPoolBounds(t *testing.T) {
	t.Parallel()

	vars := baseVars()
	vars["DB_MIN_IDLE_CONNS"] = "20"
	_, err := Parse(vars)
	require.Error(t, err)
}

func TestParseWatch(t *testing.T) {
	t.Parallel()

	cfg, err := ParseWatch(map[string]string{"STATUS_API_URL": "http://api.local:3000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://api.local:3000", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, time.Minute, cfg.BadgeInterval)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	_, err = ParseWatch(map[string]string{"STATUS_BACKOFF": "jitter"})
	require.Error(t, err)
	_, err = ParseWatch(map[string]string{"STATUS_MAX_ATTEMPTS": "0"})
	require.Error(t, err)
}
