package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tacticalapi/internal/account"
	"tacticalapi/internal/auth"
	"tacticalapi/internal/botstats"
	"tacticalapi/internal/config"
	"tacticalapi/internal/db"
	"tacticalapi/internal/health"
	"tacticalapi/internal/httpserver"
	"tacticalapi/internal/logger"
	"tacticalapi/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger level comes from config, so fall back to production defaults here.
		lg := logger.New("info", false)
		lg.Fatalw("invalid configuration", "error", err)
	}
	lg := logger.New(cfg.LogLevel, cfg.Development())
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL, cfg.DB, cfg.DatabaseName)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	defer conn.Close()
	if err := conn.Migrate(); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	lg.Infow("connected to database", "name", conn.Name())

	issuer, err := auth.NewIssuer(cfg.JWT.Secret, auth.WithTTL(cfg.JWT.TTL))
	if err != nil {
		lg.Fatalw("jwt issuer", "error", err)
	}

	accounts := account.NewService(store.NewUsers(conn.Gorm()), issuer, lg.Named("account"))
	seedDefaultAdmin(ctx, accounts, cfg.Admin, lg)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpserver.NewRouter(&httpserver.Server{
			Accounts:    accounts,
			BotStats:    botstats.NewService(store.NewBotStats(conn.Gorm())),
			Health:      health.NewAggregator(conn, health.HostSampler{}, health.WithTimeout(cfg.DB.PingTimeout)),
			Verifier:    issuer,
			Limiter:     httpserver.NewRateLimiter(cfg.RateLimit),
			CORSOrigins: cfg.CORSAllowedOrigins,
			TrustProxy:  cfg.TrustProxy,
			Development: cfg.Development(),
			Logger:      lg.Named("http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	fatal := make(chan error, 2)
	go func() {
		if err := db.Watch(ctx, conn, cfg.DB.WatchInterval, cfg.DB.PingTimeout, lg.Named("db")); err != nil {
			fatal <- err
		}
	}()
	go func() {
		lg.Infow("listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		lg.Infow("shutting down")
	case runErr = <-fatal:
		lg.Errorw("fatal error, shutting down", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorw("graceful shutdown failed", "error", err)
	}
	cancel()
	if runErr != nil {
		conn.Close()
		_ = lg.Sync()
		os.Exit(1)
	}
}

func seedDefaultAdmin(ctx context.Context, accounts *account.Service, seed config.AdminSeed, lg *zap.SugaredLogger) {
	if _, err := accounts.EnsureAdmin(ctx, seed); err != nil {
		lg.Warnw("seeding default admin failed", "error", err)
	}
}
