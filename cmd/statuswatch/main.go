package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tacticalapi/internal/config"
	"tacticalapi/internal/logger"
	"tacticalapi/internal/statusclient"
)

func main() {
	once := flag.Bool("once", false, "run a single refresh and exit non-zero if any card is in error")
	flag.Parse()

	cfg, err := config.LoadWatch()
	if err != nil {
		logger.New("info", false).Fatalw("invalid configuration", "error", err)
	}
	lg := logger.New(cfg.LogLevel, false)
	defer lg.Sync()

	backoff, err := statusclient.ParseBackoff(cfg.Backoff)
	if err != nil {
		lg.Fatalw("invalid configuration", "error", err)
	}
	policy := statusclient.Policy{
		MaxAttempts: cfg.MaxAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     backoff,
		Timeout:     cfg.Timeout,
	}
	hc := &http.Client{Timeout: cfg.Timeout + time.Second}
	client := statusclient.New(cfg.APIURL,
		statusclient.WithHTTPClient(hc),
		statusclient.WithProbes(statusclient.DefaultProbes(policy)...),
	)
	reporter := statusclient.NewReporter(cfg.APIURL, hc, lg.Named("reporter"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := statusclient.NewWatcher(client, reporter, lg,
		statusclient.WithIntervals(cfg.RefreshInterval, cfg.BadgeInterval),
		statusclient.OnRefresh(printCards),
		statusclient.OnBadge(printBadge),
	)

	if *once {
		_, cards, _ := w.Refresh(ctx)
		if statusclient.AnyError(cards) {
			_ = lg.Sync()
			os.Exit(1)
		}
		return
	}
	lg.Infow("watching", "api", cfg.APIURL, "refresh", cfg.RefreshInterval, "badge", cfg.BadgeInterval)
	_ = w.Run(ctx)
}

func printCards(s statusclient.Snapshot, cards []statusclient.Card) {
	fmt.Printf("Last updated: %s\n", s.At.Format(time.DateTime))
	for _, c := range cards {
		fmt.Println(c)
	}
}

func printBadge(r statusclient.Result) {
	state := "online"
	if !r.OK() || r.Payload.Status != "online" {
		state = "offline"
	}
	fmt.Printf("[%s] API %s\n", time.Now().Format(time.TimeOnly), state)
}
