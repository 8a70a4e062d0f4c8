package statusclient

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultRefreshInterval = 30 * time.Second
	DefaultBadgeInterval   = 60 * time.Second
)

// Watcher refreshes all probes on one ticker and the API badge on another.
// At most one refresh runs at a time; a tick that finds one in flight is skipped.
type Watcher struct {
	client   *Client
	reporter *Reporter
	lg       *zap.SugaredLogger

	refreshEvery time.Duration
	badgeEvery   time.Duration

	onRefresh func(Snapshot, []Card)
	onBadge   func(Result)

	inFlight      atomic.Bool
	badgeInFlight atomic.Bool
	wg            sync.WaitGroup
}

type WatcherOption func(*Watcher)

func WithIntervals(refresh, badge time.Duration) WatcherOption {
	return func(w *Watcher) {
		if refresh > 0 {
			w.refreshEvery = refresh
		}
		if badge > 0 {
			w.badgeEvery = badge
		}
	}
}

func OnRefresh(fn func(Snapshot, []Card)) WatcherOption {
	return func(w *Watcher) { w.onRefresh = fn }
}

func OnBadge(fn func(Result)) WatcherOption {
	return func(w *Watcher) { w.onBadge = fn }
}

// NewWatcher builds a Watcher. reporter may be nil.
func NewWatcher(c *Client, reporter *Reporter, lg *zap.SugaredLogger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		client:       c,
		reporter:     reporter,
		lg:           lg,
		refreshEvery: DefaultRefreshInterval,
		badgeEvery:   DefaultBadgeInterval,
		onRefresh:    func(Snapshot, []Card) {},
		onBadge:      func(Result) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run refreshes and checks the badge immediately, then on every tick until
// ctx ends. Both run off the ticker goroutine; Run waits for them before returning.
func (w *Watcher) Run(ctx context.Context) error {
	refresh := time.NewTicker(w.refreshEvery)
	defer refresh.Stop()
	badge := time.NewTicker(w.badgeEvery)
	defer badge.Stop()
	defer w.wg.Wait()

	w.trigger(ctx)
	w.triggerBadge(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refresh.C:
			w.trigger(ctx)
		case <-badge.C:
			w.triggerBadge(ctx)
		}
	}
}

func (w *Watcher) triggerBadge(ctx context.Context) {
	if !w.badgeInFlight.CompareAndSwap(false, true) {
		w.lg.Debugw("badge check still running, skipping tick")
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.badgeInFlight.Store(false)
		w.Badge(ctx)
	}()
}

func (w *Watcher) trigger(ctx context.Context) {
	if !w.inFlight.CompareAndSwap(false, true) {
		w.lg.Debugw("refresh still running, skipping tick")
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.inFlight.Store(false)
		w.refresh(ctx)
	}()
}

// Refresh runs one refresh now. It returns false without refreshing when
// another refresh is in flight.
func (w *Watcher) Refresh(ctx context.Context) (Snapshot, []Card, bool) {
	if !w.inFlight.CompareAndSwap(false, true) {
		return Snapshot{}, nil, false
	}
	defer w.inFlight.Store(false)
	snap, cards := w.refresh(ctx)
	return snap, cards, true
}

func (w *Watcher) refresh(ctx context.Context) (Snapshot, []Card) {
	snap := w.client.Refresh(ctx)
	cards := Render(snap)
	for _, r := range snap.Results {
		if !r.OK() {
			w.lg.Warnw("probe failed", "probe", r.Probe.Name, "error", r.Err)
		}
	}
	if w.reporter != nil && ctx.Err() == nil {
		w.reporter.ReportFailures(ctx, snap)
	}
	w.onRefresh(snap, cards)
	return snap, cards
}

// Badge checks the API probe alone.
func (w *Watcher) Badge(ctx context.Context) Result {
	p := DefaultProbes(DefaultPolicy())[0]
	for _, candidate := range w.client.Probes() {
		if candidate.Name == ProbeAPI {
			p = candidate
			break
		}
	}
	res := w.client.Check(ctx, p)
	w.onBadge(res)
	return res
}
