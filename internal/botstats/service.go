// Package botstats aggregates recorded bot statistics snapshots.
package botstats

import (
	"context"
	"errors"
	"math"
	"time"

	"tacticalapi/internal/models"
	"tacticalapi/internal/store"
)

const (
	DefaultAverageDays = 7
	DefaultTopLimit    = 10

	day = 24 * time.Hour
)

type Growth struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

type Service struct {
	stats store.BotStatStore
	now   func() time.Time
}

func NewService(stats store.BotStatStore) *Service {
	return &Service{stats: stats, now: time.Now}
}

func (s *Service) Record(ctx context.Context, st *models.BotStat) error {
	if st.Timestamp.IsZero() {
		st.Timestamp = s.now().UTC()
	}
	return s.stats.Record(ctx, st)
}

// Growth is the server count change between the latest snapshot and the last
// snapshot taken at least one day, seven days and thirty days ago. A window
// without history reports 0.
func (s *Service) Growth(ctx context.Context) (Growth, error) {
	cur, err := s.stats.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return Growth{}, nil
	}
	if err != nil {
		return Growth{}, err
	}

	now := s.now()
	delta := func(ago time.Duration) (int, error) {
		past, err := s.stats.LatestBefore(ctx, now.Add(-ago))
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return cur.Servers - past.Servers, nil
	}

	var g Growth
	if g.Daily, err = delta(day); err != nil {
		return Growth{}, err
	}
	if g.Weekly, err = delta(7 * day); err != nil {
		return Growth{}, err
	}
	if g.Monthly, err = delta(30 * day); err != nil {
		return Growth{}, err
	}
	return g, nil
}

// AverageCommands sums commands_used over the last days and divides by days,
// rounded to the nearest integer.
func (s *Service) AverageCommands(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		days = DefaultAverageDays
	}
	stats, err := s.stats.Since(ctx, s.now().Add(-time.Duration(days)*day))
	if err != nil {
		return 0, err
	}
	if len(stats) == 0 {
		return 0, nil
	}
	total := 0
	for _, st := range stats {
		total += st.CommandsUsed
	}
	return int(math.Round(float64(total) / float64(days))), nil
}

// MostUsed returns the latest snapshot's top commands.
func (s *Service) MostUsed(ctx context.Context, limit int) (models.CommandUsageList, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	cur, err := s.stats.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return models.CommandUsageList{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cur.TopCommands.Top(limit), nil
}

func (s *Service) Period(ctx context.Context, start, end time.Time) ([]models.BotStat, error) {
	return s.stats.Between(ctx, start, end)
}

// Derived is the per-server breakdown returned after a snapshot is recorded.
type Derived struct {
	ServerGrowth         Growth  `json:"server_growth"`
	AvgCommandsPerServer float64 `json:"avg_commands_per_server"`
	AvgUsersPerServer    float64 `json:"avg_users_per_server"`
}

func (s *Service) Derive(ctx context.Context, st *models.BotStat) (Derived, error) {
	g, err := s.Growth(ctx)
	if err != nil {
		return Derived{}, err
	}
	servers := st.Servers
	if servers == 0 {
		servers = 1
	}
	return Derived{
		ServerGrowth:         g,
		AvgCommandsPerServer: float64(st.CommandsUsed) / float64(servers),
		AvgUsersPerServer:    float64(st.Users) / float64(servers),
	}, nil
}
