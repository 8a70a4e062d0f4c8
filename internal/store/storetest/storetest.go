// Package storetest provides in-memory stores for tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tacticalapi/internal/models"
	"tacticalapi/internal/store"
)

type Users struct {
	mu    sync.RWMutex
	byID  map[string]models.User
	order []string

	CreateErr error
	FindErr   error
	UpdateErr error
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]models.User)}
}

var _ store.UserStore = (*Users)(nil)

func (m *Users) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if m.conflicts(u) {
		return store.ErrDuplicateKey
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byID[u.ID] = *u
	m.order = append(m.order, u.ID)
	return nil
}

// conflicts mirrors the unique indexes on users. Caller holds mu.
func (m *Users) conflicts(u *models.User) bool {
	for id, other := range m.byID {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || other.Email == u.Email {
			return true
		}
		if u.DiscordID != nil && other.DiscordID != nil && *u.DiscordID == *other.DiscordID {
			return true
		}
		if u.APIKey != nil && other.APIKey != nil && *u.APIKey == *other.APIKey {
			return true
		}
	}
	return false
}

func (m *Users) find(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, id := range m.order {
		if u := m.byID[id]; match(u) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.ID == id })
}

func (m *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *Users) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m *Users) FindByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.DiscordID != nil && *u.DiscordID == discordID })
}

func (m *Users) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	email = models.NormalizeEmail(email)
	_, err := m.find(func(u models.User) bool { return u.Username == username || u.Email == email })
	switch err {
	case nil:
		return true, nil
	case store.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (m *Users) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	prev, ok := m.byID[u.ID]
	if !ok {
		return store.ErrNotFound
	}
	if m.conflicts(u) {
		return store.ErrDuplicateKey
	}
	u.CreatedAt = prev.CreatedAt
	u.UpdatedAt = time.Now()
	m.byID[u.ID] = *u
	return nil
}

func (m *Users) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Users) List(_ context.Context, offset, limit int) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.User, 0, limit)
	for i := offset; i < len(m.order) && len(out) < limit; i++ {
		out = append(out, m.byID[m.order[i]])
	}
	return out, nil
}

func (m *Users) Count(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.byID)), nil
}

// Len is a test helper.
func (m *Users) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

type BotStats struct {
	mu    sync.RWMutex
	stats []models.BotStat
	next  uint

	RecordErr error
	ReadErr   error
}

func NewBotStats(seed ...models.BotStat) *BotStats {
	b := &BotStats{}
	for i := range seed {
		_ = b.Record(context.Background(), &seed[i])
	}
	return b
}

var _ store.BotStatStore = (*BotStats)(nil)

func (b *BotStats) Record(_ context.Context, s *models.BotStat) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.RecordErr != nil {
		return b.RecordErr
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	b.next++
	s.ID = b.next
	b.stats = append(b.stats, *s)
	sort.SliceStable(b.stats, func(i, j int) bool { return b.stats[i].Timestamp.Before(b.stats[j].Timestamp) })
	return nil
}

func (b *BotStats) Latest(ctx context.Context) (*models.BotStat, error) {
	return b.LatestBefore(ctx, time.Unix(1<<40, 0))
}

func (b *BotStats) LatestBefore(_ context.Context, t time.Time) (*models.BotStat, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.ReadErr != nil {
		return nil, b.ReadErr
	}
	for i := len(b.stats) - 1; i >= 0; i-- {
		if !b.stats[i].Timestamp.After(t) {
			s := b.stats[i]
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (b *BotStats) Since(ctx context.Context, t time.Time) ([]models.BotStat, error) {
	return b.Between(ctx, t, time.Unix(1<<40, 0))
}

func (b *BotStats) Between(_ context.Context, start, end time.Time) ([]models.BotStat, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.ReadErr != nil {
		return nil, b.ReadErr
	}
	var out []models.BotStat
	for _, s := range b.stats {
		if !s.Timestamp.Before(start) && !s.Timestamp.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}
