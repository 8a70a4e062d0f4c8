package httpserver

import (
	"sync"
	"time"

	"github.com/go-chi/httprate"
)

// fixedWindowCounter is an httprate.LimitCounter that never carries counts
// across windows: each address gets the full budget at every aligned window start.
type fixedWindowCounter struct {
	mu     sync.Mutex
	window time.Time
	counts map[string]int
}

var _ httprate.LimitCounter = (*fixedWindowCounter)(nil)

func newFixedWindowCounter() *fixedWindowCounter {
	return &fixedWindowCounter{counts: make(map[string]int)}
}

func (c *fixedWindowCounter) Config(int, time.Duration) {}

func (c *fixedWindowCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *fixedWindowCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roll(currentWindow)
	c.counts[key] += amount
	return nil
}

// Get reports the previous window as empty so the limiter's sliding
// estimate reduces to the current window's count.
func (c *fixedWindowCounter) Get(key string, currentWindow, _ time.Time) (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roll(currentWindow)
	return c.counts[key], 0, nil
}

// roll drops every count when a new window starts. Caller holds mu.
func (c *fixedWindowCounter) roll(window time.Time) {
	if !window.After(c.window) {
		return
	}
	c.window = window
	clear(c.counts)
}
