package statusclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

// Probe is one endpoint the client checks on every refresh.
type Probe struct {
	Name  string
	Title string
	Path  string
	// Failure is the message reported when the probe fails.
	Failure string
	Policy  Policy
}

const (
	ProbeAPI      = "api"
	ProbeDatabase = "database"
	ProbeSystem   = "system"
	ProbeBot      = "bot"
)

func DefaultProbes(p Policy) []Probe {
	return []Probe{
		{Name: ProbeAPI, Title: "API", Path: "/bot/health", Failure: "API health check failed", Policy: p},
		{Name: ProbeDatabase, Title: "Database", Path: "/bot/health/database", Failure: "Database health check failed", Policy: p},
		{Name: ProbeSystem, Title: "System", Path: "/bot/health/system", Failure: "System health check failed", Policy: p},
		{Name: ProbeBot, Title: "Bot", Path: "/bot/status", Failure: "Bot status check failed", Policy: p},
	}
}

// Payload is the union of the fields the probed endpoints return.
type Payload struct {
	Status       string   `json:"status"`
	Name         string   `json:"name"`
	Latency      *int64   `json:"latency"`
	CPU          *float64 `json:"cpu"`
	Memory       string   `json:"memory"`
	Disk         string   `json:"disk"`
	Uptime       any      `json:"uptime"`
	Servers      *int     `json:"servers"`
	Users        *int     `json:"users"`
	CommandsUsed *int     `json:"commands_used"`
	Error        string   `json:"error"`
}

type Result struct {
	Probe   Probe
	Latency time.Duration
	Payload Payload
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// Snapshot holds one Result per probe, in probe order.
type Snapshot struct {
	At      time.Time
	Results []Result
}

func (s Snapshot) Result(name string) (Result, bool) {
	for _, r := range s.Results {
		if r.Probe.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP error! status: %d", e.Code) }

type Client struct {
	baseURL string
	http    *http.Client
	probes  []Probe
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithProbes(probes ...Probe) Option {
	return func(c *Client) { c.probes = probes }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		probes:  DefaultProbes(DefaultPolicy()),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Probes() []Probe { return c.probes }

// Refresh checks every probe concurrently. A failing probe only marks its
// own Result.
func (c *Client) Refresh(ctx context.Context) Snapshot {
	snap := Snapshot{At: c.now(), Results: make([]Result, len(c.probes))}
	var g errgroup.Group
	for i, p := range c.probes {
		i, p := i, p
		g.Go(func() error {
			snap.Results[i] = c.Check(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return snap
}

// Check runs one probe under its policy. Latency covers the successful attempt only.
func (c *Client) Check(ctx context.Context, p Probe) Result {
	res := Result{Probe: p}
	res.Err = p.Policy.Do(ctx, func(ctx context.Context) error {
		start := c.now()
		payload, err := c.get(ctx, p.Path)
		if err != nil {
			return err
		}
		res.Latency = c.now().Sub(start)
		res.Payload = payload
		return nil
	})
	return res
}

func (c *Client) get(ctx context.Context, path string) (Payload, error) {
	var out Payload
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &StatusError{Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
