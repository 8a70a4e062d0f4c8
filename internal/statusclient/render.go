package statusclient

import (
	"fmt"
	"strings"
	"time"
)

type Level string

const (
	LevelHealthy Level = "healthy"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	cpuWarning = 70
	cpuError   = 90
)

// ClassifyCPU maps a CPU percentage to a card level.
func ClassifyCPU(cpu float64) Level {
	switch {
	case cpu < cpuWarning:
		return LevelHealthy
	case cpu < cpuError:
		return LevelWarning
	default:
		return LevelError
	}
}

type Metric struct {
	Label string
	Value string
}

type Card struct {
	Name    string
	Title   string
	Level   Level
	Status  string
	Metrics []Metric
}

func (c Card) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s [%s] %s", c.Title, c.Level, c.Status)
	for _, m := range c.Metrics {
		fmt.Fprintf(&b, "  %s=%s", m.Label, m.Value)
	}
	return b.String()
}

// Render builds one card per result. It depends on nothing but the snapshot.
func Render(s Snapshot) []Card {
	cards := make([]Card, 0, len(s.Results))
	for _, r := range s.Results {
		cards = append(cards, renderResult(r))
	}
	return cards
}

// AnyError reports whether a card is in the error level.
func AnyError(cards []Card) bool {
	for _, c := range cards {
		if c.Level == LevelError {
			return true
		}
	}
	return false
}

func renderResult(r Result) Card {
	c := Card{Name: r.Probe.Name, Title: r.Probe.Title}
	if c.Title == "" {
		c.Title = r.Probe.Name
	}
	if !r.OK() {
		c.Level = LevelError
		c.Status = "Offline"
		c.Metrics = []Metric{{Label: "error", Value: r.Err.Error()}}
		return c
	}
	p := r.Payload
	switch r.Probe.Name {
	case ProbeAPI:
		c.Level, c.Status = binary(p.Status == "online", "Online", "Offline")
		c.Metrics = []Metric{
			{Label: "response", Value: fmt.Sprintf("%dms", r.Latency.Milliseconds())},
			{Label: "uptime", Value: uptime(p.Uptime)},
		}
	case ProbeDatabase:
		c.Level, c.Status = binary(p.Status == "connected", "Connected", "Disconnected")
		c.Metrics = []Metric{
			{Label: "latency", Value: optInt(p.Latency, "ms")},
			{Label: "name", Value: orDash(p.Name)},
		}
		if p.Error != "" {
			c.Metrics = append(c.Metrics, Metric{Label: "error", Value: p.Error})
		}
	case ProbeSystem:
		c.Status = "Sampled"
		c.Level = LevelError
		cpu := "-"
		if p.CPU != nil {
			c.Level = ClassifyCPU(*p.CPU)
			cpu = fmt.Sprintf("%g%%", *p.CPU)
		}
		if p.Status == "error" {
			c.Level, c.Status = LevelError, "Unavailable"
		}
		c.Metrics = []Metric{
			{Label: "cpu", Value: cpu},
			{Label: "memory", Value: orDash(p.Memory)},
			{Label: "disk", Value: orDash(p.Disk)},
		}
	case ProbeBot:
		c.Level, c.Status = binary(p.Status == "online", "Connected", "Disconnected")
		c.Metrics = []Metric{
			{Label: "servers", Value: optInt(p.Servers, "")},
			{Label: "users", Value: optInt(p.Users, "")},
			{Label: "commands", Value: optInt(p.CommandsUsed, "")},
		}
	default:
		c.Level, c.Status = LevelHealthy, orDash(p.Status)
	}
	return c
}

func binary(ok bool, up, down string) (Level, string) {
	if ok {
		return LevelHealthy, up
	}
	return LevelError, down
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func optInt[T int | int64](v *T, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d%s", *v, unit)
}

// uptime formats numeric seconds and passes preformatted strings through.
func uptime(v any) string {
	switch u := v.(type) {
	case float64:
		return FormatUptime(time.Duration(u * float64(time.Second)))
	case string:
		return orDash(u)
	default:
		return "-"
	}
}

// FormatUptime renders the two most significant units, e.g. "2d 3h" or "5m 12s".
func FormatUptime(d time.Duration) string {
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
