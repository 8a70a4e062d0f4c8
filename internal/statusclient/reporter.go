package statusclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type logEntry struct {
	Level     string  `json:"level"`
	Message   string  `json:"message"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
}

// Reporter sends client-side failures to the API's log endpoint.
type Reporter struct {
	url  string
	http *http.Client
	lg   *zap.SugaredLogger
	now  func() time.Time
}

func NewReporter(baseURL string, hc *http.Client, lg *zap.SugaredLogger) *Reporter {
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Reporter{url: strings.TrimRight(baseURL, "/") + "/bot/log", http: hc, lg: lg, now: time.Now}
}

// Report is best effort: delivery failures are logged at debug and dropped.
func (r *Reporter) Report(ctx context.Context, level, msg string, cause error) {
	if err := r.send(ctx, level, msg, cause); err != nil {
		r.lg.Debugw("failed to report client log", "message", msg, "error", err)
	}
}

func (r *Reporter) send(ctx context.Context, level, msg string, cause error) error {
	entry := logEntry{Level: level, Message: msg, Timestamp: r.now().UTC().Format(time.RFC3339Nano)}
	if cause != nil {
		s := cause.Error()
		entry.Error = &s
	}
	body, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("log endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// ReportFailures sends one error entry per failed probe in s.
func (r *Reporter) ReportFailures(ctx context.Context, s Snapshot) {
	for _, res := range s.Results {
		if res.OK() {
			continue
		}
		msg := res.Probe.Failure
		if msg == "" {
			msg = res.Probe.Name + " check failed"
		}
		r.Report(ctx, "error", msg, res.Err)
	}
}
