// Package statusclient polls the API's health endpoints, renders status
// cards from the results and reports probe failures back to the API.
package statusclient

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

type Backoff string

const (
	BackoffFixed       Backoff = "fixed"
	BackoffExponential Backoff = "exponential"
)

// Policy is the poll-and-retry rule applied to one probe.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     Backoff
	// Timeout bounds each attempt, not the whole call.
	Timeout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: BackoffFixed, Timeout: 5 * time.Second}
}

func ParseBackoff(s string) (Backoff, error) {
	switch b := Backoff(s); b {
	case BackoffFixed, BackoffExponential:
		return b, nil
	case "":
		return BackoffFixed, nil
	default:
		return "", fmt.Errorf("unknown backoff %q", s)
	}
}

func (p Policy) backoff() retry.Backoff {
	delay := p.Delay
	if delay <= 0 {
		delay = time.Millisecond
	}
	var b retry.Backoff
	if p.Backoff == BackoffExponential {
		b = retry.NewExponential(delay)
	} else {
		b = retry.NewConstant(delay)
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return retry.WithMaxRetries(uint64(attempts-1), b)
}

// Do runs fn until it succeeds or the attempts run out, returning the last
// error. Cancelling ctx stops retrying immediately.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		err := fn(attemptCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		return retry.RetryableError(err)
	})
}
