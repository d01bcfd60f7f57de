package gemini

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1000 * time.Millisecond
)

// withRetry runs fn up to the configured attempt count, doubling the
// delay after each retryable failure. Non-retryable errors abort
// immediately; an exhausted run returns the last error observed.
func (c *Client) withRetry(ctx context.Context, op string, fn func() (string, error)) (string, error) {
	delay := c.retryBaseDelay
	var lastErr error

	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return "", err
		}
		if attempt == c.retryAttempts {
			break
		}
		log.Printf("%s: attempt %d failed, retrying in %s: %v", op, attempt, delay, err)
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}

	return "", lastErr
}

// isRetryable classifies transient failures: 5xx or 429 statuses, and
// message text mentioning network-level trouble. The substring match
// can misfire on unrelated errors whose message happens to contain
// "500".
func isRetryable(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
	}

	msg := err.Error()
	if strings.Contains(msg, "500") {
		return true
	}
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "xhr") ||
		strings.Contains(lower, "fetch") ||
		strings.Contains(lower, "network")
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
