package gemini

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newRetryTestClient(t *testing.T) *Client {
	t.Helper()
	return NewClient(Config{APIKey: "test"}, WithSleeper(func(time.Duration) {}))
}

func TestWithRetryTransientThenSuccess(t *testing.T) {
	client := newRetryTestClient(t)
	attempts := 0

	result, err := client.withRetry(context.Background(), "test", func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("network connection lost")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("withRetry returned error: %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %q", result)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryNonRetryableAbortsImmediately(t *testing.T) {
	client := newRetryTestClient(t)
	attempts := 0

	_, err := client.withRetry(context.Background(), "test", func() (string, error) {
		attempts++
		return "", errors.New("prompt was rejected")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestWithRetryExhaustedReturnsLastError(t *testing.T) {
	client := newRetryTestClient(t)
	attempts := 0

	_, err := client.withRetry(context.Background(), "test", func() (string, error) {
		attempts++
		return "", errors.New("fetch failed: attempt " + string(rune('0'+attempts)))
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if got := err.Error(); got != "fetch failed: attempt 3" {
		t.Fatalf("expected last error, got %q", got)
	}
}

func TestWithRetryAttemptOverride(t *testing.T) {
	client := NewClient(Config{APIKey: "test"},
		WithSleeper(func(time.Duration) {}),
		WithRetryAttempts(5),
	)
	attempts := 0

	_, err := client.withRetry(context.Background(), "test", func() (string, error) {
		attempts++
		return "", errors.New("xhr timeout")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"server status", &httpStatusError{StatusCode: 503, Body: "unavailable"}, true},
		{"rate limit status", &httpStatusError{StatusCode: 429, Body: "slow down"}, true},
		{"client status", &httpStatusError{StatusCode: 401, Body: "unauthorized"}, false},
		{"network keyword", errors.New("Network error during request"), true},
		{"fetch keyword", errors.New("Fetch aborted"), true},
		{"xhr keyword", errors.New("XHR failure"), true},
		{"plain 500 in message", errors.New("got 500 from upstream"), true},
		// Substring classification deliberately misfires on unrelated
		// numbers; documented behavior.
		{"unrelated 500", errors.New("processed 1500 rows"), true},
		{"other error", errors.New("invalid argument"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryable(tc.err); got != tc.want {
				t.Fatalf("isRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
