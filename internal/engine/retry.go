package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// RetryConfig controls the bounded linear retry used for caption and
// track downloads. Generation calls use their own exponential schedule
// in generate.go.
type RetryConfig struct {
	MaxRetries int           // retries after the first attempt
	Wait       time.Duration // base delay; retry n waits n*Wait
	MaxWait    time.Duration // delay ceiling
}

// DefaultDownloadRetry is the schedule for caption track downloads.
var DefaultDownloadRetry = RetryConfig{
	MaxRetries: 2,
	Wait:       time.Second,
	MaxWait:    5 * time.Second,
}

// waitFor returns the linear delay before retry number attempt+1,
// capped at MaxWait. The sequence is non-decreasing.
func (rc RetryConfig) waitFor(attempt int) time.Duration {
	wait := rc.Wait * time.Duration(attempt+1)
	if rc.MaxWait > 0 && wait > rc.MaxWait {
		wait = rc.MaxWait
	}
	return wait
}

// RetryDo runs fn up to MaxRetries+1 times with linear backoff.
// Retries only transient transport errors; returns immediately on
// non-retryable errors or context cancellation.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}

		if attempt < rc.MaxRetries {
			wait := rc.waitFor(attempt)
			slog.Debug("retrying download", slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

// RetryHTTP executes an HTTP request function with retry logic.
// The function builds and sends the request; RetryHTTP handles
// response status checks.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &httpStatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
}

// httpStatusError wraps a retryable HTTP status code.
type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.StatusCode)
}

// isRetryable returns true for transient errors worth retrying.
func isRetryable(err error) bool {
	// HTTP status errors, already filtered by isRetryableStatus
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return true
	}

	// Connection errors (dial failures, connection refused, etc.)
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	// DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	// Timeout errors (net.Error includes OpError, so check after OpError)
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// isRetryableStatus returns true for HTTP status codes worth retrying.
func isRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
