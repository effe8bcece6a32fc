package engine

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 429", &httpStatusError{429}, true},
		{"http 500", &httpStatusError{500}, true},
		{"http 502", &httpStatusError{502}, true},
		{"http 503", &httpStatusError{503}, true},
		{"http 504", &httpStatusError{504}, true},
		{"regular error", errors.New("something"), false},
		{"dns timeout", &net.DNSError{IsTimeout: true}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		if !isRetryableStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 422} {
		if isRetryableStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}

func TestWaitForLinearCapped(t *testing.T) {
	rc := RetryConfig{MaxRetries: 5, Wait: time.Second, MaxWait: 3 * time.Second}
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		3 * time.Second,
		3 * time.Second, // capped
		3 * time.Second,
	}
	prev := time.Duration(0)
	for attempt, w := range want {
		got := rc.waitFor(attempt)
		if got != w {
			t.Errorf("waitFor(%d) = %v, want %v", attempt, got, w)
		}
		if got < prev {
			t.Errorf("wait sequence decreased at attempt %d", attempt)
		}
		prev = got
	}
}

func TestRetryDoSuccess(t *testing.T) {
	rc := RetryConfig{MaxRetries: 3, Wait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	calls := 0
	got, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryDoRetryThenSuccess(t *testing.T) {
	rc := RetryConfig{MaxRetries: 2, Wait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	calls := 0
	got, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &httpStatusError{503}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryDoExhausted(t *testing.T) {
	rc := RetryConfig{MaxRetries: 2, Wait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "", &httpStatusError{502}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls (1 + 2 retries), got %d", calls)
	}
}

func TestRetryDoNonRetryableStopsImmediately(t *testing.T) {
	rc := RetryConfig{MaxRetries: 3, Wait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "", errors.New("permanent")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryDoContextCancelled(t *testing.T) {
	rc := RetryConfig{MaxRetries: 5, Wait: 50 * time.Millisecond, MaxWait: time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RetryDo(ctx, rc, func() (string, error) {
		return "", &httpStatusError{503}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetryHTTP(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rc := RetryConfig{MaxRetries: 2, Wait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	resp, err := RetryHTTP(context.Background(), rc, func() (*http.Response, error) {
		return http.Get(srv.URL)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetryHTTPNonRetryableStatusPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	rc := RetryConfig{MaxRetries: 2, Wait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	resp, err := RetryHTTP(context.Background(), rc, func() (*http.Response, error) {
		return http.Get(srv.URL)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
