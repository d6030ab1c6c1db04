package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/hpextract/internal/model"
)

func testFetcher(opts Options) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "test-agent"
	}
	return NewFetcher(opts, NewLimiter(0), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func noSleep(t *testing.T) {
	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = origSleep })
}

func TestFetcher_Get_Success(t *testing.T) {
	var userAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/xml")
		_, _ = fmt.Fprint(w, "<eSearchResult/>")
	}))
	defer server.Close()

	body, err := testFetcher(Options{MaxAttempts: 3}).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != "<eSearchResult/>" {
		t.Errorf("Unexpected body: %s", body)
	}
	if ua := userAgent.Load(); ua != "test-agent" {
		t.Errorf("Expected User-Agent test-agent, got %v", ua)
	}
}

func TestFetcher_Get_TransientThenSuccess(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "<ok/>")
	}))
	defer server.Close()

	body, err := testFetcher(Options{MaxAttempts: 3}).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if string(body) != "<ok/>" {
		t.Errorf("Unexpected body: %s", body)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetcher_Get_PermanentFailure(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testFetcher(Options{MaxAttempts: 3}).Get(context.Background(), server.URL)
	if !errors.Is(err, model.ErrRetrieval) {
		t.Fatalf("Expected ErrRetrieval, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Errorf("Expected StatusError 404, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt for 404, got %d", attempts.Load())
	}
}

func TestFetcher_Get_AllRetriesExhausted(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testFetcher(Options{MaxAttempts: 3}).Get(context.Background(), server.URL)
	if !errors.Is(err, model.ErrRetrieval) {
		t.Errorf("Expected ErrRetrieval, got %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetcher_Get_BodyAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123")
	}))
	defer server.Close()

	body, err := testFetcher(Options{MaxBodyBytes: 4}).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != "0123" {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestFetcher_Get_BodyTooLarge(t *testing.T) {
	noSleep(t)
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = fmt.Fprint(w, `<collection><document><id>1</id></document><document><id>2</id></document></collection>`)
	}))
	defer server.Close()

	body, err := testFetcher(Options{MaxBodyBytes: 40, MaxAttempts: 3}).Get(context.Background(), server.URL)
	if body != nil {
		t.Errorf("Expected no body, got truncated %q", body)
	}
	if !errors.Is(err, model.ErrRetrieval) || !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("Expected ErrRetrieval and ErrBodyTooLarge, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("Oversized body should not be retried, got %d attempts", attempts.Load())
	}
}

func TestFetcher_Get_SanitizesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<t>farmer\x0b\x00 lung\n</t>")
	}))
	defer server.Close()

	body, err := testFetcher(Options{}).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(body) != "<t>farmer lung\n</t>" {
		t.Errorf("Unexpected body: %q", body)
	}
}

func TestFetcher_Get_RobotsDisallowed(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		hits.Add(1)
		_, _ = fmt.Fprint(w, "<ok/>")
	}))
	defer server.Close()

	f := testFetcher(Options{RespectRobots: true})

	_, err := f.Get(context.Background(), server.URL+"/private/doc")
	if !errors.Is(err, model.ErrRetrieval) || !strings.Contains(err.Error(), "robots.txt") {
		t.Errorf("Expected robots.txt refusal, got %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("Disallowed path was fetched")
	}

	if _, err := f.Get(context.Background(), server.URL+"/public/doc"); err != nil {
		t.Errorf("Expected allowed path to succeed, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 document fetch, got %d", hits.Load())
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"503", &StatusError{Code: 503, Status: "503 Service Unavailable"}, true},
		{"500", &StatusError{Code: 500, Status: "500 Internal Server Error"}, true},
		{"429", &StatusError{Code: 429, Status: "429 Too Many Requests"}, true},
		{"404", &StatusError{Code: 404, Status: "404 Not Found"}, false},
		{"403", &StatusError{Code: 403, Status: "403 Forbidden"}, false},
		{"connection refused", &transportError{err: errors.New("connection refused")}, true},
		{"canceled", &transportError{err: context.Canceled}, false},
		{"read body", fmt.Errorf("read body: %w", io.ErrUnexpectedEOF), false},
		{"too large", fmt.Errorf("%w: limit is 4 bytes", ErrBodyTooLarge), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableFetchError(tt.err); got != tt.retryable {
				t.Errorf("isRetryableFetchError(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}
