// Package fetch is the shared HTTP transport of the retrieval client: every
// outbound call passes through one rate limiter and is retried on transient
// failures.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ppiankov/hpextract/internal/model"
)

// ErrBodyTooLarge is returned instead of a truncated document
var ErrBodyTooLarge = errors.New("response body too large")

// fetchSleepFunc is replaced in tests to skip retry backoff
var fetchSleepFunc = time.Sleep

// Options configures a Fetcher
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	MaxBodyBytes  int64
	MaxAttempts   int
	HTTPProxy     string
	HTTPSProxy    string
	RespectRobots bool
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return "fetch: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// Fetcher performs rate-limited GET requests
type Fetcher struct {
	httpClient  *http.Client
	limiter     *Limiter
	robots      *RobotsChecker
	userAgent   string
	maxBytes    int64
	maxAttempts int
	logger      *slog.Logger
}

// NewFetcher creates a new Fetcher. Every attempt, retries included, waits on limiter.
func NewFetcher(opts Options, limiter *Limiter, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = NewLimiter(0)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 20_000_000
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient:  client,
		limiter:     limiter,
		userAgent:   opts.UserAgent,
		maxBytes:    opts.MaxBodyBytes,
		maxAttempts: opts.MaxAttempts,
		logger:      logger,
	}
	if opts.RespectRobots {
		f.robots = NewRobotsChecker(client, opts.UserAgent)
	}
	return f
}

// Get fetches rawURL, retrying transient failures. The returned body is
// sanitized. Failures wrap model.ErrRetrieval.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrRetrieval, err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s disallowed by robots.txt", model.ErrRetrieval, rawURL)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt-1) * time.Second
			f.logger.Debug("Retrying request", "url", rawURL, "attempt", attempt, "backoff", backoff, "error", lastErr)
			fetchSleepFunc(backoff)
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", model.ErrRetrieval, err)
			}
		}

		body, err := f.fetch(ctx, rawURL)
		if err == nil {
			return Sanitize(body), nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", model.ErrRetrieval, lastErr)
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, f.maxBytes)
	}
	return body, nil
}

// isRetryableFetchError reports whether err is a throttling response, a server
// error or a connection failure.
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= 500
	}

	var tErr *transportError
	return errors.As(err, &tErr)
}
