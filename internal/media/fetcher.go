// internal/media/fetcher.go

// Package media provides the byte-fetch capability used to stage images and
// videos for OCR. The engine core never talks HTTP directly; it depends on
// the Fetcher interface so tests can inject fakes.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher downloads the bytes behind a URL. Implementations must honor the
// context for cancellation and apply their own timeout policy.
type Fetcher interface {
	Fetch(ctx context.Context, rawurl string) ([]byte, error)
}

// HTTPFetcher fetches media over HTTP with a per-fetcher rate limit. CDN
// hosts throttle aggressive clients, so downloads are paced rather than
// retried.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBytes  int64
}

// HTTPFetcherOptions configures an HTTPFetcher.
type HTTPFetcherOptions struct {
	Timeout       time.Duration
	RatePerSecond float64
	UserAgent     string
	MaxBytes      int64
}

// NewHTTPFetcher creates an HTTP fetcher. Zero options get sane defaults:
// 30s timeout, 2 fetches/second, 64MB response cap.
func NewHTTPFetcher(opts HTTPFetcherOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 2
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 64 << 20
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBytes,
	}
}

// Fetch downloads rawurl, waiting on the rate limiter first.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawurl string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid media URL: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("media read failed: %w", err)
	}
	return data, nil
}
