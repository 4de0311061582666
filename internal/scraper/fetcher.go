package scraper

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"stock-assistant/internal/logger"
)

// FetchResult is a successful response payload. A nil *FetchResult from
// Fetch means every retry attempt failed; callers never see a partially
// retried state.
type FetchResult struct {
	Status int
	Body   string
}

// Fetcher issues GET requests with fixed browser headers, the over18
// cookie PTT requires, and bounded retry with jittered delay.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxRetries int
	retryDelay time.Duration

	// sleep and jitter are injectable so retry timing is testable
	sleep  func(time.Duration)
	jitter func() time.Duration
}

// FetcherConfig configures the resilient fetcher
type FetcherConfig struct {
	UserAgent  string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// NewFetcher creates a fetcher owning a single shared http.Client. The
// client is reused across all fetches of one scraper instance and is only
// safe under sequential use.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		sleep:      time.Sleep,
		jitter: func() time.Duration {
			return time.Duration((1 + 2*rand.Float64()) * float64(time.Second))
		},
	}
}

// Fetch attempts the GET up to maxRetries times and returns nil once all
// attempts are exhausted. Each failed attempt is logged at warning level
// and followed by retryDelay plus uniform(1,3)s of jitter, except after
// the final attempt.
func (f *Fetcher) Fetch(ctx context.Context, url string) *FetchResult {
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		result, err := f.tryOnce(ctx, url)
		if err == nil {
			return result
		}

		logger.Warn(ctx, "Request failed",
			"url", url,
			"attempt", fmt.Sprintf("%d/%d", attempt, f.maxRetries),
			"error", err)

		if attempt < f.maxRetries {
			f.sleep(f.retryDelay + f.jitter())
		}
	}
	return nil
}

func (f *Fetcher) tryOnce(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.AddCookie(&http.Cookie{Name: "over18", Value: "1"})

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{Status: resp.StatusCode, Body: string(body)}, nil
}
