// Package fetch retrieves raw page text for the scraper. Two
// implementations exist behind the same contract: a plain HTTP client and
// a scripted headless browser for pages that render data client-side.
package fetch

import (
	"context"
	"fmt"
	"time"
)

// Fetcher retrieves the raw text of the page at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Error is returned for any retrieval failure: network errors, timeouts,
// non-success statuses and browser failures. Status is zero when no HTTP
// response was received.
type Error struct {
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type retryFetcher struct {
	inner    Fetcher
	attempts int
	delay    time.Duration
}

// WithRetry wraps a fetcher with a fixed number of attempts separated by
// a fixed delay. The last attempt's error is surfaced.
func WithRetry(inner Fetcher, attempts int, delay time.Duration) Fetcher {
	if attempts < 1 {
		attempts = 1
	}
	return retryFetcher{inner: inner, attempts: attempts, delay: delay}
}

func (f retryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return "", &Error{URL: url, Err: ctx.Err()}
			}
		}

		content, err := f.inner.Fetch(ctx, url)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}
	return "", lastErr
}
