// Package client implements the roster-fetch HTTP collaborator: an
// external service the day driver calls for a day's stlat snapshot and
// schedule roster. This is deliberately plain net/http rather than a
// richer HTTP client library, with a fixed retry count and delay rather
// than an exponential-backoff library.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/baseball-sim/sim-core/internal/simerr"
)

// RosterClient fetches a day's stlat snapshot from a remote roster
// service, retrying transient failures and falling back to the last
// successful response for that day when retries are exhausted.
type RosterClient struct {
	BaseURL    string
	HTTPClient *http.Client

	mu    sync.Mutex
	cache map[string][]byte
}

// New builds a RosterClient against baseURL with a conservative default
// timeout; pass a pre-configured *http.Client to override.
func New(baseURL string) *RosterClient {
	return &RosterClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		cache:      make(map[string][]byte),
	}
}

// FetchDaySnapshot retrieves the per-day stlat snapshot JSON for the given
// season/day, retrying up to simerr.MaxRetries times with simerr.RetryDelay
// spacing on TransientError, then falling back to the last cached response
// for that day, and finally raising a ConfigError if neither succeeds.
func (c *RosterClient) FetchDaySnapshot(ctx context.Context, season, day int) ([]byte, error) {
	key := fmt.Sprintf("%d-%d", season, day)

	var lastErr error
	for attempt := 0; attempt <= simerr.MaxRetries; attempt++ {
		body, err := c.doFetch(ctx, season, day)
		if err == nil {
			c.mu.Lock()
			c.cache[key] = body
			c.mu.Unlock()
			return body, nil
		}
		lastErr = err
		if attempt == simerr.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(simerr.RetryDelay * time.Millisecond):
		}
	}

	c.mu.Lock()
	cached, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}
	return nil, simerr.WrapConfigError(lastErr,
		"roster fetch for season %d day %d failed after %d retries and no cached snapshot is available",
		season, day, simerr.MaxRetries)
}

func (c *RosterClient) doFetch(ctx context.Context, season, day int) ([]byte, error) {
	url := fmt.Sprintf("%s/seasons/%d/days/%d/roster", c.BaseURL, season, day)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, simerr.WrapTransientError(err, "build roster request")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, simerr.WrapTransientError(err, "roster fetch request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, simerr.NewTransientError("roster fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, simerr.WrapTransientError(err, "read roster response body")
	}
	return body, nil
}
