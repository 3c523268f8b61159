// Package fetch retrieves book pages.
// HTTPFetcher is the network leg, used only on a cache miss; CachingFetcher
// sits in front of it so a rerun after an interruption reads from disk.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/bookmerge/core"
)

const (
	requestTimeout = 30 * time.Second
	userAgent      = "bookmerge/1.0 (+https://github.com/gaurav-prasanna/bookmerge)"
)

// HTTPFetcher downloads index and chapter pages from the book site.
type HTTPFetcher struct {
	client *http.Client
}

// New creates an HTTPFetcher whose requests give up after 30s.
func New() *HTTPFetcher {
	return NewWithClient(&http.Client{Timeout: requestTimeout})
}

// NewWithClient creates an HTTPFetcher that sends requests through client.
func NewWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch downloads one page. Anything but a 2xx answer is core.ErrFetch, so
// error pages never reach the cache.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", core.ErrFetch, pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", core.ErrFetch, pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: GET %s: %s", core.ErrFetch, pageURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", core.ErrFetch, pageURL, err)
	}
	return &core.FetchResult{URL: pageURL, Body: body}, nil
}
