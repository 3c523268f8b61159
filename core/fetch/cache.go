package fetch

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gaurav-prasanna/bookmerge/core"
)

// DefaultDelay is the pause before every network request on a cache miss.
const DefaultDelay = time.Second

const cacheFileName = "index.html"

// CachingFetcher serves pages from an on-disk cache keyed by URL path and
// falls through to Upstream on a miss. Entries are written once and never
// revalidated or evicted.
type CachingFetcher struct {
	Dir      string
	Upstream core.Fetcher
	Delay    time.Duration
	Logger   *slog.Logger
}

// NewCaching creates a CachingFetcher rooted at dir with the default delay.
func NewCaching(dir string, upstream core.Fetcher, logger *slog.Logger) *CachingFetcher {
	return &CachingFetcher{
		Dir:      dir,
		Upstream: upstream,
		Delay:    DefaultDelay,
		Logger:   logger,
	}
}

// CachePath returns the cache file that holds the body of rawURL.
func (c *CachingFetcher) CachePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: parsing URL %q: %w", core.ErrFetch, rawURL, err)
	}
	// Cleaning against a rooted path keeps ".." segments inside Dir.
	p := path.Clean("/" + u.Path)
	return filepath.Join(c.Dir, filepath.FromSlash(p), cacheFileName), nil
}

// Fetch returns the cached body of rawURL, downloading it first if absent.
func (c *CachingFetcher) Fetch(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	fpath, err := c.CachePath(rawURL)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating cache directory: %w", core.ErrFetch, err)
	}

	body, err := os.ReadFile(fpath)
	switch {
	case err == nil:
		c.logger().Debug("cache hit", "url", rawURL)
		return &core.FetchResult{URL: rawURL, Body: body, FromCache: true}, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: reading cache file %s: %w", core.ErrFetch, fpath, err)
	}

	c.logger().Info("fetching", "url", rawURL)
	if err := sleep(ctx, c.Delay); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFetch, err)
	}

	result, err := c.Upstream.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if err := writeOnce(fpath, bytes.NewReader(result.Body)); err != nil {
		return nil, fmt.Errorf("%w: writing cache file %s: %w", core.ErrFetch, fpath, err)
	}

	return &core.FetchResult{URL: rawURL, Body: result.Body}, nil
}

func (c *CachingFetcher) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// writeOnce creates fpath exclusively and fills it from r; an existing file
// is an error. A failed write removes the partial file, since presence alone
// marks a cache hit.
func writeOnce(fpath string, r io.Reader) error {
	f, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	_, err = io.Copy(w, r)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(fpath)
		return err
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
