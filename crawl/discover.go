// Package crawl provides chapter discovery for a single book.
// It reads a book's index page and lists the chapter links on it, keeping
// crawling logic separate from the build pipeline. Only the one index page
// is visited; there is no link-graph traversal.
package crawl

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/bookmerge/core"
)

// DiscoverChapters fetches the index page at indexURL and returns every
// anchor whose href starts with indexPath, in document order. Duplicate
// links are kept. A page without matching links yields an empty result.
func DiscoverChapters(ctx context.Context, fetcher core.Fetcher, indexURL, indexPath string) ([]core.ChapterLink, error) {
	result, err := fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetching index %s: %w", indexURL, err)
	}
	return ExtractChapterLinks(result.Body, indexPath)
}

// ExtractChapterLinks lists the chapter anchors of an index page.
func ExtractChapterLinks(page []byte, indexPath string) ([]core.ChapterLink, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing index page: %w", core.ErrParse, err)
	}

	links := []core.ChapterLink{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !HasBookPrefix(href, indexPath) {
			return
		}
		links = append(links, core.ChapterLink{
			URL:   href,
			Title: cleanTitle(s.Text()),
			Level: LevelOf(href, indexPath),
		})
	})
	return links, nil
}

// cleanTitle collapses whitespace so the title fits on one bookmark line.
func cleanTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
