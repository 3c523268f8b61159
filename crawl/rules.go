// Package crawl — chapter URL rules.
// Provides helpers to match, resolve, and classify chapter links relative
// to a book's index path.
package crawl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gaurav-prasanna/bookmerge/core"
)

// IndexPath returns the canonical index path of a book, e.g. /gpugems/gpugems2/.
func IndexPath(collection, bookID string) string {
	p := "/" + strings.Trim(collection, "/") + "/" + strings.Trim(bookID, "/") + "/"
	return strings.Replace(p, "//", "/", 1)
}

// IndexURL joins origin and a book's index path.
func IndexURL(origin, collection, bookID string) (string, error) {
	return ResolveChapterURL(origin, IndexPath(collection, bookID))
}

// HasBookPrefix reports whether href points inside the book at indexPath.
func HasBookPrefix(href, indexPath string) bool {
	return strings.HasPrefix(href, indexPath)
}

// LevelOf classifies a chapter link: anything with a further path
// separator past the index path is a sub-section.
func LevelOf(href, indexPath string) core.Level {
	rest, ok := strings.CutPrefix(href, indexPath)
	if ok && strings.Contains(rest, "/") {
		return core.LevelSub
	}
	return core.LevelTop
}

// ResolveChapterURL resolves href against origin.
func ResolveChapterURL(origin, href string) (string, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parsing origin %q: %w", origin, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid origin %q (must include scheme and host)", origin)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", href, err)
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String(), nil
}
