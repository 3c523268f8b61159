// Package extract implements the Extractor interface.
// It isolates a chapter from a book page by:
//  1. Passing every <script> and <link> element through unchanged
//  2. Copying the siblings of the book header marker, minus the chrome
//  3. Stopping at the copyright footer
//  4. Appending a script that removes widgets injected at runtime
package extract

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/bookmerge/core"
	"golang.org/x/net/html"
)

// InjectScript runs inside the rendered chapter before it is printed.
//
//go:embed inject.js
var InjectScript string

// markerID identifies the content-root marker element.
const markerID = "book_header"

// chromeIDs are siblings of the marker that belong to site navigation.
var chromeIDs = map[string]bool{
	"book_switch": true,
	markerID:      true,
}

// footerHeading is the heading text that starts the copyright footer.
const footerHeading = "Copyright"

var (
	scriptSel = cascadia.MustCompile("script")
	linkSel   = cascadia.MustCompile("link")
	markerSel = cascadia.MustCompile("div#" + markerID)
	h4Sel     = cascadia.MustCompile("h4")
)

// ChapterExtractor extracts the chapter region of a book page.
type ChapterExtractor struct{}

// New creates a ChapterExtractor.
func New() *ChapterExtractor {
	return &ChapterExtractor{}
}

// Extract parses page and writes its chapter content to w.
func (e *ChapterExtractor) Extract(page []byte, w io.Writer) error {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return fmt.Errorf("%w: parsing HTML: %w", core.ErrParse, err)
	}
	return WriteContent(doc, w)
}

// WriteContent writes the chapter content of an already parsed document.
// It returns core.ErrParse when the document has no content marker.
func WriteContent(doc *html.Node, w io.Writer) error {
	// Nothing is written unless the marker exists.
	marker := cascadia.Query(doc, markerSel)
	if marker == nil || marker.Parent == nil {
		return fmt.Errorf("%w: no div#%s marker in page", core.ErrParse, markerID)
	}

	for _, sel := range []cascadia.Matcher{scriptSel, linkSel} {
		for _, n := range cascadia.QueryAll(doc, sel) {
			if err := html.Render(w, n); err != nil {
				return fmt.Errorf("writing %s: %w", n.Data, err)
			}
		}
	}

	for c := marker.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && chromeIDs[attr(c, "id")] {
			continue
		}
		if isFooter(c) {
			break
		}
		if err := html.Render(w, c); err != nil {
			return fmt.Errorf("writing content: %w", err)
		}
	}

	if _, err := io.WriteString(w, "<script>"+InjectScript+"</script>"); err != nil {
		return fmt.Errorf("writing inject script: %w", err)
	}
	return nil
}

// isFooter reports whether the first <h4> inside n reads "Copyright".
func isFooter(n *html.Node) bool {
	h4 := cascadia.Query(n, h4Sel)
	return h4 != nil && strings.TrimSpace(text(h4)) == footerHeading
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
