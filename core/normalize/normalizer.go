// Package normalize converts extracted chapter HTML into Markdown.
// It backs the optional Markdown companion of a merged book.
package normalize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gaurav-prasanna/bookmerge/core"
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts an HTML fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}

// Export writes chapters in order as one Markdown document. Each chapter
// gets a heading at its bookmark level followed by its converted page.
func (n *MarkdownNormalizer) Export(w io.Writer, chapters []core.RenderedChapter) error {
	for i, ch := range chapters {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		heading := strings.Repeat("#", int(ch.Level))
		if _, err := fmt.Fprintf(w, "%s %s\n\n", heading, ch.Title); err != nil {
			return err
		}

		if ch.Placeholder {
			if _, err := io.WriteString(w, "_This chapter could not be built._\n"); err != nil {
				return err
			}
			continue
		}

		page, err := os.ReadFile(ch.HTMLPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", ch.HTMLPath, err)
		}
		md, err := n.Normalize(string(page))
		if err != nil {
			return fmt.Errorf("chapter %s: %w", ch.SanitizedName, err)
		}
		if _, err := io.WriteString(w, strings.TrimSpace(md)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ExportFile writes the Markdown export of chapters to path.
func ExportFile(path string, chapters []core.RenderedChapter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := New().Export(w, chapters); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
