// Package output owns the on-disk layout of a book build.
// Per-chapter files are named by ordinal and sanitized title so that
// directory listings sort in chapter order:
//
//	<root>/htmls/<book>/<NN>_<title>.html
//	<root>/pdfs/<book>/<NN>_<title>.pdf
//	<root>/<book>.pdf
package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout resolves the paths produced while building one book.
type Layout struct {
	Root   string
	BookID string
}

// New creates a Layout for bookID under root.
// If root is empty, it defaults to the current working directory.
func New(root, bookID string) (*Layout, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}
	return &Layout{Root: root, BookID: bookID}, nil
}

// Prepare creates the per-book HTML and PDF directories.
func (l *Layout) Prepare() error {
	for _, dir := range []string{l.HTMLDir(), l.PDFDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// HTMLDir holds the standalone chapter pages.
func (l *Layout) HTMLDir() string {
	return filepath.Join(l.Root, "htmls", l.BookID)
}

// PDFDir holds the rendered chapter documents.
func (l *Layout) PDFDir() string {
	return filepath.Join(l.Root, "pdfs", l.BookID)
}

// ChapterHTML returns the HTML path for a sanitized chapter name.
func (l *Layout) ChapterHTML(name string) string {
	return filepath.Join(l.HTMLDir(), name+".html")
}

// ChapterPDF returns the PDF path for a sanitized chapter name.
func (l *Layout) ChapterPDF(name string) string {
	return filepath.Join(l.PDFDir(), name+".pdf")
}

// BookPDF is the final merged and bookmarked document.
func (l *Layout) BookPDF() string {
	return filepath.Join(l.Root, l.BookID+".pdf")
}

// BookMarkdown is the optional Markdown companion of the book.
func (l *Layout) BookMarkdown() string {
	return filepath.Join(l.Root, l.BookID+".md")
}

// SanitizedName prefixes the sanitized title with the zero-padded ordinal.
// Example: 3, "Part I: Water" → 03_Part_I__Water
func SanitizedName(ordinal int, title string) string {
	return fmt.Sprintf("%02d_%s", ordinal, sanitize(title))
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	b := make([]rune, 0, len(s))
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b = append(b, ch)
		} else {
			b = append(b, '_')
		}
	}
	return string(b)
}
