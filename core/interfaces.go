// Package core defines the pipeline types and interfaces for bookmerge.
// Each stage of the pipeline sits behind a narrow interface so the
// orchestration can be tested against fakes.
package core

import (
	"context"
	"io"
)

// FetchResult holds the raw response body for a URL.
type FetchResult struct {
	URL       string
	Body      []byte
	FromCache bool
}

// Level is the bookmark nesting level of a chapter.
type Level int

const (
	// LevelTop is a chapter directly under the book index.
	LevelTop Level = 1
	// LevelSub is a section nested one path segment deeper.
	LevelSub Level = 2
)

// ChapterLink is one chapter entry discovered on a book's index page.
type ChapterLink struct {
	URL   string
	Title string
	Level Level
}

// RenderedChapter is a chapter after its standalone PDF has been produced
// and measured.
type RenderedChapter struct {
	Ordinal       int
	SanitizedName string
	HTMLPath      string
	PDFPath       string
	Level         Level
	PageCount     int
	Title         string
	// Placeholder is set when the chapter failed and was replaced by a
	// one-page stand-in.
	Placeholder bool
}

// BookmarkEntry is one table-of-contents entry in the merged document.
type BookmarkEntry struct {
	Level     Level
	PageStart int
	Title     string
}

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Extractor writes the chapter content region of a page to w.
type Extractor interface {
	Extract(page []byte, w io.Writer) error
}

// Renderer turns a standalone HTML file into a paginated PDF.
type Renderer interface {
	Render(ctx context.Context, htmlPath, pdfPath string) error
}

// Toolkit reads and rewrites PDF documents.
type Toolkit interface {
	// PageCount returns the number of pages of the document.
	PageCount(ctx context.Context, pdfPath string) (int, error)
	// Merge concatenates the documents in order into outPath.
	Merge(ctx context.Context, pdfPaths []string, outPath string) error
	// WriteBookmarks writes pdfPath to outPath with the given outline.
	WriteBookmarks(ctx context.Context, pdfPath string, entries []BookmarkEntry, outPath string) error
}

// Runner starts an external program and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}
