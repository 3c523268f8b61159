package core

import "errors"

// Error kinds returned by the pipeline stages. Stages wrap the underlying
// cause, so callers match with errors.Is.
var (
	// ErrFetch covers network failures and cache I/O failures.
	ErrFetch = errors.New("fetch failed")

	// ErrParse covers malformed pages and pages missing the content marker.
	ErrParse = errors.New("parse failed")

	// ErrRender covers the render engine and page-count extraction.
	ErrRender = errors.New("render failed")

	// ErrMerge covers merging chapter documents and writing bookmarks.
	ErrMerge = errors.New("merge failed")
)
