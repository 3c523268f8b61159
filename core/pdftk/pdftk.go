// Package pdftk implements core.Toolkit on top of the pdftk command.
//
// Page counts come from `dump_data`, documents are joined with `cat`, and
// the outline is written by appending bookmark stanzas to a dump and feeding
// it back through `update_info`. Scratch files live in ScratchDir, which
// must be private to one book build.
package pdftk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/bookmerge/core"
)

// DefaultBinary is the pdftk executable looked up on PATH.
const DefaultBinary = "pdftk"

const metaFileName = "meta.txt"

// Toolkit drives pdftk through a core.Runner.
type Toolkit struct {
	Runner     core.Runner
	Binary     string
	ScratchDir string
}

// New creates a Toolkit writing its scratch files to scratchDir.
func New(runner core.Runner, binary, scratchDir string) *Toolkit {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Toolkit{Runner: runner, Binary: binary, ScratchDir: scratchDir}
}

// MetaPath is the scratch metadata dump.
func (t *Toolkit) MetaPath() string {
	return filepath.Join(t.ScratchDir, metaFileName)
}

// PageCount dumps the metadata of pdfPath and reads NumberOfPages from it.
func (t *Toolkit) PageCount(ctx context.Context, pdfPath string) (int, error) {
	if err := t.dumpData(ctx, pdfPath); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrRender, err)
	}
	f, err := os.Open(t.MetaPath())
	if err != nil {
		return 0, fmt.Errorf("%w: opening metadata: %w", core.ErrRender, err)
	}
	defer f.Close()

	n, err := ParsePageCount(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", core.ErrRender, pdfPath, err)
	}
	return n, nil
}

// Merge concatenates pdfPaths in order into outPath.
func (t *Toolkit) Merge(ctx context.Context, pdfPaths []string, outPath string) error {
	if len(pdfPaths) == 0 {
		return fmt.Errorf("%w: no documents to merge", core.ErrMerge)
	}
	args := append([]string{}, pdfPaths...)
	args = append(args, "cat", "output", outPath)
	if err := t.Runner.Run(ctx, t.Binary, args...); err != nil {
		return fmt.Errorf("%w: %w", core.ErrMerge, err)
	}
	return nil
}

// WriteBookmarks copies pdfPath to outPath with entries as its outline.
// The document's existing metadata is kept.
func (t *Toolkit) WriteBookmarks(ctx context.Context, pdfPath string, entries []core.BookmarkEntry, outPath string) error {
	if err := t.dumpData(ctx, pdfPath); err != nil {
		return fmt.Errorf("%w: %w", core.ErrMerge, err)
	}
	if err := appendStanzas(t.MetaPath(), entries); err != nil {
		return fmt.Errorf("%w: writing bookmarks: %w", core.ErrMerge, err)
	}
	if err := t.Runner.Run(ctx, t.Binary, pdfPath, "update_info", t.MetaPath(), "output", outPath); err != nil {
		return fmt.Errorf("%w: %w", core.ErrMerge, err)
	}
	return nil
}

func (t *Toolkit) dumpData(ctx context.Context, pdfPath string) error {
	return t.Runner.Run(ctx, t.Binary, pdfPath, "dump_data", "output", t.MetaPath())
}

func appendStanzas(path string, entries []core.BookmarkEntry) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := WriteStanzas(w, entries); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ParsePageCount scans a dump_data listing for the NumberOfPages line.
func ParsePageCount(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || key != "NumberOfPages" {
			continue
		}
		// Only the field after the key counts, mirroring the colon split.
		value, _, _ = strings.Cut(value, ":")
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("parsing NumberOfPages %q: %w", value, err)
		}
		return n, nil
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading metadata: %w", err)
	}
	return 0, fmt.Errorf("no NumberOfPages in metadata")
}

// WriteStanzas writes one BookmarkBegin block per entry.
func WriteStanzas(w io.Writer, entries []core.BookmarkEntry) error {
	for _, e := range entries {
		_, err := fmt.Fprintf(w, "BookmarkBegin\nBookmarkTitle: %s\nBookmarkLevel: %d\nBookmarkPageNumber: %d\n",
			encodeTitle(e.Title), e.Level, e.PageStart)
		if err != nil {
			return err
		}
	}
	return nil
}

// encodeTitle writes non-ASCII runes as numeric entities, the form
// update_info expects.
func encodeTitle(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < 0x80:
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "&#%d;", r)
		}
	}
	return b.String()
}
