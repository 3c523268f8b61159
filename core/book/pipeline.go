package book

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/gaurav-prasanna/bookmerge/core/normalize"
	"github.com/gaurav-prasanna/bookmerge/core/output"
	"github.com/gaurav-prasanna/bookmerge/crawl"
)

// Config selects where books come from and what a run produces.
type Config struct {
	Origin     string
	Collection string
	OutputDir  string
	// SkipFailed replaces a failing chapter with a placeholder page
	// instead of aborting the book.
	SkipFailed bool
	// Markdown also writes <book>.md next to the PDF.
	Markdown bool
}

// Pipeline builds books one at a time.
type Pipeline struct {
	Config    Config
	Fetcher   core.Fetcher
	Extractor core.Extractor
	Renderer  core.Renderer
	// NewToolkit returns a toolkit whose scratch files go to scratchDir.
	NewToolkit func(scratchDir string) core.Toolkit
	Logger     *slog.Logger
	// Progress, if set, is called after each chapter.
	Progress func(done, total int, ch *core.RenderedChapter)
}

// Result describes a finished book.
type Result struct {
	BookID   string
	Output   string
	Markdown string
	Chapters []core.RenderedChapter
	// Failed counts chapters replaced by placeholders.
	Failed int
}

// Run builds the book bookID end to end.
func (p *Pipeline) Run(ctx context.Context, bookID string) (*Result, error) {
	log := p.logger().With("book", bookID)

	layout, err := output.New(p.Config.OutputDir, bookID)
	if err != nil {
		return nil, err
	}
	if err := layout.Prepare(); err != nil {
		return nil, err
	}

	// meta.txt and merged.pdf must not be shared between books.
	scratch, err := os.MkdirTemp(layout.Root, ".scratch-"+bookID+"-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)
	toolkit := p.NewToolkit(scratch)

	indexPath := crawl.IndexPath(p.Config.Collection, bookID)
	indexURL, err := crawl.IndexURL(p.Config.Origin, p.Config.Collection, bookID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrFetch, err)
	}

	links, err := crawl.DiscoverChapters(ctx, p.Fetcher, indexURL, indexPath)
	if err != nil {
		return nil, fmt.Errorf("discovering chapters of %s: %w", bookID, err)
	}
	log.Info("discovered chapters", "count", len(links))

	builder := &Builder{
		Fetcher:   p.Fetcher,
		Extractor: p.Extractor,
		Renderer:  p.Renderer,
		Toolkit:   toolkit,
		Layout:    layout,
		Origin:    p.Config.Origin,
		IndexPath: indexPath,
	}

	result := &Result{BookID: bookID}
	for i, link := range links {
		ch, err := builder.Build(ctx, link, i)
		if err != nil {
			if !p.Config.SkipFailed || ctx.Err() != nil {
				return nil, err
			}
			log.Warn("chapter failed, using placeholder", "chapter", link.Title, "url", link.URL, "error", err)
			ch, err = builder.Placeholder(link, i, err)
			if err != nil {
				return nil, err
			}
			result.Failed++
		}
		log.Debug("chapter built", "chapter", ch.Title, "level", int(ch.Level), "pages", ch.PageCount)
		result.Chapters = append(result.Chapters, *ch)
		if p.Progress != nil {
			p.Progress(i+1, len(links), ch)
		}
	}

	assembler := &Assembler{Toolkit: toolkit, ScratchDir: scratch}
	result.Output, err = assembler.Assemble(ctx, result.Chapters, layout.BookPDF())
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", bookID, err)
	}

	if p.Config.Markdown {
		if err := normalize.ExportFile(layout.BookMarkdown(), result.Chapters); err != nil {
			return nil, err
		}
		result.Markdown = layout.BookMarkdown()
	}
	return result, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
