// Package cmd — build command.
// This is the main command that runs the pipeline for every book:
// discover → fetch → extract → render → measure → merge → bookmark.
//
// Books are built strictly one after another; the first error aborts the run.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav-prasanna/bookmerge/core"
	"github.com/gaurav-prasanna/bookmerge/core/book"
	"github.com/gaurav-prasanna/bookmerge/core/extract"
	"github.com/gaurav-prasanna/bookmerge/core/fetch"
	"github.com/gaurav-prasanna/bookmerge/core/pdftk"
	"github.com/gaurav-prasanna/bookmerge/core/proc"
	"github.com/gaurav-prasanna/bookmerge/core/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// defaultBooks are built when --books is not given.
var defaultBooks = []string{"gpugems", "gpugems2", "gpugems3"}

// Flag variables.
var (
	flagBooks       []string
	flagOrigin      string
	flagCollection  string
	flagOutputDir   string
	flagCacheDir    string
	flagDelay       time.Duration
	flagToolTimeout time.Duration
	flagChromium    string
	flagPdftk       string
	flagSkipFailed  bool
	flagMarkdown    bool
	flagVerbose     bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build one bookmarked PDF per book",
	Long: `Build discovers the chapters of every book from its index page at
<origin>/<collection>/<book>/, renders each chapter, and merges them into
<output_dir>/<book>.pdf. Fetched pages are cached under --cache_dir and are
never downloaded twice.

Examples:
  bookmerge build
  bookmerge build --books gpugems2 --output_dir ./out
  bookmerge build --skip_failed --markdown`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	bindFlags(buildCmd.Flags())
}

func bindFlags(fs *pflag.FlagSet) {
	// Source flags.
	fs.StringSliceVar(&flagBooks, "books", defaultBooks, "Book identifiers to build, in order")
	fs.StringVar(&flagOrigin, "origin", "https://developer.nvidia.com", "Site origin serving the books")
	fs.StringVar(&flagCollection, "collection", "gpugems", "Path segment between origin and book id")

	// Filesystem flags.
	fs.StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	fs.StringVar(&flagCacheDir, "cache_dir", "cache", "Directory of the page cache")

	// Fetching and tools.
	fs.DurationVar(&flagDelay, "delay", fetch.DefaultDelay, "Pause before every network request")
	fs.DurationVar(&flagToolTimeout, "tool_timeout", proc.DefaultTimeout, "Time limit for each chromium/pdftk invocation")
	fs.StringVar(&flagChromium, "chromium", render.DefaultChromium, "Chromium executable (default: ROD_BROWSER_BIN, PATH, or a managed download)")
	fs.StringVar(&flagPdftk, "pdftk", pdftk.DefaultBinary, "pdftk executable")

	// Behaviour.
	fs.BoolVar(&flagSkipFailed, "skip_failed", false, "Replace failing chapters with a placeholder page instead of aborting")
	fs.BoolVar(&flagMarkdown, "markdown", false, "Also write <book>.md")
	fs.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cacheDir := flagCacheDir
	if !filepath.IsAbs(cacheDir) && flagOutputDir != "" {
		cacheDir = filepath.Join(flagOutputDir, cacheDir)
	}
	fetcher := fetch.NewCaching(cacheDir, fetch.New(), logger)
	fetcher.Delay = flagDelay

	runner := proc.New(flagToolTimeout, logger)
	chromium := render.NewChromium(flagChromium, flagToolTimeout)
	defer chromium.Close()
	out := cmd.OutOrStdout()

	pipeline := &book.Pipeline{
		Config: book.Config{
			Origin:     flagOrigin,
			Collection: flagCollection,
			OutputDir:  flagOutputDir,
			SkipFailed: flagSkipFailed,
			Markdown:   flagMarkdown,
		},
		Fetcher:   fetcher,
		Extractor: extract.New(),
		Renderer:  chromium,
		NewToolkit: func(scratchDir string) core.Toolkit {
			return pdftk.New(runner, flagPdftk, scratchDir)
		},
		Logger: logger,
		Progress: func(done, total int, ch *core.RenderedChapter) {
			indent := ""
			if ch.Level == core.LevelSub {
				indent = "    "
			}
			mark := "✓"
			if ch.Placeholder {
				mark = "✗"
			}
			fmt.Fprintf(out, "[%d/%d] %s%s %s (%d pages)\n", done, total, indent, mark, ch.Title, ch.PageCount)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, id := range flagBooks {
		fmt.Fprintf(out, "Building %s...\n", id)
		res, err := pipeline.Run(ctx, id)
		if err != nil {
			return fmt.Errorf("building %s: %w", id, err)
		}
		fmt.Fprintf(out, "✓ Written: %s\n", res.Output)
		if res.Markdown != "" {
			fmt.Fprintf(out, "✓ Written: %s\n", res.Markdown)
		}
		if res.Failed > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d/%d chapters of %s replaced by placeholders\n", res.Failed, len(res.Chapters), id)
		}
	}
	fmt.Fprintln(out, "Done")
	return nil
}

// validateFlags checks the book list and the origin URL.
func validateFlags() error {
	if len(flagBooks) == 0 {
		return fmt.Errorf("at least one book is required")
	}
	seen := map[string]bool{}
	for _, id := range flagBooks {
		if id == "" || strings.Contains(id, "/") || strings.Contains(id, "..") {
			return fmt.Errorf("invalid book id %q", id)
		}
		// Outputs are named after the book; two runs would overwrite each other.
		if seen[id] {
			return fmt.Errorf("book %s listed twice", id)
		}
		seen[id] = true
	}

	parsed, err := url.Parse(flagOrigin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid origin: %s (must include scheme, e.g. https://example.com)", flagOrigin)
	}
	if flagToolTimeout <= 0 {
		return fmt.Errorf("--tool_timeout must be positive")
	}
	if flagDelay < 0 {
		return fmt.Errorf("--delay must not be negative")
	}
	return nil
}
