// Package cmd holds the bookmerge command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookmerge",
	Short: "Merge a chapter-per-page web book into one bookmarked PDF",
	Long: `bookmerge reads the index page of each book, keeps every chapter page in
an on-disk cache, prints each chapter with headless Chromium, and joins the
chapters with pdftk into <book>.pdf. Sections nested under a chapter become
second-level bookmarks.

Run "bookmerge build" to build the default GPU Gems books.`,
	SilenceUsage: true,
}

// Execute runs bookmerge and exits non-zero on the first failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bookmerge: %v\n", err)
		os.Exit(1)
	}
}
