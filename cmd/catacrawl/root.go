// Package main provides the entry point for the catacrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for catacrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catacrawl",
		Short: "Product catalog crawler and batch dispatcher",
		Long: `catacrawl archives vendor product catalogs into a folder tree of
documents, images, and metadata.

The usual workflow is:

  catacrawl structure    discover the catalog's topic tree into a structure file
  catacrawl batch        crawl one deterministic slice of that tree
  catacrawl crawl        crawl a single page (batch runs this per work item)

Multiple batch processes with different group indexes can run against
the same structure file; every process derives the same work list, so
the slices never overlap.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewStructureCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
