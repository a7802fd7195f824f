package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"catacrawl/internal/crawler"
	"catacrawl/internal/database"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a single catalog page into an output directory",
		Long: `Crawl processes one catalog page: it renders the page, extracts its
content, downloads datasheets, images, and block diagrams, and writes
the overview document and metadata into the output directory.

The batch command runs crawl once per work item; running it by hand is
useful for re-crawling a single product.

Examples:
  # Crawl one product page
  catacrawl crawl --url https://www.raspberrypi.com/products/raspberry-pi-5/ --out out/computers/raspberry-pi-5

  # Render with a headless browser
  catacrawl crawl --browser --url <page-url> --out <dir>`,
		RunE: runCrawlCmd,
	}

	addCrawlFlags(cmd)
	cmd.Flags().String("url", "", "Page URL to crawl (required)")
	cmd.Flags().String("out", "", "Output directory for the page's content (required)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	pageURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	outputDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	opts := []crawler.Option{crawler.WithLogger(logger)}
	if !cfg.NoDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		opts = append(opts, crawler.WithDatabase(db))
	}

	record, err := crawler.New(cfg, opts...).Crawl(ctx, pageURL, outputDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "crawled %s (%s): %d documents, %d images, %d diagrams\n",
		record.URL, record.Level, record.DocumentCount, record.ImageCount, record.DiagramCount)
	return nil
}
