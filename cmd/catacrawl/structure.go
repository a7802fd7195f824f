package main

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/spf13/cobra"

	"catacrawl/internal/config"
	"catacrawl/internal/model"
	"catacrawl/internal/structure"
)

// NewStructureCmd creates the structure command.
func NewStructureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Discover the catalog's topic tree into a structure file",
		Long: `Structure renders the catalog landing page, collects its topic
sections and product cards, and writes the resulting topic tree as a
structure JSON document.

The structure file is the input of the batch command. Generate it once
and share it between all batch processes so every process derives the
same work list.

Examples:
  # Discover with plain HTTP rendering
  catacrawl structure --output structure.json

  # Render with a headless browser (needed for script-built catalogs)
  catacrawl structure --browser --output structure.json

  # Use a remote browser pool
  catacrawl structure --remote-browser ws://pool.internal:3000 --browser-token secret`,
		RunE: runStructureCmd,
	}

	addCrawlFlags(cmd)
	cmd.Flags().StringP("output", "o", "structure.json",
		"Path of the structure file to write")

	// Landing pages settle faster than product pages.
	wait := cmd.Flags().Lookup("render-wait")
	_ = wait.Value.Set(config.DefaultStructureWait.String())
	wait.DefValue = config.DefaultStructureWait.String()

	return cmd
}

// runStructureCmd executes the structure command.
func runStructureCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	renderer, err := buildRenderer(cfg)
	if err != nil {
		return err
	}

	catalog, err := url.Parse(cfg.CatalogURL)
	if err != nil {
		return fmt.Errorf("invalid catalog URL %s: %w", cfg.CatalogURL, err)
	}

	d := structure.NewDiscoverer(
		renderer,
		cfg.Profiles.GetSelectors(catalog.Host),
		cfg.CatalogURL,
		structure.WithLogger(logger),
	)
	topics, err := d.Discover(ctx)
	if err != nil {
		return err
	}

	if err := structure.WriteFile(output, topics); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d topics (%d nodes) to %s\n",
		len(topics), model.CountTopics(topics), output)
	return nil
}
