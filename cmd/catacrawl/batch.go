package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"catacrawl/internal/config"
	"catacrawl/internal/dispatch"
	"catacrawl/internal/model"
	"catacrawl/internal/plan"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Crawl one deterministic slice of the catalog",
		Long: `Batch flattens the structure file into a sorted work list, takes the
slice belonging to this invocation's group index, and crawls each item
into the output directory.

Every invocation against the same structure file derives the same work
list, so running group_count processes with group indexes 0 through
group_count-1 covers the whole catalog exactly once.

The batch stops at the first failed item. Output written before the
failure stays on disk; re-running the same group index re-crawls the
whole slice.

Examples:
  # Crawl the whole catalog in one process
  catacrawl batch --structure_file structure.json --group_index 0 --group_count 1 --output_dir out

  # Split the catalog across four processes
  catacrawl batch --structure_file structure.json --group_index 2 --group_count 4 --output_dir out`,
		RunE: runBatchCmd,
	}

	cmd.Flags().String("structure_file", "", "Structure JSON file to flatten (required)")
	cmd.Flags().String("topic_range", config.DefaultTopicRange,
		"Topic range in start-end form, or * for all topics")
	cmd.Flags().Int("group_index", 0, "Zero-based index of this invocation's batch")
	cmd.Flags().Int("group_count", 1, "Total number of batches the work list is split into")
	cmd.Flags().String("output_dir", "", "Root directory for crawled output (required)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of workers running at once; 1 keeps strict batch order")
	cmd.Flags().StringSlice("worker", nil,
		"Override the worker command (argv prefix; --url and --out are appended)")
	_ = cmd.MarkFlagRequired("structure_file")
	_ = cmd.MarkFlagRequired("group_index")
	_ = cmd.MarkFlagRequired("group_count")
	_ = cmd.MarkFlagRequired("output_dir")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, _ []string) error {
	params, err := buildBatchParams(cmd)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("batch parameter error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	topics, err := model.LoadTopics(params.StructureFile)
	if err != nil {
		return fmt.Errorf("invalid structure file %s: %w", params.StructureFile, err)
	}

	items, err := plan.Flatten(topics)
	if err != nil {
		return err
	}

	topicRange, err := plan.ParseTopicRange(params.TopicRange)
	if err != nil {
		return err
	}
	if !topicRange.All {
		logger.Warn("topic range is parsed but not applied; the batch covers all topics",
			"topic_range", topicRange.String(),
		)
	}

	batch, err := plan.Partition(items, params.GroupIndex, params.GroupCount)
	if err != nil {
		return err
	}

	logger.Info("batch resolved",
		"structure_file", params.StructureFile,
		"topic_range", topicRange.String(),
		"total_items", len(items),
		"batch_items", len(batch),
		"group_index", params.GroupIndex,
		"group_count", params.GroupCount,
	)

	worker, err := buildWorker(params, getVerboseFlag(cmd))
	if err != nil {
		return err
	}

	d := dispatch.NewDispatcher(worker,
		dispatch.WithConcurrency(params.Concurrency),
		dispatch.WithLogger(logger),
	)
	if err := d.Dispatch(ctx, batch, params.OutputDir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "batch %d/%d complete: %d of %d items crawled\n",
		params.GroupIndex, params.GroupCount, len(batch), len(items))
	return nil
}

// buildBatchParams creates BatchParams from cobra command flags.
func buildBatchParams(cmd *cobra.Command) (*config.BatchParams, error) {
	params := &config.BatchParams{}

	var err error
	params.StructureFile, err = cmd.Flags().GetString("structure_file")
	if err != nil {
		return nil, err
	}
	params.TopicRange, err = cmd.Flags().GetString("topic_range")
	if err != nil {
		return nil, err
	}
	params.GroupIndex, err = cmd.Flags().GetInt("group_index")
	if err != nil {
		return nil, err
	}
	params.GroupCount, err = cmd.Flags().GetInt("group_count")
	if err != nil {
		return nil, err
	}
	params.OutputDir, err = cmd.Flags().GetString("output_dir")
	if err != nil {
		return nil, err
	}
	params.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}
	params.WorkerCommand, err = cmd.Flags().GetStringSlice("worker")
	if err != nil {
		return nil, err
	}

	return params, nil
}

// buildWorker creates the worker for a batch run. Without an explicit
// worker command, the batch re-invokes this binary's crawl command so
// a crash on one page cannot take down the whole run.
func buildWorker(params *config.BatchParams, verbose bool) (dispatch.Worker, error) {
	command := params.WorkerCommand
	if len(command) == 0 {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate own executable: %w", err)
		}
		command = []string{exe, "crawl"}
		if verbose {
			command = append(command, "--verbose")
		}
	}

	return dispatch.NewSubprocessWorker(command,
		dispatch.WithOutput(os.Stdout, os.Stderr),
	), nil
}
