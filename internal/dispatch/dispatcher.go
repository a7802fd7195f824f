package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"catacrawl/internal/model"
)

// Dispatcher hands a batch of work items to a Worker.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled
// worker pool because errgroup handles the concurrency limit and the
// first-error cancellation correctly. At the default limit of 1 the
// items run strictly in batch order.
type Dispatcher struct {
	// worker processes individual items.
	worker Worker

	// concurrency is the maximum number of items processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithConcurrency sets the maximum number of concurrent workers.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a Dispatcher using the given worker.
func NewDispatcher(worker Worker, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		worker:      worker,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch processes the batch items in order. Each item's output goes
// to outputDir joined with the item's relative path. The first worker
// failure stops the batch; items already dispatched are allowed to
// finish, items not yet started are skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, items []model.WorkItem, outputDir string) error {
	d.logger.Info("dispatching batch",
		"total_items", len(items),
		"concurrency", d.concurrency,
		"output_dir", outputDir,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			d.logger.Info("processing item",
				"index", i+1,
				"total", len(items),
				"path", item.RelativePath,
			)

			dest := filepath.Join(outputDir, filepath.FromSlash(item.RelativePath))
			if err := d.worker.Crawl(ctx, item.URL, dest); err != nil {
				return fmt.Errorf("item %s: %w", item.RelativePath, err)
			}
			return nil
		})
	}

	err := g.Wait()

	d.logger.Info("batch finished",
		"total_items", len(items),
		"elapsed", time.Since(startTime),
		"failed", err != nil,
	)
	return err
}
