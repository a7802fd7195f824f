package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ErrNoWorkerCommand is returned when a subprocess worker is created
// without a command to run.
var ErrNoWorkerCommand = errors.New("dispatch: no worker command configured")

// Worker processes one work item: crawl pageURL into outputDir.
type Worker interface {
	Crawl(ctx context.Context, pageURL, outputDir string) error
}

// WorkerError reports a failed worker invocation.
type WorkerError struct {
	// PageURL is the item the worker was processing.
	PageURL string

	// ExitCode is the subprocess exit code, or -1 when the worker did
	// not run to completion.
	ExitCode int

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *WorkerError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("worker failed on %s (exit code %d): %v", e.PageURL, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("worker failed on %s: %v", e.PageURL, e.Err)
}

// Unwrap returns the underlying error.
func (e *WorkerError) Unwrap() error {
	return e.Err
}

// SubprocessWorker runs each crawl as a child process. The command is
// an argv prefix; the page URL and output directory are appended as
// --url and --out flags.
type SubprocessWorker struct {
	command []string
	stdout  io.Writer
	stderr  io.Writer
}

// SubprocessOption configures a SubprocessWorker.
type SubprocessOption func(*SubprocessWorker)

// WithOutput directs the child process's stdout and stderr. Nil values
// discard the corresponding stream.
func WithOutput(stdout, stderr io.Writer) SubprocessOption {
	return func(w *SubprocessWorker) {
		w.stdout = stdout
		w.stderr = stderr
	}
}

// NewSubprocessWorker creates a worker that runs the given command for
// each item, e.g. []string{"/path/to/catacrawl", "crawl"}.
func NewSubprocessWorker(command []string, opts ...SubprocessOption) *SubprocessWorker {
	w := &SubprocessWorker{command: command}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Crawl runs the configured command against one page.
func (w *SubprocessWorker) Crawl(ctx context.Context, pageURL, outputDir string) error {
	if len(w.command) == 0 {
		return ErrNoWorkerCommand
	}

	args := make([]string, 0, len(w.command)+3)
	args = append(args, w.command[1:]...)
	args = append(args, "--url", pageURL, "--out", outputDir)

	cmd := exec.CommandContext(ctx, w.command[0], args...)
	cmd.Stdout = w.stdout
	cmd.Stderr = w.stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &WorkerError{PageURL: pageURL, ExitCode: exitCode, Err: err}
	}
	return nil
}
