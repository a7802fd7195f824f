package config

import "errors"

// Configuration validation errors. Package-level sentinels so callers
// can match them with errors.Is while the messages stay human-readable.
var (
	// ErrNoStructureFile is returned when a batch run has no structure
	// document path.
	ErrNoStructureFile = errors.New("no structure file specified: provide --structure_file")

	// ErrNoOutputDir is returned when a batch run has no output directory.
	ErrNoOutputDir = errors.New("no output directory specified: provide --output_dir")

	// ErrInvalidGroupCount is returned when the group count is not positive.
	ErrInvalidGroupCount = errors.New("invalid group count: must be at least 1")

	// ErrInvalidGroupIndex is returned when the group index is outside
	// [0, group count).
	ErrInvalidGroupIndex = errors.New("invalid group index: must be in [0, group count)")

	// ErrInvalidConcurrency is returned when the worker concurrency is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be at least 1")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRenderWait is returned when the render settle time is
	// negative. Use 0 to capture immediately after navigation.
	ErrInvalidRenderWait = errors.New("invalid render wait: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size cap is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrRemoteBrowserWithoutBrowser is returned when a remote browser
	// endpoint is configured while browser rendering is disabled.
	ErrRemoteBrowserWithoutBrowser = errors.New("remote browser endpoint given but browser rendering is disabled")
)
