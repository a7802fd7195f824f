package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Timing defaults follow the behavior of
// the production crawl jobs this tool grew out of: generous navigation
// timeouts because vendor catalog pages are heavy with scripts, and a
// long post-navigation wait because product pages populate asset links
// after load.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "catacrawl"

	// DefaultCatalogURL is the catalog landing page that structure
	// discovery starts from.
	DefaultCatalogURL = "https://www.raspberrypi.com/products/"

	// DefaultRenderTimeout bounds a single page navigation, including
	// script execution in the browser renderer.
	DefaultRenderTimeout = 60 * time.Second

	// DefaultRenderWait is how long the browser renderer waits after
	// navigation before capturing HTML, giving client-side scripts time
	// to populate asset links.
	DefaultRenderWait = 10 * time.Second

	// DefaultStructureWait is the post-navigation wait during structure
	// discovery. The landing page settles faster than product pages.
	DefaultStructureWait = 3 * time.Second

	// DefaultDownloadTimeout bounds a single asset download. Datasheet
	// PDFs from vendor CDNs can be large and slow.
	DefaultDownloadTimeout = 120 * time.Second

	// DefaultMaxBodySize limits the HTML read from a rendered page.
	// 5MB covers real catalog pages while preventing memory exhaustion
	// from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent is a browser-like User-Agent. Vendor CDNs reject
	// obviously non-browser agents for asset downloads.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/116.0.0.0 Safari/537.36"

	// DefaultTopicRange is the wildcard topic range, meaning no range
	// restriction.
	DefaultTopicRange = "*"

	// DefaultConcurrency is the number of workers dispatched at once.
	// 1 preserves strictly sequential dispatch; parallelism across
	// batches is normally achieved by running multiple batch processes
	// with different group indexes.
	DefaultConcurrency = 1
)

// Config holds settings shared by the structure and crawl commands.
// It is populated from CLI flags and passed by injection; credentials
// for the remote browser and the egress proxy travel inside this struct
// rather than being read from the environment at point of use.
type Config struct {
	// CatalogURL is the catalog landing page. The crawler treats this
	// page as a category overview; everything under it is a product.
	CatalogURL string

	// UserAgent is sent with plain HTTP fetches and asset downloads.
	UserAgent string

	// RenderTimeout bounds one page navigation.
	RenderTimeout time.Duration

	// RenderWait is the settle time between navigation and HTML capture
	// in the browser renderer.
	RenderWait time.Duration

	// DownloadTimeout bounds one asset download.
	DownloadTimeout time.Duration

	// MaxBodySize caps the bytes read from a rendered or fetched page.
	MaxBodySize int64

	// UseBrowser selects the headless-browser renderer instead of plain
	// HTTP fetching. Required for pages that assemble content in
	// JavaScript.
	UseBrowser bool

	// RemoteBrowserURL is a WebSocket endpoint of a remote browser pool
	// (a browserless-style service). Empty means launch a local headless
	// browser.
	RemoteBrowserURL string

	// RemoteBrowserToken authenticates against RemoteBrowserURL.
	RemoteBrowserToken string

	// ProxyURL, ProxyUser, and ProxyPass configure the egress proxy for
	// plain HTTP fetches and downloads.
	ProxyURL  string
	ProxyUser string
	ProxyPass string

	// ConfigFilePath is an explicit selector-profile file path. Empty
	// means search the usual locations.
	ConfigFilePath string

	// Profiles holds the selector profiles loaded from the config file.
	Profiles *File

	// DBDir is the directory holding the crawl-history SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// NoDB disables crawl-history persistence.
	NoDB bool

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		CatalogURL:      DefaultCatalogURL,
		UserAgent:       DefaultUserAgent,
		RenderTimeout:   DefaultRenderTimeout,
		RenderWait:      DefaultRenderWait,
		DownloadTimeout: DefaultDownloadTimeout,
		MaxBodySize:     DefaultMaxBodySize,
		DBDir:           XDGDataDir(),
	}
}

// Validate checks the shared settings. It returns the first problem
// found; fixing one often makes the rest irrelevant.
func (c *Config) Validate() error {
	if c.RenderTimeout <= 0 || c.DownloadTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RenderWait < 0 {
		return ErrInvalidRenderWait
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.RemoteBrowserURL != "" && !c.UseBrowser {
		return ErrRemoteBrowserWithoutBrowser
	}
	return nil
}

// BatchParams holds the parameters of one batch invocation: which
// structure document to flatten, which slice of the sorted work list
// this process owns, and where workers write their output.
type BatchParams struct {
	// StructureFile is the path of the structure JSON document.
	StructureFile string

	// TopicRange is the raw topic-range flag value. It is parsed and
	// logged but not applied as a filter; see plan.TopicRange.
	TopicRange string

	// GroupIndex and GroupCount identify this invocation's batch.
	GroupIndex int
	GroupCount int

	// OutputDir is the root directory under which each work item's
	// breadcrumb path is created.
	OutputDir string

	// Concurrency is the number of workers running at once. 1 means
	// strictly sequential dispatch.
	Concurrency int

	// WorkerCommand overrides the subprocess used to crawl one page.
	// Empty means re-invoke this binary's crawl command.
	WorkerCommand []string
}

// Validate checks the batch parameters.
func (p *BatchParams) Validate() error {
	if p.StructureFile == "" {
		return ErrNoStructureFile
	}
	if p.OutputDir == "" {
		return ErrNoOutputDir
	}
	if p.GroupCount < 1 {
		return ErrInvalidGroupCount
	}
	if p.GroupIndex < 0 || p.GroupIndex >= p.GroupCount {
		return ErrInvalidGroupIndex
	}
	if p.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	return nil
}

// XDGDataDir returns the XDG data directory for catacrawl.
// On Linux: ~/.local/share/catacrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for catacrawl.
// On Linux: ~/.config/catacrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
