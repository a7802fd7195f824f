package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"catacrawl/internal/config"
	"catacrawl/internal/database"
	"catacrawl/internal/download"
	"catacrawl/internal/model"
	"catacrawl/internal/pipeline"
	"catacrawl/internal/render"
)

// Crawler processes catalog pages into output folders. One Crawler can
// crawl any number of pages; each Crawl call runs a fresh pipeline.
type Crawler struct {
	cfg    *config.Config
	db     *database.CrawlDB
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger used by the crawler and its steps.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDatabase sets the history database. Without one, crawl results
// are written to disk but not recorded.
func WithDatabase(db *database.CrawlDB) Option {
	return func(c *Crawler) {
		c.db = db
	}
}

// New creates a Crawler with the given configuration.
func New(cfg *config.Config, opts ...Option) *Crawler {
	c := &Crawler{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Crawl processes one catalog page into outputDir and returns the
// resulting history record. The record is returned even when the
// database is disabled, so callers can report what was done.
func (c *Crawler) Crawl(ctx context.Context, pageURL, outputDir string) (*model.PageRecord, error) {
	renderer, client, err := c.buildRenderer()
	if err != nil {
		return nil, err
	}

	downloader := download.NewDownloader(client,
		download.WithUserAgent(c.cfg.UserAgent),
		download.WithExif(true),
		download.WithLogger(c.logger),
	)

	p := pipeline.New(pipeline.WithLogger(c.logger))
	p.AddSteps(
		pipeline.NewRenderStep(renderer, c.logger),
		pipeline.NewExtractStep(c.cfg.Profiles, c.cfg.CatalogURL, c.logger),
		pipeline.NewLayoutStep(),
		pipeline.NewOverviewStep(),
		pipeline.NewDocumentsStep(downloader, c.logger),
		pipeline.NewImagesStep(downloader, c.logger),
		pipeline.NewDiagramsStep(downloader, c.logger),
		pipeline.NewTablesStep(),
		pipeline.NewPersistStep(c.db, c.logger),
	)

	c.logger.Info("crawling page",
		"url", pageURL,
		"output_dir", outputDir,
	)

	job := pipeline.NewJob(pageURL, outputDir)
	if err := p.Execute(ctx, job); err != nil {
		return nil, err
	}

	record := job.Record()
	c.logger.Info("page crawled",
		"url", pageURL,
		"level", string(record.Level),
		"documents", record.DocumentCount,
		"images", record.ImageCount,
		"diagrams", record.DiagramCount,
	)
	return record, nil
}

// buildRenderer creates the page renderer and the HTTP client shared
// with the downloader.
func (c *Crawler) buildRenderer() (render.Renderer, *http.Client, error) {
	proxy := render.ProxyConfig{
		URL:      c.cfg.ProxyURL,
		Username: c.cfg.ProxyUser,
		Password: c.cfg.ProxyPass,
	}
	client, err := render.NewClient(proxy, c.cfg.DownloadTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build HTTP client: %w", err)
	}

	if c.cfg.UseBrowser {
		opts := []render.ChromeOption{
			render.WithWait(c.cfg.RenderWait),
			render.WithTimeout(c.cfg.RenderTimeout),
		}
		if c.cfg.RemoteBrowserURL != "" {
			opts = append(opts, render.WithRemoteBrowser(c.cfg.RemoteBrowserURL, c.cfg.RemoteBrowserToken))
		}
		return render.NewChromeRenderer(opts...), client, nil
	}

	renderer := render.NewHTTPRenderer(client,
		render.WithUserAgent(c.cfg.UserAgent),
		render.WithMaxBodySize(c.cfg.MaxBodySize),
	)
	return renderer, client, nil
}
