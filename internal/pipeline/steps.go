package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"catacrawl/internal/config"
	"catacrawl/internal/database"
	"catacrawl/internal/download"
	"catacrawl/internal/extract"
	"catacrawl/internal/model"
	"catacrawl/internal/render"
	"catacrawl/internal/report"
)

// RenderStep fetches and renders the page markup. It is the first step
// of every crawl; everything downstream works on its output.
type RenderStep struct {
	renderer render.Renderer
	logger   *slog.Logger
}

// NewRenderStep creates a render step using the given renderer.
func NewRenderStep(renderer render.Renderer, logger *slog.Logger) *RenderStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderStep{renderer: renderer, logger: logger}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do renders the page and records its content hash.
func (s *RenderStep) Do(ctx context.Context, job *Job) error {
	html, err := s.renderer.Render(ctx, job.URL)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", job.URL, err)
	}

	sum := sha256.Sum256([]byte(html))
	job.HTML = html
	job.ContentHash = hex.EncodeToString(sum[:])

	s.logger.Debug("page rendered",
		"url", job.URL,
		"bytes", len(html),
	)
	return nil
}

// ExtractStep parses the rendered markup into structured content and
// detects whether the page is the catalog root or a product page.
type ExtractStep struct {
	profiles   *config.File
	catalogURL string
	logger     *slog.Logger
}

// NewExtractStep creates an extract step. profiles may be nil, in
// which case the built-in selector defaults apply to every host.
// catalogURL identifies the catalog root; that page is treated as a
// category overview rather than a product.
func NewExtractStep(profiles *config.File, catalogURL string, logger *slog.Logger) *ExtractStep {
	if profiles == nil {
		profiles = &config.File{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{profiles: profiles, catalogURL: catalogURL, logger: logger}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do extracts the page content with the selector profile of the page's host.
func (s *ExtractStep) Do(ctx context.Context, job *Job) error {
	u, err := url.Parse(job.URL)
	if err != nil {
		return fmt.Errorf("invalid page URL %s: %w", job.URL, err)
	}

	extractor := extract.NewExtractor(s.profiles.GetSelectors(u.Host))

	job.Level = model.LevelProduct
	if sameCatalogPage(job.URL, s.catalogURL) {
		job.Level = model.LevelCategory
	}

	content, err := extractor.Extract(job.HTML, job.URL)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", job.URL, err)
	}
	job.Content = content

	if job.Level == model.LevelCategory {
		sections, err := extractor.CategoryHeadings(job.HTML)
		if err != nil {
			return fmt.Errorf("failed to extract sections of %s: %w", job.URL, err)
		}
		job.Sections = sections
	}

	s.logger.Debug("content extracted",
		"url", job.URL,
		"level", string(job.Level),
		"documents", len(content.DocumentURLs),
		"images", len(content.ImageURLs),
	)
	return nil
}

// sameCatalogPage compares two URLs ignoring a trailing slash.
func sameCatalogPage(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

// LayoutStep creates the page's output folder scaffold. Product pages
// get the full asset layout; category pages only need a place for the
// overview document.
type LayoutStep struct{}

// NewLayoutStep creates a layout step.
func NewLayoutStep() *LayoutStep {
	return &LayoutStep{}
}

// Name returns the step name.
func (s *LayoutStep) Name() string {
	return "layout"
}

// Do creates the output folders.
func (s *LayoutStep) Do(_ context.Context, job *Job) error {
	job.Folders = newFolders(job.OutputDir)
	if err := job.Folders.create(job.Level); err != nil {
		return fmt.Errorf("failed to create output folders under %s: %w", job.OutputDir, err)
	}
	return nil
}

// OverviewStep writes the overview document into the markdowns folder.
type OverviewStep struct{}

// NewOverviewStep creates an overview step.
func NewOverviewStep() *OverviewStep {
	return &OverviewStep{}
}

// Name returns the step name.
func (s *OverviewStep) Name() string {
	return "overview"
}

// Do renders markdowns/overview.md for the page.
func (s *OverviewStep) Do(_ context.Context, job *Job) error {
	path := filepath.Join(job.Folders.Markdowns, "overview.md")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := report.NewOverviewWriter(f)
	if job.Level == model.LevelCategory {
		err = w.WriteCategory(job.Content.Title, job.Sections)
	} else {
		err = w.WriteProduct(job.Content.Title, job.Content.Overview, job.Content.Specifications)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// assetStep is the shared behavior of the download steps. Individual
// asset failures are logged and skipped so one broken link does not
// abort the whole page.
type assetStep struct {
	downloader *download.Downloader
	logger     *slog.Logger
}

// fetchAll downloads the given URLs into destDir and returns the
// records of the files that were saved.
func (s *assetStep) fetchAll(ctx context.Context, urls []string, destDir string, kind model.AssetType) []model.Asset {
	var assets []model.Asset
	for _, assetURL := range urls {
		asset, err := s.downloader.Fetch(ctx, assetURL, destDir)
		if err != nil {
			s.logger.Warn("asset skipped",
				"kind", string(kind),
				"url", assetURL,
				"error", err.Error(),
			)
			continue
		}
		assets = append(assets, *asset)
	}
	return assets
}

// DocumentsStep downloads the datasheet and further documents into the
// documentations folder.
type DocumentsStep struct {
	assetStep
}

// NewDocumentsStep creates a document download step.
func NewDocumentsStep(downloader *download.Downloader, logger *slog.Logger) *DocumentsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentsStep{assetStep{downloader: downloader, logger: logger}}
}

// Name returns the step name.
func (s *DocumentsStep) Name() string {
	return "documents"
}

// Do downloads the page's documents. The datasheet comes first so it
// wins filename collisions against secondary documents.
func (s *DocumentsStep) Do(ctx context.Context, job *Job) error {
	if job.Level != model.LevelProduct {
		return nil
	}

	urls := make([]string, 0, len(job.Content.DocumentURLs)+1)
	if job.Content.DatasheetURL != "" {
		urls = append(urls, job.Content.DatasheetURL)
	}
	for _, u := range job.Content.DocumentURLs {
		if u != job.Content.DatasheetURL {
			urls = append(urls, u)
		}
	}

	assets := s.fetchAll(ctx, urls, job.Folders.Documentations, model.AssetDocumentation)
	job.Assets[model.AssetDocumentation] = assets
	return download.SaveMetadata(job.Folders.Documentations, assets)
}

// ImagesStep downloads product images into the images folder.
type ImagesStep struct {
	assetStep
}

// NewImagesStep creates an image download step.
func NewImagesStep(downloader *download.Downloader, logger *slog.Logger) *ImagesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImagesStep{assetStep{downloader: downloader, logger: logger}}
}

// Name returns the step name.
func (s *ImagesStep) Name() string {
	return "images"
}

// Do downloads the page's product images.
func (s *ImagesStep) Do(ctx context.Context, job *Job) error {
	if job.Level != model.LevelProduct {
		return nil
	}

	assets := s.fetchAll(ctx, job.Content.ImageURLs, job.Folders.Images, model.AssetImage)
	job.Assets[model.AssetImage] = assets
	return download.SaveMetadata(job.Folders.Images, assets)
}

// DiagramsStep downloads block diagrams and records which product
// image each diagram belongs to.
type DiagramsStep struct {
	assetStep
}

// NewDiagramsStep creates a block diagram download step.
func NewDiagramsStep(downloader *download.Downloader, logger *slog.Logger) *DiagramsStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiagramsStep{assetStep{downloader: downloader, logger: logger}}
}

// Name returns the step name.
func (s *DiagramsStep) Name() string {
	return "diagrams"
}

// Do downloads the page's block diagrams.
func (s *DiagramsStep) Do(ctx context.Context, job *Job) error {
	if job.Level != model.LevelProduct {
		return nil
	}

	assets := s.fetchAll(ctx, job.Content.DiagramURLs, job.Folders.BlockDiagrams, model.AssetBlockDiagram)
	job.Assets[model.AssetBlockDiagram] = assets

	// Diagrams belong to the product's primary image.
	var primary string
	if images := job.Assets[model.AssetImage]; len(images) > 0 {
		primary = images[0].Name
	}
	mappings := make(map[string]string, len(assets))
	for _, asset := range assets {
		mappings[asset.Name] = primary
	}

	if err := download.SaveDiagramMappings(job.Folders.BlockDiagrams, mappings); err != nil {
		return err
	}
	return download.SaveMetadata(job.Folders.BlockDiagrams, assets)
}

// TablesStep writes the extracted product table into the tables folder.
type TablesStep struct{}

// NewTablesStep creates a tables step.
func NewTablesStep() *TablesStep {
	return &TablesStep{}
}

// Name returns the step name.
func (s *TablesStep) Name() string {
	return "tables"
}

// Do writes tables/products.json and an empty metadata file for the
// folder.
func (s *TablesStep) Do(_ context.Context, job *Job) error {
	if job.Level != model.LevelProduct {
		return nil
	}

	path := filepath.Join(job.Folders.Tables, "products.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	rows := []report.ProductRow{{
		Name:           job.Content.Title,
		URL:            job.URL,
		Specifications: job.Content.Specifications,
	}}
	err = report.WriteProductTable(f, rows)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	return download.SaveMetadata(job.Folders.Tables, nil)
}

// PersistStep saves the crawl result to the history database.
type PersistStep struct {
	db     *database.CrawlDB
	logger *slog.Logger
}

// NewPersistStep creates a persist step. A nil database disables
// persistence without failing the pipeline.
func NewPersistStep(db *database.CrawlDB, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the page record and its asset records.
func (s *PersistStep) Do(ctx context.Context, job *Job) error {
	if s.db == nil {
		s.logger.Debug("history database disabled", "url", job.URL)
		return nil
	}

	pageID, err := s.db.SavePage(ctx, job.Record())
	if err != nil {
		return err
	}
	for _, kind := range []model.AssetType{
		model.AssetDocumentation, model.AssetImage, model.AssetBlockDiagram,
	} {
		if err := s.db.SaveAssets(ctx, pageID, kind, job.Assets[kind]); err != nil {
			return err
		}
	}
	return nil
}
