package pipeline

import (
	"os"
	"path/filepath"

	"catacrawl/internal/extract"
	"catacrawl/internal/model"
)

// Job carries the state of a single page crawl through the pipeline.
// Steps fill in fields as they run; later steps read what earlier
// steps produced.
type Job struct {
	// URL is the page being crawled.
	URL string

	// OutputDir is the directory the page's content is written under.
	OutputDir string

	// HTML is the rendered page markup, set by the render step.
	HTML string

	// ContentHash is the SHA-256 hex digest of HTML.
	ContentHash string

	// Level is the detected page level, set by the extract step.
	Level model.PageLevel

	// Content is the extracted page content, set by the extract step.
	Content *extract.Content

	// Sections holds the catalog section headings of a category page.
	Sections []string

	// Folders holds the page's output folder layout, set by the layout step.
	Folders Folders

	// Assets collects the downloaded asset records per asset type.
	Assets map[model.AssetType][]model.Asset

	// StepsRun records the names of the steps executed so far.
	StepsRun []string
}

// NewJob creates a Job for one page crawl.
func NewJob(pageURL, outputDir string) *Job {
	return &Job{
		URL:       pageURL,
		OutputDir: outputDir,
		Assets:    make(map[model.AssetType][]model.Asset),
	}
}

// Record builds the history record for a completed job.
func (j *Job) Record() *model.PageRecord {
	record := &model.PageRecord{
		URL:           j.URL,
		OutputDir:     filepath.ToSlash(j.OutputDir),
		Level:         j.Level,
		ContentHash:   j.ContentHash,
		DocumentCount: len(j.Assets[model.AssetDocumentation]),
		ImageCount:    len(j.Assets[model.AssetImage]),
		DiagramCount:  len(j.Assets[model.AssetBlockDiagram]),
	}
	if j.Content != nil {
		record.Title = j.Content.Title
	}
	return record
}

// Folders is the output folder layout of one page. Product pages get
// the full asset layout; category pages only get the markdowns folder.
type Folders struct {
	// Root is the page's output directory.
	Root string

	// Markdowns holds the generated overview document.
	Markdowns string

	// Documentations holds datasheets and other documents.
	Documentations string

	// Images holds product images.
	Images string

	// BlockDiagrams holds block diagram images and their mappings.
	BlockDiagrams string

	// DesignResources, SoftwareTools, Trainings, and Other are scaffold
	// folders filled by later enrichment passes over the archive.
	DesignResources string
	SoftwareTools   string
	Trainings       string
	Other           string

	// Tables holds the extracted product tables.
	Tables string
}

// newFolders maps the folder layout under root without creating anything.
func newFolders(root string) Folders {
	return Folders{
		Root:            root,
		Markdowns:       filepath.Join(root, "markdowns"),
		Documentations:  filepath.Join(root, "documentations"),
		Images:          filepath.Join(root, "images"),
		BlockDiagrams:   filepath.Join(root, "block_diagrams"),
		DesignResources: filepath.Join(root, "design_resources"),
		SoftwareTools:   filepath.Join(root, "software_tools"),
		Trainings:       filepath.Join(root, "trainings"),
		Other:           filepath.Join(root, "other"),
		Tables:          filepath.Join(root, "tables"),
	}
}

// create makes the folders for the given page level.
func (f Folders) create(level model.PageLevel) error {
	dirs := []string{f.Root, f.Markdowns}
	if level == model.LevelProduct {
		dirs = append(dirs,
			f.Documentations, f.Images, f.BlockDiagrams,
			f.DesignResources, f.SoftwareTools, f.Trainings,
			f.Other, f.Tables,
		)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return nil
}
