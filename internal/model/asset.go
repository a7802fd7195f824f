package model

import "time"

// AssetType classifies a downloaded file by the page section it came from.
type AssetType string

// Asset classifications. These double as log labels and determine the
// subfolder an asset is written to.
const (
	AssetDocumentation AssetType = "documentation"
	AssetImage         AssetType = "product image"
	AssetBlockDiagram  AssetType = "block diagram"
)

// Asset records one downloaded file. A slice of these is written as the
// metadata JSON next to the files in each asset subfolder.
type Asset struct {
	// Name is the final filename on disk, after any extension fixup.
	Name string `json:"name"`

	// FilePath is the slash-separated path of the file on disk.
	FilePath string `json:"file_path"`

	// Version is the asset version when the page states one.
	Version string `json:"version,omitempty"`

	// Date is the asset date (YYYY-MM-DD); defaults to the download date.
	Date string `json:"date"`

	// URL is the source the file was downloaded from.
	URL string `json:"url"`

	// Language is the asset's document language.
	Language string `json:"language"`

	// Description is free-form text when the page provides one.
	Description string `json:"description,omitempty"`

	// Exif holds selected EXIF tags for image assets. Empty for
	// non-image assets or images without EXIF data.
	Exif map[string]string `json:"exif,omitempty"`
}

// PageLevel distinguishes category overview pages from product pages.
// Product pages get the full asset folder layout; category pages only
// get an overview document.
type PageLevel string

// Page levels.
const (
	LevelCategory PageLevel = "category"
	LevelProduct  PageLevel = "product"
)

// PageRecord is the crawl-history row persisted for every crawled page.
type PageRecord struct {
	// ID is the database row ID; zero before the record is saved.
	ID int64

	// URL is the crawled page URL.
	URL string

	// OutputDir is the directory the page's content was written to.
	OutputDir string

	// Level is the page level the crawler detected.
	Level PageLevel

	// Title is the page title, when one was extracted.
	Title string

	// ContentHash is the SHA-256 hex digest of the rendered HTML.
	ContentHash string

	// DocumentCount, ImageCount, and DiagramCount are the number of
	// assets downloaded per class.
	DocumentCount int
	ImageCount    int
	DiagramCount  int

	// CrawledAt is when the crawl completed.
	CrawledAt time.Time
}
