package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"catacrawl/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*CrawlDB, func()) {
	t.Helper()

	tmpDir := t.TempDir()

	db, err := Open(tmpDir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
	}

	return db, cleanup
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()

		dbDir := filepath.Join(tmpDir, "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		dbPath := filepath.Join(dbDir, "catacrawl.db")
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		opts := Options{
			CreateIfNotExists: false,
			EnableWAL:         true,
		}

		if _, err := Open(filepath.Join(tmpDir, "missing"), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSavePage tests inserting and updating page records.
func TestSavePage(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	record := &model.PageRecord{
		URL:           "https://vendor.example.com/products/model-a/",
		OutputDir:     "out/computers/model-a",
		Level:         model.LevelProduct,
		Title:         "Model A",
		ContentHash:   "abc123",
		DocumentCount: 3,
		ImageCount:    2,
		DiagramCount:  1,
	}

	id, err := db.SavePage(ctx, record)
	if err != nil {
		t.Fatalf("failed to save page: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero page ID")
	}

	t.Run("get returns the saved record", func(t *testing.T) {
		got, err := db.GetPage(ctx, record.URL)
		if err != nil {
			t.Fatalf("failed to get page: %v", err)
		}
		if got == nil {
			t.Fatal("expected page record, got nil")
		}
		if got.ID != id {
			t.Errorf("expected ID %d, got %d", id, got.ID)
		}
		if got.Title != "Model A" || got.Level != model.LevelProduct {
			t.Errorf("unexpected record %+v", got)
		}
		if got.DocumentCount != 3 || got.ImageCount != 2 || got.DiagramCount != 1 {
			t.Errorf("unexpected asset counts in %+v", got)
		}
		if got.CrawledAt.IsZero() {
			t.Error("expected crawled_at to be set")
		}
	})

	t.Run("re-saving the same URL keeps one row", func(t *testing.T) {
		record.Title = "Model A (rev2)"
		id2, err := db.SavePage(ctx, record)
		if err != nil {
			t.Fatalf("failed to re-save page: %v", err)
		}
		if id2 != id {
			t.Errorf("expected same ID %d, got %d", id, id2)
		}

		got, err := db.GetPage(ctx, record.URL)
		if err != nil {
			t.Fatalf("failed to get page: %v", err)
		}
		if got.Title != "Model A (rev2)" {
			t.Errorf("expected updated title, got %q", got.Title)
		}
	})

	t.Run("unknown URL returns nil", func(t *testing.T) {
		got, err := db.GetPage(ctx, "https://vendor.example.com/never-crawled/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

// TestHasRecentCrawl tests re-crawl detection.
func TestHasRecentCrawl(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := db.SavePage(ctx, &model.PageRecord{
		URL:       "https://vendor.example.com/products/model-b/",
		OutputDir: "out/computers/model-b",
		Level:     model.LevelProduct,
	}); err != nil {
		t.Fatalf("failed to save page: %v", err)
	}

	recent, err := db.HasRecentCrawl(ctx, "https://vendor.example.com/products/model-b/", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !recent {
		t.Error("expected page to count as recently crawled")
	}

	recent, err = db.HasRecentCrawl(ctx, "https://vendor.example.com/other/", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recent {
		t.Error("expected unknown URL to not count as crawled")
	}
}

// TestSaveAssets tests asset record storage and replacement.
func TestSaveAssets(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	pageID, err := db.SavePage(ctx, &model.PageRecord{
		URL:       "https://vendor.example.com/products/model-c/",
		OutputDir: "out/computers/model-c",
		Level:     model.LevelProduct,
	})
	if err != nil {
		t.Fatalf("failed to save page: %v", err)
	}

	assets := []model.Asset{
		{Name: "manual.pdf", FilePath: "out/model-c/documentations/manual.pdf", URL: "https://vendor.example.com/manual.pdf", Language: "English", Date: "2026-08-30"},
		{Name: "schematic.pdf", FilePath: "out/model-c/documentations/schematic.pdf", URL: "https://vendor.example.com/schematic.pdf", Language: "English", Date: "2026-08-30"},
	}
	if err := db.SaveAssets(ctx, pageID, model.AssetDocumentation, assets); err != nil {
		t.Fatalf("failed to save assets: %v", err)
	}

	t.Run("assets round-trip with EXIF tags", func(t *testing.T) {
		images := []model.Asset{
			{Name: "front.jpg", FilePath: "out/model-c/images/front.jpg", URL: "https://vendor.example.com/front.jpg",
				Exif: map[string]string{"Make": "ExampleCam"}},
		}
		if err := db.SaveAssets(ctx, pageID, model.AssetImage, images); err != nil {
			t.Fatalf("failed to save image assets: %v", err)
		}

		got, err := db.GetAssets(ctx, pageID, model.AssetImage)
		if err != nil {
			t.Fatalf("failed to get assets: %v", err)
		}
		if len(got) != 1 || got[0].Exif["Make"] != "ExampleCam" {
			t.Errorf("unexpected assets %+v", got)
		}
	})

	t.Run("re-saving replaces previous records of that kind", func(t *testing.T) {
		replacement := []model.Asset{
			{Name: "manual-v2.pdf", FilePath: "out/model-c/documentations/manual-v2.pdf", URL: "https://vendor.example.com/manual-v2.pdf"},
		}
		if err := db.SaveAssets(ctx, pageID, model.AssetDocumentation, replacement); err != nil {
			t.Fatalf("failed to replace assets: %v", err)
		}

		got, err := db.GetAssets(ctx, pageID, model.AssetDocumentation)
		if err != nil {
			t.Fatalf("failed to get assets: %v", err)
		}
		if len(got) != 1 || got[0].Name != "manual-v2.pdf" {
			t.Errorf("unexpected assets %+v", got)
		}
	})

	t.Run("other kinds are untouched by replacement", func(t *testing.T) {
		got, err := db.GetAssets(ctx, pageID, model.AssetImage)
		if err != nil {
			t.Fatalf("failed to get assets: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected image assets to survive, got %+v", got)
		}
	})
}

// TestListPages tests crawl history listing.
func TestListPages(t *testing.T) {
	t.Parallel()

	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	urls := []string{
		"https://vendor.example.com/products/one/",
		"https://vendor.example.com/products/two/",
	}
	for _, u := range urls {
		if _, err := db.SavePage(ctx, &model.PageRecord{URL: u, OutputDir: "out", Level: model.LevelProduct}); err != nil {
			t.Fatalf("failed to save page: %v", err)
		}
	}

	pages, err := db.ListPages(ctx)
	if err != nil {
		t.Fatalf("failed to list pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
}

// TestParseTimestamp tests parsing of the formats SQLite can return.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{"sqlite default", "2026-08-30 12:34:56", false},
		{"iso with Z", "2026-08-30T12:34:56Z", false},
		{"rfc3339", "2026-08-30T12:34:56+09:00", false},
		{"garbage", "not a timestamp", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero expectation %v", tt.input, got, tt.zero)
			}
		})
	}
}
