package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catacrawl/internal/config"
	"catacrawl/internal/model"
)

// newTestConfig builds a config pointing at the test server instead of
// the real catalog.
func newTestConfig(serverURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.CatalogURL = serverURL + "/products/"
	return cfg
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// catalogServer serves a miniature two-page catalog with one asset.
func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head><title>Products</title></head>
<body><section><h2>Computers</h2></section></body></html>`)
	})
	mux.HandleFunc("/products/model-a/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>Model A</title></head>
<body>
  <div class="c-product-hero__description"><p>A tiny computer.</p></div>
  <a href="%s/manual.pdf">Datasheet</a>
</body></html>`, server.URL)
	})
	mux.HandleFunc("/manual.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	})

	return server
}

// TestCrawl tests end-to-end crawling of product and category pages.
func TestCrawl(t *testing.T) {
	t.Parallel()

	server := catalogServer(t)
	cfg := newTestConfig(server.URL)

	t.Run("product page", func(t *testing.T) {
		t.Parallel()

		outDir := filepath.Join(t.TempDir(), "model-a")
		c := New(cfg, WithLogger(testLogger()))

		record, err := c.Crawl(context.Background(), server.URL+"/products/model-a/", outDir)
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if record.Level != model.LevelProduct {
			t.Errorf("expected product level, got %q", record.Level)
		}
		if record.Title != "Model A" {
			t.Errorf("unexpected title %q", record.Title)
		}
		if record.DocumentCount != 1 {
			t.Errorf("expected 1 document, got %d", record.DocumentCount)
		}
		if _, err := os.Stat(filepath.Join(outDir, "documentations", "manual.pdf")); err != nil {
			t.Errorf("datasheet not downloaded: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(outDir, "markdowns", "overview.md"))
		if err != nil {
			t.Fatalf("overview not written: %v", err)
		}
		if !strings.Contains(string(data), "A tiny computer.") {
			t.Errorf("unexpected overview:\n%s", data)
		}
	})

	t.Run("catalog root is a category", func(t *testing.T) {
		t.Parallel()

		outDir := filepath.Join(t.TempDir(), "catalog")
		c := New(cfg, WithLogger(testLogger()))

		record, err := c.Crawl(context.Background(), server.URL+"/products/", outDir)
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if record.Level != model.LevelCategory {
			t.Errorf("expected category level, got %q", record.Level)
		}
		if _, err := os.Stat(filepath.Join(outDir, "documentations")); !os.IsNotExist(err) {
			t.Error("category page should not get asset folders")
		}
	})

	t.Run("unreachable page fails", func(t *testing.T) {
		t.Parallel()

		c := New(cfg, WithLogger(testLogger()))
		if _, err := c.Crawl(context.Background(), server.URL+"/products/missing/", t.TempDir()); err == nil {
			t.Error("expected error for missing page")
		}
	})
}
