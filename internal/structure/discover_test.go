package structure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"catacrawl/internal/config"
	"catacrawl/internal/model"
)

// fakeRenderer returns canned landing-page markup.
type fakeRenderer struct {
	html string
	err  error
}

func (r *fakeRenderer) Render(_ context.Context, _ string) (string, error) {
	return r.html, r.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const landingPage = `<!DOCTYPE html>
<html>
<body>
<div class="o-container">
  <section>
    <h2>Computers</h2>
    <a class="c-card--link" href="/products/model-a/">
      <span class="c-product-card__heading">Model A</span>
    </a>
    <a class="c-card--link" href="/products/model-b/">
      <span class="c-product-card__heading">Model B</span>
    </a>
    <a class="c-card--link" href="/products/nameless/"></a>
  </section>
  <section>
    <a class="c-card--link" href="/products/compute-module-5/">
      <h2 class="c-type-display-large">Compute Module 5</h2>
    </a>
  </section>
  <section>
    <h2>Empty Section</h2>
  </section>
</div>
</body>
</html>`

const catalogURL = "https://vendor.example.com/products/"

func newTestDiscoverer(html string) *Discoverer {
	return NewDiscoverer(
		&fakeRenderer{html: html},
		config.DefaultSelectors(),
		catalogURL,
		WithLogger(testLogger()),
	)
}

// TestDiscover tests topic tree discovery from the landing page.
func TestDiscover(t *testing.T) {
	t.Parallel()

	topics, err := newTestDiscoverer(landingPage).Discover(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("sections with products become topics", func(t *testing.T) {
		if len(topics) != 2 {
			t.Fatalf("expected 2 topics, got %d: %+v", len(topics), topics)
		}
		if topics[0].Name != "Computers" {
			t.Errorf("unexpected first topic %q", topics[0].Name)
		}
	})

	t.Run("nameless product cards are skipped", func(t *testing.T) {
		if len(topics[0].SubTopics) != 2 {
			t.Fatalf("expected 2 products, got %+v", topics[0].SubTopics)
		}
	})

	t.Run("product URLs are resolved against the catalog", func(t *testing.T) {
		if topics[0].SubTopics[0].URL != "https://vendor.example.com/products/model-a/" {
			t.Errorf("unexpected product URL %q", topics[0].SubTopics[0].URL)
		}
	})

	t.Run("breadcrumbs follow the products/topic/product shape", func(t *testing.T) {
		got := topics[0].SubTopics[1].Breadcrumbs
		want := []string{"products", "Computers", "Model B"}
		if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
			t.Errorf("expected breadcrumbs %v, got %v", want, got)
		}
	})

	t.Run("heading-less section takes its name from the product slug", func(t *testing.T) {
		if topics[1].Name != "Compute Module 5" {
			t.Errorf("unexpected fallback name %q", topics[1].Name)
		}
	})

	t.Run("every node validates against the schema", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "structure.json")
		if err := WriteFile(path, topics); err != nil {
			t.Fatalf("failed to write structure: %v", err)
		}

		loaded, err := model.LoadTopics(path)
		if err != nil {
			t.Fatalf("written structure does not validate: %v", err)
		}
		if model.CountTopics(loaded) != model.CountTopics(topics) {
			t.Errorf("node count changed in round trip")
		}
	})
}

// TestDiscoverEmptyPage tests that a barren landing page is an error.
func TestDiscoverEmptyPage(t *testing.T) {
	t.Parallel()

	_, err := newTestDiscoverer("<html><body><p>maintenance</p></body></html>").Discover(context.Background())
	if !errors.Is(err, ErrNoTopics) {
		t.Errorf("expected ErrNoTopics, got %v", err)
	}
}

// TestDiscoverRenderFailure tests render error propagation.
func TestDiscoverRenderFailure(t *testing.T) {
	t.Parallel()

	d := NewDiscoverer(
		&fakeRenderer{err: errors.New("connection refused")},
		config.DefaultSelectors(),
		catalogURL,
		WithLogger(testLogger()),
	)
	if _, err := d.Discover(context.Background()); err == nil {
		t.Error("expected error when rendering fails")
	}
}

// TestFallbackTopicName tests slug to display-name conversion.
func TestFallbackTopicName(t *testing.T) {
	t.Parallel()

	d := newTestDiscoverer("")
	tests := []struct {
		slug string
		want string
	}{
		{"compute-module-5", "Compute Module 5"},
		{"model-a", "Model A"},
		{"", "Top Products"},
	}
	for _, tt := range tests {
		if got := d.fallbackTopicName(tt.slug); got != tt.want {
			t.Errorf("fallbackTopicName(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}
