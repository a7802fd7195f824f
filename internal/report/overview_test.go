package report

import (
	"encoding/json"
	"strings"
	"testing"

	"catacrawl/internal/extract"
)

// TestWriteProduct tests rendering a product overview document.
func TestWriteProduct(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	w := NewOverviewWriter(&buf)

	blocks := []extract.Block{
		{Kind: extract.BlockHeading, Level: 2, Text: "Model A"},
		{Kind: extract.BlockParagraph, Text: "A tiny single-board computer."},
		{Kind: extract.BlockList, Items: []string{"Quad-core CPU", "2GB RAM"}},
	}

	if err := w.WriteProduct("Model A", blocks, "Processor: quad-core"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Model A",
		"## Model A",
		"A tiny single-board computer.",
		"- Quad-core CPU",
		"- 2GB RAM",
		"## Specifications",
		"Processor: quad-core",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

// TestWriteProductWithoutSpecifications tests that the specification
// section is omitted when there is nothing to show.
func TestWriteProductWithoutSpecifications(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	w := NewOverviewWriter(&buf)

	if err := w.WriteProduct("Model B", nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "Specifications") {
		t.Errorf("unexpected specification section in:\n%s", buf.String())
	}
}

// TestWriteCategory tests rendering a category overview document.
func TestWriteCategory(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	w := NewOverviewWriter(&buf)

	if err := w.WriteCategory("Products", []string{"Computers", "Cameras"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "# Products") {
		t.Errorf("expected title heading, got:\n%s", out)
	}
	if !strings.Contains(out, "main category : Computers") ||
		!strings.Contains(out, "main category : Cameras") {
		t.Errorf("expected category lines, got:\n%s", out)
	}
}

// TestWriteProductTable tests product table encoding.
func TestWriteProductTable(t *testing.T) {
	t.Parallel()

	t.Run("rows round-trip", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		rows := []ProductRow{
			{Name: "Model A", URL: "https://vendor.example.com/products/model-a/", Specifications: "2GB RAM"},
		}
		if err := WriteProductTable(&buf, rows); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []ProductRow
		if err := json.Unmarshal([]byte(buf.String()), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Model A" {
			t.Errorf("unexpected rows %+v", got)
		}
	})

	t.Run("nil rows write an empty array", func(t *testing.T) {
		t.Parallel()

		var buf strings.Builder
		if err := WriteProductTable(&buf, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected empty array, got %q", buf.String())
		}
	})
}
