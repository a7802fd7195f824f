package report

import (
	"io"

	"github.com/nao1215/markdown"

	"catacrawl/internal/extract"
)

// OverviewWriter renders extracted page content as the overview
// document saved in a page's markdowns folder.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type OverviewWriter struct {
	output io.Writer
}

// NewOverviewWriter creates an OverviewWriter that outputs to the given writer.
func NewOverviewWriter(output io.Writer) *OverviewWriter {
	return &OverviewWriter{output: output}
}

// WriteProduct renders the overview document of a product page: the
// page title, the descriptive blocks in document order, and the
// technical specifications when the page has them.
func (w *OverviewWriter) WriteProduct(title string, overview []extract.Block, specifications string) error {
	md := markdown.NewMarkdown(w.output)

	if title != "" {
		md.H1(title)
		md.PlainText("")
	}

	for _, block := range overview {
		switch block.Kind {
		case extract.BlockHeading:
			w.writeHeading(md, block)
		case extract.BlockParagraph:
			md.PlainText(block.Text)
			md.PlainText("")
		case extract.BlockList:
			md.BulletList(block.Items...)
			md.PlainText("")
		}
	}

	if specifications != "" {
		md.H2("Specifications")
		md.PlainText("")
		md.PlainText(specifications)
	}

	return md.Build()
}

// WriteCategory renders the overview document of a category page,
// listing the catalog sections found under it.
func (w *OverviewWriter) WriteCategory(title string, sections []string) error {
	md := markdown.NewMarkdown(w.output)

	if title != "" {
		md.H1(title)
		md.PlainText("")
	}
	for _, section := range sections {
		md.PlainText("main category : " + section)
	}

	return md.Build()
}

// writeHeading maps an extracted heading to a markdown heading one
// level below the document title.
func (w *OverviewWriter) writeHeading(md *markdown.Markdown, block extract.Block) {
	switch {
	case block.Level <= 2:
		md.H2(block.Text)
	case block.Level == 3:
		md.H3(block.Text)
	default:
		md.H4(block.Text)
	}
	md.PlainText("")
}
