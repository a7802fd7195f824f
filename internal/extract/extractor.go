package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"catacrawl/internal/config"
)

// Content is everything extracted from one rendered page.
type Content struct {
	// Title is the page title.
	Title string

	// Overview holds the descriptive text blocks in document order.
	Overview []Block

	// Specifications is the concatenated text of the specification
	// panels, empty when the page has none.
	Specifications string

	// DatasheetURL is the primary datasheet link, empty when absent.
	DatasheetURL string

	// DocumentURLs are further document links, in document order,
	// deduplicated, including the datasheet when it matches the
	// documentation selectors.
	DocumentURLs []string

	// ImageURLs are product image sources.
	ImageURLs []string

	// DiagramURLs are block-diagram image sources.
	DiagramURLs []string
}

// Extractor extracts content from rendered HTML using a selector
// profile.
type Extractor struct {
	selectors config.Selectors
}

// NewExtractor creates an Extractor with the given selector profile.
func NewExtractor(selectors config.Selectors) *Extractor {
	return &Extractor{selectors: selectors}
}

// Extract parses the HTML and collects all configured content.
// pageURL anchors relative link resolution.
func (e *Extractor) Extract(html, pageURL string) (*Content, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := &Content{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	for _, sel := range e.selectors.Overview {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			content.Overview = append(content.Overview, blockify(s)...)
		})
	}

	var specs strings.Builder
	for _, sel := range e.selectors.Specifications {
		if panel := doc.Find(sel).First(); panel.Length() > 0 {
			specs.WriteString(collapseSpace(panel.Text()))
		}
	}
	content.Specifications = specs.String()

	if e.selectors.Datasheet != "" {
		if href, ok := doc.Find(e.selectors.Datasheet).First().Attr("href"); ok {
			content.DatasheetURL = resolveURL(base, href)
		}
	}

	seen := make(map[string]bool)
	for _, sel := range e.selectors.Documentation {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			resolved := resolveURL(base, href)
			if resolved != "" && !seen[resolved] {
				seen[resolved] = true
				content.DocumentURLs = append(content.DocumentURLs, resolved)
			}
		})
	}

	content.ImageURLs = e.collectSources(doc, base, e.selectors.Images)
	content.DiagramURLs = e.collectSources(doc, base, e.selectors.BlockDiagrams)

	return content, nil
}

// CategoryHeadings returns the section headings of a category overview
// page. Category pages have no product detail; their overview document
// lists the catalog sections instead.
func (e *Extractor) CategoryHeadings(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var headings []string
	doc.Find("section h2").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			headings = append(headings, text)
		}
	})
	return headings, nil
}

// collectSources gathers resolved src attributes for a selector list.
func (e *Extractor) collectSources(doc *goquery.Document, base *url.URL, selectors []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			src, ok := s.Attr("src")
			if !ok {
				return
			}
			resolved := resolveURL(base, src)
			if resolved != "" && !seen[resolved] {
				seen[resolved] = true
				out = append(out, resolved)
			}
		})
	}
	return out
}

// resolveURL resolves href against base, dropping values that are not
// fetchable resources.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// collapseSpace trims and collapses runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
