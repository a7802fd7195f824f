package structure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"catacrawl/internal/config"
	"catacrawl/internal/model"
	"catacrawl/internal/render"
)

// ErrNoTopics is returned when the landing page yields no topics at
// all. An empty tree usually means the page did not render or the
// selector profile is wrong for the site.
var ErrNoTopics = errors.New("structure: no topics found on landing page")

// rootCrumb is the first breadcrumb segment of every discovered node.
const rootCrumb = "products"

// Discoverer builds the topic tree from the catalog landing page.
type Discoverer struct {
	renderer   render.Renderer
	selectors  config.Selectors
	catalogURL string
	logger     *slog.Logger

	// titler converts URL slugs into display names when a topic section
	// carries no heading.
	titler cases.Caser
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLogger sets the logger for discovery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDiscoverer creates a Discoverer that reads the given catalog
// landing page with the given selector profile.
func NewDiscoverer(renderer render.Renderer, selectors config.Selectors, catalogURL string, opts ...Option) *Discoverer {
	d := &Discoverer{
		renderer:   renderer,
		selectors:  selectors,
		catalogURL: catalogURL,
		logger:     slog.Default(),
		titler:     cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover renders the landing page and returns the topic tree. Topic
// sections without a heading get a name derived from their first
// product's URL slug; product cards without a name are skipped with a
// warning because there is nothing to build an output path from.
func (d *Discoverer) Discover(ctx context.Context) ([]model.Topic, error) {
	html, err := d.renderer.Render(ctx, d.catalogURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render landing page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse landing page: %w", err)
	}

	base, err := url.Parse(d.catalogURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL %s: %w", d.catalogURL, err)
	}

	var topics []model.Topic
	doc.Find(d.selectors.TopicContainer).Each(func(_ int, section *goquery.Selection) {
		topic := d.buildTopic(section, base)
		if topic == nil {
			return
		}
		topics = append(topics, *topic)
	})

	if len(topics) == 0 {
		return nil, ErrNoTopics
	}

	d.logger.Info("structure discovered",
		"topics", len(topics),
		"nodes", model.CountTopics(topics),
	)
	return topics, nil
}

// buildTopic converts one landing-page section into a topic with its
// product children. Sections without any product card are dropped.
func (d *Discoverer) buildTopic(section *goquery.Selection, base *url.URL) *model.Topic {
	products := make([]model.Topic, 0)
	var firstSlug string

	section.Find(d.selectors.ProductLink).Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		productURL := base.ResolveReference(ref).String()
		if firstSlug == "" {
			firstSlug = path.Base(strings.TrimSuffix(ref.Path, "/"))
		}

		name := d.productName(card)
		if name == "" {
			d.logger.Warn("product card skipped: no name found",
				"url", productURL,
			)
			return
		}

		products = append(products, model.Topic{
			Name:      name,
			URL:       productURL,
			SubTopics: []model.Topic{},
		})
	})

	if len(products) == 0 {
		return nil
	}

	// Only a heading that belongs to the section itself names the
	// topic; product cards carry their own headings.
	name := collapseSpace(section.ChildrenFiltered("h2").First().Text())
	if name == "" {
		name = d.fallbackTopicName(firstSlug)
	}

	topic := &model.Topic{
		Name:        name,
		URL:         d.catalogURL,
		SubTopics:   products,
		Breadcrumbs: []string{rootCrumb, name},
	}
	for i := range topic.SubTopics {
		topic.SubTopics[i].Breadcrumbs = []string{rootCrumb, name, topic.SubTopics[i].Name}
	}
	return topic
}

// productName tries the configured heading selectors in order.
func (d *Discoverer) productName(card *goquery.Selection) string {
	for _, sel := range d.selectors.ProductHeadings {
		if text := collapseSpace(card.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// fallbackTopicName derives a display name from a product URL slug,
// e.g. "compute-module-5" becomes "Compute Module 5". Sections whose
// products give no usable slug are grouped under "Top Products".
func (d *Discoverer) fallbackTopicName(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" || slug == "." {
		return "Top Products"
	}
	words := strings.ReplaceAll(slug, "-", " ")
	return d.titler.String(words)
}

// WriteFile writes the topic tree as an indented structure document.
func WriteFile(filePath string, topics []model.Topic) error {
	data, err := json.MarshalIndent(topics, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode structure document: %w", err)
	}
	if err := os.WriteFile(filePath, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	return nil
}

// collapseSpace trims and collapses runs of whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
