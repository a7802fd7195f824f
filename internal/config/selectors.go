package config

// Selectors holds the CSS selectors driving content extraction for one
// site. Zero-value fields fall back to the defaults, so a profile only
// needs to override the selectors that differ.
type Selectors struct {
	// TopicContainer selects the per-topic sections on the catalog
	// landing page during structure discovery.
	TopicContainer string `yaml:"topicContainer,omitempty"`

	// ProductLink selects product card links within a topic container.
	ProductLink string `yaml:"productLink,omitempty"`

	// ProductHeadings are tried in order to find a product's name inside
	// its card. Cards matching none of them are skipped.
	ProductHeadings []string `yaml:"productHeadings,omitempty"`

	// Overview selectors collect the descriptive text blocks rendered
	// into the overview document.
	Overview []string `yaml:"overview,omitempty"`

	// Specifications selectors locate the technical specification panel.
	Specifications []string `yaml:"specifications,omitempty"`

	// Datasheet selects the primary product datasheet link.
	Datasheet string `yaml:"datasheet,omitempty"`

	// Documentation selectors collect further document links beyond the
	// datasheet.
	Documentation []string `yaml:"documentation,omitempty"`

	// Images selectors collect product image elements.
	Images []string `yaml:"images,omitempty"`

	// BlockDiagrams selectors collect block-diagram image elements.
	BlockDiagrams []string `yaml:"blockDiagrams,omitempty"`
}

// DefaultSelectors returns the selector set for the default vendor
// catalog. Other sites provide overrides via the config file.
func DefaultSelectors() Selectors {
	return Selectors{
		TopicContainer:  "div.o-container section",
		ProductLink:     "a.c-card--link",
		ProductHeadings: []string{"span.c-product-card__heading", "h2.c-type-display-large"},
		Overview: []string{
			"div.rp-space-y-5",
			"div.c-product-hero__description",
			"p.font-normal.leading-normal",
			"div.sl-pi400-container",
		},
		Specifications: []string{
			"div.SpecsPanel-module--rich-text--febdb",
			"div.c-wysiwyg.c-product-slice__content",
		},
		Datasheet:     "a[href$='.pdf']",
		Documentation: []string{"a[href$='.pdf']"},
		Images:        []string{"picture img"},
		BlockDiagrams: []string{"div.slick-list a[aria-label*='diagram'] img"},
	}
}

// File represents the structure of the .catacrawl configuration file.
type File struct {
	// Defaults overrides the built-in selector defaults for all sites.
	Defaults Selectors `yaml:"defaults,omitempty"`

	// Sites maps hostnames to site-specific selector profiles.
	Sites map[string]Selectors `yaml:"sites,omitempty"`
}

// GetSelectors returns the effective selector set for a hostname:
// built-in defaults, overlaid with the file's defaults, overlaid with
// the site-specific profile.
func (cf *File) GetSelectors(host string) Selectors {
	result := DefaultSelectors()
	result = overlaySelectors(result, cf.Defaults)
	if site, ok := cf.Sites[host]; ok {
		result = overlaySelectors(result, site)
	}
	return result
}

// overlaySelectors applies every non-zero field of over onto base.
func overlaySelectors(base, over Selectors) Selectors {
	if over.TopicContainer != "" {
		base.TopicContainer = over.TopicContainer
	}
	if over.ProductLink != "" {
		base.ProductLink = over.ProductLink
	}
	if len(over.ProductHeadings) > 0 {
		base.ProductHeadings = over.ProductHeadings
	}
	if len(over.Overview) > 0 {
		base.Overview = over.Overview
	}
	if len(over.Specifications) > 0 {
		base.Specifications = over.Specifications
	}
	if over.Datasheet != "" {
		base.Datasheet = over.Datasheet
	}
	if len(over.Documentation) > 0 {
		base.Documentation = over.Documentation
	}
	if len(over.Images) > 0 {
		base.Images = over.Images
	}
	if len(over.BlockDiagrams) > 0 {
		base.BlockDiagrams = over.BlockDiagrams
	}
	return base
}
