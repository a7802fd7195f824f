// Package extract pulls structured content out of rendered catalog
// pages using configurable CSS selectors.
//
// The extractor does a single pass over the parsed document and returns
// everything the crawl pipeline needs: overview text blocks, the
// specification text, and the resolved URLs of datasheets, further
// documentation, product images, and block diagrams. Relative URLs are
// resolved against the page URL at extraction time so downstream
// consumers only ever see absolute URLs.
//
// goquery is used for selection because the selector profiles are plain
// CSS selectors shared with the site's own markup conventions; walking
// the node tree by hand would re-implement half of a selector engine.
package extract
