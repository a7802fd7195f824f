// Package crawler wires the page-processing pipeline for one catalog
// page: rendering, extraction, folder layout, document generation,
// asset downloads, and history persistence.
//
// # Usage
//
//	c := crawler.New(cfg, crawler.WithLogger(logger))
//	record, err := c.Crawl(ctx, pageURL, outputDir)
//
// The Crawler owns the renderer and downloader lifecycles; callers
// only provide configuration and the page to process.
package crawler
