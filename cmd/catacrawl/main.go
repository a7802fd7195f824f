// Package main provides the entry point for the catacrawl CLI.
//
// catacrawl archives vendor product catalogs into a folder tree of
// documents, images, and metadata.
//
// Usage:
//
//	catacrawl structure --output structure.json
//	catacrawl batch --structure_file structure.json --group_index 0 --group_count 4 --output_dir out
//	catacrawl crawl --url <page-url> --out <dir>
//
// See --help for all available options.
package main

// main is the entry point for catacrawl.
func main() {
	Execute()
}
