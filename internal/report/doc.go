// Package report renders the documents written into each crawled
// page's output folder: the markdown overview and the product tables.
//
// Design decision: We separate document rendering from the extraction
// data structures (which are in the extract package) so new output
// formats can be added without touching the extraction logic.
package report
