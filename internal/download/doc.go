// Package download fetches product assets over HTTP and writes them to
// the page's output folders, together with the per-folder metadata
// records describing what was saved.
package download
