// Package model defines the core data types shared across catacrawl:
// the hierarchical Topic tree loaded from a structure document, the
// WorkItem units derived from it, and the metadata records produced by
// crawling (downloaded assets and page history).
package model
