// Package structure discovers the catalog's topic tree from the vendor
// landing page and writes it as a structure document. The document is
// the input of batch partitioning: one file, generated once, shared by
// every batch process so they all see the same tree.
package structure
