// Package dispatch runs crawl workers over a batch of work items.
//
// The dispatcher walks its batch in order and hands each item to a
// Worker. The default worker re-invokes the crawler binary as a
// subprocess, so a crash on one page surfaces as an exit code instead
// of taking down the whole batch run. Processing stops at the first
// failed item; partially written output stays on disk for inspection.
package dispatch
