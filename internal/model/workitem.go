package model

// WorkItem is one page to crawl: a topic URL paired with the
// breadcrumb-derived output path relative to the batch output directory.
//
// WorkItems are computed fresh from the structure document on every
// invocation and are never persisted. They exist only to drive dispatch.
type WorkItem struct {
	// URL is the page to crawl, taken verbatim from the topic.
	URL string

	// RelativePath is the slash-joined breadcrumb chain with literal
	// slashes inside each component replaced by the "_slash_" sentinel.
	// Joining the batch output directory with this path yields the
	// worker's output directory.
	RelativePath string
}
