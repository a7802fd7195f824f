package plan

import (
	"fmt"
	"sort"
	"strings"

	"catacrawl/internal/model"
)

// PathSentinel replaces literal "/" characters inside a breadcrumb
// component before the components are joined into a relative path.
// Without it, a slash in a product name ("I/O Board") would be
// indistinguishable from a path separator and two different topics could
// collide on the same output directory.
const PathSentinel = "_slash_"

// MissingBreadcrumbsError is returned when a visited node has no
// breadcrumbs. The flattener never substitutes a default path: output
// directories are derived from this path, and an empty or guessed path
// would silently collide with another topic's output.
type MissingBreadcrumbsError struct {
	// Name is the offending topic's label.
	Name string

	// URL is the offending topic's page URL.
	URL string
}

// Error implements the error interface.
func (e *MissingBreadcrumbsError) Error() string {
	return fmt.Sprintf("topic %q (%s) has no breadcrumbs; cannot derive output path", e.Name, e.URL)
}

// Flatten derives one WorkItem for every node in the forest and returns
// them sorted lexicographically by relative path.
//
// Traversal is pre-order depth-first: each root yields its item before
// its descendants, siblings are visited in document order, and each
// root's subtree is fully expanded before the next root. Every node is
// materialized, including categories with children; downstream consumers
// rely on category overview pages being crawled alongside products.
//
// The post-traversal sort is deliberate and observable: it makes the
// output order a function of the path set alone, so re-running with the
// same document is byte-identical and batch boundaries stay stable even
// when the tree is reshaped without changing the paths.
func Flatten(topics []model.Topic) ([]model.WorkItem, error) {
	items := make([]model.WorkItem, 0, model.CountTopics(topics))
	for i := range topics {
		var err error
		items, err = appendSubtree(items, &topics[i])
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RelativePath < items[j].RelativePath
	})
	return items, nil
}

// appendSubtree appends the work item for t and then, recursively, the
// items for its sub-topics.
func appendSubtree(items []model.WorkItem, t *model.Topic) ([]model.WorkItem, error) {
	if t.Breadcrumbs == nil {
		return nil, &MissingBreadcrumbsError{Name: t.Name, URL: t.URL}
	}

	items = append(items, model.WorkItem{
		URL:          t.URL,
		RelativePath: joinBreadcrumbs(t.Breadcrumbs),
	})

	for i := range t.SubTopics {
		var err error
		items, err = appendSubtree(items, &t.SubTopics[i])
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// joinBreadcrumbs builds a relative path from breadcrumb components,
// applying the sentinel substitution to each component first.
func joinBreadcrumbs(crumbs []string) string {
	parts := make([]string, len(crumbs))
	for i, crumb := range crumbs {
		parts[i] = strings.ReplaceAll(crumb, "/", PathSentinel)
	}
	return strings.Join(parts, "/")
}
