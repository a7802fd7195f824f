package plan

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"catacrawl/internal/model"
)

// makeTopic builds a topic with breadcrumbs derived from its path segments.
func makeTopic(name, url string, crumbs []string, subs ...model.Topic) model.Topic {
	return model.Topic{
		Name:        name,
		URL:         url,
		SubTopics:   subs,
		Breadcrumbs: crumbs,
	}
}

// TestFlatten tests work-item derivation from a topic forest.
func TestFlatten(t *testing.T) {
	t.Parallel()

	t.Run("flattens parent and child with sorted paths", func(t *testing.T) {
		t.Parallel()

		topics := []model.Topic{
			makeTopic("A", "u1", []string{"products", "A"},
				makeTopic("B", "u2", []string{"products", "A", "B"}),
			),
		}

		items, err := Flatten(topics)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 work items, got %d", len(items))
		}
		if items[0].RelativePath != "products/A" || items[0].URL != "u1" {
			t.Errorf("unexpected first item: %+v", items[0])
		}
		if items[1].RelativePath != "products/A/B" || items[1].URL != "u2" {
			t.Errorf("unexpected second item: %+v", items[1])
		}
	})

	t.Run("yields one item per node including categories", func(t *testing.T) {
		t.Parallel()

		topics := []model.Topic{
			makeTopic("Boards", "u1", []string{"products", "Boards"},
				makeTopic("Model A", "u2", []string{"products", "Boards", "Model A"}),
				makeTopic("Model B", "u3", []string{"products", "Boards", "Model B"}),
			),
			makeTopic("Accessories", "u4", []string{"products", "Accessories"}),
		}

		items, err := Flatten(topics)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := model.CountTopics(topics); len(items) != want {
			t.Errorf("expected %d items (one per node), got %d", want, len(items))
		}
	})

	t.Run("replaces literal slashes with the sentinel", func(t *testing.T) {
		t.Parallel()

		topics := []model.Topic{
			makeTopic("I/O Board", "u1", []string{"products", "I/O Board", "rev A/B"}),
		}

		items, err := Flatten(topics)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "products/I_slash_O Board/rev A_slash_B"
		if items[0].RelativePath != want {
			t.Errorf("expected path %q, got %q", want, items[0].RelativePath)
		}

		// Round-trip: splitting on "/" recovers the breadcrumb count, and
		// reversing the sentinel recovers the original components.
		parts := strings.Split(items[0].RelativePath, "/")
		if len(parts) != 3 {
			t.Fatalf("expected 3 path components, got %d", len(parts))
		}
		wantCrumbs := []string{"products", "I/O Board", "rev A/B"}
		for i, part := range parts {
			if got := strings.ReplaceAll(part, PathSentinel, "/"); got != wantCrumbs[i] {
				t.Errorf("component %d: expected %q, got %q", i, wantCrumbs[i], got)
			}
		}
	})

	t.Run("output is sorted lexicographically by path", func(t *testing.T) {
		t.Parallel()

		// Document order deliberately disagrees with path order.
		topics := []model.Topic{
			makeTopic("Z", "u1", []string{"z"}),
			makeTopic("A", "u2", []string{"a"},
				makeTopic("M", "u3", []string{"a", "m"}),
			),
			makeTopic("B", "u4", []string{"b"}),
		}

		items, err := Flatten(topics)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sort.SliceIsSorted(items, func(i, j int) bool {
			return items[i].RelativePath < items[j].RelativePath
		}) {
			t.Errorf("items are not sorted by relative path: %+v", items)
		}
	})

	t.Run("repeated runs produce identical output", func(t *testing.T) {
		t.Parallel()

		topics := []model.Topic{
			makeTopic("Kits", "u1", []string{"products", "Kits"},
				makeTopic("Starter", "u2", []string{"products", "Kits", "Starter"}),
			),
			makeTopic("Cameras", "u3", []string{"products", "Cameras"}),
		}

		first, err := Flatten(topics)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := Flatten(topics)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("item %d differs: %+v vs %+v", i, first[i], second[i])
			}
		}
	})

	t.Run("missing breadcrumbs on a leaf fails the whole flatten", func(t *testing.T) {
		t.Parallel()

		topics := []model.Topic{
			makeTopic("A", "u1", []string{"products", "A"},
				model.Topic{Name: "B", URL: "u2", SubTopics: []model.Topic{}},
			),
		}

		items, err := Flatten(topics)
		if err == nil {
			t.Fatal("expected error for node without breadcrumbs")
		}
		if items != nil {
			t.Errorf("expected no items on failure, got %d", len(items))
		}

		var mbErr *MissingBreadcrumbsError
		if !errors.As(err, &mbErr) {
			t.Fatalf("expected MissingBreadcrumbsError, got %T", err)
		}
		if mbErr.Name != "B" || mbErr.URL != "u2" {
			t.Errorf("error identifies wrong node: %+v", mbErr)
		}
	})

	t.Run("missing breadcrumbs on a root fails", func(t *testing.T) {
		t.Parallel()

		topics := []model.Topic{
			{Name: "A", URL: "u1", SubTopics: []model.Topic{}},
		}

		if _, err := Flatten(topics); err == nil {
			t.Fatal("expected error for root without breadcrumbs")
		}
	})

	t.Run("empty forest flattens to no items", func(t *testing.T) {
		t.Parallel()

		items, err := Flatten(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected no items, got %d", len(items))
		}
	})
}

// TestFlattenTraversalOrder verifies pre-order traversal before the sort
// by using breadcrumbs whose lexicographic order matches document order.
func TestFlattenTraversalOrder(t *testing.T) {
	t.Parallel()

	topics := []model.Topic{
		makeTopic("r1", "u1", []string{"1"},
			makeTopic("c1", "u2", []string{"1", "1"}),
			makeTopic("c2", "u3", []string{"1", "2"}),
		),
		makeTopic("r2", "u4", []string{"2"}),
	}

	items, err := Flatten(topics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"1", "1/1", "1/2", "2"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, path := range want {
		if items[i].RelativePath != path {
			t.Errorf("item %d: expected path %q, got %q", i, path, items[i].RelativePath)
		}
	}
}

// TestFlattenLargeForest checks the node-count property on a generated forest.
func TestFlattenLargeForest(t *testing.T) {
	t.Parallel()

	topics := make([]model.Topic, 0, 10)
	for i := 0; i < 10; i++ {
		root := makeTopic(
			fmt.Sprintf("root-%02d", i),
			fmt.Sprintf("https://example.com/%d", i),
			[]string{"products", fmt.Sprintf("root-%02d", i)},
		)
		for j := 0; j < 7; j++ {
			root.SubTopics = append(root.SubTopics, makeTopic(
				fmt.Sprintf("child-%02d-%02d", i, j),
				fmt.Sprintf("https://example.com/%d/%d", i, j),
				[]string{"products", fmt.Sprintf("root-%02d", i), fmt.Sprintf("child-%02d-%02d", i, j)},
			))
		}
		topics = append(topics, root)
	}

	items, err := Flatten(topics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := model.CountTopics(topics); len(items) != want {
		t.Errorf("expected %d items, got %d", want, len(items))
	}
}
