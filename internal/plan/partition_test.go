package plan

import (
	"errors"
	"fmt"
	"testing"

	"catacrawl/internal/model"
)

// makeItems builds n work items with zero-padded sequential paths.
func makeItems(n int) []model.WorkItem {
	items := make([]model.WorkItem, n)
	for i := range items {
		items[i] = model.WorkItem{
			URL:          fmt.Sprintf("https://example.com/p/%03d", i),
			RelativePath: fmt.Sprintf("products/%03d", i),
		}
	}
	return items
}

// TestBatchSize tests ceiling-division batch sizing.
func TestBatchSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total      int
		groupCount int
		want       int
	}{
		{total: 10, groupCount: 3, want: 4},
		{total: 10, groupCount: 1, want: 10},
		{total: 10, groupCount: 10, want: 1},
		{total: 10, groupCount: 20, want: 1},
		{total: 9, groupCount: 3, want: 3},
		{total: 0, groupCount: 3, want: 0},
		{total: 1, groupCount: 1, want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%d items %d groups", tt.total, tt.groupCount), func(t *testing.T) {
			t.Parallel()

			if got := BatchSize(tt.total, tt.groupCount); got != tt.want {
				t.Errorf("BatchSize(%d, %d) = %d, want %d", tt.total, tt.groupCount, got, tt.want)
			}
		})
	}
}

// TestPartition tests batch selection.
func TestPartition(t *testing.T) {
	t.Parallel()

	t.Run("ten items across three groups have lengths 4 4 2", func(t *testing.T) {
		t.Parallel()

		items := makeItems(10)
		wantLens := []int{4, 4, 2}
		for i, wantLen := range wantLens {
			batch, err := Partition(items, i, 3)
			if err != nil {
				t.Fatalf("group %d: unexpected error: %v", i, err)
			}
			if len(batch) != wantLen {
				t.Errorf("group %d: expected %d items, got %d", i, wantLen, len(batch))
			}
		}
	})

	t.Run("single group owns the whole sequence", func(t *testing.T) {
		t.Parallel()

		items := makeItems(7)
		batch, err := Partition(items, 0, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batch) != len(items) {
			t.Fatalf("expected %d items, got %d", len(items), len(batch))
		}
		for i := range items {
			if batch[i] != items[i] {
				t.Errorf("item %d differs", i)
			}
		}
	})

	t.Run("empty input yields empty batches for every group", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 4; i++ {
			batch, err := Partition(nil, i, 4)
			if err != nil {
				t.Fatalf("group %d: unexpected error: %v", i, err)
			}
			if len(batch) != 0 {
				t.Errorf("group %d: expected empty batch, got %d items", i, len(batch))
			}
		}
	})

	t.Run("more groups than items leaves high indexes empty", func(t *testing.T) {
		t.Parallel()

		items := makeItems(3)
		gotTotal := 0
		for i := 0; i < 5; i++ {
			batch, err := Partition(items, i, 5)
			if err != nil {
				t.Fatalf("group %d: unexpected error: %v", i, err)
			}
			gotTotal += len(batch)
			if i >= 3 && len(batch) != 0 {
				t.Errorf("group %d: expected empty batch, got %d items", i, len(batch))
			}
		}
		if gotTotal != len(items) {
			t.Errorf("batches cover %d items, want %d", gotTotal, len(items))
		}
	})

	t.Run("rejects non-positive group count", func(t *testing.T) {
		t.Parallel()

		if _, err := Partition(makeItems(3), 0, 0); !errors.Is(err, ErrInvalidGroupCount) {
			t.Errorf("expected ErrInvalidGroupCount, got %v", err)
		}
		if _, err := Partition(makeItems(3), 0, -1); !errors.Is(err, ErrInvalidGroupCount) {
			t.Errorf("expected ErrInvalidGroupCount, got %v", err)
		}
	})

	t.Run("rejects group index out of range", func(t *testing.T) {
		t.Parallel()

		if _, err := Partition(makeItems(3), 3, 3); !errors.Is(err, ErrGroupIndexOutOfRange) {
			t.Errorf("expected ErrGroupIndexOutOfRange, got %v", err)
		}
		if _, err := Partition(makeItems(3), -1, 3); !errors.Is(err, ErrGroupIndexOutOfRange) {
			t.Errorf("expected ErrGroupIndexOutOfRange, got %v", err)
		}
	})
}

// TestPartitionCompleteness verifies that concatenating all batches
// reproduces the full sequence with no omissions, duplicates, or
// reordering, across a spread of sizes and group counts.
func TestPartitionCompleteness(t *testing.T) {
	t.Parallel()

	for _, total := range []int{0, 1, 2, 3, 7, 10, 25, 100} {
		for _, groupCount := range []int{1, 2, 3, 4, 7, 10, 13, 101} {
			total, groupCount := total, groupCount
			t.Run(fmt.Sprintf("%d items %d groups", total, groupCount), func(t *testing.T) {
				t.Parallel()

				items := makeItems(total)
				var joined []model.WorkItem
				for i := 0; i < groupCount; i++ {
					batch, err := Partition(items, i, groupCount)
					if err != nil {
						t.Fatalf("group %d: unexpected error: %v", i, err)
					}
					joined = append(joined, batch...)
				}

				if len(joined) != total {
					t.Fatalf("joined batches have %d items, want %d", len(joined), total)
				}
				for i := range items {
					if joined[i] != items[i] {
						t.Errorf("item %d out of place: %+v", i, joined[i])
					}
				}
			})
		}
	}
}
