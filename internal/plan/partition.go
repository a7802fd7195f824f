package plan

import (
	"errors"
	"fmt"

	"catacrawl/internal/model"
)

// Partitioning errors.
var (
	// ErrInvalidGroupCount is returned when the group count is not positive.
	ErrInvalidGroupCount = errors.New("invalid group count: must be at least 1")

	// ErrGroupIndexOutOfRange is returned when the group index is negative
	// or not less than the group count.
	ErrGroupIndexOutOfRange = errors.New("group index out of range")
)

// BatchSize returns the number of items per batch when total items are
// split across groupCount groups: ceiling(total / groupCount).
// groupCount must be positive.
func BatchSize(total, groupCount int) int {
	return (total + groupCount - 1) / groupCount
}

// Partition selects the contiguous batch of items owned by groupIndex
// when the sorted sequence is split across groupCount workers.
//
// Batch i covers positions [i*batchSize, min((i+1)*batchSize, len(items))).
// The batches for indexes 0..groupCount-1 are contiguous, non-overlapping,
// and together reconstruct the input exactly once each, in order. The
// last batches may be shorter than batchSize, including empty when
// groupCount exceeds the item count; an empty batch is a valid
// assignment, not an error.
//
// The returned slice aliases items; callers must not mutate it.
func Partition(items []model.WorkItem, groupIndex, groupCount int) ([]model.WorkItem, error) {
	if groupCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroupCount, groupCount)
	}
	if groupIndex < 0 || groupIndex >= groupCount {
		return nil, fmt.Errorf("%w: index %d with %d groups", ErrGroupIndexOutOfRange, groupIndex, groupCount)
	}

	total := len(items)
	if total == 0 {
		return items[:0], nil
	}

	size := BatchSize(total, groupCount)
	start := groupIndex * size
	if start >= total {
		return items[:0], nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], nil
}
