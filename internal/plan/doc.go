// Package plan turns a validated topic forest into an ordered, partitioned
// work plan for batch dispatch.
//
// The planning happens in two stages:
//
//   - Flatten walks the forest depth-first and derives one WorkItem per
//     node (categories included, not just product leaves), computing each
//     item's output path from its breadcrumbs. The flat sequence is then
//     sorted lexicographically by path so that the ordering depends only
//     on the set of paths, not on the document's tree shape.
//
//   - Partition slices the sorted sequence into contiguous, gap-free,
//     equally sized batches and selects one by index. Because the input
//     ordering is deterministic, concurrent invocations with different
//     group indexes operate on disjoint items and disjoint output
//     directories without any coordination.
package plan
