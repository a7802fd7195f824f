package plan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RangeAll is the topic-range literal meaning "no range restriction".
const RangeAll = "*"

// ErrInvalidTopicRange is returned when a topic range is neither "*" nor
// a "start-end" integer pair.
var ErrInvalidTopicRange = errors.New("invalid topic range: expected \"*\" or \"start-end\"")

// TopicRange is the parsed form of the --topic_range flag.
//
// Known quirk, preserved intentionally: the range is parsed and reported
// to the operator but is NOT applied as a filter on the work list. Batch
// assignment is controlled solely by the group index and group count.
// The batch command logs an explicit warning when a non-wildcard range
// is supplied so the inert flag is visible rather than silently ignored.
type TopicRange struct {
	// All is true for the "*" wildcard.
	All bool

	// Start and End are the inclusive bounds of a "start-end" range.
	// Only meaningful when All is false.
	Start int
	End   int
}

// ParseTopicRange parses a topic-range string.
func ParseTopicRange(s string) (TopicRange, error) {
	if s == RangeAll {
		return TopicRange{All: true}, nil
	}

	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return TopicRange{}, fmt.Errorf("%w: got %q", ErrInvalidTopicRange, s)
	}
	startN, err := strconv.Atoi(start)
	if err != nil {
		return TopicRange{}, fmt.Errorf("%w: bad start in %q", ErrInvalidTopicRange, s)
	}
	endN, err := strconv.Atoi(end)
	if err != nil {
		return TopicRange{}, fmt.Errorf("%w: bad end in %q", ErrInvalidTopicRange, s)
	}
	return TopicRange{Start: startN, End: endN}, nil
}

// String renders the range in the flag's input syntax.
func (r TopicRange) String() string {
	if r.All {
		return RangeAll
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
