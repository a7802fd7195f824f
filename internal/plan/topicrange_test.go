package plan

import (
	"errors"
	"testing"
)

// TestParseTopicRange tests topic-range flag parsing.
func TestParseTopicRange(t *testing.T) {
	t.Parallel()

	t.Run("wildcard", func(t *testing.T) {
		t.Parallel()

		r, err := ParseTopicRange("*")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.All {
			t.Error("expected All to be true")
		}
		if r.String() != "*" {
			t.Errorf("expected String() \"*\", got %q", r.String())
		}
	})

	t.Run("start-end pair", func(t *testing.T) {
		t.Parallel()

		r, err := ParseTopicRange("3-17")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.All {
			t.Error("expected All to be false")
		}
		if r.Start != 3 || r.End != 17 {
			t.Errorf("expected 3-17, got %d-%d", r.Start, r.End)
		}
		if r.String() != "3-17" {
			t.Errorf("expected String() \"3-17\", got %q", r.String())
		}
	})

	t.Run("malformed ranges", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"", "3", "a-b", "3-", "-7", "3-4-5"} {
			if _, err := ParseTopicRange(s); !errors.Is(err, ErrInvalidTopicRange) {
				t.Errorf("ParseTopicRange(%q): expected ErrInvalidTopicRange, got %v", s, err)
			}
		}
	})
}
