package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
)

// Topic is a node in the hierarchical category/product tree described by
// a structure document. A topic is either a category (with nested
// sub-topics) or an individual product page (empty SubTopics).
//
// The structure document is a JSON array of root topics. Every node must
// carry name, url, and sub_topics; breadcrumbs is optional at the schema
// level but required on any node that will be flattened into a WorkItem
// (the flattener enforces that separately).
type Topic struct {
	// Name is the human-readable topic label. Never empty.
	Name string `json:"name"`

	// URL is the absolute URL of the topic's page.
	URL string `json:"url"`

	// SubTopics holds the ordered child topics. Present on every node,
	// empty for product leaves.
	SubTopics []Topic `json:"sub_topics"`

	// Breadcrumbs is the ordered list of path segments identifying this
	// topic's position in the hierarchy. Each segment is non-empty.
	// Nil when the document omits the field.
	Breadcrumbs []string `json:"breadcrumbs,omitempty"`
}

// topicJSON mirrors Topic with pointer fields so that decoding can
// distinguish an absent field from a present-but-empty one. The schema
// requires name, url, and sub_topics on every node, and a plain slice
// field cannot represent "missing".
type topicJSON struct {
	Name        *string      `json:"name"`
	URL         *string      `json:"url"`
	SubTopics   *[]topicJSON `json:"sub_topics"`
	Breadcrumbs *[]string    `json:"breadcrumbs"`
}

// ParseTopics decodes and validates a structure document.
//
// Validation is all-or-nothing: the first schema violation anywhere in
// the tree fails the whole document. A malformed node deep in the tree
// would otherwise corrupt output-path derivation long after parsing, so
// nothing downstream ever sees a partially valid forest. Unknown fields
// on a node are rejected for the same reason.
func ParseTopics(r io.Reader) ([]Topic, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var raw []topicJSON
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Node: "document", Reason: err.Error()}
	}
	if len(raw) == 0 {
		return nil, &ValidationError{Node: "document", Reason: "must contain at least one root topic"}
	}

	topics := make([]Topic, 0, len(raw))
	for i, node := range raw {
		t, err := convertTopic(node, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// LoadTopics reads and validates a structure document from a file.
func LoadTopics(path string) ([]Topic, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided structure path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read structure file: %w", err)
	}
	return ParseTopics(bytes.NewReader(data))
}

// convertTopic validates a single decoded node and its descendants.
// nodePath identifies the node's position for error messages, e.g.
// "[0].sub_topics[2]".
func convertTopic(raw topicJSON, nodePath string) (Topic, error) {
	if raw.Name == nil {
		return Topic{}, &ValidationError{Node: nodePath, Reason: "missing required field \"name\""}
	}
	if *raw.Name == "" {
		return Topic{}, &ValidationError{Node: nodePath, Reason: "\"name\" must not be empty"}
	}
	if raw.URL == nil {
		return Topic{}, &ValidationError{Node: nodePath, Reason: "missing required field \"url\""}
	}
	if err := validateTopicURL(*raw.URL); err != nil {
		return Topic{}, &ValidationError{Node: nodePath, Reason: err.Error()}
	}
	if raw.SubTopics == nil {
		return Topic{}, &ValidationError{Node: nodePath, Reason: "missing required field \"sub_topics\""}
	}
	if raw.Breadcrumbs != nil {
		if len(*raw.Breadcrumbs) == 0 {
			return Topic{}, &ValidationError{Node: nodePath, Reason: "\"breadcrumbs\" must not be empty when present"}
		}
		for i, crumb := range *raw.Breadcrumbs {
			if crumb == "" {
				return Topic{}, &ValidationError{
					Node:   nodePath,
					Reason: fmt.Sprintf("breadcrumbs[%d] must not be empty", i),
				}
			}
		}
	}

	t := Topic{
		Name:      *raw.Name,
		URL:       *raw.URL,
		SubTopics: make([]Topic, 0, len(*raw.SubTopics)),
	}
	if raw.Breadcrumbs != nil {
		t.Breadcrumbs = append([]string(nil), *raw.Breadcrumbs...)
	}

	for i, child := range *raw.SubTopics {
		sub, err := convertTopic(child, fmt.Sprintf("%s.sub_topics[%d]", nodePath, i))
		if err != nil {
			return Topic{}, err
		}
		t.SubTopics = append(t.SubTopics, sub)
	}
	return t, nil
}

// validateTopicURL checks that a topic URL is a non-empty absolute URI.
func validateTopicURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("\"url\" must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("\"url\" is malformed: %v", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("\"url\" must be absolute: %q", raw)
	}
	return nil
}

// CountTopics returns the total number of nodes in the forest, counting
// every root and every descendant.
func CountTopics(topics []Topic) int {
	count := 0
	for _, t := range topics {
		count += 1 + CountTopics(t.SubTopics)
	}
	return count
}
