package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// ProductRow is one row of the product table written to a page's
// tables folder.
type ProductRow struct {
	// Name is the product or section name.
	Name string `json:"name"`

	// URL is the page the row was extracted from.
	URL string `json:"url"`

	// Specifications is the flattened specification text, when present.
	Specifications string `json:"specifications,omitempty"`
}

// WriteProductTable writes product rows as indented JSON. An empty row
// set writes an empty array rather than null, so consumers can always
// iterate the result.
func WriteProductTable(w io.Writer, rows []ProductRow) error {
	if rows == nil {
		rows = []ProductRow{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode product table: %w", err)
	}
	return nil
}
