package model

import (
	"errors"
	"fmt"
)

// ErrSchemaValidation is the sentinel wrapped by every ValidationError.
// Callers use errors.Is(err, ErrSchemaValidation) to distinguish a bad
// structure document from I/O failures.
var ErrSchemaValidation = errors.New("structure document failed schema validation")

// ValidationError describes a single schema violation in a structure
// document. Validation stops at the first violation found, so at most
// one ValidationError is ever produced per document.
type ValidationError struct {
	// Node identifies the offending node by its position in the
	// document, e.g. "[0].sub_topics[2]", or "document" for
	// document-level violations.
	Node string

	// Reason is a human-readable description of the violation.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed at %s: %s", e.Node, e.Reason)
}

// Unwrap makes the error match ErrSchemaValidation via errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrSchemaValidation
}
