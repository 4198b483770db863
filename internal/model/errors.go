package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHeaderDelimiter is returned when the document text ends before the "---" line.
	ErrMissingHeaderDelimiter = errors.New("missing header delimiter")
	// ErrForeignTopic is returned when a topic owned by another mind map is passed in.
	ErrForeignTopic = errors.New("topic belongs to another mind map")
	// ErrNotInMap is returned when a topic is not reachable from the root.
	ErrNotInMap = errors.New("topic is not in this mind map")

	ErrCannotCloneRoot     = errors.New("root topic can't be cloned")
	ErrInvalidAttributeKey = errors.New("invalid attribute key")
	// ErrInvalidAttributeValue is returned for values that would break the one-line attribute encoding.
	ErrInvalidAttributeValue = errors.New("attribute value must be a single line")

	ErrCycle    = errors.New("topic can't be moved into its own subtree")
	ErrNotFound = errors.New("topic not found")
)

// ParseError describes a document-level parse failure. Line and Offset point
// into the original text (1-based line, 0-based byte offset).
type ParseError struct {
	Line   int
	Offset int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at line %d (offset %d): %s: %v", e.Line, e.Offset, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse error at line %d (offset %d): %s", e.Line, e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
