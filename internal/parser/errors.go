package parser

import "fmt"

// MalformedInputError reports the first position where the input stops
// matching the export grammar.
type MalformedInputError struct {
	Offset int // byte offset into the input
	Line   int // 1-based
	Column int // 1-based, in runes
	Reason string
	// Text is the offending line. It is kept out of Error() because it may
	// hold a secret.
	Text string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at line %d, column %d (offset %d): %s",
		e.Line, e.Column, e.Offset, e.Reason)
}
