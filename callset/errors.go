package callset

import "fmt"

// SchemaError reports a violation of the mandatory input schema: a missing
// mandatory column, or a record with an empty value in one. A SchemaError
// aborts the run before any output is written.
type SchemaError struct {
	Path   string
	Line   int // 1-based; 0 when the header itself is at fault
	Column string
	// Suggestion is the closest actual header name, when the miss looks
	// like a misspelling.
	Suggestion string
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: empty value in mandatory column %q", e.Path, e.Line, e.Column)
	}
	msg := fmt.Sprintf("%s: mandatory column %q missing from header", e.Path, e.Column)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// EmptyCollectionError reports that a collection contains no valid records.
// A comparison against nothing is undefined, so runs abort instead of
// reporting every record unmatched.
type EmptyCollectionError struct {
	Collection string
}

func (e *EmptyCollectionError) Error() string {
	return fmt.Sprintf("%s: no valid records to compare", e.Collection)
}
