package core

import (
	"fmt"
	"strings"
)

// MissingInputError is returned when the input file does not exist.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// DecodingError is returned when no candidate encoding produced usable text.
type DecodingError struct {
	Attempts []DecodeAttempt
}

func (e *DecodingError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Encoding, a.Err))
	}
	return fmt.Sprintf("decoding failed with every candidate encoding (%s)", strings.Join(parts, "; "))
}

// RowShapeError reports a data row with too few fields, or one the CSV reader
// could not split (Err set).
type RowShapeError struct {
	Line   int
	Fields int
	Min    int
	Err    error
}

func (e *RowShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: malformed record: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: row has %d fields, expected at least %d", e.Line, e.Fields, e.Min)
}

func (e *RowShapeError) Unwrap() error { return e.Err }

// FieldCoercionError reports a field that could not be converted to its type.
type FieldCoercionError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *FieldCoercionError) Error() string {
	return fmt.Sprintf("line %d: invalid number for %q: %q", e.Line, e.Field, e.Value)
}

func (e *FieldCoercionError) Unwrap() error { return e.Err }

// SemanticValidationError reports a well-formed row that is not a usable POI.
type SemanticValidationError struct {
	Line   int
	Reason string
}

func (e *SemanticValidationError) Error() string {
	return fmt.Sprintf("line %d: invalid row: %s", e.Line, e.Reason)
}

// IOWriteError is returned when an output artifact cannot be written.
type IOWriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOWriteError) Error() string {
	return fmt.Sprintf("write output %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *IOWriteError) Unwrap() error { return e.Err }

// VerificationError is returned when the written output does not read back as expected.
type VerificationError struct {
	Path   string
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("output verification failed for %s: %s", e.Path, e.Reason)
}
