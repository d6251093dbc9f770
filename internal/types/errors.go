package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for craftbook operations.
var (
	// ErrMalformedToken indicates an identifier or number failed to lex.
	ErrMalformedToken = errors.New("malformed token")

	// ErrUnexpectedEnd indicates input ended before a declared count was satisfied.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrIdentifierNotFound indicates a remapping function rejected an identifier.
	ErrIdentifierNotFound = errors.New("identifier not found")

	// ErrStructuralMismatch indicates the input form is incompatible with the requested instantiation.
	ErrStructuralMismatch = errors.New("structural mismatch")

	// ErrEmptyExpression indicates an expression with no terms.
	ErrEmptyExpression = errors.New("expression is empty")
)

// ParseErrorKind classifies a grammar failure.
type ParseErrorKind int

const (
	KindExpectedToken ParseErrorKind = iota
	KindInsufficientLength
	KindNotANumber
	KindTrailing
	KindLengthMismatch
	KindEmptyField
)

// String returns the kebab-case kind name used in messages and metric labels.
func (k ParseErrorKind) String() string {
	switch k {
	case KindExpectedToken:
		return "expected-token"
	case KindInsufficientLength:
		return "insufficient-length"
	case KindNotANumber:
		return "not-a-number"
	case KindTrailing:
		return "trailing-unconsumed"
	case KindLengthMismatch:
		return "length-mismatch"
	case KindEmptyField:
		return "empty-field"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

// ParseError is a grammar failure at a byte offset of the grammar's input.
// Pos is relative to the slice handed to the entry point that failed.
type ParseError struct {
	Pos  int
	Kind ParseErrorKind
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Pos)
	}
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Pos, e.Msg)
}

// Unwrap maps the kind onto a sentinel so callers can use errors.Is.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case KindInsufficientLength, KindEmptyField:
		return ErrUnexpectedEnd
	case KindLengthMismatch:
		return ErrStructuralMismatch
	default:
		return ErrMalformedToken
	}
}

// Shift returns a copy of e with Pos moved by offset.
// Used when a sub-grammar ran on a slice that starts offset bytes into the caller's input.
func (e *ParseError) Shift(offset int) *ParseError {
	shifted := *e
	shifted.Pos += offset
	return &shifted
}

// NewParseError builds a ParseError.
func NewParseError(pos int, kind ParseErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a key missing from a namespace. Wraps ErrIdentifierNotFound.
type NotFoundError struct {
	Key     string
	Meaning Meaning
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key %s not found in %s dictionary", e.Key, e.Meaning)
}

func (e *NotFoundError) Unwrap() error {
	return ErrIdentifierNotFound
}
