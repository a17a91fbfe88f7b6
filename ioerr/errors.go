// Package ioerr defines the closed error taxonomy shared by the CBOR and
// JSON parsers/renderers and by the Reader/Writer façade. Every error
// carries an opaque Position (input cursor or output cursor) per spec.
package ioerr

import (
	"errors"
	"fmt"

	"github.com/ionscribe/stream/item"
)

// Position is an opaque byte-cursor marker. It is a plain integer offset
// for in-memory Input/Output and a monotonically increasing counter for
// streaming sources, never interpreted beyond equality/ordering by callers.
type Position int64

// Kind discriminates the closed error taxonomy.
type Kind int8

const (
	// KindUnexpectedEndOfInput: input exhausted while a primitive or
	// composite required more bytes.
	KindUnexpectedEndOfInput Kind = iota
	// KindInvalidInputData: structurally valid header but semantic
	// violation (disallowed SimpleValue, bad JSON escape, duplicate key).
	KindInvalidInputData
	// KindUnsupported: well-formed item this implementation/target does
	// not handle.
	KindUnsupported
	// KindOverflow: a length or integer exceeds representable range.
	KindOverflow
	// KindUnexpectedDataItem: decoder found an item kind it does not
	// accept.
	KindUnexpectedDataItem
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case KindInvalidInputData:
		return "InvalidInputData"
	case KindUnsupported:
		return "Unsupported"
	case KindOverflow:
		return "Overflow"
	case KindUnexpectedDataItem:
		return "UnexpectedDataItem"
	default:
		return "Unknown"
	}
}

// Error is the single error type implementing the taxonomy in Kind. Use
// errors.As to recover Kind/Position/Expected/Actual from a wrapped error.
type Error struct {
	K        Kind
	Position Position
	Message  string
	Expected item.Kind
	Actual   item.Kind
	Cause    error
}

func (e *Error) Error() string {
	switch e.K {
	case KindUnexpectedDataItem:
		return fmt.Sprintf("%s at position %d: expected %s but got %s", e.K, e.Position, e.Expected, e.Actual)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s at position %d: %s", e.K, e.Position, e.Message)
		}
		return fmt.Sprintf("%s at position %d", e.K, e.Position)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the same Kind sentinel, so callers can
// write errors.Is(err, ioerr.Unsupported) without a type assertion.
func (e *Error) Is(target error) bool {
	var k *kindSentinel
	if errors.As(target, &k) {
		return e.K == k.k
	}
	return false
}

type kindSentinel struct{ k Kind }

func (s *kindSentinel) Error() string { return s.k.String() }

// Sentinels usable with errors.Is against any *Error of the matching Kind.
var (
	UnexpectedEndOfInput error = &kindSentinel{KindUnexpectedEndOfInput}
	InvalidInputData     error = &kindSentinel{KindInvalidInputData}
	Unsupported          error = &kindSentinel{KindUnsupported}
	Overflow             error = &kindSentinel{KindOverflow}
	UnexpectedDataItem   error = &kindSentinel{KindUnexpectedDataItem}
)

// NewUnexpectedEndOfInput builds a KindUnexpectedEndOfInput error.
func NewUnexpectedEndOfInput(pos Position, message string) *Error {
	return &Error{K: KindUnexpectedEndOfInput, Position: pos, Message: message}
}

// NewInvalidInputData builds a KindInvalidInputData error.
func NewInvalidInputData(pos Position, message string) *Error {
	return &Error{K: KindInvalidInputData, Position: pos, Message: message}
}

// NewUnsupported builds a KindUnsupported error.
func NewUnsupported(pos Position, message string) *Error {
	return &Error{K: KindUnsupported, Position: pos, Message: message}
}

// NewOverflow builds a KindOverflow error.
func NewOverflow(pos Position, message string) *Error {
	return &Error{K: KindOverflow, Position: pos, Message: message}
}

// NewUnexpectedDataItem builds a KindUnexpectedDataItem error naming both
// the expected and actual item kinds, per spec's user-visible requirement.
func NewUnexpectedDataItem(pos Position, expected, actual item.Kind) *Error {
	return &Error{K: KindUnexpectedDataItem, Position: pos, Expected: expected, Actual: actual}
}
