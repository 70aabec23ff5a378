// Package sqlerr provides the structured error taxonomy shared by the
// schema, query, compiler and driver layers. Every failure a statement
// can hit before it reaches the database is one of these kinds; a tree
// that survives construction and compilation is syntactically valid SQL.
package sqlerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by the contract it violates.
type Kind int

const (
	// KindConfig is a malformed schema declaration (duplicate column names).
	KindConfig Kind = iota
	// KindScope is an expression referencing a column outside the current row shape.
	KindScope
	// KindTypeMismatch is an operation over incompatible element types.
	KindTypeMismatch
	// KindAggregate is a grouped query whose output mixes keys and aggregates illegally.
	KindAggregate
	// KindMissingColumn is an insert omitting a non-defaultable column.
	KindMissingColumn
	// KindUnsupported is a tree node the target dialect cannot express.
	KindUnsupported
	// KindDecode is a driver row shape that does not match the declared output shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindScope:
		return "scope"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindAggregate:
		return "aggregate"
	case KindMissingColumn:
		return "missing_column"
	case KindUnsupported:
		return "unsupported"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the structured error type used throughout the library.
type Error struct {
	Kind    Kind
	Message string
	Table   string
	Column  string
	Cause   error
}

func (e *Error) Error() string {
	msg := "[" + e.Kind.String() + "] " + e.Message
	if e.Table != "" {
		msg += " (table " + e.Table
		if e.Column != "" {
			msg += ", column " + e.Column
		}
		msg += ")"
	} else if e.Column != "" {
		msg += " (column " + e.Column + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches by kind, so callers can test errors.Is(err, sqlerr.Decode("")).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is (or wraps) a taxonomy error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Config reports a malformed schema declaration.
func Config(format string, args ...any) *Error { return newf(KindConfig, format, args...) }

// Scope reports a column reference outside the current row shape.
func Scope(format string, args ...any) *Error { return newf(KindScope, format, args...) }

// TypeMismatch reports an operation over incompatible element types.
func TypeMismatch(format string, args ...any) *Error { return newf(KindTypeMismatch, format, args...) }

// Aggregate reports a violated group-by invariant.
func Aggregate(format string, args ...any) *Error { return newf(KindAggregate, format, args...) }

// MissingColumn reports an insert that omits a required column.
func MissingColumn(format string, args ...any) *Error { return newf(KindMissingColumn, format, args...) }

// Unsupported reports a construct the target dialect cannot express.
func Unsupported(format string, args ...any) *Error { return newf(KindUnsupported, format, args...) }

// Decode reports a driver row that does not match the declared shape.
func Decode(format string, args ...any) *Error { return newf(KindDecode, format, args...) }

// WithTable attaches table context to the error.
func (e *Error) WithTable(table string) *Error {
	e.Table = table
	return e
}

// WithColumn attaches column context to the error.
func (e *Error) WithColumn(column string) *Error {
	e.Column = column
	return e
}

// Wrap attaches a cause.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}
