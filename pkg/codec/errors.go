package codec

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a codec failure.
type Kind int

const (
	// UnknownType means a type identifier could not be resolved to a codec
	// and could not be built by any of the registry's construction paths.
	UnknownType Kind = iota
	// DisallowedType means the allow-list rejected a decode target.
	DisallowedType
	// SchemaMismatch means the wire data's shape does not match the
	// declared type's schema (missing field, wrong arity, ...).
	SchemaMismatch
	// WireFormat means the underlying adapter could not parse its tokens.
	WireFormat
	// Reflection means the target type could not be instantiated or
	// mutated by reflection.
	Reflection
	// StreamIO means the underlying stream returned an error.
	StreamIO
)

func (k Kind) String() string {
	switch k {
	case UnknownType:
		return "unknown type"
	case DisallowedType:
		return "disallowed type"
	case SchemaMismatch:
		return "schema mismatch"
	case WireFormat:
		return "wire format"
	case Reflection:
		return "reflection"
	case StreamIO:
		return "stream io"
	default:
		return "unknown kind"
	}
}

// Error is the single failure type this package returns. It carries the
// Kind, the type identifier it concerns (if any), and an optional wrapped
// cause.
type Error struct {
	Kind    Kind
	TypeID  TypeID
	Op      string
	Cause   error
}

func (e *Error) Error() string {
	if e.TypeID != "" {
		if e.Cause != nil {
			return fmt.Sprintf("codec: %s: %s (%s): %v", e.Op, e.Kind, e.TypeID, e.Cause)
		}
		return fmt.Sprintf("codec: %s: %s (%s)", e.Op, e.Kind, e.TypeID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("codec: %s: %s: %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("codec: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(op string, kind Kind, typeID TypeID, cause error) *Error {
	return &Error{Op: op, Kind: kind, TypeID: typeID, Cause: cause}
}

func errUnknownType(op string, id TypeID, cause error) error {
	return newError(op, UnknownType, id, cause)
}

func errDisallowedType(op string, id TypeID) error {
	return newError(op, DisallowedType, id, nil)
}

func errSchemaMismatch(op string, id TypeID, cause error) error {
	return newError(op, SchemaMismatch, id, cause)
}

func errWireFormat(op string, cause error) error {
	return newError(op, WireFormat, "", cause)
}

func errReflection(op string, id TypeID, cause error) error {
	return newError(op, Reflection, id, cause)
}

func errStreamIO(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return newError(op, StreamIO, "", cause)
}

func isKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsUnknownType reports whether err (or anything it wraps) is an UnknownType error.
func IsUnknownType(err error) bool { return isKind(err, UnknownType) }

// IsDisallowedType reports whether err (or anything it wraps) is a DisallowedType error.
func IsDisallowedType(err error) bool { return isKind(err, DisallowedType) }

// IsSchemaMismatch reports whether err (or anything it wraps) is a SchemaMismatch error.
func IsSchemaMismatch(err error) bool { return isKind(err, SchemaMismatch) }

// IsWireFormat reports whether err (or anything it wraps) is a WireFormat error.
func IsWireFormat(err error) bool { return isKind(err, WireFormat) }

// IsReflection reports whether err (or anything it wraps) is a Reflection error.
func IsReflection(err error) bool { return isKind(err, Reflection) }

// IsStreamIO reports whether err (or anything it wraps) is a StreamIO error.
func IsStreamIO(err error) bool { return isKind(err, StreamIO) }
