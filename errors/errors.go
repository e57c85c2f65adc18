package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseFrame  Phase = "frame"  // locating a value's byte span
	PhaseDecode Phase = "decode" // wire bytes to Go value
	PhaseEncode Phase = "encode" // Go value to wire bytes
)

// Kind categorizes the error
type Kind string

const (
	// KindMalformedPayload marks framing or decoding failures caused by the
	// byte stream itself: an unknown type code or corrupt framing. For
	// streaming callers this means the connection is desynchronized.
	KindMalformedPayload Kind = "malformed_payload"

	// KindNotImplemented marks encode requests for a runtime value shape or
	// forced type name with no registered encoder. A caller error, not a
	// data error.
	KindNotImplemented Kind = "not_implemented"

	KindInsufficientData Kind = "insufficient_data"
	KindOverflow         Kind = "overflow"
	KindInvalidUTF8      Kind = "invalid_utf8"
	KindFieldMissing     Kind = "field_missing"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WireType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WireType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire type ")
			b.WriteString(e.WireType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire type ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WireType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire type name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MalformedPayload creates a malformed payload error
func MalformedPayload(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedPayload,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// NotImplemented creates an error naming the unhandled type. The wire type
// is the forced encoder name when one was requested, empty otherwise.
func NotImplemented(phase Phase, goType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNotImplemented,
		GoType:   goType,
		WireType: wireType,
		Detail:   "no encoder registered",
	}
}

// InsufficientData creates an error for reads past the buffered content.
// Callers are expected to have checked Remaining first; hitting this is a
// framing bug, not a retryable condition.
func InsufficientData(phase Phase, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInsufficientData,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		WireType: targetType,
		Detail:   fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:    value,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// FieldMissing creates a missing field error for ordered-field projections
func FieldMissing(phase Phase, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Detail: fmt.Sprintf("declared field %q not found", fieldName),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
