package viacep

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a lookup failure.
type Kind string

const (
	KindInvalidFormat Kind = "invalid_format"    // input rejected before any request
	KindTransport     Kind = "transport_failure" // connection, socket or HTTP status error
	KindDecode        Kind = "decode_failure"    // malformed or schema-mismatched payload
)

const (
	opAddress = "viacep.address"
	opSearch  = "viacep.search"
)

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrInvalidFormat    = &Error{Kind: KindInvalidFormat, Message: "invalid format"}
	ErrTransportFailure = &Error{Kind: KindTransport, Message: "transport failure"}
	ErrDecodeFailure    = &Error{Kind: KindDecode, Message: "decode failure"}
)

// Error is returned by Client and passed to Callback.OnFailure.
type Error struct {
	Kind Kind

	// Op is the lookup that failed (e.g., "viacep.address").
	Op string

	// Field and Value identify the rejected input for KindInvalidFormat.
	Field string
	Value string

	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "invalid %s %q: ", e.Field, e.Value)
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Field == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf extracts the Kind from err. Returns "" for nil or foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldOf returns the rejected input field of an invalid-format error.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindInvalidFormat {
		return e.Field
	}
	return ""
}

// StatusError is the cause of a transport failure when the remote service
// answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func invalidField(op, field, value, message string) error {
	return &Error{
		Kind:    KindInvalidFormat,
		Op:      op,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

func transportError(op string, err error) error {
	return &Error{
		Kind:    KindTransport,
		Op:      op,
		Message: "request failed",
		Err:     err,
	}
}

func decodeError(op string, err error) error {
	return &Error{
		Kind:    KindDecode,
		Op:      op,
		Message: "failed to decode response",
		Err:     err,
	}
}
