package config

import (
	"errors"
	"fmt"
)

// ErrorClass classifies configuration errors so callers can branch on them
// with errors.Is regardless of the key or operation involved.
type ErrorClass string

const (
	// ClassNotFound indicates a key unknown to the schema, outside a typed
	// group's field set, or absent from a dynamic config probed without create.
	ClassNotFound ErrorClass = "not_found"

	// ClassTypeMismatch indicates a write whose value kind is incompatible
	// with the option's declared kind.
	ClassTypeMismatch ErrorClass = "type_mismatch"

	// ClassUnknownToken indicates an enum write with a token the codec does
	// not declare.
	ClassUnknownToken ErrorClass = "unknown_token"

	// ClassOutOfRange indicates a numeric write outside the declared bounds.
	ClassOutOfRange ErrorClass = "out_of_range"

	// ClassDuplicateKey indicates a key or alias defined twice while building
	// a schema.
	ClassDuplicateKey ErrorClass = "duplicate_key"

	// ClassDanglingReference indicates an alias, shortcut or ratio-over
	// relation pointing at a key the schema cannot satisfy.
	ClassDanglingReference ErrorClass = "dangling_reference"

	// ClassShadowedKey indicates two composite members declaring the same key.
	ClassShadowedKey ErrorClass = "shadowed_key"
)

// Sentinel errors for errors.Is checks. Matching compares the class only.
var (
	ErrNotFound          = &Error{Class: ClassNotFound, Message: "option not found"}
	ErrTypeMismatch      = &Error{Class: ClassTypeMismatch, Message: "type mismatch"}
	ErrUnknownToken      = &Error{Class: ClassUnknownToken, Message: "unknown enum token"}
	ErrOutOfRange        = &Error{Class: ClassOutOfRange, Message: "value out of range"}
	ErrDuplicateKey      = &Error{Class: ClassDuplicateKey, Message: "duplicate key"}
	ErrDanglingReference = &Error{Class: ClassDanglingReference, Message: "dangling reference"}
	ErrShadowedKey       = &Error{Class: ClassShadowedKey, Message: "shadowed key"}
)

// Error is a classified configuration error.
type Error struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Key is the option key involved, if any.
	Key string `json:"key,omitempty"`

	// Op is the operation being performed (set, lookup, define, build...).
	Op string `json:"op,omitempty"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	switch {
	case e.Key != "" && e.Op != "":
		return fmt.Sprintf("%s %s: %s", e.Op, e.Key, msg)
	case e.Key != "":
		return fmt.Sprintf("%s: %s", e.Key, msg)
	default:
		return msg
	}
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same class.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

// WithKey sets the key the error refers to.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithOp sets the operation the error occurred in.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// newError creates a classified error with a formatted message.
func newError(class ErrorClass, key, format string, args ...any) *Error {
	return &Error{
		Class:   class,
		Key:     key,
		Message: fmt.Sprintf(format, args...),
	}
}

// ClassOf returns the class of err when it is (or wraps) an *Error.
func ClassOf(err error) (ErrorClass, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Class, true
	}
	return "", false
}
