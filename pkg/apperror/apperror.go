// Package apperror defines the closed set of failure kinds returned by the
// application services. Transports map kinds to their own status codes once,
// at the boundary.
package apperror

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindDuplicateEmail
	KindDuplicateIdentification
	KindDuplicateUsername
	KindCredentialsMissing
	// KindConflict is a unique-constraint violation reported by the datastore
	// after the application-side checks passed (a concurrent write won).
	KindConflict
)

var kindNames = map[Kind]string{
	KindInternal:                "internal",
	KindInvalidInput:            "invalid_input",
	KindNotFound:                "not_found",
	KindDuplicateEmail:          "duplicate_email",
	KindDuplicateIdentification: "duplicate_identification",
	KindDuplicateUsername:       "duplicate_username",
	KindCredentialsMissing:      "credentials_missing",
	KindConflict:                "conflict",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a failure tagged with its Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap tags err with kind and a context message.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func InvalidInput(msg string) error { return New(KindInvalidInput, msg) }

func NotFound(msg string) error { return New(KindNotFound, msg) }

// Internal wraps an unexpected collaborator failure.
func Internal(msg string, err error) error { return Wrap(KindInternal, msg, err) }

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
// when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
