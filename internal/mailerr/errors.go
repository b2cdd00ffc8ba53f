// Package mailerr classifies errors into the kinds this program's callers
// branch on: validation, storage I/O, transport, and UI setup failures.
package mailerr

import (
	"errors"
	"fmt"
)

// Kind is one of the error categories a caller can branch on.
type Kind int

const (
	// KindValidation covers malformed input: empty content, bad mailbox
	// syntax, an unparsable filter query string.
	KindValidation Kind = iota
	// KindStorageIO covers embedded database open/query/schema failures.
	KindStorageIO
	// KindTransport covers HTTP backend request failures, non-2xx
	// responses, and response decode failures.
	KindTransport
	// KindUISetup covers terminal raw-mode/alternate-screen failures.
	KindUISetup
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStorageIO:
		return "storage"
	case KindTransport:
		return "transport"
	case KindUISetup:
		return "ui_setup"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a Kind, so callers (the HTTP server,
// the CLI's exit-code logic) can classify it without string matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap builds a classified Error. A nil err returns nil, so Wrap can be
// used unconditionally at a function's return point.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Wrapf is Wrap with a formatted message prefixed via %w.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: fmt.Errorf(format+": %w", append(args, err)...)}
}

// KindOf returns the Kind of err if it (or something it wraps) is a
// classified *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsValidation reports whether err is classified as a validation failure.
func IsValidation(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindValidation
}
