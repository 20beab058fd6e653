// Package cpierrors defines the closed error taxonomy every backend failure
// is normalized into before it reaches a CPI host.
package cpierrors

import (
	"errors"
	"fmt"
)

// Kind is one member of the closed taxonomy. Hosts reason about failures
// only through kinds; the raw backend message is carried for diagnostics but
// never parsed upstream.
type Kind string

const (
	// KindInvalidParameters marks malformed or missing request parameters,
	// detected before any backend call is issued.
	KindInvalidParameters Kind = "INVALID_PARAMETERS"

	// KindUnsupportedAction marks an action name outside the fixed vocabulary.
	KindUnsupportedAction Kind = "UNSUPPORTED_ACTION"

	// KindNotFound marks a referenced resource that does not exist.
	KindNotFound Kind = "NOT_FOUND"

	// KindAuthentication marks a credential or authorization failure.
	KindAuthentication Kind = "AUTHENTICATION_ERROR"

	// KindRateLimited marks backend throttling. It is surfaced to the host,
	// never retried internally.
	KindRateLimited Kind = "RATE_LIMITED"

	// KindConflict marks an operation invalid for the resource's current
	// state, e.g. deleting an in-use volume.
	KindConflict Kind = "CONFLICT"

	// KindUnknownBackend is the catch-all for unclassified backend failures.
	// The raw backend message travels with it.
	KindUnknownBackend Kind = "UNKNOWN_BACKEND_ERROR"
)

// Error is a classified CPI failure.
type Error struct {
	Kind    Kind   `json:"kind"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Action, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying backend error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind so hosts can write errors.Is(err, target)
// against sentinel errors built with New.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies a backend error, preserving it as the cause. A nil cause
// yields nil.
func Wrap(kind Kind, cause error, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithAction returns a copy of the error carrying the CPI action it occurred
// in. The receiver is left untouched so shared sentinel errors stay clean.
func (e *Error) WithAction(action string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Action = action
	return &clone
}

// KindOf extracts the taxonomy kind from any error. Unclassified errors
// report KindUnknownBackend; nil reports the empty kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknownBackend
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is a NotFound. The dispatcher uses this to
// convert existence checks into a successful false.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
