// Package diffrerrors defines the error taxonomy shared across diffr's core
// and collaborators, so that the CLI and JSON output layers can classify a
// failure without resorting to string matching.
package diffrerrors

import (
	"errors"
	"fmt"
)

// Kind identifies a class of error from the taxonomy in the system design.
// Kinds are a closed set, matched exhaustively by callers that need to
// render a specific message or exit code.
type Kind int

const (
	// KindUnknown is the zero value and should never be produced
	// intentionally.
	KindUnknown Kind = iota
	// KindNotFound indicates a cluster, drive, archive entry, or path that
	// was expected to exist does not.
	KindNotFound
	// KindAlreadyExists indicates a cluster name or drive identity collision.
	KindAlreadyExists
	// KindNotConnected indicates a drive's effective root is not reachable.
	KindNotConnected
	// KindRepoNotInitialized indicates a path lacks .diffr/repo.toml.
	KindRepoNotInitialized
	// KindIntegrityFailure indicates a hash mismatch on restore or verify.
	KindIntegrityFailure
	// KindIoFailure indicates an underlying filesystem error.
	KindIoFailure
	// KindSerializationFailure indicates malformed TOML/JSON input.
	KindSerializationFailure
	// KindPolicyConflict indicates an operation that conflicts with
	// configured policy (e.g. interactive strategy under --json).
	KindPolicyConflict
)

// String returns the wire/CLI representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotConnected:
		return "not_connected"
	case KindRepoNotInitialized:
		return "repo_not_initialized"
	case KindIntegrityFailure:
		return "integrity_failure"
	case KindIoFailure:
		return "io_failure"
	case KindSerializationFailure:
		return "serialization_failure"
	case KindPolicyConflict:
		return "policy_conflict"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a Kind, so that callers can use
// errors.As to recover the classification while %w-wrapping preserves the
// original cause for diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error of the given kind with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// As extracts the Kind of err if it is (or wraps) an *Error, returning
// KindUnknown and false otherwise.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindUnknown, false
}
