// Package apperr defines the domain error taxonomy. Every operation
// failure carries a machine-readable kind plus the session and
// offending ids, so callers can decide between retrying, prompting the
// user, or treating the result as already applied.
package apperr

import "fmt"

// Kind is a machine-readable error kind
type Kind string

const (
	KindUnknown          Kind = "UNKNOWN"
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidState     Kind = "INVALID_STATE"
	KindForbidden        Kind = "FORBIDDEN"
	KindCapacityExceeded Kind = "CAPACITY_EXCEEDED"
	KindDuplicateVenue   Kind = "DUPLICATE_VENUE"
	KindLastVenue        Kind = "LAST_VENUE"
	KindNotParticipant   Kind = "NOT_PARTICIPANT"
	KindAlreadyVoted     Kind = "ALREADY_VOTED"
	KindAlreadyInvited   Kind = "ALREADY_INVITED"
	KindInvalidCode      Kind = "INVALID_CODE"
	KindSessionClosed    Kind = "SESSION_CLOSED"
	KindCannotRemoveHost Kind = "CANNOT_REMOVE_HOST"
	KindNoVenues         Kind = "NO_VENUES"
)

// Error is the domain error type
type Error struct {
	Kind      Kind
	Message   string
	SessionID string // session the operation targeted, if resolved
	Ref       string // offending id (venue, user, invitation, code)
	Cause     error
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Ref)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// New creates a domain error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a domain error around an underlying cause
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// In attaches the target session id
func (e *Error) In(sessionID string) *Error {
	e.SessionID = sessionID
	return e
}

// WithRef attaches the offending id
func (e *Error) WithRef(ref string) *Error {
	e.Ref = ref
	return e
}

// KindOf extracts the kind from an error chain, or KindUnknown
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}
