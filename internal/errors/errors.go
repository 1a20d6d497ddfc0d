package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure at the service boundary.
type Kind string

const (
	KindUnauthorized            Kind = "Unauthorized"
	KindForbidden               Kind = "Forbidden"
	KindValidationFailed        Kind = "ValidationFailed"
	KindIdentityCreationFailed  Kind = "IdentityCreationFailed"
	KindInvariantViolation      Kind = "InvariantViolation"
	KindProfileInsertFailed     Kind = "ProfileInsertFailed"
	KindRoleProfileInsertFailed Kind = "RoleProfileInsertFailed"
	KindRoleAssignmentFailed    Kind = "RoleAssignmentFailed"
	KindVendorNotFound          Kind = "VendorNotFound"
	KindInternal                Kind = "InternalError"
)

var (
	// ErrUnauthorized matches any failure of kind Unauthorized via errors.Is.
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	// ErrForbidden matches any failure of kind Forbidden via errors.Is.
	ErrForbidden = &Error{Kind: KindForbidden, Message: "Forbidden"}
	// ErrVendorNotFound is returned when no vendor profile matches the id.
	ErrVendorNotFound = &Error{Kind: KindVendorNotFound, Message: "vendor not found"}
	// ErrIdentityCreatedWithoutID is the cause attached when the identity provider
	// reports a successful creation but returns no account id.
	ErrIdentityCreatedWithoutID = errors.New("IdentityCreatedWithoutId: identity provider returned no account id")
)

// Error is the single failure shape returned by services: a kind, a human
// readable message and the upstream cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New creates a kind-tagged error.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same kind, so errors.Is(err, ErrForbidden) holds for
// every Forbidden failure regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FailureResponse is the JSON body of every failed request.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    Kind   `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Kind       Kind
	Details    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string, kind Kind, details string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Kind:       kind,
		Details:    details,
	}
}

// ToFailureResponse converts an HTTPError to FailureResponse.
func (e *HTTPError) ToFailureResponse() FailureResponse {
	return FailureResponse{
		Success: false,
		Error:   e.Message,
		Kind:    e.Kind,
		Details: e.Details,
	}
}

// StatusOf maps a failure kind to its HTTP status.
func StatusOf(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidationFailed, KindIdentityCreationFailed:
		return http.StatusBadRequest
	case KindVendorNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps service errors to HTTP errors. Untagged errors never
// leak their text to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", KindInternal, "")
	}
	details := ""
	if e.Cause != nil {
		details = e.Cause.Error()
	}
	return NewHTTPError(StatusOf(e.Kind), e.Message, e.Kind, details)
}
