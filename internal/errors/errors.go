package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindState
)

// Error is a domain error carrying a user-safe message.
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

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation error with a field-level message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Internal wraps an unexpected failure; the message is what callers see.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = New(KindNotFound, "User does not exist")
	// ErrUserExists is returned when the email or username is already taken.
	ErrUserExists = New(KindConflict, "Email or username already exists")
	// ErrMissingCredentials is returned when signin lacks email or password.
	ErrMissingCredentials = New(KindValidation, "Email and password are required")
	// ErrUnknownAccount is returned by flows that treat an unknown email as an auth failure.
	ErrUnknownAccount = New(KindUnauthorized, "Invalid email or password")
	// ErrResetUnknownUser is returned by the password reset flow for an unknown email.
	ErrResetUnknownUser = New(KindUnauthorized, "User does not exist")
	// ErrInvalidPassword is returned when the supplied password does not match.
	ErrInvalidPassword = New(KindForbidden, "Invalid password")
	// ErrInvalidOldPassword is returned when change-password gets a wrong old password.
	ErrInvalidOldPassword = New(KindForbidden, "Invalid password credentials")
	// ErrNotVerified is returned when an unverified account calls a verified-only operation.
	ErrNotVerified = New(KindUnauthorized, "You are not verified")
	// ErrAlreadyVerified is returned when the account is already verified.
	ErrAlreadyVerified = New(KindState, "User already verified")
	// ErrCodeMissing is returned when no code is outstanding for the account.
	ErrCodeMissing = New(KindState, "Code is missing or invalid")
	// ErrCodeExpired is returned when the outstanding code is older than its window.
	ErrCodeExpired = New(KindState, "Code has expired")
	// ErrCodeMismatch is returned when the provided code does not match.
	ErrCodeMismatch = New(KindState, "Invalid code")
	// ErrDeliveryFailed is returned when the mail transport did not accept the message.
	ErrDeliveryFailed = New(KindInternal, "Failed to send code")
	// ErrItemNotFound is returned when an item id does not resolve.
	ErrItemNotFound = New(KindNotFound, "Item not found with this ID")
	// ErrNoItems is returned when a search or category lookup has no results.
	ErrNoItems = New(KindNotFound, "No items found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
	}
}

// KindOf reports the kind of err, or KindInternal when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MapErrorToHTTP maps domain errors to HTTP errors. Internal errors never
// expose their message chain.
func MapErrorToHTTP(err error) *HTTPError {
	var de *Error
	if !errors.As(err, &de) {
		return NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	switch de.Kind {
	case KindValidation, KindState:
		return NewHTTPError(http.StatusBadRequest, de.Message)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, de.Message)
	case KindConflict:
		return NewHTTPError(http.StatusConflict, de.Message)
	case KindUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, de.Message)
	case KindForbidden:
		return NewHTTPError(http.StatusForbidden, de.Message)
	default:
		return NewHTTPError(http.StatusInternalServerError, de.Message)
	}
}
