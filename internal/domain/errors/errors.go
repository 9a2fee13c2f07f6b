// Package errors defines the application error contract and the error kinds
// surfaced by the authentication subsystem. Provider-specific failure codes
// are mapped onto these kinds at the adapter boundary so callers only ever
// see a single human-readable message per kind.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// Is matches errors of the same kind, so a copy carrying details still
// compares equal to its predefined kind under errors.Is.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error kinds. The messages match what the login and
// registration forms display inline.
var (
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		"ACCOUNT_NOT_FOUND",
		"No account found with this email address.",
		"",
	)

	ErrIncorrectPassword = NewBaseError(
		http.StatusUnauthorized,
		"INCORRECT_PASSWORD",
		"Incorrect password.",
		"",
	)

	ErrDuplicateEmail = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_EMAIL",
		"An account with this email already exists.",
		"",
	)

	ErrWeakPassword = NewBaseError(
		http.StatusBadRequest,
		"WEAK_PASSWORD",
		"Password should be at least 6 characters.",
		"",
	)

	ErrInvalidEmail = NewBaseError(
		http.StatusBadRequest,
		"INVALID_EMAIL",
		"Invalid email address.",
		"",
	)

	ErrAccountDisabled = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_DISABLED",
		"This account has been disabled.",
		"",
	)

	ErrRateLimited = NewBaseError(
		http.StatusTooManyRequests,
		"RATE_LIMITED",
		"Too many failed attempts. Please try again later.",
		"",
	)

	ErrNetworkFailure = NewBaseError(
		http.StatusBadGateway,
		"NETWORK_FAILURE",
		"Network error. Please check your connection.",
		"",
	)

	ErrPopupBlocked = NewBaseError(
		http.StatusBadRequest,
		"POPUP_BLOCKED",
		"Sign-in popup was closed. Please try again.",
		"",
	)

	ErrUnauthorizedDomain = NewBaseError(
		http.StatusForbidden,
		"UNAUTHORIZED_DOMAIN",
		"Sign-in is not allowed from this domain.",
		"",
	)

	ErrUnknownAuthFailure = NewBaseError(
		http.StatusUnauthorized,
		"UNKNOWN_AUTH_FAILURE",
		"Authentication failed. Please try again.",
		"",
	)

	// ErrSessionCorrupt marks unreadable session state. It is self-healing:
	// the session manager deletes the record and treats the actor as
	// anonymous, so this kind is never surfaced to a caller.
	ErrSessionCorrupt = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_CORRUPT",
		"Session state was unreadable and has been cleared.",
		"",
	)

	// ErrProviderUnavailable marks a remote identity provider failure that
	// triggers the local fallback instead of being surfaced to the caller.
	ErrProviderUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"PROVIDER_UNAVAILABLE",
		"Authentication service is temporarily unavailable.",
		"",
	)

	ErrGoogleLoginUnavailable = NewBaseError(
		http.StatusServiceUnavailable,
		"GOOGLE_LOGIN_UNAVAILABLE",
		"Google login is only available with the remote identity provider.",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed.",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied.",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found.",
		"",
	)

	ErrMailDispatchFailed = NewBaseError(
		http.StatusBadGateway,
		"MAIL_DISPATCH_FAILED",
		"Failed to send email. Please try again later.",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error.",
		"",
	)
)

// IsUnavailability reports whether err belongs to the class of failures that
// should trigger the local fallback rather than propagate: the provider is
// unreachable, disabled, or failed in a way no mapped kind explains.
func IsUnavailability(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrNetworkFailure) {
		return true
	}

	var appErr AppError

	return !errors.As(err, &appErr)
}
