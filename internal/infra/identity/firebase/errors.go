package firebase

import (
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"

	domainerrors "menshub/internal/domain/errors"
)

// mapSignInError converts an Identity Toolkit REST error code to a domain
// error kind. Codes sometimes carry a trailing explanation after a colon,
// e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...", so only the prefix is matched.
func mapSignInError(code string) error {
	normalized := strings.TrimSpace(strings.ToUpper(code))
	if idx := strings.IndexAny(normalized, " :"); idx > 0 {
		normalized = normalized[:idx]
	}

	switch normalized {
	case "EMAIL_NOT_FOUND":
		return domainerrors.ErrAccountNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		// Newer API revisions collapse both failures into one code; the
		// login form treats them the same way.
		return domainerrors.ErrIncorrectPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return domainerrors.ErrInvalidEmail
	case "USER_DISABLED":
		return domainerrors.ErrAccountDisabled
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return domainerrors.ErrRateLimited
	case "EMAIL_EXISTS":
		return domainerrors.ErrDuplicateEmail
	case "WEAK_PASSWORD":
		return domainerrors.ErrWeakPassword
	case "OPERATION_NOT_ALLOWED", "PASSWORD_LOGIN_DISABLED":
		return domainerrors.ErrProviderUnavailable
	default:
		return domainerrors.ErrUnknownAuthFailure.WithDetails(code)
	}
}

// mapAdminError converts a Firebase Admin SDK error to a domain error kind.
func mapAdminError(err error) error {
	switch {
	case err == nil:
		return nil
	case firebaseauth.IsEmailAlreadyExists(err):
		return domainerrors.ErrDuplicateEmail
	case firebaseauth.IsUserNotFound(err):
		return domainerrors.ErrAccountNotFound
	default:
		// Anything unmapped from the Admin SDK is treated as the provider
		// being unreachable so the caller can fall back.
		return domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	}
}
