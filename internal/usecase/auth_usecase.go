package usecase

import (
	"context"

	"menshub/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// AuthUsecase is the single authentication surface used by the rest of the
// application. Every operation tries the remote identity provider first and
// falls back to the local credential store when the remote side is
// unavailable, except Google sign-in which has no local equivalent.
// Successful logins write the local session before returning.
type AuthUsecase interface {
	// Register creates an account, establishes a session and broadcasts
	// an auth-changed event.
	Register(ctx context.Context, input RegisterInput) (*entity.Account, error)

	// Login authenticates an email/password pair, establishes a session
	// and broadcasts an auth-changed event.
	Login(ctx context.Context, input LoginInput) (*entity.Account, error)

	// LoginWithGoogle authenticates a Google ID token. Fails with
	// ErrGoogleLoginUnavailable when the remote provider is disabled.
	LoginWithGoogle(ctx context.Context, idToken string) (*entity.Account, error)

	// BeginGoogleRedirect returns the authorization URL for the
	// redirect-based Google flow, registering state for CSRF validation.
	BeginGoogleRedirect(state string) (string, error)

	// CompleteGoogleRedirect resolves a pending redirect flow. Returns
	// (nil, nil) when no redirect is pending; never fails application
	// startup, the caller logs and moves on.
	CompleteGoogleRedirect(ctx context.Context, state, code string) (*entity.Account, error)

	// Logout clears local session state first (fail-safe even when the
	// remote sign-out fails), then attempts remote sign-out, and
	// broadcasts auth-changed unconditionally.
	Logout(ctx context.Context) error

	// CurrentUser resolves the authenticated actor's view model, retrying
	// the remote lookup briefly before falling back to the local store.
	// Returns (nil, nil) for an anonymous actor.
	CurrentUser(ctx context.Context) (*entity.Account, error)

	// IsAuthenticated reports whether a valid session exists.
	IsAuthenticated() bool

	// NoteActivity stamps last activity and re-arms the idle watchdog for
	// an authenticated actor. A no-op for anonymous actors.
	NoteActivity()

	// ListUsersSafe returns all known accounts with credentials stripped.
	ListUsersSafe(ctx context.Context) ([]*entity.Account, error)

	// ResetPassword dispatches a password-reset email via the remote
	// provider.
	ResetPassword(ctx context.Context, email string) error
}
