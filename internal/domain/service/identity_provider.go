// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within
// a single entity.
package service

import (
	"context"

	"menshub/internal/domain/entity"
)

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role // Defaults to member when empty.
}

// IdentityProvider is the capability contract shared by the remote identity
// adapter and the local credential store. The auth facade composes the two
// with explicit try/fallback control flow; neither implementation knows the
// other exists.
type IdentityProvider interface {
	// Register creates an account and returns the unified view model.
	Register(ctx context.Context, input *RegisterInput) (*entity.Account, error)

	// Login authenticates an email/password pair.
	Login(ctx context.Context, email, password string) (*entity.Account, error)

	// CurrentUser resolves the view model for an authenticated subject.
	// It returns (nil, nil) when the subject is unknown to this provider.
	CurrentUser(ctx context.Context, subjectID string) (*entity.Account, error)

	// Logout revokes any provider-side state for the subject. Local session
	// state is owned by the session manager, not the provider.
	Logout(ctx context.Context, subjectID string) error

	// ListUsers returns all known accounts with credentials stripped.
	ListUsers(ctx context.Context) ([]*entity.Account, error)
}

// GoogleIdentityProvider extends IdentityProvider with the OAuth sign-in
// operations only the remote adapter supports.
type GoogleIdentityProvider interface {
	IdentityProvider

	// LoginWithGoogle verifies a Google ID token (the popup-equivalent
	// flow) and creates or refreshes the account record.
	LoginWithGoogle(ctx context.Context, idToken string) (*entity.Account, error)

	// AuthorizationURL builds the redirect-flow authorization URL.
	AuthorizationURL(state string) string

	// HandleRedirectResult resolves a pending redirect-based OAuth flow
	// from its state and authorization code. It returns (nil, nil) when no
	// redirect is pending and must never block application startup on
	// failure.
	HandleRedirectResult(ctx context.Context, state, code string) (*entity.Account, error)

	// ResetPassword dispatches a password-reset email.
	ResetPassword(ctx context.Context, email string) error
}
