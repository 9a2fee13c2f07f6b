// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// UserRecord is the document stored for every account in the remote "users"
// collection, keyed by the identity provider's subject id. It is created on
// first sign-in (password or OAuth) and updated on every subsequent login.
type UserRecord struct {
	UID           string    // Subject id assigned by the identity provider.
	Name          string    // Display name.
	Email         string    // Primary contact email, also the login identifier.
	Role          Role      // Single role string; see NormalizeRoles for legacy list shapes.
	Provider      string    // Sign-in method that created the record, e.g. "password", "google".
	EmailVerified bool      // Whether the provider has confirmed the email address.
	CreatedAt     time.Time // When the record was first written.
	LastLoginAt   time.Time // Updated on every successful login.
}

// LocalUserRecord is the fallback credential record persisted in the local
// store when the remote identity provider is unavailable. The email is unique
// case-insensitively. Records are never deleted by any exposed operation.
type LocalUserRecord struct {
	ID           string    // Locally generated id (uuid).
	Name         string    // Display name.
	Email        string    // Stored lowercased.
	Role         Role      // Defaults to member.
	PasswordHash string    // One-way hash; stripped from any listing.
	CreatedAt    time.Time // When the record was registered.
}

// Account is the unified view model returned to the rest of the application
// regardless of which identity source resolved it. It is never persisted;
// it is reconstructed per request from the session and the matching record.
type Account struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
}

// Roles returns the account's roles in list form for authorization checks.
func (a *Account) Roles() Roles {
	return NormalizeRoles(a.Role)
}
