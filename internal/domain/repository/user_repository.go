// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"menshub/internal/domain/entity"
)

// ErrUserNotFound is returned when no record exists for a subject id.
var ErrUserNotFound = errors.New("user record not found")

// UserRecordPatch is a partial update applied to an existing record.
// Nil fields are left untouched.
type UserRecordPatch struct {
	Name          *string
	Role          *entity.Role
	EmailVerified *bool
}

// UserRepository defines the operations on the remote "users" collection.
// Records are created on first sign-in and updated on every login.
type UserRepository interface {
	// FindByUID retrieves a single record by the provider's subject id.
	FindByUID(ctx context.Context, uid string) (*entity.UserRecord, error)

	// Create persists a new record, keyed by its UID.
	Create(ctx context.Context, record *entity.UserRecord) error

	// TouchLastLogin stamps the record's last-login time.
	TouchLastLogin(ctx context.Context, uid string) error

	// Update applies a partial update to an existing record.
	Update(ctx context.Context, uid string, patch *UserRecordPatch) error

	// List returns every record in the collection (admin listing). Any
	// password-hash-like field is stripped before the record leaves the
	// repository, even though remote records should never hold one.
	List(ctx context.Context) ([]*entity.UserRecord, error)
}
