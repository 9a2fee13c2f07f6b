package repository

import (
	"context"
	"errors"

	"menshub/internal/domain/entity"
)

// ErrCredentialNotFound is returned when no local record matches an email.
var ErrCredentialNotFound = errors.New("credential record not found")

// CredentialRepository defines the operations on the local fallback
// credential records. Lookups are case-insensitive on email. No operation
// deletes a record.
type CredentialRepository interface {
	// FindByEmail retrieves a record by email, matched case-insensitively.
	FindByEmail(ctx context.Context, email string) (*entity.LocalUserRecord, error)

	// FindByID retrieves a record by its locally generated id.
	FindByID(ctx context.Context, id string) (*entity.LocalUserRecord, error)

	// Create appends a new record. It does not check for duplicates; the
	// caller is expected to have looked the email up first.
	Create(ctx context.Context, record *entity.LocalUserRecord) error

	// List returns all records, password hashes included. Callers exposing
	// the result must strip the hash.
	List(ctx context.Context) ([]*entity.LocalUserRecord, error)
}
