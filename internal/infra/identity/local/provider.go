// Package local implements the fallback identity provider over the local
// credential store. It exists so registration and login keep working when
// the remote provider is unreachable; accounts created here are local-only
// and are not synchronized back.
package local

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"menshub/internal/domain/entity"
	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/repository"
	"menshub/internal/domain/service"
)

type provider struct {
	credentials repository.CredentialRepository
	hasher      service.PasswordHasher
}

// NewProvider is the constructor for the local identity provider.
func NewProvider(credentials repository.CredentialRepository, hasher service.PasswordHasher) service.IdentityProvider {
	return &provider{credentials: credentials, hasher: hasher}
}

// Register creates a local credential record. Duplicate detection is
// case-insensitive on email.
func (p *provider) Register(ctx context.Context, input *service.RegisterInput) (*entity.Account, error) {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, domainerrors.ErrInvalidEmail
	}
	if len(input.Password) < 6 {
		return nil, domainerrors.ErrWeakPassword
	}

	_, err := p.credentials.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, domainerrors.ErrDuplicateEmail
	case !errors.Is(err, repository.ErrCredentialNotFound):
		return nil, errors.Wrap(err, "duplicate check")
	}

	hash, err := p.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	role := input.Role
	if role == "" {
		role = entity.RoleMember
	}

	record := &entity.LocalUserRecord{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := p.credentials.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "persist credential record")
	}

	return accountFromRecord(record), nil
}

// Login authenticates an email/password pair against the local records.
func (p *provider) Login(ctx context.Context, email, password string) (*entity.Account, error) {
	record, err := p.credentials.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, domainerrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "lookup credential record")
	}

	if !p.hasher.Check(password, record.PasswordHash) {
		return nil, domainerrors.ErrIncorrectPassword
	}

	return accountFromRecord(record), nil
}

// CurrentUser resolves a subject previously authenticated locally.
func (p *provider) CurrentUser(ctx context.Context, subjectID string) (*entity.Account, error) {
	record, err := p.credentials.FindByID(ctx, subjectID)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "lookup credential record")
	}

	return accountFromRecord(record), nil
}

// Logout is a no-op: the local provider holds no per-session state.
func (p *provider) Logout(_ context.Context, _ string) error {
	return nil
}

// ListUsers returns all local accounts with password hashes stripped.
func (p *provider) ListUsers(ctx context.Context) ([]*entity.Account, error) {
	records, err := p.credentials.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list credential records")
	}

	accounts := make([]*entity.Account, 0, len(records))
	for _, record := range records {
		accounts = append(accounts, accountFromRecord(record))
	}

	return accounts, nil
}

func accountFromRecord(record *entity.LocalUserRecord) *entity.Account {
	return &entity.Account{
		UID:   record.ID,
		Name:  record.Name,
		Email: record.Email,
		Role:  entity.NormalizeRoles(record.Role).Primary(),
		// Local accounts have no verification flow.
		EmailVerified: false,
	}
}
