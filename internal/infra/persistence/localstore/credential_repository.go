package localstore

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"menshub/internal/domain/entity"
	"menshub/internal/domain/repository"
)

// Slot key under which the fallback credential records live.
const credentialSlot = "local_users"

// credentialRepository keeps every fallback credential record in a single
// slot and rewrites the whole list on change. Volumes are tiny; the list
// only ever grows while the remote provider is unreachable.
type credentialRepository struct {
	store *Store
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(store *Store) repository.CredentialRepository {
	return &credentialRepository{store: store}
}

// FindByEmail retrieves a record by email, matched case-insensitively.
func (r *credentialRepository) FindByEmail(_ context.Context, email string) (*entity.LocalUserRecord, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(email))
	for _, record := range records {
		if strings.ToLower(record.Email) == needle {
			return record, nil
		}
	}

	return nil, repository.ErrCredentialNotFound
}

// FindByID retrieves a record by its locally generated id.
func (r *credentialRepository) FindByID(_ context.Context, id string) (*entity.LocalUserRecord, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}

	return nil, repository.ErrCredentialNotFound
}

// Create appends a new record and rewrites the slot.
func (r *credentialRepository) Create(_ context.Context, record *entity.LocalUserRecord) error {
	records, err := r.load()
	if err != nil {
		return err
	}

	stored := *record
	stored.Email = strings.ToLower(strings.TrimSpace(stored.Email))

	records = append(records, &stored)

	return errors.Wrap(r.store.Set(credentialSlot, records), "persist credential records")
}

// List returns all records, password hashes included.
func (r *credentialRepository) List(_ context.Context) ([]*entity.LocalUserRecord, error) {
	return r.load()
}

func (r *credentialRepository) load() ([]*entity.LocalUserRecord, error) {
	var records []*entity.LocalUserRecord
	found, err := r.store.Get(credentialSlot, &records)
	if err != nil {
		// A corrupt slot heals to empty rather than wedging registration.
		if found {
			return nil, nil
		}

		return nil, errors.Wrap(err, "load credential records")
	}

	return records, nil
}
