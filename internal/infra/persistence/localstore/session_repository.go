package localstore

import (
	"time"

	"github.com/pkg/errors"

	"menshub/internal/domain/repository"
)

// Slot keys owned by the session manager.
const (
	sessionSlot      = "session"
	lastActivitySlot = "last_activity"
)

type sessionRepository struct {
	store *Store
}

// NewSessionRepository is the constructor for the slot-backed session
// repository.
func NewSessionRepository(store *Store) repository.SessionRepository {
	return &sessionRepository{store: store}
}

// LoadSession returns the encoded session record.
func (r *sessionRepository) LoadSession() (string, bool, error) {
	encoded, found, err := r.store.GetRaw(sessionSlot)
	if err != nil && found {
		// Slot exists but is unreadable; report it as present so the
		// session manager can self-heal.
		return "", true, errors.Wrap(err, "load session slot")
	}

	return encoded, found, err
}

// SaveSession replaces the session record.
func (r *sessionRepository) SaveSession(encoded string) error {
	return r.store.SetRaw(sessionSlot, encoded)
}

// DeleteSession removes the session record.
func (r *sessionRepository) DeleteSession() error {
	return r.store.Delete(sessionSlot)
}

// LoadLastActivity returns the last recorded activity timestamp.
func (r *sessionRepository) LoadLastActivity() (time.Time, bool, error) {
	var unixMilli int64
	found, err := r.store.Get(lastActivitySlot, &unixMilli)
	if err != nil || !found {
		return time.Time{}, found, err
	}

	return time.UnixMilli(unixMilli), true, nil
}

// SaveLastActivity stamps the last-activity timestamp.
func (r *sessionRepository) SaveLastActivity(at time.Time) error {
	return r.store.Set(lastActivitySlot, at.UnixMilli())
}

// DeleteLastActivity removes the timestamp.
func (r *sessionRepository) DeleteLastActivity() error {
	return r.store.Delete(lastActivitySlot)
}
