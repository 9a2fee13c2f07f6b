package repository

import "time"

// SessionRepository defines the two keyed local slots owned by the session
// manager: the encoded session record and the last-activity timestamp.
// Operations are synchronous; a login's session write must be observable
// by the very next validity check.
type SessionRepository interface {
	// LoadSession returns the encoded session record. The second return is
	// false when no record exists.
	LoadSession() (string, bool, error)

	// SaveSession replaces the session record.
	SaveSession(encoded string) error

	// DeleteSession removes the session record. Idempotent.
	DeleteSession() error

	// LoadLastActivity returns the last recorded activity timestamp.
	LoadLastActivity() (time.Time, bool, error)

	// SaveLastActivity stamps the last-activity timestamp.
	SaveLastActivity(at time.Time) error

	// DeleteLastActivity removes the timestamp. Idempotent.
	DeleteLastActivity() error
}
