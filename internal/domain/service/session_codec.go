package service

import (
	"menshub/internal/domain/entity"
)

// SessionCodec signs and verifies the locally persisted session record.
// The encoded form is opaque to callers; a record that fails verification
// is treated as corrupt and self-healed by the session manager.
type SessionCodec interface {
	// Encode produces a signed token for the session.
	Encode(session *entity.Session) (string, error)

	// Decode verifies a signed token and reconstructs the session.
	Decode(token string) (*entity.Session, error)
}
