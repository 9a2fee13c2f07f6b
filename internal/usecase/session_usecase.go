// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"menshub/internal/domain/entity"
)

// SessionUsecase owns the locally persisted session record, the
// last-activity timestamp, and the idle watchdog. All operations are
// synchronous: a session written by Establish is observable by the very
// next Validate call, which is the race the whole design exists to avoid.
type SessionUsecase interface {
	// Establish writes a fresh session for the subject with the configured
	// TTL and stamps last activity.
	Establish(subjectID string) error

	// Current returns the validated session, or nil when the record is
	// missing, corrupt, or expired. Corrupt and expired records are
	// deleted before returning (self-healing).
	Current() *entity.Session

	// Validate reports whether a valid session exists. Equivalent to
	// Current() != nil.
	Validate() bool

	// RecordActivity stamps the last-activity timestamp.
	RecordActivity()

	// StartIdleTimer arms the single-shot idle watchdog. If the recorded
	// last activity already exceeds the idle window (plus a small buffer
	// against boundary races) onExpire runs synchronously instead of
	// arming a timer. Arming cancels any prior timer; the watchdog is
	// never double-armed.
	StartIdleTimer(onExpire func())

	// ResetIdleTimer stamps last activity and re-arms the watchdog, with
	// the same stale-activity short-circuit as StartIdleTimer.
	ResetIdleTimer(onExpire func())

	// StopIdleTimer cancels any pending timer. Idempotent.
	StopIdleTimer()

	// Clear stops the watchdog and deletes the session record and the
	// last-activity timestamp.
	Clear() error
}
