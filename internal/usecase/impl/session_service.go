// Package impl provides the concrete implementations of the usecase
// interfaces.
package impl

import (
	"log/slog"
	"sync"
	"time"

	"menshub/config"
	"menshub/internal/domain/entity"
	"menshub/internal/domain/repository"
	"menshub/internal/domain/service"
	"menshub/internal/usecase"
)

// idleBuffer pads the staleness check so a watchdog firing right at the
// window boundary is not misread as stale activity.
const idleBuffer = 5 * time.Second

type sessionService struct {
	repo   repository.SessionRepository
	codec  service.SessionCodec
	logger *slog.Logger

	ttl        time.Duration
	idleWindow time.Duration

	mu    sync.Mutex
	timer *time.Timer

	now func() time.Time
}

// NewSessionService is the constructor for the session manager.
func NewSessionService(
	cfg *config.Config,
	repo repository.SessionRepository,
	codec service.SessionCodec,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionService{
		repo:       repo,
		codec:      codec,
		logger:     logger,
		ttl:        time.Duration(cfg.Session.TTLHours) * time.Hour,
		idleWindow: cfg.Session.IdleTimeout,
		now:        time.Now,
	}
}

// Establish writes a fresh session for the subject and stamps activity.
func (s *sessionService) Establish(subjectID string) error {
	now := s.now()
	encoded, err := s.codec.Encode(&entity.Session{
		SubjectID: subjectID,
		ExpiresAt: now.Add(s.ttl),
	})
	if err != nil {
		return err
	}

	if err := s.repo.SaveSession(encoded); err != nil {
		return err
	}

	if err := s.repo.SaveLastActivity(now); err != nil {
		s.logger.Warn("last-activity stamp failed", slog.Any("error", err))
	}

	return nil
}

// Current returns the validated session, self-healing corrupt or expired
// records by deleting them.
func (s *sessionService) Current() *entity.Session {
	encoded, found, err := s.repo.LoadSession()
	if !found {
		return nil
	}
	if err != nil {
		s.selfHeal("unreadable session slot", err)

		return nil
	}

	session, err := s.codec.Decode(encoded)
	if err != nil {
		s.selfHeal("corrupt session record", err)

		return nil
	}

	if session.Expired(s.now()) {
		if err := s.repo.DeleteSession(); err != nil {
			s.logger.Warn("expired session cleanup failed", slog.Any("error", err))
		}

		return nil
	}

	return session
}

// Validate reports whether a valid session exists.
func (s *sessionService) Validate() bool {
	return s.Current() != nil
}

// RecordActivity stamps the last-activity timestamp.
func (s *sessionService) RecordActivity() {
	if err := s.repo.SaveLastActivity(s.now()); err != nil {
		s.logger.Warn("last-activity stamp failed", slog.Any("error", err))
	}
}

// StartIdleTimer arms the single-shot idle watchdog.
func (s *sessionService) StartIdleTimer(onExpire func()) {
	s.armIdleTimer(onExpire, false)
}

// ResetIdleTimer stamps last activity and re-arms the watchdog.
func (s *sessionService) ResetIdleTimer(onExpire func()) {
	s.armIdleTimer(onExpire, true)
}

// armIdleTimer cancels any pending timer and either fires the callback
// synchronously (stale activity) or arms a fresh single-shot timer. The
// cancel-before-arm ordering is what guarantees the watchdog is never
// double-armed.
func (s *sessionService) armIdleTimer(onExpire func(), stampActivity bool) {
	s.mu.Lock()
	s.stopLocked()

	last, found, err := s.repo.LoadLastActivity()
	if err == nil && found && s.now().Sub(last) > s.idleWindow+idleBuffer {
		s.mu.Unlock()

		s.logger.Info("idle window exceeded, forcing expiry",
			slog.Time("last_activity", last))
		onExpire()

		return
	}

	if stampActivity {
		if err := s.repo.SaveLastActivity(s.now()); err != nil {
			s.logger.Warn("last-activity stamp failed", slog.Any("error", err))
		}
	}

	s.timer = time.AfterFunc(s.idleWindow, onExpire)
	s.mu.Unlock()
}

// StopIdleTimer cancels any pending timer.
func (s *sessionService) StopIdleTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *sessionService) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Clear stops the watchdog and deletes all session state.
func (s *sessionService) Clear() error {
	s.StopIdleTimer()

	if err := s.repo.DeleteSession(); err != nil {
		return err
	}

	return s.repo.DeleteLastActivity()
}

func (s *sessionService) selfHeal(reason string, cause error) {
	s.logger.Warn("clearing session state",
		slog.String("reason", reason),
		slog.Any("error", cause))

	if err := s.repo.DeleteSession(); err != nil {
		s.logger.Warn("session cleanup failed", slog.Any("error", err))
	}
	if err := s.repo.DeleteLastActivity(); err != nil {
		s.logger.Warn("last-activity cleanup failed", slog.Any("error", err))
	}
}
