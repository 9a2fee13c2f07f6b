package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"menshub/internal/domain/entity"
	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/repository"
	"menshub/internal/usecase"
)

// directoryService serves the admin member directory. Listings go through
// the auth facade so they inherit its remote-then-local fallback; role
// updates are remote-only because local fallback accounts are throwaway.
type directoryService struct {
	auth   usecase.AuthUsecase
	users  repository.UserRepository // nil when the remote store is disabled
	logger *slog.Logger
}

// NewDirectoryService is the constructor for directoryService.
func NewDirectoryService(
	auth usecase.AuthUsecase,
	users repository.UserRepository,
	logger *slog.Logger,
) usecase.DirectoryUsecase {
	return &directoryService{auth: auth, users: users, logger: logger}
}

// ListUsers returns all accounts with credentials stripped.
func (s *directoryService) ListUsers(ctx context.Context) ([]*entity.Account, error) {
	return s.auth.ListUsersSafe(ctx)
}

// Stats aggregates directory counts.
func (s *directoryService) Stats(ctx context.Context) (*usecase.DirectoryStats, error) {
	accounts, err := s.auth.ListUsersSafe(ctx)
	if err != nil {
		return nil, err
	}

	stats := &usecase.DirectoryStats{
		TotalUsers: len(accounts),
		ByRole:     make(map[string]int),
	}
	for _, account := range accounts {
		stats.ByRole[account.Role.String()]++
		if account.EmailVerified {
			stats.VerifiedCount++
		}
	}

	s.addActivityCounts(ctx, stats)

	return stats, nil
}

// activeWindow is how recent a last login must be to count as active.
const activeWindow = 30 * 24 * time.Hour

// addActivityCounts fills the login-recency counts from the remote record
// store. Best-effort: a failed scan leaves the counts at zero rather than
// failing the whole aggregation.
func (s *directoryService) addActivityCounts(ctx context.Context, stats *usecase.DirectoryStats) {
	if s.users == nil {
		return
	}

	records, err := s.users.List(ctx)
	if err != nil {
		s.logger.Warn("record scan for activity stats failed", slog.Any("error", err))

		return
	}

	now := time.Now()
	for _, record := range records {
		if now.Sub(record.LastLoginAt) <= activeWindow {
			stats.ActiveUsers++
		}
		if record.CreatedAt.Year() == now.Year() && record.CreatedAt.Month() == now.Month() {
			stats.NewThisMonth++
		}
	}
}

// UpdateRole changes an account's role in the remote record store.
func (s *directoryService) UpdateRole(ctx context.Context, uid string, role entity.Role) error {
	if !role.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown role: " + role.String())
	}
	if s.users == nil {
		return domainerrors.ErrProviderUnavailable
	}

	if err := s.users.Update(ctx, uid, &repository.UserRecordPatch{Role: &role}); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrNotFound
		}

		return err
	}

	s.logger.Info("role updated",
		slog.String("uid", uid),
		slog.String("role", role.String()))

	return nil
}
