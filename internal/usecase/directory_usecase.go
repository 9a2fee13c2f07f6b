package usecase

import (
	"context"

	"menshub/internal/domain/entity"
)

// DirectoryStats summarizes the member directory for the admin dashboard.
// The activity counts come from the remote record store and stay zero
// when it is disabled; role and verification counts work in both modes.
type DirectoryStats struct {
	TotalUsers    int            `json:"totalUsers"`
	ByRole        map[string]int `json:"byRole"`
	VerifiedCount int            `json:"verifiedCount"`
	ActiveUsers   int            `json:"activeUsers"`
	NewThisMonth  int            `json:"newThisMonth"`
}

// DirectoryUsecase covers the admin-facing member directory operations.
type DirectoryUsecase interface {
	// ListUsers returns all accounts with credentials stripped.
	ListUsers(ctx context.Context) ([]*entity.Account, error)

	// Stats aggregates directory counts.
	Stats(ctx context.Context) (*DirectoryStats, error)

	// UpdateRole changes an account's role.
	UpdateRole(ctx context.Context, uid string, role entity.Role) error
}
