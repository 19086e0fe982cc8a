package comment

import (
	"context"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
)

// Repository exposes comment persistence. List results are ordered newest
// first.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Comment, error)
	ListByUser(ctx context.Context, userID int64) ([]Comment, error)
	ListAll(ctx context.Context, offset, limit int) ([]Comment, int, error)
	GetByID(ctx context.Context, id int64) (Comment, bool, error)
	Create(ctx context.Context, userID int64, matchID, content string) (Comment, error)
	Delete(ctx context.Context, id int64) error

	// UpdateMatchSnapshot durably replaces the comment's embedded match
	// snapshot. Writing the same details twice leaves the stored state
	// unchanged.
	UpdateMatchSnapshot(ctx context.Context, commentID int64, details match.Details) error
}
