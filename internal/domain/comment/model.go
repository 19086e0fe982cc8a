package comment

import (
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
)

// Comment is one user remark on a match. Snapshot holds the last resolved
// match details for this comment, denormalized onto the comment row so the
// listing survives upstream unavailability; nil until enrichment succeeds
// once, frozen afterwards.
type Comment struct {
	ID        int64
	UserID    int64
	Username  string
	MatchID   string
	Content   string
	CreatedAt time.Time
	Snapshot  *match.Details
}

// HasSnapshot reports whether the comment carries a persisted match
// snapshot. A populated home-team name is the presence signal.
func (c Comment) HasSnapshot() bool {
	return c.Snapshot != nil && c.Snapshot.HasData()
}
