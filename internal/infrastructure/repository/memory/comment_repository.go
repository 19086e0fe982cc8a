package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/comment"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
)

// CommentRepository is a map-backed comment store for tests and local
// runs without postgres.
type CommentRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]comment.Comment

	usernameFor func(userID int64) string
}

func NewCommentRepository(usernameFor func(userID int64) string) *CommentRepository {
	return &CommentRepository{
		nextID:      1,
		byID:        make(map[int64]comment.Comment),
		usernameFor: usernameFor,
	}
}

func (r *CommentRepository) ListByMatch(_ context.Context, matchID string) ([]comment.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]comment.Comment, 0, 8)
	for _, c := range r.byID {
		if c.MatchID == matchID {
			out = append(out, c)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *CommentRepository) ListByUser(_ context.Context, userID int64) ([]comment.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]comment.Comment, 0, 8)
	for _, c := range r.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *CommentRepository) ListAll(_ context.Context, offset, limit int) ([]comment.Comment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]comment.Comment, 0, len(r.byID))
	for _, c := range r.byID {
		all = append(all, c)
	}
	sortNewestFirst(all)

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *CommentRepository) GetByID(_ context.Context, commentID int64) (comment.Comment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[commentID]
	return c, ok, nil
}

func (r *CommentRepository) Create(_ context.Context, userID int64, matchID, content string) (comment.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	username := ""
	if r.usernameFor != nil {
		username = r.usernameFor(userID)
	}

	c := comment.Comment{
		ID:        r.nextID,
		UserID:    userID,
		Username:  username,
		MatchID:   matchID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	r.byID[c.ID] = c
	r.nextID++
	return c, nil
}

func (r *CommentRepository) Delete(_ context.Context, commentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, commentID)
	return nil
}

func (r *CommentRepository) UpdateMatchSnapshot(_ context.Context, commentID int64, details match.Details) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[commentID]
	if !ok {
		return nil
	}
	snapshot := details
	c.Snapshot = &snapshot
	r.byID[commentID] = c
	return nil
}

func sortNewestFirst(list []comment.Comment) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
