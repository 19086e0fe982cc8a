package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/comment"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 50
	maxContentLen   = 1000
)

// CommentView is a comment joined with its resolved match details.
type CommentView struct {
	Comment comment.Comment
	Match   match.Details
}

// CommentPage is one page of the global comment feed.
type CommentPage struct {
	Comments []CommentView
	Total    int
	Page     int
	PageSize int
}

type CommentService struct {
	comments   comment.Repository
	enrichment *EnrichmentService
	logger     *logging.Logger
}

func NewCommentService(comments comment.Repository, enrichment *EnrichmentService, logger *logging.Logger) *CommentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CommentService{
		comments:   comments,
		enrichment: enrichment,
		logger:     logger,
	}
}

// ListByMatch returns all comments on a match, newest first, with match
// details resolved per comment.
func (s *CommentService) ListByMatch(ctx context.Context, matchID string) ([]CommentView, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "match id is required")
	}

	list, err := s.comments.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, errors.Wrap(err, "list comments by match")
	}
	return s.enrichAll(ctx, list), nil
}

// ListByUser returns the authenticated user's comments with match details
// resolved per comment.
func (s *CommentService) ListByUser(ctx context.Context, userID int64) ([]CommentView, error) {
	list, err := s.comments.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list comments by user")
	}
	return s.enrichAll(ctx, list), nil
}

// ListAll returns one page of the global feed, newest first.
func (s *CommentService) ListAll(ctx context.Context, page, pageSize int) (CommentPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	list, total, err := s.comments.ListAll(ctx, offset, pageSize)
	if err != nil {
		return CommentPage{}, errors.Wrap(err, "list all comments")
	}

	return CommentPage{
		Comments: s.enrichAll(ctx, list),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Create posts a comment on a match and attaches the match snapshot
// before the comment is returned.
func (s *CommentService) Create(ctx context.Context, userID int64, matchID, content string) (CommentView, error) {
	matchID = strings.TrimSpace(matchID)
	content = strings.TrimSpace(content)

	switch {
	case matchID == "":
		return CommentView{}, errors.Wrap(ErrInvalidInput, "match id is required")
	case content == "":
		return CommentView{}, errors.Wrap(ErrInvalidInput, "content is required")
	case len(content) > maxContentLen:
		return CommentView{}, errors.Wrap(ErrInvalidInput, "content too long")
	}

	created, err := s.comments.Create(ctx, userID, matchID, content)
	if err != nil {
		return CommentView{}, errors.Wrap(err, "create comment")
	}

	details := s.enrichment.ResolveForComment(ctx, created)
	created.Snapshot = &details

	return CommentView{Comment: created, Match: details}, nil
}

// Delete removes a comment. Only the author may delete it.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	existing, found, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return errors.Wrap(err, "load comment")
	}
	if !found {
		return errors.Wrapf(ErrNotFound, "comment %d", commentID)
	}
	if existing.UserID != userID {
		return errors.Wrap(ErrForbidden, "comment belongs to another user")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return errors.Wrap(err, "delete comment")
	}
	return nil
}

func (s *CommentService) enrichAll(ctx context.Context, list []comment.Comment) []CommentView {
	views := make([]CommentView, 0, len(list))
	for _, c := range list {
		details := s.enrichment.ResolveForListing(ctx, c)
		views = append(views, CommentView{Comment: c, Match: details})
	}
	return views
}
