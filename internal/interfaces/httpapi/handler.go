package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/comment"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

type Handler struct {
	userService    *usecase.UserService
	commentService *usecase.CommentService
	matchService   *usecase.MatchService
	logger         *logging.Logger
}

func NewHandler(
	userService *usecase.UserService,
	commentService *usecase.CommentService,
	matchService *usecase.MatchService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		userService:    userService,
		commentService: commentService,
		matchService:   matchService,
		logger:         logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	body := http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)
	defer func() { _ = body.Close() }()

	if err := sonic.ConfigDefault.NewDecoder(body).Decode(payload); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type commentResponse struct {
	ID        int64          `json:"id"`
	Username  string         `json:"username"`
	MatchID   string         `json:"match_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Match     *match.Details `json:"match,omitempty"`
}

func toCommentResponse(c comment.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Username:  c.Username,
		MatchID:   c.MatchID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func toCommentViewResponse(view usecase.CommentView) commentResponse {
	out := toCommentResponse(view.Comment)
	details := view.Match
	out.Match = &details
	return out
}

func toCommentViewResponses(views []usecase.CommentView) []commentResponse {
	out := make([]commentResponse, 0, len(views))
	for _, view := range views {
		out = append(out, toCommentViewResponse(view))
	}
	return out
}
