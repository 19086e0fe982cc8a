package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/usecase"
)

type createCommentRequest struct {
	Content string `json:"content"`
}

type commentPageResponse struct {
	Comments []commentResponse `json:"comments"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func (h *Handler) ListMatchComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchComments")
	defer span.End()

	views, err := h.commentService.ListByMatch(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toCommentViewResponses(views))
}

func (h *Handler) ListUserComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserComments")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	views, err := h.commentService.ListByUser(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toCommentViewResponses(views))
}

// ListUserCommentsByUsername is the public variant of the user listing:
// anyone can read a named user's comment history.
func (h *Handler) ListUserCommentsByUsername(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserCommentsByUsername")
	defer span.End()

	account, err := h.userService.LookupByUsername(ctx, r.PathValue("username"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.commentService.ListByUser(ctx, account.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toCommentViewResponses(views))
}

func (h *Handler) ListAllComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAllComments")
	defer span.End()

	page := parsePositiveInt(r.URL.Query().Get("page"))
	pageSize := parsePositiveInt(r.URL.Query().Get("page_size"))

	result, err := h.commentService.ListAll(ctx, page, pageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, commentPageResponse{
		Comments: toCommentViewResponses(result.Comments),
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateComment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var payload createCommentRequest
	if err := h.decodeRequest(ctx, r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.commentService.Create(ctx, principal.UserID, r.PathValue("matchID"), payload.Content)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toCommentViewResponse(view))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteComment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	commentID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("commentID")), 10, 64)
	if err != nil || commentID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: comment id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	if err := h.commentService.Delete(ctx, principal.UserID, commentID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func parsePositiveInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 0
	}
	return value
}
