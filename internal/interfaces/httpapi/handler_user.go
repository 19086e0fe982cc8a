package httpapi

import (
	"fmt"
	"net/http"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/usecase"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type favoriteTeamRequest struct {
	TeamID int64  `json:"team_id"`
	Name   string `json:"name"`
	Crest  string `json:"crest"`
}

type authSessionResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type favoriteTeamResponse struct {
	FavoriteTeamID    int64  `json:"favorite_team_id"`
	FavoriteTeamName  string `json:"favorite_team_name"`
	FavoriteTeamCrest string `json:"favorite_team_crest"`
}

type profileResponse struct {
	UserID            int64  `json:"user_id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	FavoriteTeamID    int64  `json:"favorite_team_id,omitempty"`
	FavoriteTeamName  string `json:"favorite_team_name,omitempty"`
	FavoriteTeamCrest string `json:"favorite_team_crest,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Register")
	defer span.End()

	var payload registerRequest
	if err := h.decodeRequest(ctx, r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.userService.Register(ctx, usecase.RegisterInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toAuthSessionResponse(session))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	var payload loginRequest
	if err := h.decodeRequest(ctx, r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	session, err := h.userService.Login(ctx, payload.Username, payload.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toAuthSessionResponse(session))
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Profile")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	account, profile, err := h.userService.Profile(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileResponse{
		UserID:            account.ID,
		Username:          account.Username,
		Email:             account.Email,
		FavoriteTeamID:    profile.FavoriteTeamID,
		FavoriteTeamName:  profile.FavoriteTeamName,
		FavoriteTeamCrest: profile.FavoriteTeamCrest,
	})
}

func (h *Handler) FavoriteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FavoriteTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	_, profile, err := h.userService.Profile(ctx, principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, favoriteTeamResponse{
		FavoriteTeamID:    profile.FavoriteTeamID,
		FavoriteTeamName:  profile.FavoriteTeamName,
		FavoriteTeamCrest: profile.FavoriteTeamCrest,
	})
}

func (h *Handler) SetFavoriteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetFavoriteTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var payload favoriteTeamRequest
	if err := h.decodeRequest(ctx, r, &payload); err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.userService.SetFavoriteTeam(ctx, principal.UserID, usecase.FavoriteTeamInput{
		TeamID: payload.TeamID,
		Name:   payload.Name,
		Crest:  payload.Crest,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileResponse{
		UserID:            principal.UserID,
		Username:          principal.Username,
		FavoriteTeamID:    profile.FavoriteTeamID,
		FavoriteTeamName:  profile.FavoriteTeamName,
		FavoriteTeamCrest: profile.FavoriteTeamCrest,
	})
}

func toAuthSessionResponse(session usecase.AuthSession) authSessionResponse {
	return authSessionResponse{
		Token:    session.Token,
		UserID:   session.UserID,
		Username: session.Username,
		Email:    session.Email,
	}
}
