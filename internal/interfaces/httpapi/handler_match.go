package httpapi

import (
	"net/http"
)

// Premier League, the competition clients ask about most.
const defaultCompetitionID = "2021"

func (h *Handler) LiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LiveMatches")
	defer span.End()

	payload, err := h.matchService.LiveMatches(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeRawJSON(ctx, w, http.StatusOK, payload)
}

func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Standings")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	if competitionID == "" {
		competitionID = defaultCompetitionID
	}

	payload, err := h.matchService.Standings(ctx, competitionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeRawJSON(ctx, w, http.StatusOK, payload)
}

func (h *Handler) TeamUpcomingMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamUpcomingMatches")
	defer span.End()

	payload, err := h.matchService.TeamUpcomingMatches(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeRawJSON(ctx, w, http.StatusOK, payload)
}

func (h *Handler) MatchDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchDetails")
	defer span.End()

	details, err := h.matchService.MatchDetails(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, details)
}

func (h *Handler) MatchStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchStream")
	defer span.End()

	url, err := h.matchService.StreamURL(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"stream_url": url})
}
