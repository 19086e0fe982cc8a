package httpapi

import "net/http"

// The mobile and web clients were built against trailing-slash paths, so
// every /api route keeps the slash. {$} pins each pattern to the exact
// path instead of the subtree.

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/users/register/{$}", handler.Register)
	mux.HandleFunc("POST /api/users/login/{$}", handler.Login)

	mux.HandleFunc("GET /api/comments/{$}", handler.ListAllComments)
	mux.HandleFunc("GET /api/comments/{matchID}/{$}", handler.ListMatchComments)
	mux.HandleFunc("GET /api/comments/user/{username}/{$}", handler.ListUserCommentsByUsername)

	mux.HandleFunc("GET /api/matches/live/{$}", handler.LiveMatches)
	mux.HandleFunc("GET /api/matches/standings/{$}", handler.Standings)
	mux.HandleFunc("GET /api/matches/standings/{competitionID}/{$}", handler.Standings)
	mux.HandleFunc("GET /api/matches/match/{matchID}/{$}", handler.MatchDetails)
	mux.HandleFunc("GET /api/matches/team/{teamID}/{$}", handler.TeamUpcomingMatches)
	mux.HandleFunc("GET /api/matches/stream/{matchID}/{$}", handler.MatchStream)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	authorized := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, h)
	}

	mux.Handle("GET /api/users/profile/{$}", authorized(handler.Profile))
	mux.Handle("GET /api/users/favorite-team/{$}", authorized(handler.FavoriteTeam))
	mux.Handle("POST /api/users/favorite-team/{$}", authorized(handler.SetFavoriteTeam))
	mux.Handle("PUT /api/users/favorite-team/{$}", authorized(handler.SetFavoriteTeam))

	mux.Handle("GET /api/comments/user/{$}", authorized(handler.ListUserComments))
	mux.Handle("POST /api/comments/{matchID}/{$}", authorized(handler.CreateComment))
	mux.Handle("DELETE /api/comments/delete/{commentID}/{$}", authorized(handler.DeleteComment))
}
