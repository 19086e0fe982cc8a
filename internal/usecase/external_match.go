package usecase

import "context"

// ExternalMatch is the raw match payload from the football-data provider.
// Every field is optional; NormalizeMatchDetails applies all defaults in one
// place, so nothing downstream ever touches a partially-filled value.
type ExternalMatch struct {
	ID          int64                `json:"id"`
	UTCDate     string               `json:"utcDate"`
	Status      string               `json:"status"`
	HomeTeam    *ExternalTeam        `json:"homeTeam"`
	AwayTeam    *ExternalTeam        `json:"awayTeam"`
	Competition *ExternalCompetition `json:"competition"`
	Score       map[string]any       `json:"score"`
}

type ExternalTeam struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

type ExternalCompetition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MatchFetcher performs the single outbound request for one match. Exactly
// one attempt per call; retry policy, if any, belongs to the caller.
type MatchFetcher interface {
	FetchMatch(ctx context.Context, matchID string) (ExternalMatch, error)
}
