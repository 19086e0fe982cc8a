package match

import (
	"strings"
	"time"
)

const (
	StatusUnknown = "UNKNOWN"

	UnknownTeamName      = "Unknown Team"
	UnknownTeamShortName = "UNK"
	UnknownCompetition   = "Unknown"
)

// Team is one side of a fixture as presented to clients.
type Team struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

type Competition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Details is the normalized match-metadata shape attached to comments and
// returned by the match endpoints. Every field is always populated with a
// defined default; callers never see a partially-filled value.
type Details struct {
	ID          string         `json:"id"`
	HomeTeam    Team           `json:"homeTeam"`
	AwayTeam    Team           `json:"awayTeam"`
	Competition Competition    `json:"competition"`
	UTCDate     *time.Time     `json:"utcDate"`
	Status      string         `json:"status"`
	Score       map[string]any `json:"score"`
}

// DefaultScore is the zero-score structure substituted whenever the
// upstream score is absent or a stored score fails to parse.
func DefaultScore() map[string]any {
	return map[string]any{
		"fullTime": map[string]any{
			"home": 0,
			"away": 0,
		},
	}
}

// Placeholder is the fixed degraded Details value returned when no real
// data is obtainable for a match.
func Placeholder(matchID string) Details {
	unknown := Team{
		Name:      UnknownTeamName,
		ShortName: UnknownTeamShortName,
		Crest:     "",
	}
	return Details{
		ID:       matchID,
		HomeTeam: unknown,
		AwayTeam: unknown,
		Competition: Competition{
			ID:   0,
			Name: UnknownCompetition,
		},
		UTCDate: nil,
		Status:  StatusUnknown,
		Score:   DefaultScore(),
	}
}

// HasData reports whether d carries real upstream data rather than the
// placeholder defaults. The home-team name is the presence signal, matching
// the persisted-snapshot convention.
func (d Details) HasData() bool {
	name := strings.TrimSpace(d.HomeTeam.Name)
	return name != "" && name != UnknownTeamName
}
