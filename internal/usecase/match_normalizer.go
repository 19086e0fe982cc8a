package usecase

import (
	"strings"
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
)

// NormalizeMatchDetails converts a raw provider payload into the fixed
// Details shape. It is total: any absent or unparsable field is replaced by
// its documented default and no input ever makes it fail.
func NormalizeMatchDetails(matchID string, raw ExternalMatch) match.Details {
	details := match.Details{
		ID:          matchID,
		HomeTeam:    normalizeTeam(raw.HomeTeam),
		AwayTeam:    normalizeTeam(raw.AwayTeam),
		Competition: normalizeCompetition(raw.Competition),
		UTCDate:     parseUTCDate(raw.UTCDate),
		Status:      match.StatusUnknown,
		Score:       match.DefaultScore(),
	}

	if status := strings.TrimSpace(raw.Status); status != "" {
		details.Status = status
	}
	if len(raw.Score) > 0 {
		details.Score = raw.Score
	}

	return details
}

func normalizeTeam(raw *ExternalTeam) match.Team {
	if raw == nil || strings.TrimSpace(raw.Name) == "" {
		return match.Team{
			Name:      match.UnknownTeamName,
			ShortName: match.UnknownTeamShortName,
			Crest:     "",
		}
	}

	name := strings.TrimSpace(raw.Name)
	shortName := strings.TrimSpace(raw.ShortName)
	if shortName == "" {
		shortName = name
	}

	return match.Team{
		Name:      name,
		ShortName: shortName,
		Crest:     strings.TrimSpace(raw.Crest),
	}
}

func normalizeCompetition(raw *ExternalCompetition) match.Competition {
	if raw == nil {
		return match.Competition{ID: 0, Name: match.UnknownCompetition}
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = match.UnknownCompetition
	}

	return match.Competition{ID: raw.ID, Name: name}
}

func parseUTCDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}

	return nil
}
