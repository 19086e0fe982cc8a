package postgres

import (
	"database/sql"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/comment"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/match"
)

// commentTableModel mirrors the comments table. The match_* columns hold
// the denormalized snapshot taken when the comment was enriched; a
// populated match_home_team_name marks the snapshot as present.
type commentTableModel struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	MatchID   string    `db:"match_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`

	MatchHomeTeamName  sql.NullString `db:"match_home_team_name"`
	MatchHomeTeamShort sql.NullString `db:"match_home_team_short"`
	MatchHomeTeamCrest sql.NullString `db:"match_home_team_crest"`
	MatchAwayTeamName  sql.NullString `db:"match_away_team_name"`
	MatchAwayTeamShort sql.NullString `db:"match_away_team_short"`
	MatchAwayTeamCrest sql.NullString `db:"match_away_team_crest"`
	MatchCompetitionID sql.NullInt64  `db:"match_competition_id"`
	MatchCompetition   sql.NullString `db:"match_competition_name"`
	MatchUTCDate       sql.NullTime   `db:"match_utc_date"`
	MatchStatus        sql.NullString `db:"match_status"`
	MatchScore         sql.NullString `db:"match_score"`
}

var commentColumns = []string{
	"c.id",
	"c.user_id",
	"u.username",
	"c.match_id",
	"c.content",
	"c.created_at",
	"c.match_home_team_name",
	"c.match_home_team_short",
	"c.match_home_team_crest",
	"c.match_away_team_name",
	"c.match_away_team_short",
	"c.match_away_team_crest",
	"c.match_competition_id",
	"c.match_competition_name",
	"c.match_utc_date",
	"c.match_status",
	"c.match_score",
}

func (m commentTableModel) toDomain() comment.Comment {
	out := comment.Comment{
		ID:        m.ID,
		UserID:    m.UserID,
		Username:  m.Username,
		MatchID:   m.MatchID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}

	if !m.MatchHomeTeamName.Valid || strings.TrimSpace(m.MatchHomeTeamName.String) == "" {
		return out
	}

	details := match.Details{
		ID:       m.MatchID,
		HomeTeam: snapshotTeam(m.MatchHomeTeamName, m.MatchHomeTeamShort, m.MatchHomeTeamCrest),
		AwayTeam: snapshotTeam(m.MatchAwayTeamName, m.MatchAwayTeamShort, m.MatchAwayTeamCrest),
		Competition: match.Competition{
			ID:   m.MatchCompetitionID.Int64,
			Name: m.MatchCompetition.String,
		},
		Status: m.MatchStatus.String,
		Score:  decodeScore(m.MatchScore),
	}
	if m.MatchUTCDate.Valid {
		utc := m.MatchUTCDate.Time.UTC()
		details.UTCDate = &utc
	}
	if strings.TrimSpace(details.Competition.Name) == "" {
		details.Competition.Name = match.UnknownCompetition
	}
	if details.Status == "" {
		details.Status = match.StatusUnknown
	}

	out.Snapshot = &details
	return out
}

// snapshotTeam rebuilds one side of the snapshot. Rows written by hand or
// by older builds can hold blank columns, so the same fallbacks apply as
// when a fresh upstream payload is normalized.
func snapshotTeam(name, short, crest sql.NullString) match.Team {
	teamName := strings.TrimSpace(name.String)
	if teamName == "" {
		return match.Team{
			Name:      match.UnknownTeamName,
			ShortName: match.UnknownTeamShortName,
			Crest:     "",
		}
	}

	shortName := strings.TrimSpace(short.String)
	if shortName == "" {
		shortName = teamName
	}

	return match.Team{
		Name:      teamName,
		ShortName: shortName,
		Crest:     strings.TrimSpace(crest.String),
	}
}

// decodeScore parses the TEXT-encoded score column. Rows written by older
// builds can hold malformed JSON; those decode to the default score rather
// than failing the read.
func decodeScore(raw sql.NullString) map[string]any {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return match.DefaultScore()
	}

	var score map[string]any
	if err := sonic.Unmarshal([]byte(raw.String), &score); err != nil || len(score) == 0 {
		return match.DefaultScore()
	}
	return score
}

func encodeScore(score map[string]any) string {
	if len(score) == 0 {
		score = match.DefaultScore()
	}
	raw, err := sonic.Marshal(score)
	if err != nil {
		raw, _ = sonic.Marshal(match.DefaultScore())
	}
	return string(raw)
}
