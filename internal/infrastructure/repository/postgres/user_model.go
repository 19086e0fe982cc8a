package postgres

import (
	"database/sql"
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/user"
)

type userTableModel struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

type profileTableModel struct {
	UserID            int64          `db:"user_id"`
	FavoriteTeamID    sql.NullInt64  `db:"favorite_team_id"`
	FavoriteTeamName  sql.NullString `db:"favorite_team_name"`
	FavoriteTeamCrest sql.NullString `db:"favorite_team_crest"`
}

func (m profileTableModel) toDomain() user.Profile {
	return user.Profile{
		UserID:            m.UserID,
		FavoriteTeamID:    m.FavoriteTeamID.Int64,
		FavoriteTeamName:  m.FavoriteTeamName.String,
		FavoriteTeamCrest: m.FavoriteTeamCrest.String,
	}
}
