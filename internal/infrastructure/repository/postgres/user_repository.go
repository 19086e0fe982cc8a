package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/user"
)

var userColumns = []string{"id", "username", "email", "password_hash", "created_at"}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, account user.User) (user.User, error) {
	query, args, err := psql.Insert("users").
		Columns("username", "email", "password_hash").
		Values(account.Username, account.Email, account.PasswordHash).
		Suffix("RETURNING id, username, email, password_hash, created_at").
		ToSql()
	if err != nil {
		return user.User{}, fmt.Errorf("build insert user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (user.User, bool, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user query: %w", err)
	}
	return r.getUser(ctx, query, args)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user by username query: %w", err)
	}
	return r.getUser(ctx, query, args)
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (user.User, bool, error) {
	query, args, err := psql.Select(
		"u.id", "u.username", "u.email", "u.password_hash", "u.created_at",
	).
		From("auth_tokens t").
		Join("users u ON u.id = t.user_id").
		Where(sq.Eq{"t.token": token}).
		ToSql()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user by token query: %w", err)
	}
	return r.getUser(ctx, query, args)
}

// SaveToken stores a fresh token for the user. Earlier tokens stay valid
// so a login on a second device does not log out the first.
func (r *UserRepository) SaveToken(ctx context.Context, userID int64, token string) error {
	query, args, err := psql.Insert("auth_tokens").
		Columns("token", "user_id").
		Values(token, userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert token query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID int64) (user.Profile, bool, error) {
	query, args, err := psql.Select(
		"user_id", "favorite_team_id", "favorite_team_name", "favorite_team_crest",
	).
		From("user_profiles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build select profile query: %w", err)
	}

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("select profile: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) UpsertProfile(ctx context.Context, profile user.Profile) error {
	query, args, err := psql.Insert("user_profiles").
		Columns("user_id", "favorite_team_id", "favorite_team_name", "favorite_team_crest").
		Values(profile.UserID, profile.FavoriteTeamID, profile.FavoriteTeamName, profile.FavoriteTeamCrest).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			favorite_team_id = EXCLUDED.favorite_team_id,
			favorite_team_name = EXCLUDED.favorite_team_name,
			favorite_team_crest = EXCLUDED.favorite_team_crest`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *UserRepository) getUser(ctx context.Context, query string, args []any) (user.User, bool, error) {
	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), true, nil
}
