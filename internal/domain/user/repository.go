package user

import "context"

// Repository exposes account, token and profile persistence.
type Repository interface {
	Create(ctx context.Context, account User) (User, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)

	// SaveToken associates an opaque access token with the user. A user may
	// hold several live tokens at once.
	SaveToken(ctx context.Context, userID int64, token string) error
	GetByToken(ctx context.Context, token string) (User, bool, error)

	GetProfile(ctx context.Context, userID int64) (Profile, bool, error)
	UpsertProfile(ctx context.Context, profile Profile) error
}
