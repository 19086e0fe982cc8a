package user

import "time"

// User is a registered account. PasswordHash is a bcrypt digest and never
// leaves the persistence layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal identifies the authenticated caller of a protected route.
type Principal struct {
	UserID   int64
	Username string
}

// Profile holds the optional favorite-team selection for a user.
type Profile struct {
	UserID            int64
	FavoriteTeamID    int64
	FavoriteTeamName  string
	FavoriteTeamCrest string
}
