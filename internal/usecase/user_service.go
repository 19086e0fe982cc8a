package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/user"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/id"
	"github.com/AleksandarPetrovv/NinetyPlus/internal/platform/logging"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type RegisterInput struct {
	Username string `validate:"required,min=3,max=30,alphanum"`
	Email    string `validate:"omitempty,email"`
	Password string `validate:"required,min=6,max=72"`
}

type FavoriteTeamInput struct {
	TeamID int64  `validate:"required,gt=0"`
	Name   string `validate:"required,max=100"`
	Crest  string `validate:"omitempty,url"`
}

// AuthSession is a logged-in user plus the opaque bearer token that
// identifies the session.
type AuthSession struct {
	Token    string
	UserID   int64
	Username string
	Email    string
}

type UserService struct {
	users  user.Repository
	ids    id.Generator
	logger *logging.Logger
}

func NewUserService(users user.Repository, ids id.Generator, logger *logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &UserService{users: users, ids: ids, logger: logger}
}

// Register creates an account and logs it in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (AuthSession, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := validate.Struct(in); err != nil {
		return AuthSession{}, errors.Wrap(ErrInvalidInput, err.Error())
	}

	if _, found, err := s.users.GetByUsername(ctx, in.Username); err != nil {
		return AuthSession{}, errors.Wrap(err, "check username")
	} else if found {
		return AuthSession{}, errors.Wrap(ErrInvalidInput, "username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthSession{}, errors.Wrap(err, "hash password")
	}

	created, err := s.users.Create(ctx, user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return AuthSession{}, errors.Wrap(err, "create user")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", created.ID, "username", created.Username)

	return s.issueSession(ctx, created)
}

// Login verifies credentials and issues a fresh token.
func (s *UserService) Login(ctx context.Context, username, password string) (AuthSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AuthSession{}, errors.Wrap(ErrInvalidInput, "username and password are required")
	}

	found, ok, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return AuthSession{}, errors.Wrap(err, "load user")
	}
	if !ok {
		return AuthSession{}, errors.Wrap(ErrUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return AuthSession{}, errors.Wrap(ErrUnauthorized, "invalid credentials")
	}

	return s.issueSession(ctx, found)
}

// VerifyAccessToken resolves a bearer token to the principal it was
// issued for. It satisfies the httpapi TokenVerifier contract.
func (s *UserService) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, errors.Wrap(ErrUnauthorized, "missing token")
	}

	found, ok, err := s.users.GetByToken(ctx, token)
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "load user by token")
	}
	if !ok {
		return user.Principal{}, errors.Wrap(ErrUnauthorized, "invalid token")
	}

	return user.Principal{UserID: found.ID, Username: found.Username}, nil
}

// LookupByUsername resolves a username to its account.
func (s *UserService) LookupByUsername(ctx context.Context, username string) (user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return user.User{}, errors.Wrap(ErrInvalidInput, "username is required")
	}

	found, ok, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return user.User{}, errors.Wrap(err, "load user by username")
	}
	if !ok {
		return user.User{}, errors.Wrapf(ErrNotFound, "user %q", username)
	}
	return found, nil
}

// Profile returns the account plus its optional favorite-team selection.
func (s *UserService) Profile(ctx context.Context, userID int64) (user.User, user.Profile, error) {
	account, ok, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, user.Profile{}, errors.Wrap(err, "load user")
	}
	if !ok {
		return user.User{}, user.Profile{}, errors.Wrapf(ErrNotFound, "user %d", userID)
	}

	profile, found, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return user.User{}, user.Profile{}, errors.Wrap(err, "load profile")
	}
	if !found {
		profile = user.Profile{UserID: userID}
	}

	return account, profile, nil
}

// SetFavoriteTeam records or replaces the user's favorite team.
func (s *UserService) SetFavoriteTeam(ctx context.Context, userID int64, in FavoriteTeamInput) (user.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return user.Profile{}, errors.Wrap(ErrInvalidInput, err.Error())
	}

	profile := user.Profile{
		UserID:            userID,
		FavoriteTeamID:    in.TeamID,
		FavoriteTeamName:  in.Name,
		FavoriteTeamCrest: in.Crest,
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return user.Profile{}, errors.Wrap(err, "save profile")
	}
	return profile, nil
}

func (s *UserService) issueSession(ctx context.Context, account user.User) (AuthSession, error) {
	token, err := s.ids.NewID()
	if err != nil {
		return AuthSession{}, errors.Wrap(err, "generate token")
	}
	if err := s.users.SaveToken(ctx, account.ID, token); err != nil {
		return AuthSession{}, errors.Wrap(err, "save token")
	}
	return AuthSession{
		Token:    token,
		UserID:   account.ID,
		Username: account.Username,
		Email:    account.Email,
	}, nil
}
