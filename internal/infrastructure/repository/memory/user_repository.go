package memory

import (
	"context"
	"sync"
	"time"

	"github.com/AleksandarPetrovv/NinetyPlus/internal/domain/user"
)

type UserRepository struct {
	mu       sync.RWMutex
	nextID   int64
	byID     map[int64]user.User
	byName   map[string]int64
	byToken  map[string]int64
	profiles map[int64]user.Profile
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID:   1,
		byID:     make(map[int64]user.User),
		byName:   make(map[string]int64),
		byToken:  make(map[string]int64),
		profiles: make(map[int64]user.Profile),
	}
}

func (r *UserRepository) Create(_ context.Context, account user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account.ID = r.nextID
	account.CreatedAt = time.Now().UTC()
	r.byID[account.ID] = account
	r.byName[account.Username] = account.ID
	r.nextID++
	return account, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID int64) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[userID]
	return account, ok, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return user.User{}, false, nil
	}
	account, ok := r.byID[id]
	return account, ok, nil
}

func (r *UserRepository) GetByToken(_ context.Context, token string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return user.User{}, false, nil
	}
	account, ok := r.byID[id]
	return account, ok, nil
}

func (r *UserRepository) SaveToken(_ context.Context, userID int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byToken[token] = userID
	return nil
}

func (r *UserRepository) GetProfile(_ context.Context, userID int64) (user.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	return profile, ok, nil
}

func (r *UserRepository) UpsertProfile(_ context.Context, profile user.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = profile
	return nil
}
