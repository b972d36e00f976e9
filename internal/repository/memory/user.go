package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepositoryImpl struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string
}

func NewUserRepository() user.UserRepository {
	return &userRepositoryImpl{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.byID[id], nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(newUser.Email)
	if _, exists := r.byEmail[key]; exists {
		return user.User{}, user.ErrUserEmailExists
	}

	now := time.Now()
	newUser.ID = uuid.NewString()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.byID[newUser.ID] = newUser
	r.byEmail[key] = newUser.ID
	return newUser, nil
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u := r.byID[id]
	provider := user.OAuthProviderGoogle
	u.OAuthProvider = &provider
	u.OAuthProviderID = &googleID
	u.UpdatedAt = time.Now()
	r.byID[id] = u
	return u, nil
}
