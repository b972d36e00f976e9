package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxRefreshTokens bounds the in-memory session list. Evicted or expired
// tokens read as revoked, which only forces a new sign in.
const maxRefreshTokens = 100_000

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type refreshTokenRepositoryImpl struct {
	mu     sync.Mutex
	tokens *expirable.LRU[string, refreshToken]
}

func NewRefreshTokenRepository(ttl time.Duration) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{
		tokens: expirable.NewLRU[string, refreshToken](maxRefreshTokens, nil, ttl),
	}
}

// CreateRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	r.tokens.Add(token, refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)})
	return nil
}

// IsRefreshTokenRevoked implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	record, ok := r.tokens.Get(token)
	if !ok {
		return true, nil
	}
	return record.revoked || !record.expiresAt.After(time.Now()), nil
}

// RevokeRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.tokens.Get(token)
	if !ok || record.revoked {
		return nil
	}
	record.revoked = true
	r.tokens.Add(token, record)
	return nil
}

// DeleteStaleRefreshTokens implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) DeleteStaleRefreshTokens(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	now := time.Now()
	for _, token := range r.tokens.Keys() {
		record, ok := r.tokens.Peek(token)
		if !ok {
			continue
		}
		if record.revoked || !record.expiresAt.After(now) {
			r.tokens.Remove(token)
			removed++
		}
	}
	return removed, nil
}
