package auth

import "context"

// SessionTrackingRequest describes the client a refresh token was issued to.
type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type sessionKey struct{}

func WithSession(ctx context.Context, session SessionTrackingRequest) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func SessionFromContext(ctx context.Context) SessionTrackingRequest {
	session, _ := ctx.Value(sessionKey{}).(SessionTrackingRequest)
	return session
}

// RefreshTokenRepository records issued refresh tokens so they can be
// revoked. A token the store has never seen counts as revoked.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	// DeleteStaleRefreshTokens drops expired and revoked tokens and returns
	// how many were removed.
	DeleteStaleRefreshTokens(ctx context.Context) (int64, error)
}
