package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type refreshTokenRepositoryImpl struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepositoryImpl{db: db}
}

// hashToken keeps raw tokens out of the table.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// CreateRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
	`
	_, err := q.Exec(ctx, query, userID, hashToken(token), time.Unix(expiresAt, 0).UTC(), session.UserAgent, session.IPAddress)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", translateError(err))
	}
	return nil
}

// IsRefreshTokenRevoked implements auth.RefreshTokenRepository. Expired
// tokens are reported as revoked.
func (r *refreshTokenRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	var (
		revokedAt *time.Time
		expiresAt time.Time
	)
	err := q.QueryRow(ctx, query, hashToken(token)).Scan(&revokedAt, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	return revokedAt != nil || !expiresAt.After(time.Now()), nil
}

// RevokeRefreshToken implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	if _, err := q.Exec(ctx, query, hashToken(token)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// DeleteStaleRefreshTokens implements auth.RefreshTokenRepository.
func (r *refreshTokenRepositoryImpl) DeleteStaleRefreshTokens(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM refresh_tokens WHERE revoked_at IS NOT NULL OR expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
