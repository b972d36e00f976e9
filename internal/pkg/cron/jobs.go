package cron

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
)

// RefreshTokenCleanup removes expired and revoked refresh tokens.
func RefreshTokenCleanup(repo auth.RefreshTokenRepository) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		removed, err := repo.DeleteStaleRefreshTokens(ctx)
		if err != nil {
			return err
		}
		if removed > 0 {
			slog.InfoContext(ctx, "Stale refresh tokens removed", "count", removed)
		}
		return nil
	}
}
