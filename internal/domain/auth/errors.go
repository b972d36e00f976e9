package auth

import "github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"

var (
	ErrInvalidCredentials     = apperror.Unauthorized("invalid email or password")
	ErrInvalidToken           = apperror.Unauthorized("invalid or expired token")
	ErrRefreshTokenRevoked    = apperror.Unauthorized("refresh token has been revoked")
	ErrRefreshTokenMissing    = apperror.Unauthorized("refresh token is required")
	ErrStateMismatch          = apperror.Unauthorized("oauth state mismatch")
	ErrGoogleAccessDenied     = apperror.Forbidden("google access denied by user")
	ErrGoogleEmailNotVerified = apperror.Forbidden("google email is not verified")
)
