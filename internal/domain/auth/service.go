package auth

import (
	"context"
)

// AuthService is the sign-in collaborator guarding the company endpoints.
type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest) (TokenResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (TokenResponse, error)
	SignInWithGoogle(ctx context.Context, email string, googleID string) (TokenResponse, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
