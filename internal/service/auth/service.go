package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	refreshTokens auth.RefreshTokenRepository
}

func NewAuthService(userRepository user.UserRepository, refreshTokens auth.RefreshTokenRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		refreshTokens:  refreshTokens,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens signs a token pair and records the refresh token together with
// the session carried by ctx.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	err = a.refreshTokens.CreateRefreshToken(ctx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, auth.SessionFromContext(ctx))
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return tokenResponse, nil
}

// SignUp implements auth.AuthService.
func (a *AuthServiceImpl) SignUp(ctx context.Context, req auth.SignUpRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	phone := req.PhoneNumber
	newUser, err := a.UserRepository.Create(ctx, user.User{
		Email:        req.Email,
		PhoneNumber:  &phone,
		PasswordHash: &hashed,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return auth.TokenResponse{}, user.ErrUserEmailExists
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "User signed up", "user_id", newUser.ID)
	return a.issueTokens(ctx, newUser)
}

// SignIn implements auth.AuthService.
func (a *AuthServiceImpl) SignIn(ctx context.Context, req auth.SignInRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !userData.HasPassword() {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData)
}

// SignInWithGoogle implements auth.AuthService. Unknown emails get an
// account without password; known ones are linked to the Google id.
func (a *AuthServiceImpl) SignInWithGoogle(ctx context.Context, email string, googleID string) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		provider := user.OAuthProviderGoogle
		userData, err = a.UserRepository.Create(ctx, user.User{
			Email:           email,
			OAuthProvider:   &provider,
			OAuthProviderID: &googleID,
		})
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to create google user: %w", err)
		}
	case err != nil:
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	case userData.OAuthProviderID == nil:
		userData, err = a.UserRepository.LinkGoogleAccount(ctx, googleID, email)
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
	case *userData.OAuthProviderID != googleID:
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData)
}

// Refresh implements auth.AuthService.
func (a *AuthServiceImpl) Refresh(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}
	userID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken.WithCause(err)
	}

	revoked, err := a.refreshTokens.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrRefreshTokenMissing
	}
	if _, err := a.Service.ParseRefreshToken(refreshToken); err != nil {
		return auth.ErrInvalidToken.WithCause(err)
	}
	return a.refreshTokens.RevokeRefreshToken(ctx, refreshToken)
}
