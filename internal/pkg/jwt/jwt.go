package jwt

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Service interface {
	GenerateAccessToken(userID string, email string) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies a refresh token and returns its user id.
	ParseRefreshToken(token string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	secureCookie    bool
	tokenAuth       *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration, refreshTokenTTL time.Duration, secureCookie bool) Service {
	return &JWTService{
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		secureCookie:    secureCookie,
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
		"jti":     uuid.NewString(),
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return userID, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
