package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/company-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	phone := "+6281234567890"

	created, err := repo.Create(ctx, user.User{Email: "Owner@Example.com", PhoneNumber: &phone, PasswordHash: &hashed})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.HasPassword())

	byEmail, err := repo.GetByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owner@Example.com", byID.Email)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	_, err := repo.Create(ctx, user.User{Email: "owner@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{Email: "OWNER@example.com"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_LinkGoogleAccount(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	_, err := repo.LinkGoogleAccount(ctx, "google-1", "ghost@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = repo.Create(ctx, user.User{Email: "owner@example.com"})
	require.NoError(t, err)

	linked, err := repo.LinkGoogleAccount(ctx, "google-1", "owner@example.com")
	require.NoError(t, err)
	require.NotNil(t, linked.OAuthProviderID)
	assert.Equal(t, "google-1", *linked.OAuthProviderID)
	require.NotNil(t, linked.OAuthProvider)
	assert.Equal(t, user.OAuthProviderGoogle, *linked.OAuthProvider)
}

func TestRefreshTokenRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	repo := postgresql.NewRefreshTokenRepository(setup.DB)

	owner, err := users.Create(ctx, user.User{Email: "owner@example.com"})
	require.NoError(t, err)

	revoked, err := repo.IsRefreshTokenRevoked(ctx, "never-issued")
	require.NoError(t, err)
	assert.True(t, revoked, "unknown tokens are revoked")

	session := auth.SessionTrackingRequest{UserAgent: "curl/8.0", IPAddress: "10.0.0.1"}
	require.NoError(t, repo.CreateRefreshToken(ctx, owner.ID, "token-1", time.Now().Add(time.Hour).Unix(), session))
	require.NoError(t, repo.CreateRefreshToken(ctx, owner.ID, "token-expired", time.Now().Add(-time.Minute).Unix(), auth.SessionTrackingRequest{}))

	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token-expired")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "token-1"))
	require.NoError(t, repo.RevokeRefreshToken(ctx, "token-1"))
	revoked, err = repo.IsRefreshTokenRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
