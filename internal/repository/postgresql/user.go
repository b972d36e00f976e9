package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, phone_number, password_hash, oauth_provider, oauth_provider_id, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		err = translateError(err)
		var violation *resource.IntegrityViolation
		switch {
		case errors.Is(err, resource.ErrNotFound):
			return user.User{}, user.ErrUserNotFound
		case errors.As(err, &violation):
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (email, phone_number, password_hash, oauth_provider, oauth_provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	return scanUser(q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PhoneNumber,
		newUser.PasswordHash,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	))
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET oauth_provider = $1, oauth_provider_id = $2, updated_at = NOW()
		WHERE LOWER(email) = LOWER($3)
		RETURNING ` + userColumns

	return scanUser(q.QueryRow(ctx, query, string(user.OAuthProviderGoogle), googleID, email))
}
