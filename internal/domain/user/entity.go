package user

import "time"

type OAuthProvider string

const OAuthProviderGoogle OAuthProvider = "google"

type User struct {
	ID              string
	Email           string
	PhoneNumber     *string
	PasswordHash    *string
	OAuthProvider   *OAuthProvider
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
