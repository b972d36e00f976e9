package auth

import (
	"strings"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/validator"
)

func validateEmail(errs *validator.ValidationErrors, email string) {
	switch {
	case validator.IsEmpty(email):
		errs.Add("email", "email is required")
	case len(email) > 254:
		errs.Add("email", "email must not exceed 254 characters")
	case !validator.IsValidEmail(email):
		errs.Add("email", "email must be a valid email address, e.g. user@example.com")
	}
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

func validatePassword(errs *validator.ValidationErrors, password string) {
	switch {
	case validator.IsEmpty(password):
		errs.Add("password", "password is required")
	case len(password) < 8:
		errs.Add("password", "password must be at least 8 characters long")
	case len(password) > MaxPasswordBytes:
		errs.Add("password", "password must not exceed 72 bytes")
	}
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

func (r *SignUpRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
	validateEmail(&errs, r.Email)
	validatePassword(&errs, r.Password)

	if validator.IsEmpty(r.PhoneNumber) {
		errs.Add("phone_number", "phone_number is required")
	} else if !validator.IsValidE164(r.PhoneNumber) {
		errs.Add("phone_number", "phone_number must be in E.164 format, e.g. +6281234567890")
	}

	return errs.Err()
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignInRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
	validateEmail(&errs, r.Email)
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}

	return errs.Err()
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
