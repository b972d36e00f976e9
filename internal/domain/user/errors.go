package user

import "github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"

var (
	ErrUserNotFound    = apperror.NotFound("user not found")
	ErrUserEmailExists = apperror.Conflict("email already registered")
)
