package company

import "github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"

// Store constraint names, as created by the migrations.
const (
	ConstraintRegistrationCode = "companies_registration_code_key"
	ConstraintPublicID         = "companies_public_id_key"
)

var (
	ErrCompanyNotFound          = apperror.NotFound("company not found")
	ErrCompanyDeleted           = apperror.Conflict("company has been deleted")
	ErrRegistrationCodeExists   = apperror.Conflict("registration code already exists")
	ErrPublicIDExists           = apperror.Conflict("public id already exists")
	ErrCompanyIntegrity         = apperror.Conflict("company violates a data integrity constraint")
	ErrLogoTypeNotAllowed       = apperror.InvalidArgument("invalid logo type: only jpg, jpeg, png allowed")
	ErrLogoSizeExceeded         = apperror.InvalidArgument("logo size must not exceed 5MB")
	ErrInvalidSoftDeleteFlag    = apperror.InvalidArgument("soft must be true or false")
	ErrInvalidIncludeDeletedArg = apperror.InvalidArgument("include_deleted must be true or false")
)
