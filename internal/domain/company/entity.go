package company

import "github.com/cmlabs-hris/company-backend-go/internal/domain/resource"

type Company struct {
	resource.Metadata
	Name             string
	RegistrationCode string
	Address          *string
	// LogoPath is the key of the logo in file storage.
	LogoPath        *string
	LogoContentType *string
}

// HasLogo reports whether a logo is stored for the company.
func (c *Company) HasLogo() bool {
	return c.LogoPath != nil && *c.LogoPath != ""
}
