package memory

import (
	"strings"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
)

type companyRepositoryImpl struct {
	*table[*company.Company]
}

func NewCompanyRepository() company.CompanyRepository {
	return &companyRepositoryImpl{
		table: newTable(cloneCompany, companyColumn, map[string]func(*company.Company) string{
			company.ConstraintRegistrationCode: func(c *company.Company) string { return strings.ToLower(c.RegistrationCode) },
			company.ConstraintPublicID:         func(c *company.Company) string { return c.PublicID.String() },
		}),
	}
}

func cloneCompany(c *company.Company) *company.Company {
	cloned := *c
	cloned.Address = cloneString(c.Address)
	cloned.LogoPath = cloneString(c.LogoPath)
	cloned.LogoContentType = cloneString(c.LogoContentType)
	return &cloned
}

func companyColumn(c *company.Company, column string) (any, bool) {
	switch column {
	case "id":
		return c.ID, true
	case "public_id":
		return c.PublicID, true
	case "name":
		return c.Name, true
	case "registration_code":
		return c.RegistrationCode, true
	case "created_at":
		return c.CreatedAt, true
	case "updated_at":
		return c.UpdatedAt, true
	}
	return nil, false
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
