package company

import "github.com/cmlabs-hris/company-backend-go/internal/domain/resource"

// CompanyRepository stores companies. Lookups ignore the soft-delete flag;
// List hides deleted rows unless the query asks for them.
type CompanyRepository interface {
	resource.Repository[*Company]
}
