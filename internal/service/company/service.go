package company

import (
	"context"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/service/file"
	resourceservice "github.com/cmlabs-hris/company-backend-go/internal/service/resource"
)

type CompanyServiceImpl struct {
	resources *resourceservice.Service[*company.Company, company.CreateCompanyRequest, company.UpdateCompanyRequest, company.CompanyResponse]
}

func NewCompanyService(
	companyRepository company.CompanyRepository,
	transactor resource.Transactor,
	fileService file.FileService,
) company.CompanyService {
	return &CompanyServiceImpl{
		resources: resourceservice.NewService[*company.Company, company.CreateCompanyRequest, company.UpdateCompanyRequest, company.CompanyResponse](
			companyRepository,
			transactor,
			&definition{fileService: fileService},
		),
	}
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context, req resource.PageRequest) (resource.Page[company.CompanyResponse], error) {
	return c.resources.List(ctx, req)
}

// Get implements company.CompanyService.
func (c *CompanyServiceImpl) Get(ctx context.Context, ref resource.Ref) (company.CompanyResponse, error) {
	return c.resources.Get(ctx, ref)
}

// Create implements company.CompanyService.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	return c.resources.Create(ctx, req)
}

// Update implements company.CompanyService.
func (c *CompanyServiceImpl) Update(ctx context.Context, ref resource.Ref, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	return c.resources.Update(ctx, ref, req)
}

// SoftDelete implements company.CompanyService.
func (c *CompanyServiceImpl) SoftDelete(ctx context.Context, ref resource.Ref) error {
	return c.resources.SoftDeleteRef(ctx, ref)
}

// Delete implements company.CompanyService.
func (c *CompanyServiceImpl) Delete(ctx context.Context, ref resource.Ref) error {
	return c.resources.DeleteRef(ctx, ref)
}

// Restore implements company.CompanyService.
func (c *CompanyServiceImpl) Restore(ctx context.Context, ref resource.Ref) (company.CompanyResponse, error) {
	return c.resources.RestoreRef(ctx, ref)
}
