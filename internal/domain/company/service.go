package company

import (
	"context"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
)

// CompanyService addresses companies through resource.Ref, so every
// operation works with either the numeric id or the public id.
type CompanyService interface {
	List(ctx context.Context, req resource.PageRequest) (resource.Page[CompanyResponse], error)
	Get(ctx context.Context, ref resource.Ref) (CompanyResponse, error)
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	Update(ctx context.Context, ref resource.Ref, req UpdateCompanyRequest) (CompanyResponse, error)
	SoftDelete(ctx context.Context, ref resource.Ref) error
	Delete(ctx context.Context, ref resource.Ref) error
	Restore(ctx context.Context, ref resource.Ref) (CompanyResponse, error)
}
