package company

import (
	"context"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/guard"
)

type guardedService struct {
	next  company.CompanyService
	guard *guard.Guard
}

// NewGuardedService times every call to next and wraps its failures in
// guard.ExecutionFailure.
func NewGuardedService(next company.CompanyService, g *guard.Guard) company.CompanyService {
	return &guardedService{next: next, guard: g}
}

// operation names a call after the key used to address the company, e.g.
// CompanyService.GetByPublicID.
func operation(verb string, ref resource.Ref) string {
	if _, byID := ref.ID(); byID {
		return "CompanyService." + verb + "ByID"
	}
	return "CompanyService." + verb + "ByPublicID"
}

func (g *guardedService) List(ctx context.Context, req resource.PageRequest) (resource.Page[company.CompanyResponse], error) {
	return guard.Run(ctx, g.guard, "CompanyService.List", func(ctx context.Context) (resource.Page[company.CompanyResponse], error) {
		return g.next.List(ctx, req)
	})
}

func (g *guardedService) Get(ctx context.Context, ref resource.Ref) (company.CompanyResponse, error) {
	return guard.Run(ctx, g.guard, operation("Get", ref), func(ctx context.Context) (company.CompanyResponse, error) {
		return g.next.Get(ctx, ref)
	})
}

func (g *guardedService) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	return guard.Run(ctx, g.guard, "CompanyService.Create", func(ctx context.Context) (company.CompanyResponse, error) {
		return g.next.Create(ctx, req)
	})
}

func (g *guardedService) Update(ctx context.Context, ref resource.Ref, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	return guard.Run(ctx, g.guard, operation("Update", ref), func(ctx context.Context) (company.CompanyResponse, error) {
		return g.next.Update(ctx, ref, req)
	})
}

func (g *guardedService) SoftDelete(ctx context.Context, ref resource.Ref) error {
	return g.guard.Exec(ctx, operation("SoftDelete", ref), func(ctx context.Context) error {
		return g.next.SoftDelete(ctx, ref)
	})
}

func (g *guardedService) Delete(ctx context.Context, ref resource.Ref) error {
	return g.guard.Exec(ctx, operation("Delete", ref), func(ctx context.Context) error {
		return g.next.Delete(ctx, ref)
	})
}

func (g *guardedService) Restore(ctx context.Context, ref resource.Ref) (company.CompanyResponse, error) {
	return guard.Run(ctx, g.guard, operation("Restore", ref), func(ctx context.Context) (company.CompanyResponse, error) {
		return g.next.Restore(ctx, ref)
	})
}
