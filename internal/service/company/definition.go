package company

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/service/file"
	resourceservice "github.com/cmlabs-hris/company-backend-go/internal/service/resource"
)

// sortableFields maps the accepted sort_by values, snake_case and camelCase,
// to columns of the companies table.
var sortableFields = map[string]string{
	"id":                "id",
	"public_id":         "public_id",
	"publicId":          "public_id",
	"name":              "name",
	"registration_code": "registration_code",
	"registrationCode":  "registration_code",
	"created_at":        "created_at",
	"createdAt":         "created_at",
	"updated_at":        "updated_at",
	"updatedAt":         "updated_at",
}

type definition struct {
	fileService file.FileService
}

func (d *definition) Name() string { return "company" }

func (d *definition) SortableFields() map[string]string { return sortableFields }

func (d *definition) DefaultSort() string { return "id" }

func (d *definition) NewEntity(ctx context.Context, req company.CreateCompanyRequest) (*company.Company, resourceservice.Finalizer, error) {
	newCompany := &company.Company{
		Metadata:         resource.NewMetadata(req.PublicID),
		Name:             strings.TrimSpace(req.Name),
		RegistrationCode: strings.TrimSpace(req.RegistrationCode),
		Address:          req.Address,
	}
	if req.Logo == nil {
		return newCompany, nil, nil
	}

	logoPath, contentType, err := d.uploadLogo(ctx, newCompany.RegistrationCode, req.Logo)
	if err != nil {
		return nil, nil, err
	}
	newCompany.LogoPath = &logoPath
	newCompany.LogoContentType = &contentType

	return newCompany, func(ctx context.Context, persisted bool) {
		if !persisted {
			d.deleteLogo(ctx, logoPath)
		}
	}, nil
}

func (d *definition) ApplyUpdate(ctx context.Context, target *company.Company, req company.UpdateCompanyRequest) (resourceservice.Finalizer, error) {
	if req.Name != nil {
		target.Name = strings.TrimSpace(*req.Name)
	}
	if req.RegistrationCode != nil {
		target.RegistrationCode = strings.TrimSpace(*req.RegistrationCode)
	}
	if req.Address != nil {
		target.Address = req.Address
	}

	var previous string
	if target.HasLogo() {
		previous = *target.LogoPath
	}

	switch {
	case req.Logo != nil:
		logoPath, contentType, err := d.uploadLogo(ctx, target.RegistrationCode, req.Logo)
		if err != nil {
			return nil, err
		}
		target.LogoPath = &logoPath
		target.LogoContentType = &contentType
		return func(ctx context.Context, persisted bool) {
			if !persisted {
				d.deleteLogo(ctx, logoPath)
				return
			}
			if previous != "" {
				d.deleteLogo(ctx, previous)
			}
		}, nil

	case req.RemoveLogo:
		target.LogoPath = nil
		target.LogoContentType = nil
		if previous == "" {
			return nil, nil
		}
		return func(ctx context.Context, persisted bool) {
			if persisted {
				d.deleteLogo(ctx, previous)
			}
		}, nil
	}

	return nil, nil
}

func (d *definition) ToResponse(ctx context.Context, c *company.Company) company.CompanyResponse {
	var logoURL *string
	if c.HasLogo() {
		url, err := d.fileService.GetFileURL(ctx, *c.LogoPath, 0)
		if err != nil {
			slog.WarnContext(ctx, "Failed to build company logo URL", "company_id", c.ID, "error", err)
		} else {
			logoURL = &url
		}
	}

	return company.CompanyResponse{
		ID:               c.ID,
		PublicID:         c.PublicID.String(),
		Name:             c.Name,
		RegistrationCode: c.RegistrationCode,
		Address:          c.Address,
		LogoURL:          logoURL,
		Deleted:          c.Deleted,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (d *definition) ConflictDetail(constraint string) string {
	switch constraint {
	case company.ConstraintRegistrationCode:
		return company.ErrRegistrationCodeExists.Detail
	case company.ConstraintPublicID:
		return company.ErrPublicIDExists.Detail
	default:
		return company.ErrCompanyIntegrity.Detail
	}
}

// Erase removes the logo of a hard-deleted company.
func (d *definition) Erase(ctx context.Context, c *company.Company) {
	if c.HasLogo() {
		d.deleteLogo(ctx, *c.LogoPath)
	}
}

func (d *definition) uploadLogo(ctx context.Context, registrationCode string, logo *company.LogoUpload) (string, string, error) {
	contentType := logo.ContentType()
	if contentType == "" {
		return "", "", company.ErrLogoTypeNotAllowed
	}
	logoPath, err := d.fileService.UploadCompanyLogo(ctx, registrationCode, logo.File, logo.Filename, contentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload company logo: %w", err)
	}
	return logoPath, contentType, nil
}

func (d *definition) deleteLogo(ctx context.Context, logoPath string) {
	if err := d.fileService.DeleteFile(ctx, logoPath); err != nil {
		slog.WarnContext(ctx, "Failed to delete company logo", "path", logoPath, "error", err)
	}
}
