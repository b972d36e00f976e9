package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, public_id, name, registration_code, address, logo_path, logo_content_type, deleted, created_at, updated_at`

// companySortColumns guards the ORDER BY clause, which cannot be a bind
// parameter.
var companySortColumns = map[string]struct{}{
	"id":                {},
	"public_id":         {},
	"name":              {},
	"registration_code": {},
	"created_at":        {},
	"updated_at":        {},
}

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID,
		&c.PublicID,
		&c.Name,
		&c.RegistrationCode,
		&c.Address,
		&c.LogoPath,
		&c.LogoContentType,
		&c.Deleted,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id int64) (*company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(q.QueryRow(ctx, query, id))
}

// GetByPublicID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + companyColumns + ` FROM companies WHERE public_id = $1`
	return scanCompany(q.QueryRow(ctx, query, publicID))
}

// List implements company.CompanyRepository.
func (r *companyRepositoryImpl) List(ctx context.Context, lq resource.ListQuery) ([]*company.Company, int64, error) {
	if _, ok := companySortColumns[lq.SortColumn]; !ok {
		return nil, 0, fmt.Errorf("%w: unknown sort column %q", resource.ErrMalformedQuery, lq.SortColumn)
	}
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM companies WHERE ($1 OR deleted = FALSE)`
	if err := q.QueryRow(ctx, countQuery, lq.IncludeDeleted).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", translateError(err))
	}

	direction := "ASC"
	if lq.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM companies
		WHERE ($1 OR deleted = FALSE)
		ORDER BY %s %s, id %s
		LIMIT $2 OFFSET $3
	`, companyColumns, lq.SortColumn, direction, direction)

	rows, err := q.Query(ctx, query, lq.IncludeDeleted, lq.Limit, lq.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", translateError(err))
	}
	defer rows.Close()

	companies := make([]*company.Company, 0, lq.Limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate companies: %w", translateError(err))
	}

	return companies, total, nil
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, newCompany *company.Company) (*company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO companies (public_id, name, registration_code, address, logo_path, logo_content_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + companyColumns

	return scanCompany(q.QueryRow(ctx, query,
		newCompany.PublicID,
		newCompany.Name,
		newCompany.RegistrationCode,
		newCompany.Address,
		newCompany.LogoPath,
		newCompany.LogoContentType,
	))
}

// Update implements company.CompanyRepository. public_id, deleted and
// created_at are never written.
func (r *companyRepositoryImpl) Update(ctx context.Context, c *company.Company) (*company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE companies
		SET name = $1, registration_code = $2, address = $3, logo_path = $4, logo_content_type = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + companyColumns

	return scanCompany(q.QueryRow(ctx, query,
		c.Name,
		c.RegistrationCode,
		c.Address,
		c.LogoPath,
		c.LogoContentType,
		c.ID,
	))
}

// SetDeleted implements company.CompanyRepository.
func (r *companyRepositoryImpl) SetDeleted(ctx context.Context, id int64, deleted bool) (*company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE companies
		SET deleted = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + companyColumns

	return scanCompany(q.QueryRow(ctx, query, deleted, id))
}

// Delete implements company.CompanyRepository.
func (r *companyRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company with id %d: %w", id, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}
