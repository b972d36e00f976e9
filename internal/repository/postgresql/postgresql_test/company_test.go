package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompany(name, code string) *company.Company {
	return &company.Company{
		Metadata:         resource.NewMetadata(nil),
		Name:             name,
		RegistrationCode: code,
	}
}

func TestCompanyRepository_Lifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(setup.DB)

	draft := newCompany("Acme", "ACME-01")
	created, err := repo.Create(ctx, draft)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, draft.PublicID, created.PublicID)
	assert.False(t, created.Deleted)

	byPublicID, err := repo.GetByPublicID(ctx, created.PublicID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPublicID.ID)

	created.Name = "Acme Corp"
	created.PublicID = resource.NewMetadata(nil).PublicID
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, draft.PublicID, updated.PublicID, "public id is never rewritten")

	deleted, err := repo.SetDeleted(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), resource.ErrNotFound)
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestCompanyRepository_Constraints(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(setup.DB)

	created, err := repo.Create(ctx, newCompany("Acme", "ACME-01"))
	require.NoError(t, err)

	var violation *resource.IntegrityViolation
	_, err = repo.Create(ctx, newCompany("Copy", "acme-01"))
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, company.ConstraintRegistrationCode, violation.Constraint)

	samePublicID := newCompany("Other", "OTHER-01")
	samePublicID.PublicID = created.PublicID
	_, err = repo.Create(ctx, samePublicID)
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, company.ConstraintPublicID, violation.Constraint)
}

func TestCompanyRepository_ListWithTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, c := range []*company.Company{newCompany("Charlie", "CCC"), newCompany("Alpha", "AAA"), newCompany("Bravo", "BBB")} {
			if _, err := repo.Create(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	_, err = repo.SetDeleted(ctx, first.ID, true)
	require.NoError(t, err)

	rows, total, err := repo.List(ctx, resource.ListQuery{Limit: 10, SortColumn: "name"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Name)

	rows, total, err = repo.List(ctx, resource.ListQuery{Offset: 1, Limit: 1, SortColumn: "registration_code", Descending: true, IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "BBB", rows[0].RegistrationCode)

	_, _, err = repo.List(ctx, resource.ListQuery{Limit: 10, SortColumn: "name; DROP TABLE companies"})
	assert.ErrorIs(t, err, resource.ErrMalformedQuery)
}

func TestCompanyRepository_RollbackDiscardsInsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCompanyRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, newCompany("Acme", "ACME-01")); err != nil {
			return err
		}
		_, err := repo.Create(ctx, newCompany("Copy", "ACME-01"))
		return err
	})
	require.Error(t, err)

	_, total, err := repo.List(ctx, resource.ListQuery{Limit: 10, SortColumn: "id", IncludeDeleted: true})
	require.NoError(t, err)
	assert.Zero(t, total)
}
