package company

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/guard"
	"github.com/cmlabs-hris/company-backend-go/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFileService keeps uploaded logos in a map.
type fakeFileService struct {
	mu        sync.Mutex
	files     map[string]string
	uploadErr error
	uploads   int
}

func newFakeFileService() *fakeFileService {
	return &fakeFileService{files: map[string]string{}}
}

func (f *fakeFileService) UploadCompanyLogo(ctx context.Context, registrationCode string, file io.Reader, filename string, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.uploads++
	path := "logos/" + registrationCode + "/" + strings.Repeat("x", f.uploads) + "-" + filename
	f.files[path] = string(data)
	return path, nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

func (f *fakeFileService) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeFileService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

func newTestCompanyService(t *testing.T) (company.CompanyService, *fakeFileService) {
	t.Helper()
	files := newFakeFileService()
	svc := NewCompanyService(memory.NewCompanyRepository(), memory.NewTransactor(), files)
	return NewGuardedService(svc, guard.New(time.Second)), files
}

func logo(name string) *company.LogoUpload {
	return &company.LogoUpload{File: strings.NewReader("\x89PNG"), Filename: name, Size: 4}
}

func TestCompanyService_CreateWithLogo(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestCompanyService(t)

	created, err := svc.Create(ctx, company.CreateCompanyRequest{
		Name:             "  Acme  ",
		RegistrationCode: "ACME-01",
		Logo:             logo("logo.png"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	require.NotNil(t, created.LogoURL)
	assert.True(t, strings.HasPrefix(*created.LogoURL, "https://cdn.example.com/logos/ACME-01/"))
	assert.Equal(t, 1, files.count())
}

func TestCompanyService_CreateConflictRemovesUploadedLogo(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestCompanyService(t)
	_, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Acme", RegistrationCode: "ACME-01"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, company.CreateCompanyRequest{
		Name:             "Copy",
		RegistrationCode: "acme-01",
		Logo:             logo("logo.png"),
	})

	assert.ErrorIs(t, err, company.ErrRegistrationCodeExists)
	assert.Zero(t, files.count(), "logo of a rejected company must not linger")
}

func TestCompanyService_CreateUploadFailureIsInternal(t *testing.T) {
	svc, files := newTestCompanyService(t)
	files.uploadErr = errors.New("bucket unreachable")

	_, err := svc.Create(context.Background(), company.CreateCompanyRequest{
		Name:             "Acme",
		RegistrationCode: "ACME-01",
		Logo:             logo("logo.jpg"),
	})

	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	assert.ErrorContains(t, err, "bucket unreachable")
}

func TestCompanyService_UpdateReplacesAndRemovesLogo(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestCompanyService(t)
	created, err := svc.Create(ctx, company.CreateCompanyRequest{
		Name:             "Acme",
		RegistrationCode: "ACME-01",
		Logo:             logo("first.png"),
	})
	require.NoError(t, err)
	ref := resource.ByID(created.ID)

	replaced, err := svc.Update(ctx, ref, company.UpdateCompanyRequest{Logo: logo("second.png")})
	require.NoError(t, err)
	require.NotNil(t, replaced.LogoURL)
	assert.NotEqual(t, *created.LogoURL, *replaced.LogoURL)
	assert.Equal(t, 1, files.count(), "previous logo is deleted after commit")

	removed, err := svc.Update(ctx, ref, company.UpdateCompanyRequest{RemoveLogo: true})
	require.NoError(t, err)
	assert.Nil(t, removed.LogoURL)
	assert.Zero(t, files.count())
}

func TestCompanyService_UpdateConflictKeepsPreviousLogo(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestCompanyService(t)
	_, err := svc.Create(ctx, company.CreateCompanyRequest{Name: "Other", RegistrationCode: "OTHER-01"})
	require.NoError(t, err)
	created, err := svc.Create(ctx, company.CreateCompanyRequest{
		Name:             "Acme",
		RegistrationCode: "ACME-01",
		Logo:             logo("first.png"),
	})
	require.NoError(t, err)

	code := "OTHER-01"
	_, err = svc.Update(ctx, resource.ByPublicID(uuid.MustParse(created.PublicID)), company.UpdateCompanyRequest{
		RegistrationCode: &code,
		Logo:             logo("second.png"),
	})

	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, 1, files.count())

	current, err := svc.Get(ctx, resource.ByID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.LogoURL, current.LogoURL)
}

func TestCompanyService_HardDeleteErasesLogo(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestCompanyService(t)
	created, err := svc.Create(ctx, company.CreateCompanyRequest{
		Name:             "Acme",
		RegistrationCode: "ACME-01",
		Logo:             logo("logo.png"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, resource.ByID(created.ID)))
	assert.Equal(t, 1, files.count(), "soft delete keeps the logo")

	require.NoError(t, svc.Delete(ctx, resource.ByID(created.ID)))
	assert.Zero(t, files.count())
}

func TestCompanyService_GuardedFailure(t *testing.T) {
	svc, _ := newTestCompanyService(t)

	_, err := svc.Get(context.Background(), resource.ByID(7))

	var failure *guard.ExecutionFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "CompanyService.GetByID", failure.Operation)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCompanyService_SortAliases(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCompanyService(t)
	for _, code := range []string{"BBB", "AAA"} {
		_, err := svc.Create(ctx, company.CreateCompanyRequest{Name: code, RegistrationCode: code})
		require.NoError(t, err)
	}

	for _, sortBy := range []string{"registration_code", "registrationCode"} {
		page, err := svc.List(ctx, resource.PageRequest{Size: 10, SortBy: sortBy})
		require.NoError(t, err)
		require.Len(t, page.Content, 2)
		assert.Equal(t, "AAA", page.Content[0].RegistrationCode)
	}

	_, err := svc.List(ctx, resource.PageRequest{Size: 10, SortBy: "logo_path"})
	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
}
