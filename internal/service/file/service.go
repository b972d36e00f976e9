package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadCompanyLogo stores a logo under logos/<registration code>/ and
	// returns its storage key.
	UploadCompanyLogo(ctx context.Context, registrationCode string, file io.Reader, filename string, contentType string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

var logoExtensions = []string{".jpg", ".jpeg", ".png"}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadCompanyLogo uploads a company logo
func (s *fileServiceImpl) UploadCompanyLogo(ctx context.Context, registrationCode string, file io.Reader, filename string, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !validator.IsInSlice(ext, logoExtensions) {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png allowed")
	}

	// Generate unique filename
	uniqueID := uuid.New().String()
	newFilename := fmt.Sprintf("%s-%s%s", registrationCode, uniqueID, ext)
	key := path.Join("logos", registrationCode, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload company logo: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}
