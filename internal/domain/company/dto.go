package company

import (
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const MaxLogoSize = 5 << 20

var logoContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type CompanyResponse struct {
	ID               int64     `json:"id"`
	PublicID         string    `json:"public_id"`
	Name             string    `json:"name"`
	RegistrationCode string    `json:"registration_code"`
	Address          *string   `json:"address"`
	LogoURL          *string   `json:"logo_url"`
	Deleted          bool      `json:"deleted"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// LogoUpload is a logo file received with a create or update request.
type LogoUpload struct {
	File     io.Reader
	Filename string
	Size     int64
}

func (l *LogoUpload) Extension() string {
	return strings.ToLower(filepath.Ext(l.Filename))
}

// ContentType is derived from the file extension. Unknown extensions yield "".
func (l *LogoUpload) ContentType() string {
	return logoContentTypes[l.Extension()]
}

func (l *LogoUpload) validate(errs *validator.ValidationErrors) {
	if l.File == nil || l.Filename == "" {
		errs.Add("logo", "logo file is empty")
		return
	}
	if l.ContentType() == "" {
		errs.Add("logo", ErrLogoTypeNotAllowed.Detail)
	}
	if l.Size > MaxLogoSize {
		errs.Add("logo", ErrLogoSizeExceeded.Detail)
	}
}

type CreateCompanyRequest struct {
	Name             string  `json:"name"`
	RegistrationCode string  `json:"registration_code"`
	Address          *string `json:"address,omitempty"`

	// PublicID lets internal callers such as seeders and imports keep an
	// existing public id. It is never read from client input.
	PublicID *uuid.UUID  `json:"-"`
	Logo     *LogoUpload `json:"-"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if utf8.RuneCountInString(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.RegistrationCode) {
		errs.Add("registration_code", "registration_code is required")
	} else if !validator.IsValidRegistrationCode(r.RegistrationCode) {
		errs.Add("registration_code", "registration_code must be 3 to 50 letters, numbers, dots, underscores or hyphens")
	}

	if r.Address != nil && utf8.RuneCountInString(*r.Address) > 500 {
		errs.Add("address", "address must not exceed 500 characters")
	}

	if r.Logo != nil {
		r.Logo.validate(&errs)
	}

	return errs.Err()
}

// UpdateCompanyRequest carries only the fields to change. A nil field is
// left untouched; the logo is kept unless a new one is sent or RemoveLogo
// is set.
type UpdateCompanyRequest struct {
	Name             *string `json:"name,omitempty"`
	RegistrationCode *string `json:"registration_code,omitempty"`
	Address          *string `json:"address,omitempty"`
	RemoveLogo       bool    `json:"remove_logo,omitempty"`

	Logo *LogoUpload `json:"-"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if utf8.RuneCountInString(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}

	if r.RegistrationCode != nil && !validator.IsValidRegistrationCode(*r.RegistrationCode) {
		errs.Add("registration_code", "registration_code must be 3 to 50 letters, numbers, dots, underscores or hyphens")
	}

	if r.Address != nil && utf8.RuneCountInString(*r.Address) > 500 {
		errs.Add("address", "address must not exceed 500 characters")
	}

	if r.Logo != nil {
		if r.RemoveLogo {
			errs.Add("remove_logo", "remove_logo cannot be combined with a new logo")
		}
		r.Logo.validate(&errs)
	}

	return errs.Err()
}
