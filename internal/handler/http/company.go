package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// maxMultipartMemory is the part of a multipart body kept in memory;
	// the rest spills to temporary files.
	maxMultipartMemory = 10 << 20
	maxRequestBody     = company.MaxLogoSize + 1<<20

	companyRefParam = "companyRef"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{companyService: companyService}
}

// parseCompanyRef accepts a positive numeric id or a UUID public id.
func parseCompanyRef(r *http.Request) (resource.Ref, error) {
	raw := chi.URLParam(r, companyRefParam)

	if validator.IsNumeric(raw) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return resource.Ref{}, apperror.InvalidArgument("id must be a positive integer").With("id", raw)
		}
		return resource.ByID(id), nil
	}
	if publicID, err := uuid.Parse(raw); err == nil {
		return resource.ByPublicID(publicID), nil
	}
	return resource.Ref{}, apperror.InvalidArgument("company identifier must be a numeric id or a UUID").With("id", raw)
}

func parseBoolParam(r *http.Request, name string, fallback bool, invalid *apperror.Error) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	switch strings.ToLower(raw) {
	case "":
		return fallback, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, invalid.With(name, raw)
}

func parseIntParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.InvalidArgument("%s must be an integer", name).With(name, raw)
	}
	return n, nil
}

func parsePageRequest(r *http.Request) (resource.PageRequest, error) {
	var req resource.PageRequest
	var err error

	if req.Page, err = parseIntParam(r, "page", 0); err != nil {
		return req, err
	}
	if req.Size, err = parseIntParam(r, "size", resource.DefaultPageSize); err != nil {
		return req, err
	}
	if req.IncludeDeleted, err = parseBoolParam(r, "include_deleted", false, company.ErrInvalidIncludeDeletedArg); err != nil {
		return req, err
	}
	req.SortBy = r.URL.Query().Get("sort_by")
	req.SortDirection = r.URL.Query().Get("sort_direction")
	return req, nil
}

// readCompanyForm decodes the "data" part into dst and returns the optional
// "logo" part. A plain JSON body is accepted when no logo is sent.
func readCompanyForm(w http.ResponseWriter, r *http.Request, dst any) (*company.LogoUpload, multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return nil, nil, decodeJSON(r, dst)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, nil, company.ErrLogoSizeExceeded.WithCause(err)
		}
		return nil, nil, apperror.InvalidArgument("failed to parse form data").WithCause(err)
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		return nil, nil, apperror.InvalidArgument("field 'data' is required")
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		return nil, nil, apperror.InvalidArgument("invalid request format").WithCause(err)
	}

	file, fileHeader, err := r.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperror.InvalidArgument("invalid logo upload").WithCause(err)
	}

	return &company.LogoUpload{
		File:     file,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
	}, file, nil
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	page, err := c.companyService.List(r.Context(), pageReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	response.OK(w, r, page)
}

// Get implements CompanyHandler.
func (c *CompanyHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ref, err := parseCompanyRef(r)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	companyResponse, err := c.companyService.Get(r.Context(), ref)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	response.OK(w, r, companyResponse)
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq company.CreateCompanyRequest
	logo, file, err := readCompanyForm(w, r, &createReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}
	createReq.Logo = logo

	if err := createReq.Validate(); err != nil {
		response.Problem(w, r, err)
		return
	}

	companyResponse, err := c.companyService.Create(r.Context(), createReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	slog.Info("Company created successfully", "company_id", companyResponse.ID, "public_id", companyResponse.PublicID)
	response.Created(w, r, companyResponse)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ref, err := parseCompanyRef(r)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	var updateReq company.UpdateCompanyRequest
	logo, file, err := readCompanyForm(w, r, &updateReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}
	updateReq.Logo = logo

	if err := updateReq.Validate(); err != nil {
		response.Problem(w, r, err)
		return
	}

	companyResponse, err := c.companyService.Update(r.Context(), ref, updateReq)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	slog.Info("Company updated successfully", "company_id", companyResponse.ID)
	response.OK(w, r, companyResponse)
}

// Delete implements CompanyHandler. soft defaults to true.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ref, err := parseCompanyRef(r)
	if err != nil {
		response.Problem(w, r, err)
		return
	}
	soft, err := parseBoolParam(r, "soft", true, company.ErrInvalidSoftDeleteFlag)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	if soft {
		err = c.companyService.SoftDelete(r.Context(), ref)
	} else {
		err = c.companyService.Delete(r.Context(), ref)
	}
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	key, value := ref.Key()
	slog.Info("Company deleted", key, value, "soft", soft)
	response.NoContent(w)
}

// Restore implements CompanyHandler.
func (c *CompanyHandlerImpl) Restore(w http.ResponseWriter, r *http.Request) {
	ref, err := parseCompanyRef(r)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	companyResponse, err := c.companyService.Restore(r.Context(), ref)
	if err != nil {
		response.Problem(w, r, err)
		return
	}

	response.OK(w, r, companyResponse)
}
