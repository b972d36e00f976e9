package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_EnvelopesPlainPayload(t *testing.T) {
	payload := map[string]string{"name": "Acme"}

	wrapped, ok := Wrap(payload, "/api/v1/companies").(Envelope)

	require.True(t, ok)
	assert.True(t, wrapped.Success)
	assert.Equal(t, payload, wrapped.Data)
	assert.Nil(t, wrapped.Message)
	assert.Equal(t, "/api/v1/companies", wrapped.Path)
	assert.False(t, wrapped.Timestamp.IsZero())
}

func TestWrap_NeverDoubleWraps(t *testing.T) {
	envelope := NewEnvelope(nil, "Logged out", "/api/v1/auth/logout")
	problem := NewProblem(apperror.NotFound("company not found"), "/api/v1/companies/1")

	tests := []struct {
		name    string
		payload any
	}{
		{"envelope", envelope},
		{"envelope pointer", &envelope},
		{"problem", problem},
		{"problem pointer", &problem},
		{"text", Text("pong")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.payload, Wrap(tt.payload, "/other"))
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain", "/api/v1/companies/5", "/api/v1/companies/5"},
		{"trimmed", "  /api/v1/companies  ", "/api/v1/companies"},
		{"escaped", "/api/v1/companies/a&b", "/api/v1/companies/a&amp;b"},
		{"script tag", "/api/<script>alert(1)</script>", "/"},
		{"script upper case", "/api/<SCRIPT>alert(1)", "/"},
		{"iframe", "/x/<iframe src=evil>", "/"},
		{"javascript scheme", "/x/JavaScript:alert(1)", "/"},
		{"event handler", "/x/img onerror=alert(1)", "/"},
		{"event handler with spaces", "/x/body onload =go()", "/"},
		{"across newline", "/x/\n<script\n>", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePath(tt.path))
		})
	}
}

func TestWrite_EnvelopeJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/companies/5", nil)
	w := httptest.NewRecorder()

	OK(w, r, map[string]int64{"id": 5})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["message"])
	assert.Equal(t, "/api/v1/companies/5", body["path"])
	assert.Equal(t, map[string]any{"id": float64(5)}, body["data"])
}

func TestWrite_TextUnwrapped(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	Write(w, r, http.StatusOK, Text("."))

	assert.Equal(t, ".", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestProblem_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		detail string
	}{
		{"not found", apperror.NotFound("company not found"), http.StatusNotFound, "RESOURCE_NOT_FOUND", "company not found"},
		{"conflict", apperror.Conflict("registration code already exists"), http.StatusConflict, "DATA_INTEGRITY_VIOLATION", "registration code already exists"},
		{"invalid argument", apperror.InvalidArgument("invalid sort field: foo"), http.StatusBadRequest, "INVALID_ARGUMENT", "invalid sort field: foo"},
		{"unauthorized", apperror.Unauthorized("invalid token"), http.StatusUnauthorized, "UNAUTHORIZED", "invalid token"},
		{"forbidden", apperror.Forbidden("access denied"), http.StatusForbidden, "FORBIDDEN", "access denied"},
		{"rate limited", apperror.RateLimited("too many requests"), http.StatusTooManyRequests, "RATE_LIMITED", "too many requests"},
		{"wrapped kind survives", fmt.Errorf("operation x failed: %w", apperror.NotFound("gone")), http.StatusNotFound, "RESOURCE_NOT_FOUND", "gone"},
		{"unclassified is internal", errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR", apperror.InternalDetail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/companies/1", nil)
			w := httptest.NewRecorder()

			Problem(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, ProblemContentType, w.Header().Get("Content-Type"))

			var doc ProblemDocument
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
			assert.Equal(t, "about:blank", doc.Type)
			assert.Equal(t, tt.status, doc.Status)
			assert.Equal(t, tt.code, doc.ErrorCode)
			assert.Equal(t, tt.detail, doc.Detail)
			assert.Equal(t, "/api/v1/companies/1", doc.Instance)
		})
	}
}

func TestProblem_InternalDetailIsRedacted(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	w := httptest.NewRecorder()

	Problem(w, r, apperror.Internal(errors.New("password=hunter2 rejected by db")))

	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestProblem_UpstreamCarriesProperties(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/google/callback", nil)
	w := httptest.NewRecorder()

	Problem(w, r, apperror.Upstream(http.StatusBadGateway, `{"error":"down"}`, "google userinfo request failed"))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var doc ProblemDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "UPSTREAM_SERVICE_FAILURE", doc.ErrorCode)
	assert.Equal(t, float64(http.StatusBadGateway), doc.Properties[apperror.PropUpstreamStatus])
	assert.Equal(t, `{"error":"down"}`, doc.Properties[apperror.PropUpstreamBody])
}

func TestProblem_ValidationErrors(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("name", "name is required")
	errs.Add("registration_code", "registration_code is required")

	r := httptest.NewRequest(http.MethodPost, "/api/v1/companies", nil)
	w := httptest.NewRecorder()

	Problem(w, r, errs)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var doc ProblemDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "VALIDATION_FAILED", doc.ErrorCode)
	fieldErrors, ok := doc.Properties[apperror.PropErrors].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "name is required", fieldErrors["name"])
	assert.Contains(t, fieldErrors, "registration_code")
}

func TestProblem_InstanceIsSanitized(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/companies/x", nil)
	r.URL.Path = "/api/v1/companies/<script>alert(1)</script>"
	w := httptest.NewRecorder()

	Problem(w, r, apperror.NotFound("company not found"))

	var doc ProblemDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/", doc.Instance)
}
