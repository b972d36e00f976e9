package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_StatusAndCode(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{KindConflict, http.StatusConflict, "DATA_INTEGRITY_VIOLATION"},
		{KindInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{KindValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
		{KindUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{KindForbidden, http.StatusForbidden, "FORBIDDEN"},
		{KindRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{KindUpstream, http.StatusInternalServerError, "UPSTREAM_SERVICE_FAILURE"},
		{KindMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.kind.Status(), c.code)
		assert.Equal(t, c.code, c.kind.Code())
		assert.NotEmpty(t, c.kind.Title())
	}
}

func TestError_WithDoesNotMutateSentinel(t *testing.T) {
	sentinel := NotFound("company not found")

	derived := sentinel.With("id", int64(7))

	assert.Nil(t, sentinel.Props)
	assert.Equal(t, int64(7), derived.Props["id"])
	assert.True(t, errors.Is(derived, sentinel))
	assert.False(t, errors.Is(derived, Conflict("company not found")))
}

func TestError_InternalRedactsDetail(t *testing.T) {
	err := Internal(errors.New("pq: relation companies does not exist"))

	assert.Equal(t, KindInternal, err.Kind)
	assert.Equal(t, InternalDetail, err.PublicDetail())
	assert.Contains(t, err.Error(), "relation companies")
}

func TestError_UpstreamStatus(t *testing.T) {
	known := Upstream(http.StatusBadGateway, "bad gateway", "google userinfo failed")
	assert.Equal(t, http.StatusBadGateway, known.Status())
	assert.Equal(t, http.StatusBadGateway, known.Props[PropUpstreamStatus])
	assert.Equal(t, "bad gateway", known.Props[PropUpstreamBody])

	unknown := Upstream(799, "", "weird upstream")
	assert.Equal(t, http.StatusInternalServerError, unknown.Status())
	assert.NotContains(t, unknown.Props, PropUpstreamBody)

	none := Upstream(0, "", "connection refused")
	assert.Equal(t, http.StatusInternalServerError, none.Status())
}

func TestFrom(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, From(nil))
	})

	t.Run("wrapped app error", func(t *testing.T) {
		wrapped := fmt.Errorf("service: %w", Conflict("duplicate"))
		got := From(wrapped)
		require.NotNil(t, got)
		assert.Equal(t, KindConflict, got.Kind)
	})

	t.Run("validation errors", func(t *testing.T) {
		var errs validator.ValidationErrors
		errs.Add("name", "name is required")
		got := From(errs)
		assert.Equal(t, KindValidation, got.Kind)
		assert.Equal(t, map[string]string{"name": "name is required"}, got.Props[PropErrors])
	})

	t.Run("deadline", func(t *testing.T) {
		got := From(fmt.Errorf("query: %w", context.DeadlineExceeded))
		assert.Equal(t, KindInternal, got.Kind)
		assert.Equal(t, "timeout", got.Props[PropCauseType])
	})

	t.Run("unclassified", func(t *testing.T) {
		cause := errors.New("boom")
		got := From(cause)
		assert.Equal(t, KindInternal, got.Kind)
		assert.ErrorIs(t, got, cause)
	})
}
