package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) response.ProblemDocument {
	t.Helper()
	var doc response.ProblemDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	return doc
}

func TestAuthRequired(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour, false)
	handler := jwtauth.Verifier(jwtService.JWTAuth())(AuthRequired()(okHandler))

	accessToken, _, err := jwtService.GenerateAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)
	refreshToken, _, err := jwtService.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"access token", "Bearer " + accessToken, http.StatusOK},
		{"refresh token rejected", "Bearer " + refreshToken, http.StatusUnauthorized},
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "UNAUTHORIZED", decodeProblem(t, w).ErrorCode)
			}
		})
	}
}

func TestRateLimit_RejectsBurstOverflow(t *testing.T) {
	handler := RateLimit(RateLimitOptions{
		Interval:  time.Hour,
		Burst:     2,
		CacheSize: 16,
		TTL:       time.Hour,
	})(okHandler)

	send := func(addr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1235").Code)

	limited := send("10.0.0.1:1236")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeProblem(t, limited).ErrorCode)

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code, "buckets are per client")
}

func TestClientAddr_TrustHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "10.0.0.1", clientAddr(r, false))
	assert.Equal(t, "203.0.113.7", clientAddr(r, true))
}

func TestRecoverer(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	r := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	doc := decodeProblem(t, w)
	assert.Equal(t, "INTERNAL_ERROR", doc.ErrorCode)
	assert.NotContains(t, w.Body.String(), "boom")
}
