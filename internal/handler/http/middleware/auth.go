package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token. It expects
// jwtauth.Verifier to run first.
func AuthRequired() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Problem(w, r, auth.ErrInvalidToken.WithCause(err))
				return
			}
			if token == nil {
				response.Problem(w, r, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.Problem(w, r, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
