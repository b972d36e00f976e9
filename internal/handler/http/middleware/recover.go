package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
)

// Recoverer turns a panic into an Internal problem document.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(r.Context(), "Recovered from panic", "panic", rvr, "stack", string(debug.Stack()))
			response.Problem(w, r, apperror.Internal(fmt.Errorf("panic: %v", rvr)))
		}()

		next.ServeHTTP(w, r)
	})
}
