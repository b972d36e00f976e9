package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	// AuthRateLimit throttles sign-in and sign-up when set.
	AuthRateLimit *middleware.RateLimitOptions
	// UploadsDir is served under UploadsPrefix when logos live on local disk.
	UploadsDir    string
	UploadsPrefix string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, authHandler AuthHandler, companyHandler CompanyHandler, healthHandler HealthHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if opts.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Problem(w, r, apperror.NotFound("no handler for this path"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Problem(w, r, apperror.MethodNotAllowed("method %s is not allowed for this path", r.Method))
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/info", healthHandler.Info)
	r.Handle("/metrics", promhttp.Handler())

	if opts.UploadsDir != "" && opts.UploadsPrefix != "" {
		r.Handle(opts.UploadsPrefix+"/*", http.StripPrefix(opts.UploadsPrefix, http.FileServer(http.Dir(opts.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.AuthRateLimit != nil {
					r.Use(middleware.RateLimit(*opts.AuthRateLimit))
				}
				r.Post("/sign-up", authHandler.SignUp)
				r.Post("/sign-in", authHandler.SignIn)
			})
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)

			r.Route("/oauth/google", func(r chi.Router) {
				r.Get("/", authHandler.SignInWithGoogle)
				r.Get("/callback", authHandler.OAuthCallbackGoogle)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired())

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", companyHandler.List)
				r.Post("/", companyHandler.Create)

				r.Route("/{"+companyRefParam+"}", func(r chi.Router) {
					r.Get("/", companyHandler.Get)
					r.Put("/", companyHandler.Update)
					r.Delete("/", companyHandler.Delete)
					r.Post("/restore", companyHandler.Restore)
				})
			})
		})
	})
	return r
}
