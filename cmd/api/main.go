package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/config"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/company-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/company-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/guard"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/company-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/company-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/company-backend-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/company-backend-go/internal/service/company"
	"github.com/cmlabs-hris/company-backend-go/internal/service/file"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/httplog/v3"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := config.ParseLogLevel(cfg.Log.Level)
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

type stores struct {
	companies     company.CompanyRepository
	users         user.UserRepository
	refreshTokens auth.RefreshTokenRepository
	transactor    resource.Transactor
	pinger        appHTTP.Pinger
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Database.Driver == config.DBDriverMemory {
		slog.Warn("Using in-memory store, data is lost on restart")
		return &stores{
			companies:     memory.NewCompanyRepository(),
			users:         memory.NewUserRepository(),
			refreshTokens: memory.NewRefreshTokenRepository(cfg.JWT.RefreshExpiration),
			transactor:    memory.NewTransactor(),
			close:         func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("Database migrations applied")
	}

	return &stores{
		companies:     postgresql.NewCompanyRepository(db),
		users:         postgresql.NewUserRepository(db),
		refreshTokens: postgresql.NewRefreshTokenRepository(db),
		transactor:    postgresql.NewTransactor(db),
		pinger:        db,
		close:         db.Close,
	}, nil
}

func openFileStorage(ctx context.Context, cfg *config.Config) (storage.FileStorage, error) {
	switch cfg.Storage.Type {
	case config.StorageLocal:
		return storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	case config.StorageMinio:
		return storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Secure:    cfg.Storage.UseSSL,
		})
	case config.StorageS3:
		return storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:     cfg.Storage.Endpoint,
			Region:       cfg.Storage.Region,
			AccessKey:    cfg.Storage.AccessKey,
			SecretKey:    cfg.Storage.SecretKey,
			Bucket:       cfg.Storage.Bucket,
			UsePathStyle: cfg.Storage.UsePathStyle,
		})
	}
	return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.App.Env,
			Release:          cfg.App.Version,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			return fmt.Errorf("failed to initialize sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	fileStorage, err := openFileStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.Storage.Type, err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.SecureCookie)
	GoogleService := oauth.NewGoogleService(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL, cfg.Google.Scopes)
	fileService := file.NewFileService(fileStorage)
	authService := serviceAuth.NewAuthService(st.users, st.refreshTokens, JWTService)
	companyService := serviceCompany.NewGuardedService(
		serviceCompany.NewCompanyService(st.companies, st.transactor, fileService),
		guard.New(cfg.Guard.SlowThreshold),
	)

	authHandler := appHTTP.NewAuthHandler(JWTService, authService, GoogleService, cfg.App.FrontendURL, cfg.App.SecureCookie)
	companyHandler := appHTTP.NewCompanyHandler(companyService)
	healthHandler := appHTTP.NewHealthHandler(st.pinger, appHTTP.AppInfo{
		Name:     cfg.App.Name,
		Version:  cfg.App.Version,
		Env:      cfg.App.Env,
		DBDriver: cfg.Database.Driver,
		Storage:  cfg.Storage.Type,
	})

	routerOpts := appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
		RequestTimeout: cfg.App.RequestTimeout,
	}
	if cfg.RateLimit.Enabled {
		routerOpts.AuthRateLimit = &middleware.RateLimitOptions{
			Interval:     cfg.RateLimit.Interval,
			Burst:        cfg.RateLimit.Burst,
			CacheSize:    cfg.RateLimit.CacheSize,
			TTL:          cfg.RateLimit.TTL,
			TrustHeaders: cfg.RateLimit.TrustHeaders,
		}
	}
	if cfg.Storage.Type == config.StorageLocal {
		routerOpts.UploadsDir = cfg.Storage.BasePath
		routerOpts.UploadsPrefix = cfg.UploadsPrefix()
	}
	router := appHTTP.NewRouter(routerOpts, JWTService, authHandler, companyHandler, healthHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := cron.NewScheduler(ctx)
	scheduler.AddJob("refresh-token-cleanup", cfg.Cron.TokenCleanupInterval, cron.RefreshTokenCleanup(st.refreshTokens))
	scheduler.Start()
	defer scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "db_driver", cfg.Database.Driver, "storage", cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
