package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"

	StorageLocal = "local"
	StorageMinio = "minio"
	StorageS3    = "s3"
)

type Config struct {
	App       AppConfig          `envPrefix:"APP_"`
	Log       LogConfig          `envPrefix:"LOG_"`
	Database  DatabaseConfig     `envPrefix:"DB_"`
	JWT       JWTConfig          `envPrefix:"JWT_"`
	Google    OAuth2GoogleConfig `envPrefix:"GOOGLE_"`
	Storage   StorageConfig      `envPrefix:"STORAGE_"`
	Guard     GuardConfig        `envPrefix:"GUARD_"`
	RateLimit RateLimitConfig    `envPrefix:"RATE_LIMIT_"`
	Sentry    SentryConfig       `envPrefix:"SENTRY_"`
	Cron      CronConfig         `envPrefix:"CRON_"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string        `env:"NAME" envDefault:"company-backend"`
	Version        string        `env:"VERSION" envDefault:"v1.0.0"`
	Env            string        `env:"ENV" envDefault:"development"`
	Port           int           `env:"PORT" envDefault:"8080"`
	FrontendURL    string        `env:"FRONTEND_URL"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	SecureCookie   bool          `env:"SECURE_COOKIE" envDefault:"false"`
}

type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"postgres"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME" envDefault:"company_backend"`
	SSLMode         string        `env:"SSL_MODE" envDefault:"disable"`
	MaxConns        int32         `env:"MAX_CONNS" envDefault:"25"`
	MinConns        int32         `env:"MIN_CONNS" envDefault:"5"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"1h"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string        `env:"SECRET_KEY"`
	AccessExpiration  time.Duration `env:"ACCESS_EXPIRATION_TIME" envDefault:"1h"`
	RefreshExpiration time.Duration `env:"REFRESH_EXPIRATION_TIME" envDefault:"168h"`
}

type OAuth2GoogleConfig struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL"`
	Scopes       []string `env:"SCOPES" envDefault:"https://www.googleapis.com/auth/userinfo.email,https://www.googleapis.com/auth/userinfo.profile" envSeparator:","`
}

// Enabled reports whether Google sign-in is configured.
func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != ""
}

type StorageConfig struct {
	Type string `env:"TYPE" envDefault:"local"`

	// local
	BasePath string `env:"BASE_PATH" envDefault:"./uploads"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080/uploads"`

	// minio and s3
	Endpoint     string `env:"ENDPOINT"`
	Region       string `env:"REGION" envDefault:"us-east-1"`
	AccessKey    string `env:"ACCESS_KEY"`
	SecretKey    string `env:"SECRET_KEY"`
	Bucket       string `env:"BUCKET" envDefault:"company-logos"`
	UseSSL       bool   `env:"USE_SSL" envDefault:"true"`
	UsePathStyle bool   `env:"USE_PATH_STYLE" envDefault:"false"`
}

type GuardConfig struct {
	SlowThreshold time.Duration `env:"SLOW_THRESHOLD" envDefault:"1000ms"`
}

type RateLimitConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"true"`
	Interval     time.Duration `env:"INTERVAL" envDefault:"6s"`
	Burst        int           `env:"BURST" envDefault:"5"`
	CacheSize    int           `env:"CACHE_SIZE" envDefault:"10000"`
	TTL          time.Duration `env:"TTL" envDefault:"10m"`
	TrustHeaders bool          `env:"TRUST_HEADERS" envDefault:"false"`
}

type SentryConfig struct {
	DSN              string  `env:"DSN"`
	TracesSampleRate float64 `env:"TRACES_SAMPLE_RATE" envDefault:"0"`
}

// CronConfig sets the maintenance job intervals. Zero disables a job.
type CronConfig struct {
	TokenCleanupInterval time.Duration `env:"TOKEN_CLEANUP_INTERVAL" envDefault:"1h"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		return fmt.Errorf("JWT expiration times must be positive")
	}

	switch c.Database.Driver {
	case DBDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DBDriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Type {
	case StorageLocal:
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required")
		}
	case StorageMinio:
		if c.Storage.Endpoint == "" || c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("STORAGE_ENDPOINT, STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required for minio")
		}
	case StorageS3:
		if c.Storage.Bucket == "" || c.Storage.Region == "" {
			return fmt.Errorf("STORAGE_BUCKET and STORAGE_REGION are required for s3")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}

	if c.Google.Enabled() && (c.Google.ClientSecret == "" || c.Google.RedirectURL == "") {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL are required when GOOGLE_CLIENT_ID is set")
	}

	if c.RateLimit.Enabled && (c.RateLimit.Burst <= 0 || c.RateLimit.Interval <= 0 || c.RateLimit.CacheSize <= 0) {
		return fmt.Errorf("RATE_LIMIT_BURST, RATE_LIMIT_INTERVAL and RATE_LIMIT_CACHE_SIZE must be positive")
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return dsn.String()
}

// UploadsPrefix is the URL path local logos are served under, derived from
// STORAGE_BASE_URL.
func (c *Config) UploadsPrefix() string {
	u, err := url.Parse(c.Storage.BaseURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", level)
	}
	return l, nil
}
