package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// BackendRemote selects the hosted identity/record-store service.
	BackendRemote = "remote"
	// BackendLocal selects the self-hosted identity provider (SQL accounts + JWT).
	BackendLocal = "local"
	// BackendSQL selects the GORM record store.
	BackendSQL = "sql"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	SwaggerHost string
	LogLevel    string

	IdentityBackend string
	StoreBackend    string

	// Hosted auth/database service.
	ServiceURL string
	ServiceKey string

	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration

	RedisAddr string
	RedisDB   int
	RedisPass string

	HTTPTimeout          time.Duration
	ProvisionStepTimeout time.Duration
	ProvisionCompensate  bool
	LoginRateLimit       int

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		IdentityBackend: getEnv("IDENTITY_BACKEND", BackendRemote),
		StoreBackend:    getEnv("STORE_BACKEND", BackendRemote),

		ServiceURL: os.Getenv("SUPABASE_URL"),
		ServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),

		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    getEnvDuration("TOKEN_TTL", time.Hour),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		HTTPTimeout:          getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		ProvisionStepTimeout: getEnvDuration("PROVISION_STEP_TIMEOUT", 10*time.Second),
		ProvisionCompensate:  getEnvBool("PROVISION_COMPENSATE", false),
		LoginRateLimit:       getEnvInt("LOGIN_RATE_LIMIT", 10),

		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		SeedAdminName:     getEnv("SEED_ADMIN_NAME", "Administrator"),
	}
}

// Validate reports configuration that would prevent the process from serving requests.
func (c *Config) Validate() error {
	var errs []error

	switch c.IdentityBackend {
	case BackendRemote:
	case BackendLocal:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for the local identity backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_BACKEND %q", c.IdentityBackend))
	}

	switch c.StoreBackend {
	case BackendRemote, BackendSQL:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	if c.IdentityBackend == BackendRemote || c.StoreBackend == BackendRemote {
		if c.ServiceURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required"))
		}
		if c.ServiceKey == "" {
			errs = append(errs, errors.New("SUPABASE_SERVICE_KEY is required"))
		}
	}
	if c.UsesSQL() && c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required for the local/sql backends"))
	}

	return errors.Join(errs...)
}

// UsesSQL reports whether any backend needs a database connection.
func (c *Config) UsesSQL() bool {
	return c.IdentityBackend == BackendLocal || c.StoreBackend == BackendSQL
}

// PhotoUploadsEnabled reports whether vendor photo uploads are configured.
func (c *Config) PhotoUploadsEnabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
