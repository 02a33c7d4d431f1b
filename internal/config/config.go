package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	ErrUnknownDriver         = errors.New("config: unknown DB_DRIVER")
	ErrUnknownStorageBackend = errors.New("config: unknown STORAGE_BACKEND")
	ErrMissingS3Bucket       = errors.New("config: S3_BUCKET is required for the s3 backend")
	ErrInvalidValue          = errors.New("config: invalid value")
)

type Config struct {
	Port    string
	GinMode string

	EntityKind string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	SessionSecret string
	SessionTTL    time.Duration
	CSRFEnabled   bool
	BcryptCost    int

	ContentDir     string
	MaxUploadMB    int64
	StorageBackend string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PathStyle    bool

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		EntityKind:     getEnv("ENTITY_KIND", "event"),
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "showcase"),
		DBPassword:     getEnv("DB_PASSWORD", "showcase"),
		DBName:         getEnv("DB_NAME", "showcase"),
		SQLitePath:     getEnv("SQLITE_PATH", "showcase.db"),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me-32b!"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		CSRFEnabled:    getEnvBool("CSRF_ENABLED", true),
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		ContentDir:     getEnv("CONTENT_DIR", "static/uploads"),
		MaxUploadMB:    int64(getEnvInt("MAX_UPLOAD_MB", 8)),
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3PathStyle:    getEnvBool("S3_PATH_STYLE", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports the first setting that cannot be used to start the server.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DBDriver)
	}

	switch c.StorageBackend {
	case "local":
		if c.ContentDir == "" {
			return fmt.Errorf("%w: CONTENT_DIR is empty", ErrInvalidValue)
		}
	case "s3":
		if c.S3Bucket == "" {
			return ErrMissingS3Bucket
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageBackend, c.StorageBackend)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrInvalidValue)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: MAX_UPLOAD_MB must be positive", ErrInvalidValue)
	}
	return nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
