package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/places-api/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrInvalidImageStore  = errors.New("IMAGE_STORE must be one of: disk, s3")
)

const (
	ImageStoreDisk = "disk"
	ImageStoreS3   = "s3"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type CircuitBreakerConfig struct {
	Threshold int32
	Timeout   time.Duration
	Reset     time.Duration
}

type APIConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration
	BcryptCost     int
	CORSOrigin     string
	ImageStore     string
	UploadDir      string
	MaxImageSize   int64
	S3             S3Config
	DBCircuit      CircuitBreakerConfig
	MigrateOnStart bool
}

// LoadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func LoadAPIConfig() (APIConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return APIConfig{}, err
	}

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return APIConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return APIConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return APIConfig{}, err
	}

	cfg := APIConfig{
		HTTPPort:       getEnv("API_HTTP_PORT", constants.DefaultAPIHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		TokenTTL:       getDurationEnv("TOKEN_TTL", constants.DefaultTokenTTL),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		ImageStore:     strings.ToLower(getEnv("IMAGE_STORE", ImageStoreDisk)),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads/images"),
		MaxImageSize:   getInt64Env("MAX_IMAGE_SIZE", constants.DefaultMaxImageSize),
		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		DBCircuit: CircuitBreakerConfig{
			Threshold: int32(getIntEnv("DB_CIRCUIT_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
			Timeout:   getDurationEnv("DB_CIRCUIT_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
			Reset:     getDurationEnv("DB_CIRCUIT_RESET", constants.DefaultCircuitBreakerReset),
		},
		MigrateOnStart: getBoolEnv("MIGRATE_ON_START", true),
	}

	switch cfg.ImageStore {
	case ImageStoreDisk:
	case ImageStoreS3:
		if cfg.S3.Bucket == "" {
			return APIConfig{}, fmt.Errorf("%w: S3_BUCKET", ErrMissingRequiredEnv)
		}
	default:
		return APIConfig{}, fmt.Errorf("%w: got %q", ErrInvalidImageStore, cfg.ImageStore)
	}

	return cfg, nil
}

// LoadDatabaseURL is used by tools that only need the database.
func LoadDatabaseURL() (string, error) {
	if err := LoadDotEnv(); err != nil {
		return "", err
	}
	return mustEnv("DATABASE_URL")
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
