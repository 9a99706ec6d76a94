package constants

import "time"

const (
	PasswordMinLength    = 6
	DescriptionMinLength = 5
	JWTSecretMinLength   = 32

	DefaultMaxRequestSize = 1 << 20
	DefaultMaxImageSize   = 500000

	DefaultPlaceLatitude  = 40.7484474
	DefaultPlaceLongitude = -73.9871516

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBQueryTimeout        = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAPIHTTPPort = "5000"

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 15 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	ImageStoreCircuitThreshold = 5
	ImageStoreCircuitTimeout   = 10 * time.Second
	ImageStoreCircuitReset     = 30 * time.Second

	UploadCleanupInterval = 1 * time.Hour
	UploadTempMaxAge      = 1 * time.Hour

	DefaultRequestTimeout = 5 * time.Second
	DefaultTokenTTL       = 1 * time.Hour
	DefaultBcryptCost     = 12

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond   = 1.0
	RateLimitLoginBurst               = 5
	RateLimitSignupRequestsPerSecond  = 0.5
	RateLimitSignupBurst              = 3
	RateLimitGeneralRequestsPerSecond = 20.0
	RateLimitGeneralBurst             = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
