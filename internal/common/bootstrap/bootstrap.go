package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/places-api/internal/api"
	authhttp "github.com/AlibekovAA/places-api/internal/auth/http"
	authservice "github.com/AlibekovAA/places-api/internal/auth/service"
	"github.com/AlibekovAA/places-api/internal/common/clock"
	"github.com/AlibekovAA/places-api/internal/common/config"
	"github.com/AlibekovAA/places-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/places-api/internal/common/crypto"
	"github.com/AlibekovAA/places-api/internal/common/db"
	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/common/resilience"
	"github.com/AlibekovAA/places-api/internal/common/server"
	"github.com/AlibekovAA/places-api/internal/migrations"
	placehttp "github.com/AlibekovAA/places-api/internal/place/http"
	placerepo "github.com/AlibekovAA/places-api/internal/place/repository"
	placeservice "github.com/AlibekovAA/places-api/internal/place/service"
	"github.com/AlibekovAA/places-api/internal/upload"
	userhttp "github.com/AlibekovAA/places-api/internal/user/http"
	userrepo "github.com/AlibekovAA/places-api/internal/user/repository"
	userservice "github.com/AlibekovAA/places-api/internal/user/service"
)

type App struct {
	Log         *logger.Logger
	Config      config.APIConfig
	Pool        *pgxpool.Pool
	Handler     http.Handler
	RateLimiter *commonhttp.StrictRateLimiter

	stopBackground context.CancelFunc
}

func NewAPIApp(ctx context.Context) (*App, error) {
	log, err := InitializeLogger("api")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool, migrations.FS, "up", log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())

	store, uploadDir, err := newImageStore(ctx, bgCtx, cfg, log)
	if err != nil {
		stopBackground()
		pool.Close()
		return nil, err
	}

	db.StartPoolMetrics(bgCtx, pool, constants.DBPoolMetricsInterval)

	realClock := clock.NewRealClock()
	idGenerator := commoncrypto.NewUUIDGenerator()
	hasher := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	validator := commonhttp.NewValidator()
	uploader := upload.NewUploader(store, idGenerator, cfg.MaxImageSize, log)

	breaker := db.NewDBCircuitBreaker(cfg.DBCircuit.Threshold, cfg.DBCircuit.Timeout, cfg.DBCircuit.Reset, log)
	txManager := placerepo.NewPgTxManager(db.NewPgTxManager(pool, breaker, db.DefaultRetryConfig, log))

	userRepo := userrepo.NewPgRepository(pool)
	placeRepo := placerepo.NewPgRepository(pool)

	tokenIssuer := authservice.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.TokenTTL, realClock)
	authService := authservice.NewAuthService(userRepo, hasher, idGenerator, tokenIssuer, uploader, realClock, log)
	userService := userservice.NewUserService(userRepo, log)
	placeService := placeservice.NewPlaceService(
		placeRepo,
		userRepo,
		txManager,
		placeservice.NewFixedGeocoder(),
		uploader,
		idGenerator,
		realClock,
		log,
	)

	maxFormSize := cfg.MaxImageSize + constants.DefaultMaxRequestSize
	rateLimiter := commonhttp.NewStrictRateLimiter()

	handler := api.NewRouter(api.Deps{
		Auth:  authhttp.NewHandler(authService, uploader, validator, maxFormSize, log),
		Users: userhttp.NewHandler(userService, log),
		Places: placehttp.NewHandler(placeService, uploader, validator, placehttp.Config{
			JWTSecret:      cfg.JWTSecret,
			RequestTimeout: cfg.RequestTimeout,
			MaxFormSize:    maxFormSize,
		}, log),
		RateLimiter: rateLimiter,
		UploadDir:   uploadDir,
		CORSOrigin:  cfg.CORSOrigin,
		Log:         log,
	})

	return &App{
		Log:            log,
		Config:         cfg,
		Pool:           pool,
		Handler:        handler,
		RateLimiter:    rateLimiter,
		stopBackground: stopBackground,
	}, nil
}

// ShutdownHooks releases what NewAPIApp acquired, pool last.
func (a *App) ShutdownHooks() []server.ShutdownHook {
	return []server.ShutdownHook{
		func(ctx context.Context) error {
			a.Log.Info("api service: stopping background workers")
			a.stopBackground()
			a.RateLimiter.Stop()
			return nil
		},
		func(ctx context.Context) error {
			a.Log.Info("api service: closing database pool")
			a.Pool.Close()
			return nil
		},
	}
}

// newImageStore returns the configured backend and, for disk, the directory
// to serve publicly.
func newImageStore(ctx, bgCtx context.Context, cfg config.APIConfig, log *logger.Logger) (upload.ImageStore, string, error) {
	switch cfg.ImageStore {
	case config.ImageStoreS3:
		store, err := upload.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  constants.ImageStoreCircuitThreshold,
			Timeout:    constants.ImageStoreCircuitTimeout,
			ResetAfter: constants.ImageStoreCircuitReset,
			Name:       "image_store",
			Logger:     log,
		})
		return upload.NewGuardedStore(store, breaker), "", nil
	default:
		store, err := upload.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return nil, "", err
		}
		go upload.StartCleanup(bgCtx, store, constants.UploadCleanupInterval, constants.UploadTempMaxAge, log)
		return store, store.Dir(), nil
	}
}

func InitializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
