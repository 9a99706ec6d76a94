package api

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/places-api/internal/auth/http"
	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	placehttp "github.com/AlibekovAA/places-api/internal/place/http"
	"github.com/AlibekovAA/places-api/internal/upload"
	userhttp "github.com/AlibekovAA/places-api/internal/user/http"
)

const appName = "places-api"

type Deps struct {
	Auth        *authhttp.Handler
	Users       *userhttp.Handler
	Places      *placehttp.Handler
	RateLimiter *commonhttp.StrictRateLimiter
	// UploadDir is served read-only under /uploads/images/ when set.
	UploadDir  string
	CORSOrigin string
	Log        *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	errorHandler := commonhttp.NewErrorHandler(d.Log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", commonhttp.HealthHandler(d.Log))
	mux.Handle("GET /metrics", promhttp.Handler())

	if d.UploadDir != "" {
		prefix := "/" + upload.PublicPrefix + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, noDirListing(http.FileServer(http.Dir(d.UploadDir)), errorHandler)))
	}

	d.Auth.Register(mux)
	d.Users.Register(mux)
	d.Places.Register(mux)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleError(w, r, commonerrors.ErrNotFound)
	})

	var handler http.Handler = mux
	if d.RateLimiter != nil {
		handler = d.RateLimiter.Middleware(handler)
	}

	return commonhttp.BuildBaseHandler(appName, d.Log, d.CORSOrigin, handler)
}

func noDirListing(next http.Handler, errorHandler *commonhttp.ErrorHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			errorHandler.HandleError(w, r, commonerrors.ErrNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
