package jwtverify

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/observability/metrics"
)

const (
	ClaimUserID = "userId"
	ClaimEmail  = "email"

	bearerPrefix = "Bearer "
)

type Claims struct {
	UserID string
	Email  string
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

// Middleware rejects requests without a valid bearer token with 403.
// Preflight requests pass through untouched.
func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)
	errorHandler := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			raw := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(raw, bearerPrefix)
			tokenString = strings.TrimSpace(tokenString)
			if !ok || tokenString == "" {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_verify",
					"path":   r.URL.Path,
				}).Warn("jwt auth failed: missing or invalid authorization header")
				errorHandler.HandleError(w, r, commonerrors.ErrAuthFailed)
				return
			}

			claims, err := ParseToken(tokenString, secretBytes)
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_verify",
					"path":   r.URL.Path,
				}).Warnf("jwt auth failed: %v", err)
				errorHandler.HandleError(w, r, commonerrors.ErrAuthFailed.WithCause(err))
				return
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	val := ctx.Value(claimsKey)
	claims, ok := val.(Claims)
	return claims, ok
}

// ParseToken verifies an HS256 token and extracts the user claims. Expired
// tokens are rejected by the parser.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidTokenClaims
	}

	userID, _ := mapClaims[ClaimUserID].(string)
	email, _ := mapClaims[ClaimEmail].(string)
	if userID == "" || email == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	return Claims{
		UserID: userID,
		Email:  email,
	}, nil
}
