package http

import (
	"net/http"

	"github.com/AlibekovAA/places-api/internal/common/constants"
	"github.com/AlibekovAA/places-api/internal/common/httpmetrics"
	"github.com/AlibekovAA/places-api/internal/common/logger"
)

func BuildBaseHandler(appName string, log *logger.Logger, corsOrigin string, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	cors := CORSMiddleware(corsOrigin)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(cors(recovery(traceID(maxRequestSize(metrics.Wrap(handler)))))))
}
