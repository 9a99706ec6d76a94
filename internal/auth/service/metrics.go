package service

import (
	"github.com/AlibekovAA/places-api/internal/observability/metrics"
)

func incrementUsersSignedUp() {
	metrics.UsersSignedUp.Inc()
}

func incrementLogins(result string) {
	metrics.LoginsTotal.WithLabelValues(result).Inc()
}

func incrementTokensIssued() {
	metrics.TokensIssued.Inc()
}
