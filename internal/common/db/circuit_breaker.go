package db

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/observability/metrics"
)

const breakerName = "database"

type DBCircuitBreaker struct {
	failures    atomic.Int32
	lastFailure atomic.Value
	threshold   int32
	timeout     time.Duration
	resetAfter  time.Duration
	log         *logger.Logger
}

func NewDBCircuitBreaker(threshold int32, timeout, resetAfter time.Duration, log *logger.Logger) *DBCircuitBreaker {
	cb := &DBCircuitBreaker{
		threshold:  threshold,
		timeout:    timeout,
		resetAfter: resetAfter,
		log:        log,
	}
	cb.lastFailure.Store(time.Time{})
	return cb
}

func (cb *DBCircuitBreaker) isOpen() bool {
	if cb.failures.Load() < cb.threshold {
		metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
		return false
	}

	lastFailure := cb.lastFailure.Load().(time.Time)
	if lastFailure.IsZero() {
		metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
		return false
	}

	if time.Since(lastFailure) > cb.resetAfter {
		cb.reset()
		metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
		return false
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(1)
	return true
}

func (cb *DBCircuitBreaker) recordFailure(err error) {
	cb.failures.Add(1)
	cb.lastFailure.Store(time.Now())
	metrics.CircuitBreakerFailures.WithLabelValues(breakerName).Inc()
	cb.log.Warnf("database circuit breaker: failure recorded: %v", err)
}

func (cb *DBCircuitBreaker) reset() {
	cb.failures.Store(0)
	cb.lastFailure.Store(time.Time{})
}

// Call runs fn unless the breaker is open. Client-facing domain errors
// (not found, forbidden, validation) leave the failure count untouched.
func (cb *DBCircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.isOpen() {
		cb.log.Warn("database circuit breaker: circuit is open, rejecting request")
		return commonerrors.ErrCircuitOpen
	}

	callCtx, cancel := context.WithTimeout(ctx, cb.timeout)
	defer cancel()

	err := fn(callCtx)
	if err != nil {
		if countsAsFailure(err) {
			cb.recordFailure(err)
		}
		return err
	}

	cb.reset()
	return nil
}

func countsAsFailure(err error) bool {
	if de, ok := commonerrors.AsDomainError(err); ok {
		return de.HTTPStatus() >= http.StatusInternalServerError
	}
	return true
}
