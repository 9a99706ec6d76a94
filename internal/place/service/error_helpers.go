package service

import (
	"errors"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
)

func handleCircuitBreakerError(err error) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return commonerrors.ErrServiceUnavailable.WithCause(err)
	}
	return err
}

// internalError passes domain errors through and hides anything else behind
// public, so driver messages never reach the client.
func internalError(public commonerrors.DomainError, err error) error {
	err = handleCircuitBreakerError(err)
	if commonerrors.IsDomainError(err) {
		return err
	}
	return public.WithCause(err)
}
