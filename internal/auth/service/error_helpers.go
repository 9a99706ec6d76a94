package service

import (
	"errors"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
)

func handleCircuitBreakerError(err error) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return err
}

// internalError keeps domain errors as they are and hides everything else
// behind public.
func internalError(public commonerrors.DomainError, err error) error {
	err = handleCircuitBreakerError(err)
	if commonerrors.IsDomainError(err) {
		return err
	}
	return public.WithCause(err)
}
