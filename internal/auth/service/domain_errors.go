package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid credentials, could not log you in.",
	)

	ErrEmailTaken = commonerrors.NewDomainError(
		"USER_EXISTS",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"User exists already, please login instead.",
	)

	ErrSignupFailed = commonerrors.NewDomainError(
		"SIGNUP_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Signing up failed, please try again later.",
	)

	ErrLoginFailed = commonerrors.NewDomainError(
		"LOGIN_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Logging in failed, please try again later.",
	)

	ErrServiceUnavailable = commonerrors.ErrServiceUnavailable
)
