package commonerrors

import "net/http"

var (
	ErrValidation = NewDomainError(
		"INVALID_INPUTS",
		CategoryValidation,
		http.StatusUnprocessableEntity,
		"Invalid inputs passed, please check your data.",
	)

	ErrInvalidJSON = NewDomainError(
		"INVALID_JSON",
		CategoryValidation,
		http.StatusUnprocessableEntity,
		"Invalid inputs passed, please check your data.",
	)

	ErrInvalidMimeType = NewDomainError(
		"INVALID_MIME_TYPE",
		CategoryValidation,
		http.StatusUnprocessableEntity,
		"Invalid mime type!",
	)

	ErrImageRequired = NewDomainError(
		"IMAGE_REQUIRED",
		CategoryValidation,
		http.StatusUnprocessableEntity,
		"An image is required.",
	)

	ErrFileSizeExceeded = NewDomainError(
		"FILE_SIZE_EXCEEDED",
		CategoryValidation,
		http.StatusUnprocessableEntity,
		"File size exceeds maximum.",
	)

	ErrAuthFailed = NewDomainError(
		"AUTHENTICATION_FAILED",
		CategoryAuth,
		http.StatusForbidden,
		"Authentication failed!",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryAuth,
		http.StatusForbidden,
		"token is not valid",
	)

	ErrInvalidTokenSigningMethod = NewDomainError(
		"INVALID_TOKEN_SIGNING_METHOD",
		CategoryAuth,
		http.StatusForbidden,
		"invalid token signing method",
	)

	ErrInvalidTokenClaims = NewDomainError(
		"INVALID_TOKEN_CLAIMS",
		CategoryAuth,
		http.StatusForbidden,
		"invalid token claims",
	)

	ErrMissingTokenClaims = NewDomainError(
		"MISSING_TOKEN_CLAIMS",
		CategoryAuth,
		http.StatusForbidden,
		"missing required token claims",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"Could not find user for provided id.",
	)

	ErrPlaceNotFound = NewDomainError(
		"PLACE_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"Could not find place for this id.",
	)

	ErrUserPlacesNotFound = NewDomainError(
		"USER_PLACES_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"Could not find places for the provided user id.",
	)

	ErrCircuitOpen = NewDomainError(
		"CIRCUIT_OPEN",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"circuit breaker is open",
	)

	ErrServiceUnavailable = NewDomainError(
		"SERVICE_UNAVAILABLE",
		CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)

	ErrNotFound = NewDomainError(
		"NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"Could not find this route.",
	)
)
