package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
)

var (
	ErrNotAllowedToCreate = commonerrors.NewDomainError(
		"PLACE_CREATE_FORBIDDEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"You are not allowed to create a place for another user.",
	)

	ErrNotAllowedToEdit = commonerrors.NewDomainError(
		"PLACE_EDIT_FORBIDDEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"You are not allowed to edit this place.",
	)

	ErrNotAllowedToDelete = commonerrors.NewDomainError(
		"PLACE_DELETE_FORBIDDEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"You are not allowed to delete this place.",
	)

	ErrLocationNotFound = commonerrors.NewDomainError(
		"LOCATION_NOT_FOUND",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"Could not find location for the specified address.",
	)

	ErrCreatePlaceFailed = commonerrors.NewDomainError(
		"PLACE_CREATE_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Creating place failed, please try again.",
	)

	ErrUpdatePlaceFailed = commonerrors.NewDomainError(
		"PLACE_UPDATE_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Something went wrong, could not update place.",
	)

	ErrDeletePlaceFailed = commonerrors.NewDomainError(
		"PLACE_DELETE_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Something went wrong, could not delete place.",
	)

	ErrFetchPlacesFailed = commonerrors.NewDomainError(
		"PLACE_FETCH_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Fetching places failed, please try again later.",
	)
)
