package service

import (
	"context"
	"errors"

	"github.com/AlibekovAA/places-api/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/places-api/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/observability/metrics"
	placedomain "github.com/AlibekovAA/places-api/internal/place/domain"
	placerepo "github.com/AlibekovAA/places-api/internal/place/repository"
	placedto "github.com/AlibekovAA/places-api/internal/place/service/dto"
	"github.com/AlibekovAA/places-api/internal/place/service/mapper"
	"github.com/AlibekovAA/places-api/internal/upload"
	userdomain "github.com/AlibekovAA/places-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/places-api/internal/user/repository"
)

type Images interface {
	Save(ctx context.Context, img upload.Image) (string, error)
	Discard(ctx context.Context, ref string)
}

type PlaceService struct {
	places      placerepo.Repository
	users       userrepo.Repository
	tx          placerepo.TxManager
	geocoder    Geocoder
	images      Images
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewPlaceService(
	places placerepo.Repository,
	users userrepo.Repository,
	tx placerepo.TxManager,
	geocoder Geocoder,
	images Images,
	idGenerator commoncrypto.IDGenerator,
	clock clock.Clock,
	log *logger.Logger,
) *PlaceService {
	return &PlaceService{
		places:      places,
		users:       users,
		tx:          tx,
		geocoder:    geocoder,
		images:      images,
		idGenerator: idGenerator,
		clock:       clock,
		log:         log,
	}
}

// CreateInput carries validated fields. CallerID comes from the token;
// RequestedCreator is the optional creator form value.
type CreateInput struct {
	Title            string
	Description      string
	Address          string
	Location         *placedomain.Location
	Image            upload.Image
	CallerID         string
	RequestedCreator string
}

type UpdateInput struct {
	PlaceID     string
	CallerID    string
	Title       string
	Description string
}

func (s *PlaceService) GetByID(ctx context.Context, placeID string) (placedto.Place, error) {
	if commonhttp.ValidateUUID(placeID) != nil {
		return placedto.Place{}, commonerrors.ErrPlaceNotFound
	}

	place, err := s.places.FindByID(ctx, placedomain.ID(placeID))
	if err != nil {
		if !errors.Is(err, commonerrors.ErrPlaceNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"place_id": placeID,
				"action":   "get_place_failed",
			}).Errorf("get place failed: %v", err)
		}
		return placedto.Place{}, internalError(ErrFetchPlacesFailed, err)
	}

	return mapper.PlaceToDTO(place), nil
}

// ListByUser reports not found when the user owns no places.
func (s *PlaceService) ListByUser(ctx context.Context, userID string) ([]placedto.Place, error) {
	if commonhttp.ValidateUUID(userID) != nil {
		return nil, commonerrors.ErrUserPlacesNotFound
	}

	places, err := s.places.FindByCreator(ctx, userID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "list_places_failed",
		}).Errorf("list places failed: %v", err)
		return nil, internalError(ErrFetchPlacesFailed, err)
	}

	if len(places) == 0 {
		return nil, commonerrors.ErrUserPlacesNotFound
	}

	return mapper.PlacesToDTO(places), nil
}

func (s *PlaceService) Create(ctx context.Context, input CreateInput) (placedto.Place, error) {
	if input.RequestedCreator != "" && input.RequestedCreator != input.CallerID {
		metrics.OwnershipDenied.WithLabelValues("create").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": input.CallerID,
			"creator": input.RequestedCreator,
			"action":  "create_place_forbidden",
		}).Warn("create place rejected: creator differs from caller")
		return placedto.Place{}, ErrNotAllowedToCreate
	}

	creator, err := s.users.FindByID(ctx, userdomain.ID(input.CallerID))
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			return placedto.Place{}, commonerrors.ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": input.CallerID,
			"action":  "create_place_user_lookup_failed",
		}).Errorf("create place failed: user lookup error: %v", err)
		return placedto.Place{}, internalError(ErrCreatePlaceFailed, err)
	}

	location, err := s.resolveLocation(ctx, input)
	if err != nil {
		return placedto.Place{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return placedto.Place{}, ErrCreatePlaceFailed.WithCause(err)
	}

	imageRef, err := s.images.Save(ctx, input.Image)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": input.CallerID,
			"action":  "create_place_image_failed",
		}).Errorf("create place failed: image store error: %v", err)
		return placedto.Place{}, ErrCreatePlaceFailed.WithCause(err)
	}

	place := placedomain.Place{
		ID:          placedomain.ID(id),
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Location:    location,
		Image:       imageRef,
		CreatorID:   string(creator.ID),
		CreatedAt:   s.clock.Now(),
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, store placerepo.Store) error {
		if err := store.Places().Create(ctx, place); err != nil {
			return err
		}
		owner, err := store.Users().FindByIDForUpdate(ctx, creator.ID)
		if err != nil {
			return err
		}
		return store.Users().UpdatePlaceIDs(ctx, owner.ID, owner.WithPlace(string(place.ID)))
	})
	if err != nil {
		s.images.Discard(ctx, imageRef)
		s.log.WithFields(ctx, logger.Fields{
			"user_id":  input.CallerID,
			"place_id": string(place.ID),
			"action":   "create_place_tx_failed",
		}).Errorf("create place failed: %v", err)
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			return placedto.Place{}, commonerrors.ErrUserNotFound
		}
		return placedto.Place{}, serviceError(ErrCreatePlaceFailed, err)
	}

	metrics.PlacesCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  input.CallerID,
		"place_id": string(place.ID),
		"action":   "create_place_success",
	}).Info("place created")

	return mapper.PlaceToDTO(place), nil
}

func (s *PlaceService) Update(ctx context.Context, input UpdateInput) (placedto.Place, error) {
	if commonhttp.ValidateUUID(input.PlaceID) != nil {
		return placedto.Place{}, commonerrors.ErrPlaceNotFound
	}

	place, err := s.places.FindByID(ctx, placedomain.ID(input.PlaceID))
	if err != nil {
		if !errors.Is(err, commonerrors.ErrPlaceNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"place_id": input.PlaceID,
				"action":   "update_place_lookup_failed",
			}).Errorf("update place failed: lookup error: %v", err)
		}
		return placedto.Place{}, internalError(ErrUpdatePlaceFailed, err)
	}

	if !place.OwnedBy(input.CallerID) {
		metrics.OwnershipDenied.WithLabelValues("update").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id":  input.CallerID,
			"place_id": input.PlaceID,
			"action":   "update_place_forbidden",
		}).Warn("update place rejected: caller is not the creator")
		return placedto.Place{}, ErrNotAllowedToEdit
	}

	if err := s.places.UpdateDetails(ctx, place.ID, input.Title, input.Description); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"place_id": input.PlaceID,
			"action":   "update_place_failed",
		}).Errorf("update place failed: %v", err)
		return placedto.Place{}, internalError(ErrUpdatePlaceFailed, err)
	}

	place.Title = input.Title
	place.Description = input.Description

	metrics.PlacesUpdated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  input.CallerID,
		"place_id": input.PlaceID,
		"action":   "update_place_success",
	}).Info("place updated")

	return mapper.PlaceToDTO(place), nil
}

func (s *PlaceService) Delete(ctx context.Context, placeID, callerID string) error {
	if commonhttp.ValidateUUID(placeID) != nil {
		return commonerrors.ErrPlaceNotFound
	}

	place, err := s.places.FindByID(ctx, placedomain.ID(placeID))
	if err != nil {
		if !errors.Is(err, commonerrors.ErrPlaceNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"place_id": placeID,
				"action":   "delete_place_lookup_failed",
			}).Errorf("delete place failed: lookup error: %v", err)
		}
		return internalError(ErrDeletePlaceFailed, err)
	}

	if !place.OwnedBy(callerID) {
		metrics.OwnershipDenied.WithLabelValues("delete").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id":  callerID,
			"place_id": placeID,
			"action":   "delete_place_forbidden",
		}).Warn("delete place rejected: caller is not the creator")
		return ErrNotAllowedToDelete
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, store placerepo.Store) error {
		if err := store.Places().Delete(ctx, place.ID); err != nil {
			return err
		}
		owner, err := store.Users().FindByIDForUpdate(ctx, userdomain.ID(place.CreatorID))
		if err != nil {
			return err
		}
		return store.Users().UpdatePlaceIDs(ctx, owner.ID, owner.WithoutPlace(string(place.ID)))
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id":  callerID,
			"place_id": placeID,
			"action":   "delete_place_tx_failed",
		}).Errorf("delete place failed: %v", err)
		return serviceError(ErrDeletePlaceFailed, err)
	}

	s.images.Discard(ctx, place.Image)

	metrics.PlacesDeleted.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  callerID,
		"place_id": placeID,
		"action":   "delete_place_success",
	}).Info("place deleted")

	return nil
}

func (s *PlaceService) resolveLocation(ctx context.Context, input CreateInput) (placedomain.Location, error) {
	if input.Location != nil {
		return *input.Location, nil
	}

	location, err := s.geocoder.Coordinates(ctx, input.Address)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"address": input.Address,
			"action":  "geocode_failed",
		}).Warnf("geocoding failed: %v", err)
		return placedomain.Location{}, ErrLocationNotFound.WithCause(err)
	}
	return location, nil
}

// serviceError maps failures from inside a transaction. Client errors such as
// not found keep their meaning; everything else becomes public.
func serviceError(public commonerrors.DomainError, err error) error {
	err = handleCircuitBreakerError(err)
	if de, ok := commonerrors.AsDomainError(err); ok && de.HTTPStatus() < 500 {
		return de
	}
	if errors.Is(err, commonerrors.ErrServiceUnavailable) {
		return err
	}
	return public.WithCause(err)
}
