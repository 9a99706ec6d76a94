package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/jwtverify"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	placedomain "github.com/AlibekovAA/places-api/internal/place/domain"
	"github.com/AlibekovAA/places-api/internal/place/service"
	placedto "github.com/AlibekovAA/places-api/internal/place/service/dto"
	"github.com/AlibekovAA/places-api/internal/upload"
)

type createPlaceRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"required,min=5"`
	Address     string `json:"address" validate:"notblank"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"required,min=5"`
}

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type placeResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Address     string           `json:"address"`
	Location    locationResponse `json:"location"`
	Creator     string           `json:"creator"`
}

type placeEnvelope struct {
	Place placeResponse `json:"place"`
}

type placesEnvelope struct {
	Places []placeResponse `json:"places"`
}

type PlaceService interface {
	GetByID(ctx context.Context, placeID string) (placedto.Place, error)
	ListByUser(ctx context.Context, userID string) ([]placedto.Place, error)
	Create(ctx context.Context, input service.CreateInput) (placedto.Place, error)
	Update(ctx context.Context, input service.UpdateInput) (placedto.Place, error)
	Delete(ctx context.Context, placeID, callerID string) error
}

type ImageReader interface {
	FromRequest(r *http.Request) (upload.Image, error)
}

type Config struct {
	JWTSecret      string
	RequestTimeout time.Duration
	MaxFormSize    int64
}

type Handler struct {
	places       PlaceService
	images       ImageReader
	validator    *commonhttp.Validator
	errorHandler *commonhttp.ErrorHandler
	cfg          Config
	log          *logger.Logger
}

func NewHandler(places PlaceService, images ImageReader, validator *commonhttp.Validator, cfg Config, log *logger.Logger) *Handler {
	return &Handler{
		places:       places,
		images:       images,
		validator:    validator,
		errorHandler: commonhttp.NewErrorHandler(log),
		cfg:          cfg,
		log:          log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	timeout := commonhttp.WithTimeout(h.cfg.RequestTimeout)
	auth := jwtverify.Middleware(h.cfg.JWTSecret, h.log)

	mux.Handle("GET /places/{placeId}", timeout(http.HandlerFunc(h.getByID)))
	mux.Handle("GET /places/user/{userId}", timeout(http.HandlerFunc(h.listByUser)))
	mux.Handle("POST /places", auth(timeout(http.HandlerFunc(h.create))))
	mux.Handle("PATCH /places/{placeId}", auth(timeout(http.HandlerFunc(h.update))))
	mux.Handle("DELETE /places/{placeId}", auth(timeout(http.HandlerFunc(h.delete))))
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	place, err := h.places.GetByID(r.Context(), r.PathValue("placeId"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, placeEnvelope{Place: toPlaceResponse(place)})
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := placesEnvelope{Places: make([]placeResponse, len(places))}
	for i, p := range places {
		resp.Places[i] = toPlaceResponse(p)
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrAuthFailed)
		return
	}

	if err := upload.ParseMultipart(r, h.cfg.MaxFormSize); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := createPlaceRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	location, err := parseCoordinates(r.FormValue("lat"), r.FormValue("lng"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	img, err := h.images.FromRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	place, err := h.places.Create(r.Context(), service.CreateInput{
		Title:            req.Title,
		Description:      req.Description,
		Address:          req.Address,
		Location:         location,
		Image:            img,
		CallerID:         claims.UserID,
		RequestedCreator: strings.TrimSpace(r.FormValue("creator")),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, placeEnvelope{Place: toPlaceResponse(place)})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrAuthFailed)
		return
	}

	var req updatePlaceRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	place, err := h.places.Update(r.Context(), service.UpdateInput{
		PlaceID:     r.PathValue("placeId"),
		CallerID:    claims.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, placeEnvelope{Place: toPlaceResponse(place)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		h.errorHandler.HandleError(w, r, commonerrors.ErrAuthFailed)
		return
	}

	if err := h.places.Delete(r.Context(), r.PathValue("placeId"), claims.UserID); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, commonhttp.MessageResponse{Message: "Deleted place."})
}

// parseCoordinates returns nil when neither value is set. Supplying only one
// of them, or values out of range (NaN and infinities included), is a
// validation error.
func parseCoordinates(rawLat, rawLng string) (*placedomain.Location, error) {
	rawLat, rawLng = strings.TrimSpace(rawLat), strings.TrimSpace(rawLng)
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)

	details := map[string]any{}
	if latErr != nil || !(lat >= -90 && lat <= 90) {
		details["lat"] = "must be a number between -90 and 90"
	}
	if lngErr != nil || !(lng >= -180 && lng <= 180) {
		details["lng"] = "must be a number between -180 and 180"
	}
	if len(details) > 0 {
		return nil, commonerrors.ErrValidation.WithDetails(details)
	}

	return &placedomain.Location{Lat: lat, Lng: lng}, nil
}

func toPlaceResponse(p placedto.Place) placeResponse {
	return placeResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Address:     p.Address,
		Location: locationResponse{
			Lat: p.Location.Lat,
			Lng: p.Location.Lng,
		},
		Creator: p.CreatorID,
	}
}
