package http

import (
	"context"
	"net/http"

	"github.com/AlibekovAA/places-api/internal/auth/service"
	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/upload"
)

type signupRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type AuthService interface {
	Signup(ctx context.Context, input service.SignupInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
}

type ImageReader interface {
	FromRequest(r *http.Request) (upload.Image, error)
}

type Handler struct {
	auth         AuthService
	images       ImageReader
	validator    *commonhttp.Validator
	errorHandler *commonhttp.ErrorHandler
	maxFormSize  int64
	log          *logger.Logger
}

func NewHandler(auth AuthService, images ImageReader, validator *commonhttp.Validator, maxFormSize int64, log *logger.Logger) *Handler {
	return &Handler{
		auth:         auth,
		images:       images,
		validator:    validator,
		errorHandler: commonhttp.NewErrorHandler(log),
		maxFormSize:  maxFormSize,
		log:          log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /users/signup", h.signup)
	mux.HandleFunc("POST /users/login", h.login)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if err := upload.ParseMultipart(r, h.maxFormSize); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	req := signupRequest{
		Name:     r.FormValue("name"),
		Email:    commonhttp.NormalizeEmail(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := h.validator.Struct(req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "signup_validation_failed",
		}).Debugf("signup validation failed: %v", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	img, err := h.images.FromRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    img,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toAuthResponse(result))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req.Email = commonhttp.NormalizeEmail(req.Email)
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toAuthResponse(result))
}

func toAuthResponse(result service.AuthResult) authResponse {
	return authResponse{
		UserID: result.UserID,
		Email:  result.Email,
		Token:  result.Token,
	}
}
