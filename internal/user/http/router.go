package http

import (
	"context"
	"net/http"

	commonhttp "github.com/AlibekovAA/places-api/internal/common/http"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	userdto "github.com/AlibekovAA/places-api/internal/user/service/dto"
)

type UserLister interface {
	List(ctx context.Context) ([]userdto.User, error)
}

type userResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

type usersResponse struct {
	Users []userResponse `json:"users"`
}

type Handler struct {
	users        UserLister
	errorHandler *commonhttp.ErrorHandler
}

func NewHandler(users UserLister, log *logger.Logger) *Handler {
	return &Handler{
		users:        users,
		errorHandler: commonhttp.NewErrorHandler(log),
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := usersResponse{Users: make([]userResponse, len(users))}
	for i, u := range users {
		resp.Users[i] = userResponse{
			ID:     u.ID,
			Name:   u.Name,
			Email:  u.Email,
			Image:  u.Image,
			Places: u.PlaceIDs,
		}
	}

	commonhttp.WriteJSON(w, http.StatusOK, resp)
}
