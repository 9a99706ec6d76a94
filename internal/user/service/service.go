package service

import (
	"context"
	"errors"
	"net/http"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	userrepo "github.com/AlibekovAA/places-api/internal/user/repository"
	userdto "github.com/AlibekovAA/places-api/internal/user/service/dto"
	"github.com/AlibekovAA/places-api/internal/user/service/mapper"
)

var ErrFetchUsersFailed = commonerrors.NewDomainError(
	"FETCH_USERS_FAILED",
	commonerrors.CategoryInternal,
	http.StatusInternalServerError,
	"Fetching users failed, please try again later.",
)

type UserService struct {
	repo userrepo.Repository
	log  *logger.Logger
}

func NewUserService(repo userrepo.Repository, log *logger.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

func (s *UserService) List(ctx context.Context) ([]userdto.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_users_failed",
		}).Errorf("list users failed: %v", err)
		if errors.Is(err, commonerrors.ErrCircuitOpen) {
			return nil, commonerrors.ErrServiceUnavailable.WithCause(err)
		}
		return nil, ErrFetchUsersFailed.WithCause(err)
	}
	return mapper.UsersToDTO(users), nil
}
