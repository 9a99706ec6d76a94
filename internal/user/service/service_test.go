package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/place/repository/repotest"
	userdomain "github.com/AlibekovAA/places-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/places-api/internal/user/repository"
	"github.com/AlibekovAA/places-api/internal/user/service"
)

type failingRepo struct {
	userrepo.Repository
	err error
}

func (r failingRepo) List(context.Context) ([]userdomain.User, error) {
	return nil, r.err
}

func newLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "critical")
	require.NoError(t, err)
	return log
}

func TestUserService_List(t *testing.T) {
	db := repotest.NewDB()
	db.AddUser(userdomain.User{ID: "u1", Name: "Max", Email: "max@example.com", PasswordHash: "secret-hash", Image: "uploads/images/a.png", PlaceIDs: []string{"p1"}})
	db.AddUser(userdomain.User{ID: "u2", Name: "Manu", Email: "manu@example.com", PasswordHash: "secret-hash"})

	svc := service.NewUserService(db.Users(), newLogger(t))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, []string{"p1"}, users[0].PlaceIDs)
	assert.Equal(t, "uploads/images/a.png", users[0].Image)
	assert.NotNil(t, users[1].PlaceIDs)
	assert.Empty(t, users[1].PlaceIDs)
}

func TestUserService_List_Empty(t *testing.T) {
	svc := service.NewUserService(repotest.NewDB().Users(), newLogger(t))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserService_List_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "storage failure", err: errors.New("connection refused"), want: service.ErrFetchUsersFailed},
		{name: "circuit open", err: commonerrors.ErrCircuitOpen, want: commonerrors.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewUserService(failingRepo{err: tt.err}, newLogger(t))
			_, err := svc.List(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
