package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/place/domain"
	"github.com/AlibekovAA/places-api/internal/place/repository"
)

var placeColumns = []string{"id", "title", "description", "address", "lat", "lng", "image", "creator_id", "created_at"}

func setupPlaceRepo(t *testing.T) (*repository.PgRepository, pgxmock.PgxConnIface) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return repository.NewPgRepository(mock), mock
}

func samplePlace() domain.Place {
	return domain.Place{
		ID:          "22222222-2222-4222-8222-222222222222",
		Title:       "Empire State Building",
		Description: "One of the most famous sky scrapers",
		Address:     "20 W 34th St, New York, NY 10001",
		Location:    domain.Location{Lat: 40.7484474, Lng: -73.9871516},
		Image:       "uploads/images/a.png",
		CreatorID:   "11111111-1111-4111-8111-111111111111",
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func placeRow(p domain.Place) []interface{} {
	return []interface{}{
		string(p.ID), p.Title, p.Description, p.Address,
		p.Location.Lat, p.Location.Lng, p.Image, p.CreatorID, p.CreatedAt,
	}
}

func TestPgRepository_Create(t *testing.T) {
	repo, mock := setupPlaceRepo(t)
	p := samplePlace()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO places (id, title, description, address, lat, lng, image, creator_id, created_at)`)).
		WithArgs(string(p.ID), p.Title, p.Description, p.Address, p.Location.Lat, p.Location.Lng, p.Image, p.CreatorID, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), p))
}

func TestPgRepository_CreateFailure(t *testing.T) {
	repo, mock := setupPlaceRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO places`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), samplePlace())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create place")
}

func TestPgRepository_FindByID(t *testing.T) {
	repo, mock := setupPlaceRepo(t)
	p := samplePlace()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM places WHERE id = $1`)).
		WithArgs(string(p.ID)).
		WillReturnRows(pgxmock.NewRows(placeColumns).AddRow(placeRow(p)...))

	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPgRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := setupPlaceRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM places WHERE id = $1`)).
		WithArgs("33333333-3333-4333-8333-333333333333").
		WillReturnRows(pgxmock.NewRows(placeColumns))

	_, err := repo.FindByID(context.Background(), "33333333-3333-4333-8333-333333333333")
	assert.ErrorIs(t, err, commonerrors.ErrPlaceNotFound)
}

func TestPgRepository_FindByCreator(t *testing.T) {
	repo, mock := setupPlaceRepo(t)
	first := samplePlace()
	second := samplePlace()
	second.ID = "44444444-4444-4444-8444-444444444444"
	second.CreatedAt = first.CreatedAt.Add(time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM places WHERE creator_id = $1 ORDER BY created_at ASC`)).
		WithArgs(first.CreatorID).
		WillReturnRows(pgxmock.NewRows(placeColumns).AddRow(placeRow(first)...).AddRow(placeRow(second)...))

	got, err := repo.FindByCreator(context.Background(), first.CreatorID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Place{first, second}, got)
}

func TestPgRepository_FindByCreator_Empty(t *testing.T) {
	repo, mock := setupPlaceRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM places WHERE creator_id = $1`)).
		WithArgs("11111111-1111-4111-8111-111111111111").
		WillReturnRows(pgxmock.NewRows(placeColumns))

	got, err := repo.FindByCreator(context.Background(), "11111111-1111-4111-8111-111111111111")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPgRepository_UpdateDetails(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "updated", affected: 1},
		{name: "missing", affected: 0, wantErr: commonerrors.ErrPlaceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupPlaceRepo(t)
			id := samplePlace().ID

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE places SET title = $2, description = $3 WHERE id = $1`)).
				WithArgs(string(id), "New title", "New description").
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := repo.UpdateDetails(context.Background(), id, "New title", "New description")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPgRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "zero rows", affected: 0, wantErr: commonerrors.ErrPlaceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupPlaceRepo(t)
			id := samplePlace().ID

			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM places WHERE id = $1`)).
				WithArgs(string(id)).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := repo.Delete(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPgRepository_DeleteFailure(t *testing.T) {
	repo, mock := setupPlaceRepo(t)
	cause := errors.New("deadlock detected")

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM places WHERE id = $1`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(cause)

	err := repo.Delete(context.Background(), samplePlace().ID)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, commonerrors.ErrPlaceNotFound)
}
