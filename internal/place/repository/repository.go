package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AlibekovAA/places-api/internal/common/db"
	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/place/domain"
)

type Repository interface {
	Create(ctx context.Context, place domain.Place) error
	FindByID(ctx context.Context, id domain.ID) (domain.Place, error)
	FindByCreator(ctx context.Context, creatorID string) ([]domain.Place, error)
	UpdateDetails(ctx context.Context, id domain.ID, title, description string) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

const placeColumns = `id::text, title, description, address, lat, lng, image, creator_id::text, created_at`

func (r *PgRepository) Create(ctx context.Context, place domain.Place) error {
	start := time.Now()
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO places (id, title, description, address, lat, lng, image, creator_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(place.ID),
		place.Title,
		place.Description,
		place.Address,
		place.Location.Lat,
		place.Location.Lng,
		place.Image,
		place.CreatorID,
		place.CreatedAt,
	)
	return db.HandleExecError(err, "create place", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Place, error) {
	start := time.Now()
	row := r.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, string(id))

	place, err := scanPlace(row)
	if err := db.HandleQueryError(err, commonerrors.ErrPlaceNotFound, "find place by id", start); err != nil {
		return domain.Place{}, err
	}
	return place, nil
}

func (r *PgRepository) FindByCreator(ctx context.Context, creatorID string) ([]domain.Place, error) {
	start := time.Now()
	rows, err := r.db.Query(
		ctx,
		`SELECT `+placeColumns+` FROM places WHERE creator_id = $1 ORDER BY created_at ASC`,
		creatorID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "find places by creator", start)
	}
	defer rows.Close()

	places := make([]domain.Place, 0)
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, place)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "find places by creator", start)
	}

	db.MeasureQueryDuration("find places by creator", start)
	return places, nil
}

func (r *PgRepository) UpdateDetails(ctx context.Context, id domain.ID, title, description string) error {
	start := time.Now()
	tag, err := r.db.Exec(
		ctx,
		`UPDATE places SET title = $2, description = $3 WHERE id = $1`,
		string(id),
		title,
		description,
	)
	if err != nil {
		return db.HandleExecError(err, "update place", start)
	}
	db.MeasureQueryDuration("update place", start)

	if tag.RowsAffected() == 0 {
		return commonerrors.ErrPlaceNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM places WHERE id = $1`, string(id))
	if err != nil {
		return db.HandleExecError(err, "delete place", start)
	}
	db.MeasureQueryDuration("delete place", start)

	if tag.RowsAffected() == 0 {
		return commonerrors.ErrPlaceNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlace(row rowScanner) (domain.Place, error) {
	var (
		place domain.Place
		id    string
	)
	err := row.Scan(
		&id,
		&place.Title,
		&place.Description,
		&place.Address,
		&place.Location.Lat,
		&place.Location.Lng,
		&place.Image,
		&place.CreatorID,
		&place.CreatedAt,
	)
	if err != nil {
		return domain.Place{}, err
	}
	place.ID = domain.ID(id)
	return place, nil
}
