package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlibekovAA/places-api/internal/common/db"
	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/user/domain"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByIDForUpdate(ctx context.Context, id domain.ID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdatePlaceIDs(ctx context.Context, id domain.ID, placeIDs []string) error
}

type PgRepository struct {
	db db.Querier
}

// NewPgRepository accepts the pool or a transaction.
func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

const userColumns = `id::text, name, email, password_hash, image, place_ids::text[], created_at`

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	placeIDs := user.PlaceIDs
	if placeIDs == nil {
		placeIDs = []string{}
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, image, place_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6::uuid[], $7)`,
		string(user.ID),
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Image,
		placeIDs,
		user.CreatedAt,
	)
	if err != nil && db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create user", start)
		return ErrEmailAlreadyExists
	}
	return db.HandleExecError(err, "create user", start)
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by email", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *PgRepository) FindByIDForUpdate(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, string(id))

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "lock user by id", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, db.HandleExecError(err, "list users", start)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list users", start)
	}

	db.MeasureQueryDuration("list users", start)
	return users, nil
}

func (r *PgRepository) UpdatePlaceIDs(ctx context.Context, id domain.ID, placeIDs []string) error {
	start := time.Now()
	if placeIDs == nil {
		placeIDs = []string{}
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET place_ids = $2::uuid[] WHERE id = $1`,
		string(id),
		placeIDs,
	)
	if err != nil {
		return db.HandleExecError(err, "update user places", start)
	}
	db.MeasureQueryDuration("update user places", start)

	if tag.RowsAffected() == 0 {
		return commonerrors.ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user     domain.User
		id       string
		placeIDs []string
	)
	if err := row.Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &user.Image, &placeIDs, &user.CreatedAt); err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	user.PlaceIDs = placeIDs
	if user.PlaceIDs == nil {
		user.PlaceIDs = []string{}
	}
	return user, nil
}
