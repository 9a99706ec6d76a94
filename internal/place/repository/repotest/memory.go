// Package repotest provides in-memory repositories with transactional
// rollback for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"sync"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	placedomain "github.com/AlibekovAA/places-api/internal/place/domain"
	placerepo "github.com/AlibekovAA/places-api/internal/place/repository"
	userdomain "github.com/AlibekovAA/places-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/places-api/internal/user/repository"
)

type DB struct {
	mu     sync.Mutex
	places map[placedomain.ID]placedomain.Place
	users  map[userdomain.ID]userdomain.User

	// PlacesErr fails every place repository call when set.
	PlacesErr error
	// UpdatePlaceIDsErr fails UpdatePlaceIDs when set.
	UpdatePlaceIDsErr error
}

func NewDB() *DB {
	return &DB{
		places: make(map[placedomain.ID]placedomain.Place),
		users:  make(map[userdomain.ID]userdomain.User),
	}
}

func (db *DB) AddUser(u userdomain.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u.PlaceIDs == nil {
		u.PlaceIDs = []string{}
	}
	db.users[u.ID] = u
}

func (db *DB) User(id string) (userdomain.User, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[userdomain.ID(id)]
	return u, ok
}

func (db *DB) Place(id string) (placedomain.Place, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.places[placedomain.ID(id)]
	return p, ok
}

func (db *DB) PlaceCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.places)
}

func (db *DB) Places() placerepo.Repository { return placeRepo{db: db} }
func (db *DB) Users() userrepo.Repository   { return userRepo{db: db} }

func (db *DB) snapshot() (map[placedomain.ID]placedomain.Place, map[userdomain.ID]userdomain.User) {
	places := make(map[placedomain.ID]placedomain.Place, len(db.places))
	for k, v := range db.places {
		places[k] = v
	}
	users := make(map[userdomain.ID]userdomain.User, len(db.users))
	for k, v := range db.users {
		v.PlaceIDs = append([]string{}, v.PlaceIDs...)
		users[k] = v
	}
	return places, users
}

// TxManager restores the state captured before fn when fn fails.
type TxManager struct {
	db    *DB
	mu    sync.Mutex
	calls int
}

func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context, store placerepo.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	m.db.mu.Lock()
	places, users := m.db.snapshot()
	m.db.mu.Unlock()

	if err := fn(ctx, m.db); err != nil {
		m.db.mu.Lock()
		m.db.places, m.db.users = places, users
		m.db.mu.Unlock()
		return err
	}
	return nil
}

type placeRepo struct{ db *DB }

func (r placeRepo) Create(_ context.Context, p placedomain.Place) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.PlacesErr != nil {
		return r.db.PlacesErr
	}
	r.db.places[p.ID] = p
	return nil
}

func (r placeRepo) FindByID(_ context.Context, id placedomain.ID) (placedomain.Place, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.PlacesErr != nil {
		return placedomain.Place{}, r.db.PlacesErr
	}
	p, ok := r.db.places[id]
	if !ok {
		return placedomain.Place{}, commonerrors.ErrPlaceNotFound
	}
	return p, nil
}

func (r placeRepo) FindByCreator(_ context.Context, creatorID string) ([]placedomain.Place, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.PlacesErr != nil {
		return nil, r.db.PlacesErr
	}
	var out []placedomain.Place
	for _, p := range r.db.places {
		if p.CreatorID == creatorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r placeRepo) UpdateDetails(_ context.Context, id placedomain.ID, title, description string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.PlacesErr != nil {
		return r.db.PlacesErr
	}
	p, ok := r.db.places[id]
	if !ok {
		return commonerrors.ErrPlaceNotFound
	}
	p.Title = title
	p.Description = description
	r.db.places[id] = p
	return nil
}

func (r placeRepo) Delete(_ context.Context, id placedomain.ID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.PlacesErr != nil {
		return r.db.PlacesErr
	}
	if _, ok := r.db.places[id]; !ok {
		return commonerrors.ErrPlaceNotFound
	}
	delete(r.db.places, id)
	return nil
}

type userRepo struct{ db *DB }

func (r userRepo) Create(_ context.Context, u userdomain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return userrepo.ErrEmailAlreadyExists
		}
	}
	if u.PlaceIDs == nil {
		u.PlaceIDs = []string{}
	}
	r.db.users[u.ID] = u
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (userdomain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

func (r userRepo) FindByID(_ context.Context, id userdomain.ID) (userdomain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return userdomain.User{}, commonerrors.ErrUserNotFound
	}
	return u, nil
}

func (r userRepo) FindByIDForUpdate(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	return r.FindByID(ctx, id)
}

func (r userRepo) List(_ context.Context) ([]userdomain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]userdomain.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r userRepo) UpdatePlaceIDs(_ context.Context, id userdomain.ID, placeIDs []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.UpdatePlaceIDsErr != nil {
		return r.db.UpdatePlaceIDsErr
	}
	u, ok := r.db.users[id]
	if !ok {
		return commonerrors.ErrUserNotFound
	}
	u.PlaceIDs = placeIDs
	r.db.users[id] = u
	return nil
}
