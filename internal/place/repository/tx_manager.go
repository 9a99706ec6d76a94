package repository

import (
	"context"

	"github.com/AlibekovAA/places-api/internal/common/db"
	userrepo "github.com/AlibekovAA/places-api/internal/user/repository"
)

// Store exposes the repositories bound to one transaction.
type Store interface {
	Places() Repository
	Users() userrepo.Repository
}

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

type PgTxManager struct {
	tx db.TxManager
}

func NewPgTxManager(tx db.TxManager) *PgTxManager {
	return &PgTxManager{tx: tx}
}

func (m *PgTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return m.tx.WithTx(ctx, func(ctx context.Context, q db.Querier) error {
		return fn(ctx, pgStore{
			places: NewPgRepository(q),
			users:  userrepo.NewPgRepository(q),
		})
	})
}

type pgStore struct {
	places *PgRepository
	users  *userrepo.PgRepository
}

func (s pgStore) Places() Repository         { return s.places }
func (s pgStore) Users() userrepo.Repository { return s.users }
