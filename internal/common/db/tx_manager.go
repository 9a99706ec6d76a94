package db

import (
	"context"
	"fmt"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/places-api/internal/common/logger"
)

type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxManager runs fn inside a single transaction. fn must not retain q after
// it returns.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error
}

type PgTxManager struct {
	db      TxBeginner
	breaker *DBCircuitBreaker
	retry   RetryConfig
	log     *logger.Logger
}

func NewPgTxManager(db TxBeginner, breaker *DBCircuitBreaker, retry RetryConfig, log *logger.Logger) *PgTxManager {
	return &PgTxManager{
		db:      db,
		breaker: breaker,
		retry:   retry,
		log:     log,
	}
}

func (m *PgTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	run := func(callCtx context.Context) error {
		return RetryWithBackoff(callCtx, m.log, m.retry, func() error {
			return m.runOnce(callCtx, fn)
		})
	}

	if m.breaker == nil {
		return run(ctx)
	}
	return m.breaker.Call(ctx, run)
}

func (m *PgTxManager) runOnce(ctx context.Context, fn func(ctx context.Context, q Querier) error) (err error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && rbErr != pgx.ErrTxClosed {
				m.log.WithFields(ctx, logger.Fields{
					"action": "tx_rollback",
				}).Errorf("failed to rollback transaction: %v", rbErr)
			}
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
