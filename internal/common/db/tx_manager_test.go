package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/common/logger"
)

type fakeTx struct {
	pgx.Tx
	owner *fakeBeginner
}

func (t *fakeTx) Commit(context.Context) error {
	t.owner.commits++
	return t.owner.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.owner.rollbacks++
	return nil
}

type fakeBeginner struct {
	begins    int
	commits   int
	rollbacks int
	beginErr  error
	commitErr error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	b.begins++
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return &fakeTx{owner: b}, nil
}

var fastRetry = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     2 * time.Millisecond,
	Multiplier:   2,
}

func testLogger() *logger.Logger {
	log, _ := logger.New("", "test", "critical")
	return log
}

func TestPgTxManager_CommitsOnSuccess(t *testing.T) {
	b := &fakeBeginner{}
	m := NewPgTxManager(b, nil, fastRetry, testLogger())

	called := false
	err := m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		called = true
		assert.NotNil(t, q)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 1, b.commits)
	assert.Equal(t, 0, b.rollbacks)
}

func TestPgTxManager_RollsBackOnError(t *testing.T) {
	b := &fakeBeginner{}
	m := NewPgTxManager(b, nil, fastRetry, testLogger())

	err := m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		return commonerrors.ErrUserNotFound
	})

	require.ErrorIs(t, err, commonerrors.ErrUserNotFound)
	assert.Equal(t, 1, b.begins)
	assert.Equal(t, 0, b.commits)
	assert.Equal(t, 1, b.rollbacks)
}

func TestPgTxManager_RetriesSerializationFailure(t *testing.T) {
	b := &fakeBeginner{}
	m := NewPgTxManager(b, nil, fastRetry, testLogger())

	attempts := 0
	err := m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		attempts++
		if attempts == 1 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, b.begins)
	assert.Equal(t, 1, b.rollbacks)
	assert.Equal(t, 1, b.commits)
}

func TestPgTxManager_GivesUpAfterMaxAttempts(t *testing.T) {
	b := &fakeBeginner{}
	m := NewPgTxManager(b, nil, fastRetry, testLogger())

	err := m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		return &pgconn.PgError{Code: "40P01"}
	})

	require.Error(t, err)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Equal(t, fastRetry.MaxAttempts, b.begins)
	assert.Equal(t, fastRetry.MaxAttempts, b.rollbacks)
}

func TestPgTxManager_RollsBackOnPanic(t *testing.T) {
	b := &fakeBeginner{}
	m := NewPgTxManager(b, nil, fastRetry, testLogger())

	assert.Panics(t, func() {
		_ = m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
			panic("boom")
		})
	})
	assert.Equal(t, 1, b.rollbacks)
	assert.Equal(t, 0, b.commits)
}

func TestPgTxManager_BeginFailure(t *testing.T) {
	b := &fakeBeginner{beginErr: errors.New("pool closed")}
	m := NewPgTxManager(b, nil, fastRetry, testLogger())

	err := m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		t.Error("fn must not run")
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestPgTxManager_CommitFailure(t *testing.T) {
	b := &fakeBeginner{commitErr: errors.New("connection lost")}
	m := NewPgTxManager(b, nil, fastRetry, testLogger())

	err := m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.Equal(t, 1, b.rollbacks)
}

func TestPgTxManager_BreakerOpensOnInfrastructureFailures(t *testing.T) {
	b := &fakeBeginner{beginErr: errors.New("connection refused")}
	breaker := NewDBCircuitBreaker(2, time.Second, time.Minute, testLogger())
	m := NewPgTxManager(b, breaker, fastRetry, testLogger())

	noop := func(ctx context.Context, q Querier) error { return nil }

	for i := 0; i < 2; i++ {
		err := m.WithTx(context.Background(), noop)
		require.Error(t, err)
		assert.NotErrorIs(t, err, commonerrors.ErrCircuitOpen)
	}

	err := m.WithTx(context.Background(), noop)
	require.ErrorIs(t, err, commonerrors.ErrCircuitOpen)
	assert.Equal(t, 2, b.begins)
}

func TestPgTxManager_ClientErrorsDoNotTripBreaker(t *testing.T) {
	b := &fakeBeginner{}
	breaker := NewDBCircuitBreaker(1, time.Second, time.Minute, testLogger())
	m := NewPgTxManager(b, breaker, fastRetry, testLogger())

	for i := 0; i < 3; i++ {
		err := m.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
			return commonerrors.ErrPlaceNotFound
		})
		require.ErrorIs(t, err, commonerrors.ErrPlaceNotFound)
	}
	assert.Equal(t, 3, b.begins)
}

func TestCountsAsFailure(t *testing.T) {
	assert.True(t, countsAsFailure(errors.New("io timeout")))
	assert.True(t, countsAsFailure(commonerrors.ErrInternalError))
	assert.False(t, countsAsFailure(commonerrors.ErrUserNotFound))
	assert.False(t, countsAsFailure(commonerrors.ErrValidation.WithCause(errors.New("x"))))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("plain"), want: false},
		{err: &pgconn.PgError{Code: "40001"}, want: true},
		{err: &pgconn.PgError{Code: "40P01"}, want: true},
		{err: &pgconn.PgError{Code: "08006"}, want: true},
		{err: &pgconn.PgError{Code: "55P03"}, want: true},
		{err: &pgconn.PgError{Code: "23505"}, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableError(tt.err), "%v", tt.err)
	}
}
