package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-support-bridge/internal/domain"
	"telegram-support-bridge/internal/domain/ports/repository"
)

var _ repository.TransactionManager = (*TxManager)(nil)

var (
	errNoExecutor      = errors.New("no query executor available")
	errInvalidExecutor = errors.New("unsupported query executor")
)

// TxManager implements repository.TransactionManager for Postgres (pgx).
// The handle passed to fn is a pgx.Tx (WithTx) or *pgxpool.Conn (WithConn).
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithTx opens a transaction and passes it to fn.
// If fn returns an error, the transaction is rolled back; otherwise it is committed.
func (m *TxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, txOpt)
	if err != nil {
		return domain.Persistence("begin tx", err)
	}
	// no-op after a successful commit
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Persistence("commit", err)
	}
	return nil
}

// WithConn acquires one pooled connection for the duration of fn.
func (m *TxManager) WithConn(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return domain.Persistence("acquire conn", err)
	}
	defer conn.Release()
	return fn(ctx, conn)
}

type executor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

func getExecutor(pool *pgxpool.Pool, tx repository.Tx) (executor, error) {
	switch v := tx.(type) {
	case pgx.Tx:
		return v, nil
	case *pgxpool.Conn:
		return v, nil
	case *pgxpool.Pool:
		return v, nil
	case nil:
		if pool != nil {
			return pool, nil
		}
		return nil, errNoExecutor
	default:
		return nil, errInvalidExecutor
	}
}
