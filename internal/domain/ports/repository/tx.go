package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an infra-defined query handle (pgx.Tx, *pgxpool.Conn, ...).
// Repositories must accept nil and fall back to their own pool.
type Tx interface{}

var NoTX Tx

// TransactionManager scopes a unit of work to one datastore handle.
// The handle is acquired before fn runs and released on every exit path.
type TransactionManager interface {
	// WithTx runs fn inside a transaction; an error from fn rolls it back.
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
	// WithConn runs fn on a single pooled connection without a transaction.
	WithConn(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
