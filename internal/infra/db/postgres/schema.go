package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-support-bridge/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL for the support message log.
func Schema() string { return schemaSQL }

// EnsureSchema creates the support_messages table and index if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return domain.Persistence("ensure schema", err)
	}
	return nil
}
