package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-support-bridge/internal/domain"
	"telegram-support-bridge/internal/domain/model"
	"telegram-support-bridge/internal/domain/ports/repository"
)

var _ repository.MessageRepository = (*PostgresMessageRepo)(nil)

// PostgresMessageRepo stores the support conversation in support_messages.
type PostgresMessageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageRepo(pool *pgxpool.Pool) *PostgresMessageRepo {
	return &PostgresMessageRepo{pool: pool}
}

func (r *PostgresMessageRepo) Append(ctx context.Context, qx repository.Tx, text string, sender model.Role) (*model.Message, error) {
	const q = `
INSERT INTO support_messages (text, sender, timestamp)
VALUES ($1, $2, now())
RETURNING id, text, sender, timestamp, is_read;`
	ex, err := getExecutor(r.pool, qx)
	if err != nil {
		return nil, domain.Persistence("append message", err)
	}
	m, err := scanMessage(ex.QueryRow(ctx, q, text, string(sender)))
	if err != nil {
		return nil, domain.Persistence("append message", err)
	}
	return m, nil
}

func (r *PostgresMessageRepo) ListAll(ctx context.Context, qx repository.Tx) ([]*model.Message, error) {
	const q = `
SELECT id, text, sender, timestamp, is_read
  FROM support_messages
 ORDER BY timestamp ASC, id ASC;`
	ex, err := getExecutor(r.pool, qx)
	if err != nil {
		return nil, domain.Persistence("list messages", err)
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, domain.Persistence("list messages", err)
	}
	out, err := collectMessages(rows)
	if err != nil {
		return nil, domain.Persistence("list messages", err)
	}
	return out, nil
}

func (r *PostgresMessageRepo) ListRecent(ctx context.Context, qx repository.Tx, n int) ([]*model.Message, error) {
	if n <= 0 {
		return []*model.Message{}, nil
	}
	// newest n, flipped back to chronological order
	const q = `
SELECT id, text, sender, timestamp, is_read FROM (
  SELECT id, text, sender, timestamp, is_read
    FROM support_messages
   ORDER BY timestamp DESC, id DESC
   LIMIT $1
) recent
ORDER BY timestamp ASC, id ASC;`
	ex, err := getExecutor(r.pool, qx)
	if err != nil {
		return nil, domain.Persistence("list recent messages", err)
	}
	rows, err := ex.Query(ctx, q, n)
	if err != nil {
		return nil, domain.Persistence("list recent messages", err)
	}
	out, err := collectMessages(rows)
	if err != nil {
		return nil, domain.Persistence("list recent messages", err)
	}
	return out, nil
}

func collectMessages(rows pgx.Rows) ([]*model.Message, error) {
	defer rows.Close()
	out := make([]*model.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMessage(row pgx.Row) (*model.Message, error) {
	var (
		m      model.Message
		sender string
		ts     time.Time
	)
	if err := row.Scan(&m.ID, &m.Text, &sender, &ts, &m.IsRead); err != nil {
		return nil, err
	}
	role, err := model.ParseRole(sender)
	if err != nil {
		return nil, err
	}
	m.Sender = role
	m.Timestamp = ts.UTC()
	return &m, nil
}
