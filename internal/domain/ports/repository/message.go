package repository

import (
	"context"

	"telegram-support-bridge/internal/domain/model"
)

// MessageRepository is the append-only support conversation log.
// Messages are never updated or deleted.
type MessageRepository interface {
	// Append inserts a message; the store assigns ID and Timestamp.
	Append(ctx context.Context, qx Tx, text string, sender model.Role) (*model.Message, error)
	// ListAll returns every message ordered by timestamp, then insertion order.
	ListAll(ctx context.Context, qx Tx) ([]*model.Message, error)
	// ListRecent returns the last n messages, oldest first.
	ListRecent(ctx context.Context, qx Tx, n int) ([]*model.Message, error)
}
