package redis

import (
	"context"
	"fmt"
	"time"
)

// UpdateDeduper remembers Telegram update ids so webhook redeliveries are processed once.
type UpdateDeduper struct {
	client RedisClient
	ttl    time.Duration
}

func NewUpdateDeduper(client RedisClient, ttl time.Duration) *UpdateDeduper {
	return &UpdateDeduper{client: client, ttl: ttl}
}

// FirstSeen claims updateID and reports whether this is its first delivery.
func (d *UpdateDeduper) FirstSeen(ctx context.Context, updateID int) (bool, error) {
	return d.client.SetNX(ctx, updateKey(updateID), 1, d.ttl)
}

// Forget releases a claim so a failed update can be processed on redelivery.
func (d *UpdateDeduper) Forget(ctx context.Context, updateID int) error {
	return d.client.Del(ctx, updateKey(updateID))
}

func updateKey(updateID int) string {
	return fmt.Sprintf("tg_update:%d", updateID)
}
