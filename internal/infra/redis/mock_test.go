//go:build !integration

package redis

import (
	"context"
	"sync"
	"time"
)

// memRedis is an in-memory stand-in implementing RedisClient.
type memRedis struct {
	mu      sync.Mutex
	values  map[string]interface{}
	counts  map[string]int64
	expires map[string]time.Duration

	IncrErr  error
	SetNXErr error
}

var _ RedisClient = (*memRedis)(nil)

func newMemRedis() *memRedis {
	return &memRedis{
		values:  map[string]interface{}{},
		counts:  map[string]int64{},
		expires: map[string]time.Duration{},
	}
}

func (m *memRedis) Ping(ctx context.Context) error { return nil }

func (m *memRedis) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrErr != nil {
		return 0, m.IncrErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[key] = expiration
	return nil
}

func (m *memRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	if m.SetNXErr != nil {
		return false, m.SetNXErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value
	m.expires[key] = expiration
	return true, nil
}

func (m *memRedis) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
		delete(m.counts, k)
	}
	return nil
}

func (m *memRedis) Close() error { return nil }
