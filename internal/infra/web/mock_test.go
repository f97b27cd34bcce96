//go:build !integration

package web

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-support-bridge/internal/domain/model"
	"telegram-support-bridge/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// memMessageRepo is an in-memory message log.
type memMessageRepo struct {
	mu  sync.Mutex
	log []*model.Message
	now time.Time
	err error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memMessageRepo) Append(_ context.Context, _ repository.Tx, text string, sender model.Role) (*model.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(time.Second)
	msg := &model.Message{ID: int64(len(m.log) + 1), Text: text, Sender: sender, Timestamp: m.now}
	m.log = append(m.log, msg)
	cp := *msg
	return &cp, nil
}

func (m *memMessageRepo) ListAll(_ context.Context, _ repository.Tx) ([]*model.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Message, 0, len(m.log))
	for _, msg := range m.log {
		cp := *msg
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memMessageRepo) ListRecent(ctx context.Context, qx repository.Tx, n int) ([]*model.Message, error) {
	all, err := m.ListAll(ctx, qx)
	if err != nil || len(all) <= n {
		return all, err
	}
	return all[len(all)-n:], nil
}

type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

func (mockTxManager) WithConn(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// stubLimiter counts calls per key in memory.
type stubLimiter struct {
	mu    sync.Mutex
	err   error
	calls map[string]int
}

func (s *stubLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[key]++
	return s.calls[key] <= limit, nil
}
