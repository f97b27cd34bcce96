//go:build !integration

package usecase_test

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

// ---- Mock MessageRepository ----

// MockMessageRepo is an in-memory append-only log with store-assigned ids and timestamps.
type MockMessageRepo struct {
	mu   sync.Mutex
	log  []*model.Message
	next int64
	now  time.Time

	AppendErr error
	ListErr   error
}

var _ repository.MessageRepository = (*MockMessageRepo)(nil)

func NewMockMessageRepo() *MockMessageRepo {
	return &MockMessageRepo{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *MockMessageRepo) Append(ctx context.Context, qx repository.Tx, text string, sender model.Role) (*model.Message, error) {
	if m.AppendErr != nil {
		return nil, m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.now = m.now.Add(time.Minute)
	msg := &model.Message{ID: m.next, Text: text, Sender: sender, Timestamp: m.now}
	m.log = append(m.log, msg)
	cp := *msg
	return &cp, nil
}

func (m *MockMessageRepo) ListAll(ctx context.Context, qx repository.Tx) ([]*model.Message, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
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

func (m *MockMessageRepo) ListRecent(ctx context.Context, qx repository.Tx, n int) ([]*model.Message, error) {
	all, err := m.ListAll(ctx, qx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []*model.Message{}, nil
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (m *MockMessageRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.log)
}

// ---- Mock TransactionManager ----

type mockTx struct{}

// MockTxManager counts acquired and released handles.
type MockTxManager struct {
	mu       sync.Mutex
	Acquired int
	Released int

	AcquireErr error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return m.WithConn(ctx, fn)
}

func (m *MockTxManager) WithConn(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.AcquireErr != nil {
		return m.AcquireErr
	}
	m.mu.Lock()
	m.Acquired++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.Released++
		m.mu.Unlock()
	}()
	return fn(ctx, mockTx{})
}
