//go:build !integration

package application_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-support-bridge/internal/domain"
	"telegram-support-bridge/internal/domain/model"
	"telegram-support-bridge/internal/domain/ports/adapter"
	"telegram-support-bridge/internal/usecase"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// mockSupportUC is an in-memory SupportUseCase.
type mockSupportUC struct {
	mu   sync.Mutex
	msgs []*model.Message
	now  time.Time

	appendErr error
	recentErr error
	appends   int
}

var _ usecase.SupportUseCase = (*mockSupportUC)(nil)

func newMockSupportUC() *mockSupportUC {
	return &mockSupportUC{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *mockSupportUC) seed(text string, sender model.Role, at time.Time) {
	m.msgs = append(m.msgs, &model.Message{ID: int64(len(m.msgs) + 1), Text: text, Sender: sender, Timestamp: at})
}

func (m *mockSupportUC) List(ctx context.Context) ([]*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Message(nil), m.msgs...), nil
}

func (m *mockSupportUC) Append(ctx context.Context, text string, sender model.Role) (*model.Message, error) {
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	clean, err := model.NormalizeText(text)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appends++
	m.now = m.now.Add(time.Minute)
	msg := &model.Message{ID: int64(len(m.msgs) + 1), Text: clean, Sender: sender, Timestamp: m.now}
	m.msgs = append(m.msgs, msg)
	return msg, nil
}

func (m *mockSupportUC) Recent(ctx context.Context, n int) ([]*model.Message, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.msgs
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return append([]*model.Message(nil), out...), nil
}

// mockNotifier records every notification.
type mockNotifier struct {
	mu   sync.Mutex
	sent []sentNote
}

type sentNote struct {
	chatID int64
	text   string
}

var _ adapter.Notifier = (*mockNotifier)(nil)

func (n *mockNotifier) Notify(ctx context.Context, chatID int64, text string) adapter.Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNote{chatID: chatID, text: text})
	return adapter.Delivery{Status: adapter.DeliverySent}
}

// failingNotifier reports a failed delivery, as the Telegram notifier does on timeouts.
type failingNotifier struct{ calls int }

func (n *failingNotifier) Notify(ctx context.Context, chatID int64, text string) adapter.Delivery {
	n.calls++
	return adapter.Delivery{Status: adapter.DeliveryFailed, Err: domain.ErrNotification}
}
