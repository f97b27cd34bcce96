package application

import (
	"context"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"telegram-support-bridge/internal/domain/model"
	"telegram-support-bridge/internal/domain/ports/adapter"
	"telegram-support-bridge/internal/infra/i18n"
	"telegram-support-bridge/internal/infra/logging"
	"telegram-support-bridge/internal/infra/metrics"
	"telegram-support-bridge/internal/usecase"
)

// Outcome tells the webhook layer how an inbound admin message was handled.
type Outcome string

const (
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeCommand      Outcome = "command"
	OutcomeRelayed      Outcome = "relayed"
)

// Translator renders the fixed bot texts.
type Translator interface {
	T(key string, args ...interface{}) string
}

type SupportBotConfig struct {
	AdminChatID  int64
	HistoryLimit int
	Location     *time.Location
}

const (
	// Telegram rejects sendMessage text longer than this.
	maxMessageRunes = 4096
	maxLineRunes    = 300
	maxEchoRunes    = 600
)

// SupportBot interprets messages from the admin's Telegram chat.
// It holds no per-conversation state; each call is self-contained.
type SupportBot struct {
	support  usecase.SupportUseCase
	notifier adapter.Notifier
	tr       Translator
	cfg      SupportBotConfig
	log      *zerolog.Logger
}

func NewSupportBot(support usecase.SupportUseCase, notifier adapter.Notifier, tr Translator, cfg SupportBotConfig, logger *zerolog.Logger) *SupportBot {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &SupportBot{
		support:  support,
		notifier: notifier,
		tr:       tr,
		cfg:      cfg,
		log:      logger,
	}
}

// HandleMessage runs the admin chat state machine for one inbound message.
// Only store failures on the history and relay paths are returned.
func (b *SupportBot) HandleMessage(ctx context.Context, chatID int64, text string) (Outcome, error) {
	ctx = logging.WithChatID(ctx, chatID)
	l := logging.With(ctx, b.log)

	if chatID != b.cfg.AdminChatID {
		l.Warn().Msg("message from unauthorized chat ignored")
		return OutcomeUnauthorized, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return OutcomeIgnored, nil
	}

	if model.IsCommand(text) {
		cmd := model.ParseCommand(text)
		metrics.IncTelegramCommand(cmd.Kind.String())
		return b.dispatch(ctx, cmd)
	}

	if _, err := b.support.Append(ctx, text, model.RoleAdmin); err != nil {
		return OutcomeRelayed, err
	}
	b.notify(ctx, b.tr.T(i18n.KeyRelayConfirmed, html.EscapeString(clip(text, maxEchoRunes))))
	return OutcomeRelayed, nil
}

func (b *SupportBot) dispatch(ctx context.Context, cmd model.Command) (Outcome, error) {
	switch cmd.Kind {
	case model.CommandStart:
		b.notify(ctx, b.tr.T(i18n.KeyStartWelcome))
		return OutcomeCommand, nil
	case model.CommandHistory:
		return OutcomeCommand, b.sendHistory(ctx)
	case model.CommandUnrecognized:
		l := logging.With(ctx, b.log)
		l.Debug().Str("command", cmd.Raw).Msg("unrecognized command ignored")
		return OutcomeIgnored, nil
	default:
		return OutcomeIgnored, nil
	}
}

func (b *SupportBot) sendHistory(ctx context.Context) error {
	msgs, err := b.support.Recent(ctx, b.cfg.HistoryLimit)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		b.notify(ctx, b.tr.T(i18n.KeyHistoryEmpty))
		return nil
	}
	b.notify(ctx, b.Digest(msgs))
	return nil
}

// Digest renders messages (already oldest first) as one notification.
// Long texts are clipped and the oldest lines dropped so the result fits one Telegram message.
func (b *SupportBot) Digest(msgs []*model.Message) string {
	lines := make([]string, len(msgs))
	size := 0
	for i, m := range msgs {
		lines[i] = b.tr.T(i18n.KeyHistoryLine,
			m.Sender.Icon(),
			m.Timestamp.In(b.cfg.Location).Format("15:04"),
			html.EscapeString(clip(m.Text, maxLineRunes)),
		)
		size += utf8.RuneCountInString(lines[i])
	}

	start := 0
	header := b.tr.T(i18n.KeyHistoryHeader, len(lines))
	for start < len(lines)-1 && size+utf8.RuneCountInString(header) > maxMessageRunes {
		size -= utf8.RuneCountInString(lines[start])
		start++
		header = b.tr.T(i18n.KeyHistoryHeader, len(lines)-start)
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, l := range lines[start:] {
		sb.WriteString(l)
	}
	return sb.String()
}

// clip shortens text to at most n runes, marking the cut with an ellipsis.
func clip(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return string(r[:n-1]) + "…"
}

func (b *SupportBot) notify(ctx context.Context, text string) {
	// best effort: the notifier logs and counts its own failures
	b.notifier.Notify(ctx, b.cfg.AdminChatID, text)
}
