package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-support-bridge/internal/domain"
	"telegram-support-bridge/internal/domain/ports/adapter"
	"telegram-support-bridge/internal/infra/logging"
	"telegram-support-bridge/internal/infra/metrics"
)

// Sender is the part of *tgbotapi.BotAPI used for outbound calls.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// NewBotAPI builds a client without the getMe round-trip that tgbotapi.NewBotAPI performs,
// so start-up does not depend on Telegram being reachable. Every call is bounded by timeout.
// An empty endpoint means the public Bot API.
func NewBotAPI(token string, timeout time.Duration, endpoint string) *tgbotapi.BotAPI {
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot.SetAPIEndpoint(endpoint)
	return bot
}

var _ adapter.Notifier = (*Notifier)(nil)

// Notifier sends HTML-formatted text to a chat. A nil sender turns it into a no-op.
type Notifier struct {
	bot Sender
	log *zerolog.Logger
}

func NewNotifier(bot Sender, logger *zerolog.Logger) *Notifier {
	return &Notifier{bot: bot, log: logger}
}

func (n *Notifier) Notify(ctx context.Context, chatID int64, text string) adapter.Delivery {
	if n.bot == nil {
		metrics.IncNotification(string(adapter.DeliverySkipped))
		return adapter.Delivery{Status: adapter.DeliverySkipped}
	}

	d := n.send(ctx, chatID, text)
	metrics.IncNotification(string(d.Status))
	if !d.OK() {
		l := logging.With(logging.WithChatID(ctx, chatID), n.log)
		l.Warn().Err(d.Err).Msg("telegram send failed")
	}
	return d
}

func (n *Notifier) send(ctx context.Context, chatID int64, text string) adapter.Delivery {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return failed(err)
	}
	return adapter.Delivery{Status: adapter.DeliverySent}
}

func failed(err error) adapter.Delivery {
	return adapter.Delivery{Status: adapter.DeliveryFailed, Err: fmt.Errorf("%w: %w", domain.ErrNotification, err)}
}

// RegisterWebhook points Telegram at url. A non-empty secret is echoed back by Telegram
// in the X-Telegram-Bot-Api-Secret-Token header of every delivery.
func RegisterWebhook(bot Sender, url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	resp, err := bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("set webhook: %s", resp.Description)
	}
	return nil
}
