package telegram

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-support-bridge/internal/application"
	"telegram-support-bridge/internal/infra/logging"
	"telegram-support-bridge/internal/infra/metrics"
)

const (
	secretHeader = "X-Telegram-Bot-Api-Secret-Token"
	maxBodyBytes = 1 << 20
)

// MessageHandler is the bot command interpreter.
type MessageHandler interface {
	HandleMessage(ctx context.Context, chatID int64, text string) (application.Outcome, error)
}

// Deduper claims update ids so Telegram redeliveries run once.
type Deduper interface {
	FirstSeen(ctx context.Context, updateID int) (bool, error)
	Forget(ctx context.Context, updateID int) error
}

// WebhookHandler receives Telegram updates. Routine events (foreign chats, non-message
// updates, malformed bodies, unknown commands) are always acknowledged with 200 so
// Telegram never backs off or disables the webhook; only store faults answer 500.
type WebhookHandler struct {
	bot    MessageHandler
	dedup  Deduper
	secret string
	log    *zerolog.Logger
}

// NewWebhookHandler wires the interpreter. dedup may be nil; an empty secret disables the header check.
func NewWebhookHandler(bot MessageHandler, dedup Deduper, secret string, logger *zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{bot: bot, dedup: dedup, secret: secret, log: logger}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.handleUpdate(w, r)
	default:
		writeStatusOK(w)
	}
}

func (h *WebhookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logging.With(ctx, h.log)

	if h.secret != "" && r.Header.Get(secretHeader) != h.secret {
		metrics.IncTelegramUpdate("unauthorized")
		l.Warn().Msg("webhook secret mismatch")
		writeText(w, "Unauthorized")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&update); err != nil {
		metrics.IncTelegramUpdate("malformed")
		l.Debug().Err(err).Msg("undecodable webhook body")
		writeText(w, "OK")
		return
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		metrics.IncTelegramUpdate("ignored")
		writeText(w, "OK")
		return
	}

	ctx = logging.WithUpdateID(ctx, update.UpdateID)
	if h.dedup != nil {
		first, err := h.dedup.FirstSeen(ctx, update.UpdateID)
		switch {
		case err != nil:
			// redis trouble must not block the relay
			l.Warn().Err(err).Int("update_id", update.UpdateID).Msg("update de-duplication unavailable")
		case !first:
			metrics.IncTelegramUpdate("duplicate")
			writeText(w, "OK")
			return
		}
	}

	outcome, err := h.bot.HandleMessage(ctx, msg.Chat.ID, msg.Text)
	if err != nil {
		metrics.IncTelegramUpdate("failed")
		if h.dedup != nil {
			if ferr := h.dedup.Forget(ctx, update.UpdateID); ferr != nil {
				l.Warn().Err(ferr).Msg("failed to release update claim")
			}
		}
		logging.With(ctx, h.log).Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("webhook processing failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	metrics.IncTelegramUpdate(string(outcome))
	switch outcome {
	case application.OutcomeUnauthorized:
		writeText(w, "Unauthorized")
	case application.OutcomeIgnored:
		writeText(w, "OK")
	default:
		writeStatusOK(w)
	}
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func writeStatusOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
