package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"

	"telegram-support-bridge/internal/domain"
	"telegram-support-bridge/internal/domain/model"
	"telegram-support-bridge/internal/infra/logging"
	"telegram-support-bridge/internal/infra/metrics"
	"telegram-support-bridge/internal/infra/redis"
	"telegram-support-bridge/internal/usecase"
)

const (
	adminKeyHeader = "X-Admin-Key"
	maxBodyBytes   = 64 << 10

	errTextRequired     = "Text is required"
	errMethodNotAllowed = "Method not allowed"
	errInternal         = "Internal server error"
	errTooManyRequests  = "Too many requests"
)

type messageDTO struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	IsRead    bool   `json:"isRead"`
}

type createdDTO struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

type listResponse struct {
	Messages []messageDTO `json:"messages"`
}

type appendRequest struct {
	Text string `json:"text"`
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func toMessageDTO(m *model.Message, _ int) messageDTO {
	return messageDTO{
		ID:        formatID(m.ID),
		Text:      m.Text,
		Sender:    m.Sender.String(),
		Timestamp: formatTime(m.Timestamp),
		IsRead:    m.IsRead,
	}
}

// messages serves the widget endpoint: one path, dispatch on verb.
func (s *Server) messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		s.listMessages(w, r)
	case http.MethodPost:
		s.appendMessage(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.support.List(r.Context())
	if err != nil {
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Msg("list messages failed")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Messages: lo.Map(msgs, toMessageDTO)})
}

func (s *Server) appendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	if !s.allowAppend(w, r) {
		return
	}

	var req appendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		metrics.IncValidationRejected()
		writeError(w, http.StatusBadRequest, errTextRequired)
		return
	}

	sender := usecase.ResolveRole(r.Header.Get(adminKeyHeader), s.adminKey)
	msg, err := s.support.Append(ctx, req.Text, sender)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, errTextRequired)
		return
	case err != nil:
		l.Error().Err(err).Msg("append message failed")
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}

	writeJSON(w, http.StatusCreated, createdDTO{
		ID:        formatID(msg.ID),
		Text:      msg.Text,
		Sender:    msg.Sender.String(),
		Timestamp: formatTime(msg.Timestamp),
	})
}

// allowAppend applies the per-address limit. Limiter faults let the request through.
func (s *Server) allowAppend(w http.ResponseWriter, r *http.Request) bool {
	if s.limiter == nil || s.appendLimit <= 0 {
		return true
	}
	ok, err := s.limiter.Allow(r.Context(), redis.AppendKey(clientIP(r)), s.appendLimit, s.appendWindow)
	if err != nil {
		l := logging.With(r.Context(), s.log)
		l.Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	if !ok {
		metrics.IncRateLimitTriggered()
		writeError(w, http.StatusTooManyRequests, errTooManyRequests)
		return false
	}
	return true
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
