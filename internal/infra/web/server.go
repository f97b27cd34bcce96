package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-support-bridge/internal/config"
	"telegram-support-bridge/internal/usecase"
)

// RateLimiter bounds widget appends per client address.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Server is the widget-facing relay gateway.
type Server struct {
	support      usecase.SupportUseCase
	adminKey     string
	limiter      RateLimiter
	appendLimit  int
	appendWindow time.Duration
	cfg          config.HTTPConfig
	log          *zerolog.Logger
}

// NewServer builds the gateway. limiter may be nil.
func NewServer(support usecase.SupportUseCase, adminKey string, limiter RateLimiter, cfg config.HTTPConfig, logger *zerolog.Logger) *Server {
	return &Server{
		support:      support,
		adminKey:     adminKey,
		limiter:      limiter,
		appendLimit:  cfg.AppendRateLimit,
		appendWindow: cfg.AppendRateWindow,
		cfg:          cfg,
		log:          logger,
	}
}

// Routes mounts the widget endpoint plus the Telegram webhook, health and metrics.
// webhook may be nil when no bot is configured.
func (s *Server) Routes(webhookPath string, webhook http.Handler) http.Handler {
	r := chi.NewRouter()
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(
		TraceID(),
		RequestLog(s.log),
		Recover(s.log),
	)
	if s.cfg.RequestTimeout > 0 {
		r.Use(Timeout(s.cfg.RequestTimeout))
	}

	r.With(CORS()).HandleFunc(s.cfg.MessagesPath, s.messages)
	if webhook != nil && webhookPath != "" {
		r.Handle(webhookPath, webhook)
	}
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
