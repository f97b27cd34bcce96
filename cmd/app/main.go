// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"telegram-support-bridge/internal/application"
	"telegram-support-bridge/internal/config"
	tele "telegram-support-bridge/internal/infra/adapters/telegram"
	pg "telegram-support-bridge/internal/infra/db/postgres"
	"telegram-support-bridge/internal/infra/i18n"
	"telegram-support-bridge/internal/infra/logging"
	"telegram-support-bridge/internal/infra/metrics"
	red "telegram-support-bridge/internal/infra/redis"
	"telegram-support-bridge/internal/infra/web"
	"telegram-support-bridge/internal/usecase"
)

// set via -ldflags
var (
	version = "dev"
	commit  = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	devMode := flag.Bool("dev", false, "developer mode: console logs, unredacted message text")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister(nil)
	metrics.SetBuildInfo(version, commit)
	logger.Info().Str("version", version).Bool("dev", cfg.Runtime.Dev).Msg("starting support bridge")

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema")
	}
	go pg.ReportPoolStats(ctx, pool, 15*time.Second, logger)

	// ---- Redis (optional) ----
	var (
		limiter web.RateLimiter
		dedup   tele.Deduper
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
		dedup = red.NewUpdateDeduper(redisClient, cfg.Redis.DedupTTL)
	} else {
		logger.Info().Msg("redis not configured; rate limiting and update de-duplication disabled")
	}

	// ---- Use cases ----
	messageRepo := pg.NewPostgresMessageRepo(pool)
	txManager := pg.NewTxManager(pool)
	supportUC := usecase.NewSupportUseCase(messageRepo, txManager, logger, cfg.Runtime.Dev)

	// ---- Telegram ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}
	loc, err := time.LoadLocation(cfg.Bot.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("timezone")
	}

	var sender tele.Sender
	if cfg.Bot.Token != "" {
		botAPI := tele.NewBotAPI(cfg.Bot.Token, cfg.Bot.NotifyTimeout, "")
		sender = botAPI
		if cfg.Bot.WebhookURL != "" {
			if err := tele.RegisterWebhook(botAPI, cfg.Bot.WebhookURL, cfg.Bot.WebhookSecret); err != nil {
				logger.Error().Err(err).Msg("webhook registration failed; continuing")
			} else {
				logger.Info().Str("url", cfg.Bot.WebhookURL).Msg("telegram webhook registered")
			}
		}
	} else {
		logger.Warn().Msg("TELEGRAM_BOT_TOKEN not set; admin notifications disabled")
	}
	notifier := tele.NewNotifier(sender, logger)

	bot := application.NewSupportBot(supportUC, notifier, tr, application.SupportBotConfig{
		AdminChatID:  cfg.Bot.AdminChatID,
		HistoryLimit: cfg.Bot.HistoryLimit,
		Location:     loc,
	}, logger)
	webhook := tele.NewWebhookHandler(bot, dedup, cfg.Bot.WebhookSecret, logger)

	// ---- HTTP ----
	srv := web.NewServer(supportUC, cfg.Security.AdminKey, limiter, cfg.HTTP, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Routes(cfg.Bot.WebhookPath, webhook),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("messages", cfg.HTTP.MessagesPath).
			Str("webhook", cfg.Bot.WebhookPath).
			Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
