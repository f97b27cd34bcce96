package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"telegram-support-bridge/internal/config"
	"telegram-support-bridge/internal/domain/model"
	pg "telegram-support-bridge/internal/infra/db/postgres"
	"telegram-support-bridge/internal/infra/logging"
	"telegram-support-bridge/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file (optional)")
	demo := flag.Bool("demo", false, "append a short sample conversation when the log is empty")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, false)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect Postgres
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema applied")
	if !*demo {
		return
	}

	supportUC := usecase.NewSupportUseCase(pg.NewPostgresMessageRepo(pool), pg.NewTxManager(pool), logger, false)

	// If the conversation already has messages, do nothing
	msgs, err := supportUC.List(ctx)
	if err != nil {
		log.Fatalf("list messages: %v", err)
	}
	if len(msgs) > 0 {
		fmt.Printf("%d messages already present. No changes.\n", len(msgs))
		return
	}

	seed := []struct {
		Text   string
		Sender model.Role
	}{
		{"Hi! My order has not arrived yet.", model.RoleUser},
		{"Hello! Could you share the order number?", model.RoleAdmin},
		{"It is 10442.", model.RoleUser},
	}
	for _, s := range seed {
		m, err := supportUC.Append(ctx, s.Text, s.Sender)
		if err != nil {
			log.Fatalf("append %q: %v", s.Text, err)
		}
		fmt.Printf("seeded: #%d %s %s\n", m.ID, m.Sender.Icon(), m.Text)
	}

	fmt.Println("✅ Seeding complete.")
}
