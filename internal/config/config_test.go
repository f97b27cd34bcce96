//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	env := envconfig.MapLookuper(map[string]string{
		"DATABASE_URL": "postgres://u:p@localhost:5432/support",
	})

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	checks := []struct {
		name      string
		got, want interface{}
	}{
		{"admin chat id", cfg.Bot.AdminChatID, DefaultAdminChatID},
		{"webhook path", cfg.Bot.WebhookPath, "/telegram/webhook"},
		{"language", cfg.Bot.Language, "ru"},
		{"timezone", cfg.Bot.Timezone, "UTC"},
		{"notify timeout", cfg.Bot.NotifyTimeout, 5 * time.Second},
		{"history limit", cfg.Bot.HistoryLimit, 10},
		{"http port", cfg.HTTP.Port, 8080},
		{"messages path", cfg.HTTP.MessagesPath, "/api/support/messages"},
		{"trust proxy", cfg.HTTP.TrustProxy, false},
		{"log level", cfg.Log.Level, "info"},
		{"log format", cfg.Log.Format, "json"},
		{"admin key", cfg.Security.AdminKey, ""},
		{"bot token", cfg.Bot.Token, ""},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := []byte(`
bot:
  token: file-token
  language: en
  notify_timeout: 3s
http:
  port: 9000
database:
  url: postgres://file
security:
  admin_key: file-secret
`)
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatal(err)
	}

	env := envconfig.MapLookuper(map[string]string{
		"ADMIN_KEY":          "env-secret",
		"TELEGRAM_BOT_TOKEN": "env-token",
		"HTTP_TRUST_PROXY":   "true",
	})

	cfg, err := Load(path, true, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Security.AdminKey != "env-secret" {
		t.Errorf("admin key: %q", cfg.Security.AdminKey)
	}
	if cfg.Bot.Token != "env-token" {
		t.Errorf("token: %q", cfg.Bot.Token)
	}
	if cfg.Database.URL != "postgres://file" {
		t.Errorf("database url: %q", cfg.Database.URL)
	}
	if cfg.Bot.Language != "en" {
		t.Errorf("language: %q", cfg.Bot.Language)
	}
	if cfg.Bot.NotifyTimeout != 3*time.Second {
		t.Errorf("notify timeout: %v", cfg.Bot.NotifyTimeout)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("port: %d", cfg.HTTP.Port)
	}
	if !cfg.HTTP.TrustProxy {
		t.Error("expected trust proxy from env")
	}
	if !cfg.Runtime.Dev {
		t.Error("expected dev mode")
	}
}

func TestLoad_Validation(t *testing.T) {
	t.Run("database url is required", func(t *testing.T) {
		if _, err := Load("", false, envconfig.MapLookuper(map[string]string{})); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown language is rejected", func(t *testing.T) {
		_, err := Load("", false, envconfig.MapLookuper(map[string]string{
			"DATABASE_URL": "postgres://x",
			"BOT_LANGUAGE": "de",
		}))
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("bad timezone is rejected", func(t *testing.T) {
		_, err := Load("", false, envconfig.MapLookuper(map[string]string{
			"DATABASE_URL": "postgres://x",
			"BOT_TIMEZONE": "Mars/Olympus",
		}))
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("admin chat id can be overridden", func(t *testing.T) {
		cfg, err := Load("", false, envconfig.MapLookuper(map[string]string{
			"DATABASE_URL":           "postgres://x",
			"TELEGRAM_ADMIN_CHAT_ID": "42",
		}))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Bot.AdminChatID != 42 {
			t.Errorf("admin chat id: %d", cfg.Bot.AdminChatID)
		}
	})
}
