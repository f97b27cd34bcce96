package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultAdminChatID is the single Telegram chat allowed to operate the bot.
const DefaultAdminChatID int64 = 529416354

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token         string        `yaml:"token" env:"TELEGRAM_BOT_TOKEN, overwrite"` // empty disables notifications
	AdminChatID   int64         `yaml:"admin_chat_id" env:"TELEGRAM_ADMIN_CHAT_ID, overwrite" validate:"required"`
	WebhookURL    string        `yaml:"webhook_url" env:"TELEGRAM_WEBHOOK_URL, overwrite" validate:"omitempty,url"`
	WebhookPath   string        `yaml:"webhook_path" env:"TELEGRAM_WEBHOOK_PATH, overwrite" validate:"startswith=/"`
	WebhookSecret string        `yaml:"webhook_secret" env:"TELEGRAM_WEBHOOK_SECRET, overwrite"`
	Language      string        `yaml:"language" env:"BOT_LANGUAGE, overwrite" validate:"oneof=ru en"`
	Timezone      string        `yaml:"timezone" env:"BOT_TIMEZONE, overwrite"`
	NotifyTimeout time.Duration `yaml:"notify_timeout" env:"TELEGRAM_NOTIFY_TIMEOUT, overwrite"`
	HistoryLimit  int           `yaml:"history_limit" env:"BOT_HISTORY_LIMIT, overwrite" validate:"gte=1,lte=100"`
}

type HTTPConfig struct {
	Port             int           `yaml:"port" env:"HTTP_PORT, overwrite" validate:"gte=1,lte=65535"`
	MessagesPath     string        `yaml:"messages_path" env:"HTTP_MESSAGES_PATH, overwrite" validate:"startswith=/"`
	RequestTimeout   time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT, overwrite"`
	AppendRateLimit  int           `yaml:"append_rate_limit" env:"HTTP_APPEND_RATE_LIMIT, overwrite" validate:"gte=0"` // 0 disables
	AppendRateWindow time.Duration `yaml:"append_rate_window" env:"HTTP_APPEND_RATE_WINDOW, overwrite"`
	TrustProxy       bool          `yaml:"trust_proxy" env:"HTTP_TRUST_PROXY, overwrite"` // honour X-Forwarded-For / X-Real-IP
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL, overwrite" validate:"oneof=trace debug info warn error"`
	Format   string `yaml:"format" env:"LOG_FORMAT, overwrite" validate:"oneof=json console"`
	Sampling bool   `yaml:"sampling" env:"LOG_SAMPLING, overwrite"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url" env:"DATABASE_URL, overwrite" validate:"required"`
	MaxConns int32  `yaml:"max_conns" env:"DATABASE_MAX_CONNS, overwrite" validate:"gte=1"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" env:"REDIS_URL, overwrite"` // empty disables rate limiting and de-duplication
	Password string        `yaml:"password" env:"REDIS_PASSWORD, overwrite"`
	DB       int           `yaml:"db" env:"REDIS_DB, overwrite"`
	DedupTTL time.Duration `yaml:"dedup_ttl" env:"REDIS_DEDUP_TTL, overwrite"`
}

type SecurityConfig struct {
	AdminKey string `yaml:"admin_key" env:"ADMIN_KEY, overwrite"` // empty disables admin elevation over HTTP
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Security SecurityConfig `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads an optional YAML file, then the process environment (and .env if present).
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load()
	return Load(path, dev, envconfig.OsLookuper())
}

// Load builds the configuration from path (may be missing) and the given lookuper.
// Environment values win over the file.
func Load(path string, dev bool, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := envconfig.ProcessWith(context.Background(), &cfg, lookuper); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Bot.Timezone); err != nil {
		return nil, fmt.Errorf("invalid config: bot.timezone: %w", err)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.AdminChatID == 0 {
		cfg.Bot.AdminChatID = DefaultAdminChatID
	}
	if cfg.Bot.WebhookPath == "" {
		cfg.Bot.WebhookPath = "/telegram/webhook"
	}
	if cfg.Bot.Language == "" {
		cfg.Bot.Language = "ru"
	}
	if cfg.Bot.Timezone == "" {
		cfg.Bot.Timezone = "UTC"
	}
	cfg.Bot.NotifyTimeout = orDefault(cfg.Bot.NotifyTimeout, 5*time.Second)
	if cfg.Bot.HistoryLimit <= 0 {
		cfg.Bot.HistoryLimit = 10
	}

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.MessagesPath == "" {
		cfg.HTTP.MessagesPath = "/api/support/messages"
	}
	cfg.HTTP.RequestTimeout = orDefault(cfg.HTTP.RequestTimeout, 10*time.Second)
	cfg.HTTP.AppendRateWindow = orDefault(cfg.HTTP.AppendRateWindow, time.Minute)

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.DedupTTL = orDefault(cfg.Redis.DedupTTL, 24*time.Hour)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
