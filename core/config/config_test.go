package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNormalizeRunMode(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: " Polling "}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q", cfg.Telegram.RunMode)
	}

	cfg = &Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}}
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "webhook.url") {
		t.Fatalf("expected webhook url error, got %v", err)
	}
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.org/hook", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	cfg = &Config{Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown run mode accepted")
	}
}

func TestNormalizeExcludeUpdates(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback", "", "WEB_APP"}},
	}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	got := strings.Join(cfg.RateLimit.ExcludeUpdates, ",")
	if got != "callback,web_app" {
		t.Fatalf("exclude = %q", got)
	}

	cfg.RateLimit.ExcludeUpdates = []string{"inline"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("unknown update kind accepted")
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	if err := Normalize(&Config{}); err == nil {
		t.Fatal("missing token accepted")
	}
	if err := Normalize(nil); err == nil {
		t.Fatal("nil config accepted")
	}
}

func TestLoadIntoOverlaysEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.yaml")
	body := "telegram:\n  token: yaml\nsender:\n  workers: 2\n  retry_backoff: 750ms\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "env")
	t.Setenv("SENDER_QUEUE_SIZE", "32")

	var cfg Config
	if err := LoadInto(path, &cfg); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if cfg.Telegram.Token != "env" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Sender.Workers != 2 || cfg.Sender.QueueSize != 32 || cfg.Sender.RetryBackoff != 750*time.Millisecond {
		t.Fatalf("sender = %+v", cfg.Sender)
	}
}
