package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2389/articles/internal/config"
)

func TestRenderConfig_Loads(t *testing.T) {
	secret, err := generateSecret()
	if err != nil {
		t.Fatalf("generateSecret: %v", err)
	}
	if len(secret) < config.MinJWTSecretLength {
		t.Fatalf("secret too short: %d", len(secret))
	}

	path := filepath.Join(t.TempDir(), "server.yaml")
	out := renderConfig(initAnswers{
		HTTPAddr:     "127.0.0.1:9100",
		DBPath:       filepath.Join(t.TempDir(), "articles.db"),
		JWTSecret:    secret,
		TokenTTL:     "2h",
		AutoRegister: true,
		Seed:         false,
		LogLevel:     "debug",
		LogFormat:    "json",
	})
	if err := os.WriteFile(path, []byte(out), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPAddr != "127.0.0.1:9100" {
		t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Auth.JWTSecret != secret {
		t.Errorf("JWTSecret not preserved")
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %v, want 2h", cfg.Auth.TokenTTL)
	}
	if !cfg.Auth.AutoRegister {
		t.Error("AutoRegister = false, want true")
	}
	if cfg.Database.Seed() {
		t.Error("Seed() = true, want false")
	}
	if cfg.RateLimit.LoginBurst != config.DefaultLoginBurst {
		t.Errorf("LoginBurst = %d", cfg.RateLimit.LoginBurst)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q", cfg.Logging.Format)
	}
}

func TestPrompt_Defaults(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("\ncustom\n"))

	if got := prompt(reader, "First", "def"); got != "def" {
		t.Errorf("empty input = %q, want def", got)
	}
	if got := prompt(reader, "Second", "def"); got != "custom" {
		t.Errorf("input = %q, want custom", got)
	}
	// EOF falls back to the default.
	if got := prompt(reader, "Third", "fallback"); got != "fallback" {
		t.Errorf("EOF = %q, want fallback", got)
	}
}

func TestYes(t *testing.T) {
	for in, want := range map[string]bool{"y": true, "YES": true, "no": false, "": false} {
		if got := yes(in); got != want {
			t.Errorf("yes(%q) = %v, want %v", in, got, want)
		}
	}
}
