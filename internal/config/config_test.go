// ABOUTME: Tests for server configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, "server.yaml", `
server:
  http_addr: "0.0.0.0:9000"

database:
  path: "./test.db"
  seed_articles: false

auth:
  jwt_secret: "`+testSecret+`"
  token_ttl: "2h"
  auto_register: true

ratelimit:
  login_rps: 2.5
  login_burst: 10

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:9000" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:9000")
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Database.Seed() {
		t.Error("Database.Seed() = true, want false")
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want %v", cfg.Auth.TokenTTL, 2*time.Hour)
	}
	if !cfg.Auth.AutoRegister {
		t.Error("Auth.AutoRegister = false, want true")
	}
	if cfg.RateLimit.LoginRPS != 2.5 {
		t.Errorf("RateLimit.LoginRPS = %v, want 2.5", cfg.RateLimit.LoginRPS)
	}
	if cfg.RateLimit.LoginBurst != 10 {
		t.Errorf("RateLimit.LoginBurst = %d, want 10", cfg.RateLimit.LoginBurst)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, "server.yaml", `
database:
  path: "./test.db"
auth:
  jwt_secret: "`+testSecret+`"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	if cfg.Auth.TokenTTL != DefaultTokenTTL {
		t.Errorf("Auth.TokenTTL = %v, want %v", cfg.Auth.TokenTTL, DefaultTokenTTL)
	}
	if cfg.RateLimit.LoginRPS != DefaultLoginRPS || cfg.RateLimit.LoginBurst != DefaultLoginBurst {
		t.Errorf("RateLimit = %+v, want defaults", cfg.RateLimit)
	}
	if !cfg.Database.Seed() {
		t.Error("Database.Seed() = false, want true by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_ARTICLES_SECRET", testSecret)
	t.Setenv("TEST_ARTICLES_DB", "/tmp/articles.db")

	configPath := writeConfig(t, "server.yaml", `
database:
  path: "${TEST_ARTICLES_DB}"
auth:
  jwt_secret: "${TEST_ARTICLES_SECRET}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.JWTSecret != testSecret {
		t.Errorf("Auth.JWTSecret = %q, want %q", cfg.Auth.JWTSecret, testSecret)
	}
	if cfg.Database.Path != "/tmp/articles.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/articles.db")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "server.yaml", "server: [unclosed")
	if _, err := Load(configPath); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeConfig(t, "server.yaml", `
database:
  path: "./test.db"
auth:
  jwt_secret: "`+testSecret+`"
  token_ttl: "soon"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "token_ttl") {
		t.Errorf("error = %v, want mention of token_ttl", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{HTTPAddr: "localhost:9000"},
			Database: DatabaseConfig{Path: "./test.db"},
			Auth:     AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing db", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"negative ttl", func(c *Config) { c.Auth.TokenTTL = -time.Second }, "token_ttl"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative burst", func(c *Config) { c.RateLimit.LoginBurst = -1 }, "ratelimit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_VAR}", "value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-value-suffix"},
		{"${TEST_UNSET_VAR_XYZ}", ""},
		{"no vars", "no vars"},
	}

	for _, tt := range tests {
		if got := expandEnvVars(tt.input); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDefaultServerPath(t *testing.T) {
	t.Setenv("ARTICLES_SERVER_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultServerPath(); got != filepath.Join("/xdg", "articles", "server.yaml") {
		t.Errorf("DefaultServerPath() = %q", got)
	}

	t.Setenv("ARTICLES_SERVER_CONFIG", "/etc/articles.yaml")
	if got := DefaultServerPath(); got != "/etc/articles.yaml" {
		t.Errorf("DefaultServerPath() = %q, want override", got)
	}
}
