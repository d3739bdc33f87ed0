package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/articles/internal/bootstrap"
	"github.com/2389/articles/internal/config"
	"github.com/2389/articles/internal/logging"
	"github.com/2389/articles/internal/server"
	"github.com/2389/articles/internal/views"
)

// cliHarness runs one command per fresh Env, the way each process invocation
// would, sharing file storage so the token survives between commands.
type cliHarness struct {
	t   *testing.T
	cfg *config.ClientConfig
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	t.Setenv(bootstrap.TokenEnv, "")

	seed := false
	srv, err := server.New(&config.Config{
		Server:    config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Database:  config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "articles.db"), SeedArticles: &seed},
		Auth:      config.AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour, AutoRegister: true},
		RateLimit: config.RateLimitConfig{LoginRPS: 100, LoginBurst: 100},
	}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown(context.Background())
	})

	return &cliHarness{t: t, cfg: &config.ClientConfig{
		API:     config.APIConfig{BaseURL: ts.URL, Timeout: 5 * time.Second},
		Storage: config.StorageConfig{Driver: config.StorageFile, Path: filepath.Join(t.TempDir(), "storage")},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}}
}

func (h *cliHarness) run(cmd string, args ...string) (string, error) {
	h.t.Helper()
	env, err := bootstrap.New(h.cfg, logging.Setup("error", "text", &bytes.Buffer{}))
	require.NoError(h.t, err)
	defer env.Close()

	var out bytes.Buffer
	err = newCLI(env, &out, views.Plain()).dispatch(context.Background(), cmd, args)
	return out.String(), err
}

func TestRun_ArticleLifecycle(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("login", "--username", "foo", "--password", "12345678")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome back, foo!")
	assert.Contains(t, out, "Token stored")

	out, err = h.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Here are your articles, foo!")
	assert.Contains(t, out, views.EmptyListText)

	out, err = h.run("create", "--title", "Closures", "--text", "Functions remember scope", "--topic", "JavaScript")
	require.NoError(t, err)
	assert.Contains(t, out, "Well done, foo. Great article!")
	assert.Contains(t, out, "Closures")

	out, err = h.run("update", "1", "--topic", "React")
	require.NoError(t, err)
	assert.Contains(t, out, "Nice update, foo!")
	assert.Contains(t, out, "React")
	assert.Contains(t, out, "Closures")

	out, err = h.run("list", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "React")

	out, err = h.run("delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Article 1 was deleted, foo!")

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Goodbye!")

	out, err = h.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
}

func TestRun_CreateInvalidLeavesNothing(t *testing.T) {
	h := newCLIHarness(t)
	_, err := h.run("login", "--username", "foo", "--password", "12345678")
	require.NoError(t, err)

	_, err = h.run("create", "--title", "Only a title")
	assert.Error(t, err)

	out, err := h.run("list", "--table")
	require.NoError(t, err)
	assert.NotContains(t, out, "Only a title")
}

func TestRun_UpdateUnknownID(t *testing.T) {
	h := newCLIHarness(t)
	_, err := h.run("login", "--username", "foo", "--password", "12345678")
	require.NoError(t, err)

	_, err = h.run("update", "99", "--title", "x")
	assert.ErrorContains(t, err, "article 99 not found")
}

func TestRun_RejectedTokenAddsLoginHint(t *testing.T) {
	h := newCLIHarness(t)
	t.Setenv(bootstrap.TokenEnv, "not-a-jwt")

	_, err := h.run("list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session cleared")
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newCLIHarness(t)
	_, err := h.run("frobnicate")
	assert.ErrorContains(t, err, "unknown command: frobnicate")
}
