package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/articles/internal/app"
	"github.com/2389/articles/internal/bootstrap"
	"github.com/2389/articles/internal/config"
	"github.com/2389/articles/internal/logging"
	"github.com/2389/articles/internal/server"
	"github.com/2389/articles/internal/views"
)

func newTestEnv(t *testing.T) *bootstrap.Env {
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

	env, err := bootstrap.New(&config.ClientConfig{
		API:     config.APIConfig{BaseURL: ts.URL, Timeout: 5 * time.Second},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}, logging.Setup("error", "text", &bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })
	return env
}

func runScript(t *testing.T, env *bootstrap.Env, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(env, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, views.Plain())
	require.NoError(t, r.run(context.Background()))
	return out.String()
}

func TestREPL_FullSession(t *testing.T) {
	env := newTestEnv(t)

	out := runScript(t, env,
		"/articles",
		"/login foo",
		"12345678",
		"/new",
		"Hello",
		"World",
		"React",
		"/edit 1",
		"",
		"",
		"Node",
		"/delete 1",
		"/logout",
		"/quit",
	)

	assert.Contains(t, out, "Log in with /login <username>.")
	assert.Contains(t, out, "Welcome back, foo!")
	assert.Less(t, strings.Index(out, "Welcome back, foo!"), strings.Index(out, "Here are your articles, foo!"))
	assert.Contains(t, out, "Well done, foo. Great article!")
	assert.Contains(t, out, "Edit Article #1")
	assert.Contains(t, out, "Nice update, foo!")
	assert.Contains(t, out, "Article 1 was deleted, foo!")
	assert.Contains(t, out, "Goodbye!")
	assert.Contains(t, out, views.SpinnerText)

	assert.Empty(t, env.Session.Token())
	assert.Equal(t, app.RouteLogin, env.Router.Current())
}

func TestREPL_CancelForm(t *testing.T) {
	env := newTestEnv(t)

	out := runScript(t, env,
		"/login foo",
		"12345678",
		"/new",
		"Draft",
		"/cancel",
	)

	assert.Contains(t, out, "Canceled.")
	assert.Empty(t, env.App.State().Articles)
}

func TestREPL_RejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)

	out := runScript(t, env, "/login foo", "short")

	assert.Contains(t, out, "[error]")
	assert.Empty(t, env.Session.Token())
	assert.Equal(t, app.RouteLogin, env.Router.Current())
}

func TestREPL_UnknownCommand(t *testing.T) {
	env := newTestEnv(t)

	out := runScript(t, env, "/frobnicate")
	assert.Contains(t, out, `unknown command "/frobnicate"`)
}

func TestREPL_PasswordFromSecretSource(t *testing.T) {
	env := newTestEnv(t)

	var out bytes.Buffer
	r := newREPL(env, strings.NewReader("/login foo\n/quit\n"), &out, views.Plain())
	r.secret = func() (string, error) { return "12345678", nil }
	require.NoError(t, r.run(context.Background()))

	assert.Contains(t, out.String(), "Welcome back, foo!")
	assert.NotEmpty(t, env.Session.Token())
}

func TestLineReader_OnlyReadsOnRequest(t *testing.T) {
	lr := newLineReader(strings.NewReader("one\ntwo\n"))
	ctx := context.Background()

	line, err := lr.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	line, err = lr.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = lr.next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = lr.next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_CanceledReadStaysPending(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	lr := newLineReader(pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lr.next(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	go pw.Write([]byte("late\n"))
	line, err := lr.next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", line)
}

func TestParseID(t *testing.T) {
	id, err := parseID("7", "usage")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	for _, bad := range []string{"", "x", "0", "-1"} {
		_, err := parseID(bad, "usage")
		assert.Error(t, err, bad)
	}
}
