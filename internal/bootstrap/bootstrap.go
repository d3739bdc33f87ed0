// ABOUTME: Wires configuration, session storage, API client and app state for the front-ends
// ABOUTME: Shared by the one-shot CLI and the interactive REPL

package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/2389/articles/internal/app"
	"github.com/2389/articles/internal/client"
	"github.com/2389/articles/internal/config"
	"github.com/2389/articles/internal/logging"
	"github.com/2389/articles/internal/session"
	"github.com/2389/articles/internal/store"
)

// TokenEnv supplies a session token that overrides stored tokens.
const TokenEnv = "ARTICLES_TOKEN"

// Env holds the wired client components.
type Env struct {
	Config  *config.ClientConfig
	Logger  *slog.Logger
	Session *session.Session
	Router  *app.Router
	Client  *client.Client
	App     *app.App

	closers []func() error
}

// Load reads the client config at path and wires an Env. Logs go to logOut.
func Load(path string, logOut io.Writer) (*Env, error) {
	cfg, err := config.LoadClient(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logOut)
	return New(cfg, logger)
}

// New wires an Env from cfg. The router starts on the articles screen
// when a token is already present.
func New(cfg *config.ClientConfig, logger *slog.Logger) (*Env, error) {
	env := &Env{Config: cfg, Logger: logger}

	storage, closeStorage, err := OpenStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if closeStorage != nil {
		env.closers = append(env.closers, closeStorage)
	}

	opts := []session.Option{session.WithLogger(logger)}
	if token := os.Getenv(TokenEnv); token != "" {
		opts = append(opts, session.WithOverride(token))
	}
	env.Session = session.New(storage, opts...)

	start := app.RouteLogin
	if env.Session.Authenticated() {
		start = app.RouteArticles
	}
	env.Router = app.NewRouter(start)

	env.Client, err = client.New(cfg.API.BaseURL, env.Session,
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(logger),
		client.WithUnauthorizedHandler(app.UnauthorizedHandler(env.Session, env.Router, logger)),
	)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("creating client: %w", err)
	}

	env.App = app.New(env.Client, env.Session, env.Router, logger)
	return env, nil
}

// OpenStorage opens the configured session storage. The returned close
// function is nil for backends without resources.
func OpenStorage(cfg config.StorageConfig) (session.Storage, func() error, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return session.NewMemoryStorage(), nil, nil
	case config.StorageSQLite:
		ls, err := store.NewLocalStorage(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return ls, ls.Close, nil
	case config.StorageFile, "":
		dir := cfg.Path
		if dir == "" {
			dir = session.DefaultStorageDir()
		}
		fs, err := session.NewFileStorage(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file storage: %w", err)
		}
		return fs, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Close releases storage resources.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	e.closers = nil
	return errors.Join(errs...)
}
