// ABOUTME: Application state store and request handlers for the articles client
// ABOUTME: Implements login, logout and article CRUD with the loading/message lifecycle

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/2389/articles/internal/client"
	"github.com/2389/articles/internal/model"
)

// Fixed status messages.
const (
	LoginErrorMessage = "An error occurred during login."
	LogoutMessage     = "Goodbye!"
)

// API is the subset of client.Client the handlers use.
type API interface {
	Login(ctx context.Context, creds model.Credentials) (*client.LoginResponse, error)
	ListArticles(ctx context.Context) (*client.ArticlesResponse, error)
	CreateArticle(ctx context.Context, in model.ArticleInput) (*client.ArticleResponse, error)
	UpdateArticle(ctx context.Context, id int, in model.ArticleInput) (*client.ArticleResponse, error)
	DeleteArticle(ctx context.Context, id int) (*client.MessageResponse, error)
}

// SessionStore holds the session token.
type SessionStore interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
	Clear() error
}

// State is a snapshot of the application state.
type State struct {
	Message          string
	Loading          bool
	Articles         []model.Article
	CurrentArticleID int // 0 when nothing is selected
}

func (s State) clone() State {
	out := s
	out.Articles = make([]model.Article, len(s.Articles))
	copy(out.Articles, s.Articles)
	return out
}

// App owns the client state.
type App struct {
	api     API
	session SessionStore
	nav     Navigator
	logger  *slog.Logger

	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

// New creates an App. The initial state is empty.
func New(api API, session SessionStore, nav Navigator, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		api:     api,
		session: session,
		nav:     nav,
		logger:  logger.With("component", "app"),
		state:   State{Articles: []model.Article{}},
	}
}

// State returns a copy of the current state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

// Subscribe registers fn to receive a snapshot after every state change.
func (a *App) Subscribe(fn func(State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

// update applies fn under the lock, then notifies subscribers outside it.
func (a *App) update(fn func(s *State)) {
	a.mu.Lock()
	fn(&a.state)
	snapshot := a.state.clone()
	subscribers := make([]func(State), len(a.subscribers))
	copy(subscribers, a.subscribers)
	a.mu.Unlock()

	for _, sub := range subscribers {
		sub(snapshot)
	}
}

func (a *App) begin() {
	a.update(func(s *State) {
		s.Message = ""
		s.Loading = true
	})
}

func (a *App) end() {
	a.update(func(s *State) {
		s.Loading = false
	})
}

// logRequestError logs a failed request. 401s are already handled by the
// unauthorized interceptor so they only warrant a warning.
func (a *App) logRequestError(op string, err error) {
	if client.IsUnauthorized(err) {
		a.logger.Warn(op+" rejected", "error", err)
		return
	}
	a.logger.Error(op+" failed", "error", err)
}

// Login validates creds, posts them, stores the returned token and moves to
// the articles screen. Any failure sets LoginErrorMessage.
func (a *App) Login(ctx context.Context, creds model.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	a.begin()
	defer a.end()

	resp, err := a.api.Login(ctx, creds.Normalize())
	if err == nil && resp.Token == "" {
		err = errors.New("login response missing token")
	}
	if err == nil {
		err = a.session.SetToken(resp.Token)
	}
	if err != nil {
		a.logger.Error("login failed", "username", creds.Normalize().Username, "error", err)
		a.update(func(s *State) {
			s.Message = LoginErrorMessage
		})
		return fmt.Errorf("logging in: %w", err)
	}

	a.logger.Info("logged in", "username", creds.Normalize().Username)
	a.update(func(s *State) {
		s.Message = resp.Message
	})
	a.nav.Navigate(RouteArticles)
	return nil
}

// Logout clears local storage, sets LogoutMessage and moves to the login
// screen. There is no server round-trip; a storage failure is logged and
// returned but the navigation still happens.
func (a *App) Logout() error {
	err := a.session.Clear()
	if err != nil {
		a.logger.Error("clearing session failed", "error", err)
		err = fmt.Errorf("logging out: %w", err)
	}

	a.update(func(s *State) {
		s.Message = LogoutMessage
		s.CurrentArticleID = 0
	})
	a.nav.Navigate(RouteLogin)
	return err
}

// FetchArticles replaces the collection with the server's.
func (a *App) FetchArticles(ctx context.Context) error {
	a.begin()
	defer a.end()

	resp, err := a.api.ListArticles(ctx)
	if err != nil {
		a.logRequestError("fetching articles", err)
		return fmt.Errorf("fetching articles: %w", err)
	}

	a.update(func(s *State) {
		s.Message = resp.Message
		s.Articles = append([]model.Article{}, resp.Articles...)
		if model.FindArticle(s.Articles, s.CurrentArticleID) < 0 {
			s.CurrentArticleID = 0
		}
	})
	return nil
}

// CreateArticle posts in and appends the server's record.
func (a *App) CreateArticle(ctx context.Context, in model.ArticleInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	a.begin()
	defer a.end()

	resp, err := a.api.CreateArticle(ctx, in.Normalize())
	if err != nil {
		a.logRequestError("creating article", err)
		return fmt.Errorf("creating article: %w", err)
	}

	a.update(func(s *State) {
		s.Message = resp.Message
		s.Articles = append(s.Articles, resp.Article)
	})
	return nil
}

// UpdateArticle puts in for article id, replaces the local record with the
// server's, and clears the selection.
func (a *App) UpdateArticle(ctx context.Context, id int, in model.ArticleInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	a.begin()
	defer a.end()

	resp, err := a.api.UpdateArticle(ctx, id, in.Normalize())
	if err != nil {
		a.logRequestError("updating article", err)
		return fmt.Errorf("updating article %d: %w", id, err)
	}

	a.update(func(s *State) {
		s.Message = resp.Message
		if i := model.FindArticle(s.Articles, id); i >= 0 {
			s.Articles[i] = resp.Article
		} else {
			s.Articles = append(s.Articles, resp.Article)
		}
		s.CurrentArticleID = 0
	})
	return nil
}

// DeleteArticle deletes article id and drops it from the collection.
func (a *App) DeleteArticle(ctx context.Context, id int) error {
	a.begin()
	defer a.end()

	resp, err := a.api.DeleteArticle(ctx, id)
	if err != nil {
		a.logRequestError("deleting article", err)
		return fmt.Errorf("deleting article %d: %w", id, err)
	}

	a.update(func(s *State) {
		s.Message = resp.Message
		kept := make([]model.Article, 0, len(s.Articles))
		for _, art := range s.Articles {
			if art.ID != id {
				kept = append(kept, art)
			}
		}
		s.Articles = kept
		if s.CurrentArticleID == id {
			s.CurrentArticleID = 0
		}
	})
	return nil
}

// SelectArticle marks article id for editing. It reports false if the
// article is not in the collection.
func (a *App) SelectArticle(id int) bool {
	found := false
	a.update(func(s *State) {
		if model.FindArticle(s.Articles, id) >= 0 {
			s.CurrentArticleID = id
			found = true
		}
	})
	return found
}

// ClearSelection leaves edit mode.
func (a *App) ClearSelection() {
	a.update(func(s *State) {
		s.CurrentArticleID = 0
	})
}

// CurrentArticle returns the selected article, if any.
func (a *App) CurrentArticle() (model.Article, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.CurrentArticleID == 0 {
		return model.Article{}, false
	}
	i := model.FindArticle(a.state.Articles, a.state.CurrentArticleID)
	if i < 0 {
		return model.Article{}, false
	}
	return a.state.Articles[i], true
}

// UnauthorizedHandler returns the response interceptor for 401s: it clears
// the stored token and routes to the login screen.
func UnauthorizedHandler(session SessionStore, nav Navigator, logger *slog.Logger) client.UnauthorizedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "app")

	return func(req *http.Request) {
		logger.Warn("session rejected, returning to login",
			"method", req.Method,
			"path", req.URL.Path,
		)
		if err := session.ClearToken(); err != nil {
			logger.Error("clearing rejected token failed", "error", err)
		}
		nav.Navigate(RouteLogin)
	}
}
