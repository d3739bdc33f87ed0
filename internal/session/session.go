// ABOUTME: Session wrapper over a local key/value storage
// ABOUTME: Reads, stores and clears the bearer token kept under the "token" key

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// TokenKey is the storage key holding the session token.
const TokenKey = "token"

// ErrInvalidKey is returned for keys a backend cannot store.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a local key/value store.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Clear deletes every key.
	Clear() error
}

// Session exposes the token held in a Storage.
type Session struct {
	mu       sync.Mutex
	storage  Storage
	override string
	logger   *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithOverride sets a token that takes precedence over storage until the
// session is written or cleared. Used for tokens supplied by environment.
func WithOverride(token string) Option {
	return func(s *Session) {
		s.override = token
	}
}

// WithLogger sets the logger used for storage read failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates a Session backed by storage.
func New(storage Storage, opts ...Option) *Session {
	s := &Session{
		storage: storage,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	return s
}

// Token returns the current token, or "" when unauthenticated.
// Storage errors are logged and treated as absence.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.override != "" {
		return s.override
	}

	token, ok, err := s.storage.Get(TokenKey)
	if err != nil {
		s.logger.Error("reading session token", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores token, replacing any override.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return errors.New("empty session token")
	}
	if err := s.storage.Set(TokenKey, token); err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}
	s.override = ""
	return nil
}

// ClearToken removes only the token.
func (s *Session) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.override = ""
	if err := s.storage.Remove(TokenKey); err != nil {
		return fmt.Errorf("removing session token: %w", err)
	}
	return nil
}

// Clear removes every key from storage.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.override = ""
	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("clearing local storage: %w", err)
	}
	return nil
}
