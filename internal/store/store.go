// ABOUTME: Store interfaces and data types for articles persistence
// ABOUTME: Defines User, the UserStore and ArticleStore interfaces, and sentinel errors

package store

import (
	"context"
	"errors"
	"time"

	"github.com/2389/articles/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when trying to create a user with an existing username.
var ErrUsernameExists = errors.New("username already exists")

// User is an account allowed to log in.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CountUsers(ctx context.Context) (int, error)
}

// ArticleStore persists the article collection. Articles are returned in
// creation order.
type ArticleStore interface {
	ListArticles(ctx context.Context) ([]model.Article, error)
	GetArticle(ctx context.Context, id int) (*model.Article, error)
	CreateArticle(ctx context.Context, in model.ArticleInput) (*model.Article, error)
	UpdateArticle(ctx context.Context, id int, in model.ArticleInput) (*model.Article, error)
	DeleteArticle(ctx context.Context, id int) error
	CountArticles(ctx context.Context) (int, error)
}

// Ensure SQLiteStore implements both interfaces.
var (
	_ UserStore    = (*SQLiteStore)(nil)
	_ ArticleStore = (*SQLiteStore)(nil)
)
