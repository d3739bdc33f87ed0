// ABOUTME: Article persistence for the articles backend
// ABOUTME: CRUD over the shared collection plus first-run seeding

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/2389/articles/internal/model"
)

// ListArticles returns every article in creation order.
func (s *SQLiteStore) ListArticles(ctx context.Context) ([]model.Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, text, topic FROM articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Text, &a.Topic); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}

	return articles, nil
}

// GetArticle retrieves an article by ID.
func (s *SQLiteStore) GetArticle(ctx context.Context, id int) (*model.Article, error) {
	var a model.Article
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, text, topic FROM articles WHERE id = ?`, id,
	).Scan(&a.ID, &a.Title, &a.Text, &a.Topic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying article: %w", err)
	}
	return &a, nil
}

// CreateArticle inserts an article and returns it with its assigned ID.
func (s *SQLiteStore) CreateArticle(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (title, text, topic, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, in.Title, in.Text, in.Topic, now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading article id: %w", err)
	}

	s.logger.Debug("created article", "id", id, "topic", in.Topic)
	return &model.Article{ID: int(id), Title: in.Title, Text: in.Text, Topic: in.Topic}, nil
}

// UpdateArticle replaces the fields of article id.
func (s *SQLiteStore) UpdateArticle(ctx context.Context, id int, in model.ArticleInput) (*model.Article, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles SET title = ?, text = ?, topic = ?, updated_at = ?
		WHERE id = ?
	`, in.Title, in.Text, in.Topic, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return nil, fmt.Errorf("updating article: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return &model.Article{ID: id, Title: in.Title, Text: in.Text, Topic: in.Topic}, nil
}

// DeleteArticle removes article id.
func (s *SQLiteStore) DeleteArticle(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountArticles returns the number of articles.
func (s *SQLiteStore) CountArticles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

// SeedArticles are inserted into an empty database.
var SeedArticles = []model.ArticleInput{
	{Title: "Closures", Text: "Closures allow functions to retain access to their lexical scope.", Topic: "JavaScript"},
	{Title: "Hooks", Text: "Hooks let function components keep state with `useState`.", Topic: "React"},
	{Title: "Streams", Text: "Streams process data piece by piece instead of all at once.", Topic: "Node"},
	{Title: "Promises", Text: "A promise represents a value that may be available *later*.", Topic: "JavaScript"},
	{Title: "Context", Text: "Context passes data through the tree without prop drilling.", Topic: "React"},
	{Title: "Event Loop", Text: "Node runs callbacks from a single-threaded event loop.", Topic: "Node"},
}

// Seed inserts articles when the collection is empty. It reports how many
// were inserted.
func (s *SQLiteStore) Seed(ctx context.Context, articles []model.ArticleInput) (int, error) {
	count, err := s.CountArticles(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, in := range articles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO articles (title, text, topic, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, in.Title, in.Text, in.Topic, now, now); err != nil {
			return 0, fmt.Errorf("inserting seed article: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}

	s.logger.Info("seeded articles", "count", len(articles))
	return len(articles), nil
}
