// ABOUTME: Shared article and credential types used by the client, views and backend
// ABOUTME: Carries the JSON wire shape and the form validation rules

package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Callers wrap these with the failing field.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidArticle     = errors.New("invalid article")
)

// Minimum trimmed lengths accepted by the login form.
const (
	MinUsernameLength = 3
	MinPasswordLength = 8
)

// Topics lists the article topics the form offers.
var Topics = []string{"JavaScript", "React", "Node"}

// Credentials is the body of POST /api/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize returns the credentials with surrounding whitespace removed.
func (c Credentials) Normalize() Credentials {
	return Credentials{
		Username: strings.TrimSpace(c.Username),
		Password: strings.TrimSpace(c.Password),
	}
}

// Validate checks the trimmed lengths of username and password.
func (c Credentials) Validate() error {
	n := c.Normalize()
	if len(n.Username) < MinUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters", ErrInvalidCredentials, MinUsernameLength)
	}
	if len(n.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidCredentials, MinPasswordLength)
	}
	return nil
}

// Article is a server-owned record. ID is assigned by the server.
type Article struct {
	ID    int    `json:"article_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// Input returns the editable fields of the article.
func (a Article) Input() ArticleInput {
	return ArticleInput{Title: a.Title, Text: a.Text, Topic: a.Topic}
}

// ArticleInput is the body of POST /api/articles and PUT /api/articles/{id}.
type ArticleInput struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// Normalize trims every field.
func (in ArticleInput) Normalize() ArticleInput {
	return ArticleInput{
		Title: strings.TrimSpace(in.Title),
		Text:  strings.TrimSpace(in.Text),
		Topic: strings.TrimSpace(in.Topic),
	}
}

// Validate requires non-blank fields and a known topic.
func (in ArticleInput) Validate() error {
	n := in.Normalize()
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArticle)
	}
	if n.Text == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidArticle)
	}
	if !IsTopic(n.Topic) {
		return fmt.Errorf("%w: topic must be one of %s", ErrInvalidArticle, strings.Join(Topics, ", "))
	}
	return nil
}

// IsTopic reports whether topic is one of Topics.
func IsTopic(topic string) bool {
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// FindArticle returns the index of the article with the given ID, or -1.
func FindArticle(articles []Article, id int) int {
	for i, a := range articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}
