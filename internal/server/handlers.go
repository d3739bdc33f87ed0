// ABOUTME: Request handlers for login and article CRUD
// ABOUTME: Decodes JSON bodies, sanitizes input and writes {message, ...} responses

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/2389/articles/internal/auth"
	"github.com/2389/articles/internal/model"
	"github.com/2389/articles/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var strictPolicy = bluemonday.StrictPolicy()

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type articlesResponse struct {
	Message  string          `json:"message"`
	Articles []model.Article `json:"articles"`
}

type articleResponse struct {
	Message string        `json:"message"`
	Article model.Article `json:"article"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// maxSanitizePasses bounds the unescape/strip loop for nested entities.
const maxSanitizePasses = 4

// sanitize strips markup and returns plain text. Entity-encoded markup is
// decoded and stripped again until the text is stable, so nothing that
// decodes into a tag is stored.
func sanitize(s string) string {
	for range maxSanitizePasses {
		clean := strictPolicy.Sanitize(s)
		plain := html.UnescapeString(clean)
		if plain == s {
			return plain
		}
		s = plain
	}
	// Still changing: keep the escaped form.
	return strictPolicy.Sanitize(s)
}

func sanitizeArticle(in model.ArticleInput) model.ArticleInput {
	return model.ArticleInput{
		Title: sanitize(in.Title),
		Text:  sanitize(in.Text),
		Topic: sanitize(in.Topic),
	}.Normalize()
}

func parseArticleID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "article_id"))
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "invalid article id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}
	creds = creds.Normalize()
	if err := creds.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := s.authenticate(r, creds)
	if err != nil {
		s.logger.Error("login failed", "username", creds.Username, "error", err)
		writeMessage(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !ok {
		s.logger.Info("invalid login", "username", creds.Username, "ip", clientIP(r))
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.verifier.Generate(creds.Username, s.cfg.Auth.TokenTTL)
	if err != nil {
		s.logger.Error("generating token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: fmt.Sprintf("Welcome back, %s!", creds.Username),
		Token:   token,
	})
}

// authenticate checks creds, registering the user first when allowed.
func (s *Server) authenticate(r *http.Request, creds model.Credentials) (bool, error) {
	ctx := r.Context()

	user, err := s.store.GetUserByUsername(ctx, creds.Username)
	if errors.Is(err, store.ErrNotFound) {
		if !s.cfg.Auth.AutoRegister {
			_ = auth.CheckPassword("", creds.Password)
			return false, nil
		}
		return s.register(r, creds)
	}
	if err != nil {
		return false, err
	}

	return auth.CheckPassword(user.PasswordHash, creds.Password) == nil, nil
}

func (s *Server) register(r *http.Request, creds model.Credentials) (bool, error) {
	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return false, err
	}

	err = s.store.CreateUser(r.Context(), &store.User{Username: creds.Username, PasswordHash: hash})
	if errors.Is(err, store.ErrUsernameExists) {
		// Lost a race with a concurrent first login; check against the winner.
		user, err := s.store.GetUserByUsername(r.Context(), creds.Username)
		if err != nil {
			return false, err
		}
		return auth.CheckPassword(user.PasswordHash, creds.Password) == nil, nil
	}
	if err != nil {
		return false, err
	}

	s.logger.Info("registered user", "username", creds.Username)
	return true, nil
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	who := auth.MustFromContext(r.Context())

	articles, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.logger.Error("listing articles", "error", err)
		writeMessage(w, http.StatusInternalServerError, "could not list articles")
		return
	}

	writeJSON(w, http.StatusOK, articlesResponse{
		Message:  fmt.Sprintf("Here are your articles, %s!", who.Username),
		Articles: articles,
	})
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	who := auth.MustFromContext(r.Context())

	var in model.ArticleInput
	if !decodeBody(w, r, &in) {
		return
	}
	in = sanitizeArticle(in)
	if err := in.Validate(); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	article, err := s.store.CreateArticle(r.Context(), in)
	if err != nil {
		s.logger.Error("creating article", "error", err)
		writeMessage(w, http.StatusInternalServerError, "could not create article")
		return
	}

	s.logger.Info("article created", "article_id", article.ID, "username", who.Username)
	writeJSON(w, http.StatusCreated, articleResponse{
		Message: fmt.Sprintf("Well done, %s. Great article!", who.Username),
		Article: *article,
	})
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	who := auth.MustFromContext(r.Context())

	articleID, ok := parseArticleID(w, r)
	if !ok {
		return
	}

	var in model.ArticleInput
	if !decodeBody(w, r, &in) {
		return
	}
	in = sanitizeArticle(in)
	if err := in.Validate(); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	article, err := s.store.UpdateArticle(r.Context(), articleID, in)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Article %d not found", articleID))
		return
	}
	if err != nil {
		s.logger.Error("updating article", "article_id", articleID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "could not update article")
		return
	}

	writeJSON(w, http.StatusOK, articleResponse{
		Message: fmt.Sprintf("Nice update, %s!", who.Username),
		Article: *article,
	})
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	who := auth.MustFromContext(r.Context())

	articleID, ok := parseArticleID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteArticle(r.Context(), articleID)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Article %d not found", articleID))
		return
	}
	if err != nil {
		s.logger.Error("deleting article", "article_id", articleID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "could not delete article")
		return
	}

	s.logger.Info("article deleted", "article_id", articleID, "username", who.Username)
	writeMessage(w, http.StatusOK, fmt.Sprintf("Article %d was deleted, %s!", articleID, who.Username))
}
