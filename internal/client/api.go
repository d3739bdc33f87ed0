// ABOUTME: HTTP client for the articles REST API
// ABOUTME: Login goes out unauthenticated; article calls go through the bearer transport

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2389/articles/internal/model"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:9000"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

const (
	loginPath    = "/api/login"
	articlesPath = "/api/articles"
)

// LoginResponse is the body returned by POST /api/login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ArticlesResponse is the body returned by GET /api/articles.
type ArticlesResponse struct {
	Message  string          `json:"message"`
	Articles []model.Article `json:"articles"`
}

// ArticleResponse is the body returned by POST and PUT on articles.
type ArticleResponse struct {
	Message string        `json:"message"`
	Article model.Article `json:"article"`
}

// MessageResponse is the body returned by DELETE /api/articles/{id}.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenSource supplies the bearer token for each authenticated request.
type TokenSource interface {
	Token() string
}

// Client talks to the articles backend.
type Client struct {
	baseURL      string
	anon         *http.Client
	authed       *http.Client
	base         http.RoundTripper
	timeout      time.Duration
	unauthorized UnauthorizedHandler
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the underlying transport. Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUnauthorizedHandler installs h as the response interceptor for 401s on
// authenticated calls.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) {
		c.unauthorized = h
	}
}

// New creates a Client for the backend at baseURL. tokens is consulted on
// every authenticated request.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must use http or https scheme, got %q", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		base:    http.DefaultTransport,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "client")

	c.anon = &http.Client{
		Timeout:   c.timeout,
		Transport: &bearerTransport{next: c.base},
	}

	var authed http.RoundTripper = &bearerTransport{next: c.base, tokens: tokens}
	if c.unauthorized != nil {
		authed = &unauthorizedInterceptor{next: authed, handler: c.unauthorized}
	}
	c.authed = &http.Client{
		Timeout:   c.timeout,
		Transport: authed,
	}

	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts credentials to /api/login.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, c.anon, http.MethodPost, loginPath, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListArticles fetches the full collection.
func (c *Client) ListArticles(ctx context.Context) (*ArticlesResponse, error) {
	var resp ArticlesResponse
	if err := c.do(ctx, c.authed, http.MethodGet, articlesPath, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Articles == nil {
		resp.Articles = []model.Article{}
	}
	return &resp, nil
}

// CreateArticle posts a new article.
func (c *Client) CreateArticle(ctx context.Context, in model.ArticleInput) (*ArticleResponse, error) {
	var resp ArticleResponse
	if err := c.do(ctx, c.authed, http.MethodPost, articlesPath, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateArticle replaces the fields of article id.
func (c *Client) UpdateArticle(ctx context.Context, id int, in model.ArticleInput) (*ArticleResponse, error) {
	var resp ArticleResponse
	if err := c.do(ctx, c.authed, http.MethodPut, articlePath(id), in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteArticle deletes article id.
func (c *Client) DeleteArticle(ctx context.Context, id int) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, c.authed, http.MethodDelete, articlePath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks GET /health on the backend.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, c.anon, http.MethodGet, "/health", nil, nil)
}

func articlePath(id int) string {
	return articlesPath + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
