package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// API defines the backend operations the book site consumes.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	ListBooks(ctx context.Context) ([]Book, error)
	CurrentUser(ctx context.Context) (User, error)
	Login(ctx context.Context, creds Credentials) (User, error)
	Logout(ctx context.Context) error
	CreateBook(ctx context.Context, book NewBook) (Book, error)
	UpdateBook(ctx context.Context, id string, update BookUpdate) (Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the book backend over HTTP. The session cookie set by
// /login is kept in the client's cookie jar and sent on every request.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    zerolog.Logger
}

const (
	defaultBackendURL     = "http://127.0.0.1:3611"
	defaultUserAgent      = "booksite/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// NewClient builds a Client for the backend at baseURL. A zero timeout uses
// the default.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		userAgent: defaultUserAgent,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListBooks retrieves every book. No session is required.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var payload []Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CurrentUser retrieves the user bound to the session cookie.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var payload User
	if err := c.do(ctx, http.MethodGet, "/get-current-user", nil, &payload); err != nil {
		return User{}, err
	}
	return payload, nil
}

// Login posts credentials; on success the backend sets the session cookie.
func (c *Client) Login(ctx context.Context, creds Credentials) (User, error) {
	var payload User
	if err := c.do(ctx, http.MethodPost, "/login", creds, &payload); err != nil {
		return User{}, err
	}
	return payload, nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/logout", nil, nil)
}

// CreateBook posts a new book record.
func (c *Client) CreateBook(ctx context.Context, book NewBook) (Book, error) {
	var payload Book
	if err := c.do(ctx, http.MethodPost, "/book", book, &payload); err != nil {
		return Book{}, err
	}
	return payload, nil
}

// UpdateBook replaces the editable fields of the book with the given id.
func (c *Client) UpdateBook(ctx context.Context, id string, update BookUpdate) (Book, error) {
	if strings.TrimSpace(id) == "" {
		return Book{}, ErrBookIDRequired
	}
	var payload Book
	if err := c.do(ctx, http.MethodPut, bookPath(id), update, &payload); err != nil {
		return Book{}, err
	}
	return payload, nil
}

// DeleteBook removes the book with the given id.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrBookIDRequired
	}
	return c.do(ctx, http.MethodDelete, bookPath(id), nil, nil)
}

func bookPath(id string) string {
	return "/book/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	// path is already escaped; JoinPath keeps any prefix on the base URL.
	reqURL := c.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBackendURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse backend url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse backend url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
