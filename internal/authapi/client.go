// Package authapi is the HTTP client for the remote authentication service.
//
// The client covers the three auth endpoints the app consumes:
//
//	POST /api/auth/register/  {username, email, password, phone, role}
//	POST /api/auth/login/     {email, password}
//	GET  /api/auth/me/        (Authorization: Bearer <token>)
//
// Remote failures come back as a single *Error whose message flattens the
// service's field-keyed validation payloads.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ozodbek-r/neoneats/internal/models"
)

const defaultTimeout = 15 * time.Second

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload is the create-account request payload.
type RegisterPayload struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role"`
}

// LoginResult is a successful login response.
type LoginResult struct {
	User  models.UserRecord `json:"user"`
	Token string            `json:"token"`
}

// RegisterResult is a successful registration response. The service is only
// guaranteed to return a token; User may be nil.
type RegisterResult struct {
	User  *models.UserRecord `json:"user"`
	Token string             `json:"token"`
}

// Client calls the remote auth service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout overrides the per-request timeout. Zero or negative values
// are ignored and the default stands.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the auth service at baseURL
// (e.g. "http://127.0.0.1:8000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := c.post(ctx, "/api/auth/login/", creds, &result, loginFallback); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account. The response may carry a token without a
// user record; callers needing the full session should follow up with Me.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*RegisterResult, error) {
	var result RegisterResult
	if err := c.post(ctx, "/api/auth/register/", payload, &result, registerFallback); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me fetches the profile of the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*models.UserRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var user models.UserRecord
	if err := c.do(req, "/api/auth/me/", &user, loginFallback); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) post(ctx context.Context, path string, payload, result any, fallback string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, result, fallback)
}

func (c *Client) do(req *http.Request, path string, result any, fallback string) error {
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Auth request failed", "path", path, "error", err)
		requests.WithLabelValues(path, "unreachable").Inc()
		return &Error{Message: fallback}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requests.WithLabelValues(path, "error").Inc()
		return &Error{Status: resp.StatusCode, Message: fallback}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Auth request rejected",
			"path", path,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		requests.WithLabelValues(path, "rejected").Inc()
		return &Error{Status: resp.StatusCode, Message: flattenErrorBody(body, fallback)}
	}

	if err := json.Unmarshal(body, result); err != nil {
		c.logger.Warn("Auth response has unexpected shape", "path", path, "error", err)
		requests.WithLabelValues(path, "error").Inc()
		return &Error{Status: resp.StatusCode, Message: fallback}
	}

	requests.WithLabelValues(path, "ok").Inc()
	return nil
}
