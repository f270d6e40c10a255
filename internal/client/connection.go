package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/internal/infra/buildinfo"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for a request. The session vault
// implements it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Connection performs JSON requests against the data service.
type Connection struct {
	baseURL        string
	client         *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	userAgent      string
	logger         *slog.Logger
}

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithTokenSource attaches bearer tokens from src.
func WithTokenSource(src TokenSource) ConnectionOption {
	return func(c *Connection) {
		c.tokens = src
	}
}

// WithUnauthorizedHandler sets the hook called when the service answers 401.
func WithUnauthorizedHandler(fn func(ctx context.Context)) ConnectionOption {
	return func(c *Connection) {
		c.onUnauthorized = fn
	}
}

// WithTLSConfig sets the TLS configuration for https services.
func WithTLSConfig(cfg *tls.Config) ConnectionOption {
	return func(c *Connection) {
		if cfg == nil {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = cfg
		c.client.Transport = transport
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) ConnectionOption {
	return func(c *Connection) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithConnectionLogger sets the logger.
func WithConnectionLogger(l *slog.Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = l
	}
}

// NewConnection creates a connection to server.
func NewConnection(server string, opts ...ConnectionOption) *Connection {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Connection{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: buildinfo.UserAgent(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL of the data service.
func (c *Connection) BaseURL() string {
	return c.baseURL
}

// Get performs a GET and decodes the response into target.
func (c *Connection) Get(ctx context.Context, path string, target any) error {
	return c.Do(ctx, http.MethodGet, path, nil, target)
}

// Post performs a POST with a JSON body and decodes the response into target.
func (c *Connection) Post(ctx context.Context, path string, body, target any) error {
	return c.Do(ctx, http.MethodPost, path, body, target)
}

// Delete performs a DELETE.
func (c *Connection) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request. A 401 answer calls the unauthorized hook and
// returns domain.ErrUnauthenticated.
func (c *Connection) Do(ctx context.Context, method, path string, body, target any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if err := c.addHeaders(ctx, req); err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.logger.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return domain.ErrUnauthenticated
	}
	return ParseResponse(resp, target)
}

type bearerKey struct{}

// WithBearer makes requests made with ctx use token instead of the
// connection's token source.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// addHeaders sets the bearer token and common headers. Requests without a
// stored session go out unauthenticated.
func (c *Connection) addHeaders(ctx context.Context, req *http.Request) error {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if tok, ok := ctx.Value(bearerKey{}).(string); ok && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
		return nil
	}
	if c.tokens == nil {
		return nil
	}
	tok, err := c.tokens.Token(ctx)
	switch {
	case errors.Is(err, domain.ErrVaultEmpty):
		return nil
	case err != nil:
		return err
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return nil
}

// ErrorBody is the error payload of the data service.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponse decodes a JSON response body into target. Error statuses
// carrying an ErrorBody become a DomainError with the service's code.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp ErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return domain.NewDomainError(errResp.Code, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
