// Package api is a client for the storefront REST backend.
//
// Every response is wrapped in an envelope {status, message, data}. The backend sometimes
// reports failures with HTTP 200 and status "fail", so success is decided by the status
// string, never by the HTTP code alone.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"

	maxBodyBytes = 4 << 20
)

// Error is returned when the backend answers with a non-success envelope or an HTTP error.
type Error struct {
	HTTPStatus int
	Status     string
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s (http %d)", e.Status, e.HTTPStatus)
	}
	return fmt.Sprintf("api: %s (http %d): %s", e.Status, e.HTTPStatus, e.Message)
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, httpStatus int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == httpStatus
}

type envelope struct {
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
	TotalResults int             `json:"totalResults"`
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("baseURL[%s] is not absolute", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: timeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type tokenKey struct{}

// WithBearerToken attaches the caller's token to ctx; requests made with that ctx
// carry it as an Authorization header.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// BearerToken returns the token attached by WithBearerToken, if any.
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

func (c *Client) do(ctx context.Context, r request, out any) (envelope, error) {
	var env envelope

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return env, fmt.Errorf("json.Marshal: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	u := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return env, fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return env, fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return env, fmt.Errorf("io.ReadAll: %w", err)
	}

	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("http_status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return env, &Error{HTTPStatus: resp.StatusCode, Status: StatusError, Message: http.StatusText(resp.StatusCode)}
		}
		return env, fmt.Errorf("decode envelope: %w", err)
	}

	if env.Status != StatusSuccess {
		status := env.Status
		if status == "" {
			status = StatusError
		}
		return env, &Error{HTTPStatus: resp.StatusCode, Status: status, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("decode data: %w", err)
		}
	}

	return env, nil
}
