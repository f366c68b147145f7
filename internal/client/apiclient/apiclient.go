// Package apiclient is the HTTP transport shared by the resource services.
//
// Every call is JSON under BasePath. Non-2xx answers and network failures
// surface as *HTTPError after being logged; nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/alanyang/llm-roles/internal/domain/envelope"
)

const (
	BasePath = "/api"
	// DefaultMessage is used when a failure carries no readable message.
	DefaultMessage = "An unexpected error occurred"
)

// HTTPError is a transport-level failure. StatusCode is zero when no response arrived.
type HTTPError struct {
	StatusCode int
	Message    string
	// FromBody reports whether Message was read from the response body.
	FromBody bool
	Err      error
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api error: %s", e.Message)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// MessageOf returns the server supplied message of a transport failure, or fallback.
func MessageOf(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.FromBody {
		return httpErr.Message
	}
	return fallback
}

type Option func(*Client)

// WithHTTPClient replaces the default client. No timeout is set by default;
// callers bound requests through their context.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger

	mu    sync.RWMutex
	token string
}

// New builds a client for the server at baseURL (scheme and host, BasePath is appended).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + BasePath,
		http:    &http.Client{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCredential makes every later request carry "Authorization: Bearer <token>".
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearCredential() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Response is a successful (2xx) raw answer.
type Response struct {
	StatusCode int
	Body       []byte
}

// Request performs one call. body, when non-nil, is sent as JSON.
func (c *Client) Request(ctx context.Context, method, path string, body any, query url.Values) (*Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(method, path, &HTTPError{Message: DefaultMessage, Err: err})
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.fail(method, path, &HTTPError{StatusCode: res.StatusCode, Message: DefaultMessage, Err: err})
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: res.StatusCode, Message: DefaultMessage}
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			httpErr.Message = body.Message
			httpErr.FromBody = true
		}
		return nil, c.fail(method, path, httpErr)
	}
	return &Response{StatusCode: res.StatusCode, Body: data}, nil
}

func (c *Client) fail(method, path string, err *HTTPError) error {
	c.log.Error("api error",
		"method", method,
		"path", path,
		"status", err.StatusCode,
		"message", err.Message,
		"error", err.Err,
	)
	return err
}

// Call performs a request and decodes the envelope. A non-success envelope is
// returned as a value; only transport failures are errors.
func Call[T any](ctx context.Context, c *Client, method, path string, body any, query url.Values) (envelope.Envelope[T], error) {
	res, err := c.Request(ctx, method, path, body, query)
	if err != nil {
		return envelope.Envelope[T]{}, err
	}

	var env envelope.Envelope[T]
	if err := json.Unmarshal(res.Body, &env); err != nil {
		return envelope.Envelope[T]{}, c.fail(method, path, &HTTPError{
			StatusCode: res.StatusCode,
			Message:    DefaultMessage,
			Err:        fmt.Errorf("decoding envelope: %w", err),
		})
	}
	return env, nil
}
