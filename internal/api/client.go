// Package api is the thin HTTP client for the catalog REST API: request
// construction, credential attachment and error decoding only.
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

// TokenSource supplies the current bearer credential. It is configured by
// the session store; an empty return means no Authorization header is sent.
type TokenSource func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the credential interceptor for all subsequent
// requests. Passing nil detaches the credential.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.token = ts
}

// APIError is a non-2xx response decoded from the server's message body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// IsConflict reports whether err is a 409 whose server message contains
// substr (case-sensitive, as the messages are fixed Spanish strings).
func IsConflict(err error, substr string) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusConflict &&
		strings.Contains(apiErr.Message, substr)
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the server-provided error message when err carries one,
// else the fallback.
func Message(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.log.Debug().Str("method", method).Str("url", endpoint).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: decodeMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeMessage pulls the server's {"message": ...} out of an error body.
func decodeMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(data))
}
