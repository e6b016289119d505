// Package api is the HTTP wrapper around the MemoryLane backend. It owns
// the two global policies of the client: bearer-token injection on every
// outgoing request, and forced sign-out when a response reports an expired
// session. Everything else passes through for the calling view to handle.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memorylane/memorylane/internal/logging"
)

// TokenStore is the slice of the session store the wrapper needs: a token to
// attach and a way to wipe the session when the backend says it is dead.
type TokenStore interface {
	Token() string
	Clear() error
}

type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenStore
	log       logging.Logger
	onExpired func()
}

func New(baseURL string, timeout time.Duration, tokens TokenStore, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// OnSessionExpired registers the forced-redirect hook. It runs exactly once
// per failing response, after the session store is cleared and before the
// caller's own error handling sees anything.
func (c *Client) OnSessionExpired(fn func()) { c.onExpired = fn }

// errorBody is the backend's error envelope. The message may live under
// either field name.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// Request id ties a log line to a backend trace.
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	c.log.Debug(ctx, "api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, c.failure(ctx, resp.StatusCode, data)
}

// failure turns a non-2xx response into an error. Expiry interception
// happens here, once, before the caller's error handling runs.
func (c *Client) failure(ctx context.Context, status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	for _, msg := range []string{eb.Message, eb.Error} {
		if msg != "" && strings.Contains(strings.ToLower(msg), "expired") {
			c.log.Warn(ctx, "session expired, clearing local state", "status", status)
			if err := c.tokens.Clear(); err != nil {
				c.log.Error(ctx, "clearing session failed", "err", err)
			}
			if c.onExpired != nil {
				c.onExpired()
			}
			return ErrSessionExpired
		}
	}

	message := eb.Message
	if message == "" {
		message = eb.Error
	}
	return &Error{Status: status, Message: message}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, "", nil)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPost, path, payload)
}

func (c *Client) putJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPut, path, payload)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, nil, "application/json", bytes.NewReader(body))
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, "", nil)
	return err
}

// FetchMedia downloads a media asset (album cover, memory image) with the
// same auth policy as API calls. Relative URLs are resolved against the API
// origin. Returns the bytes and the reported content type.
func (c *Client) FetchMedia(ctx context.Context, rawURL string) ([]byte, string, error) {
	target := rawURL
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		base, err := url.Parse(c.baseURL)
		if err != nil {
			return nil, "", fmt.Errorf("parse base url: %w", err)
		}
		ref, err := url.Parse(rawURL)
		if err != nil {
			return nil, "", fmt.Errorf("parse media url: %w", err)
		}
		target = base.ResolveReference(ref).String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build media request: %w", err)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &Error{Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}
