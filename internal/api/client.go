// ABOUTME: JSON/HTTP client for the HMDL management API
// ABOUTME: Owns the base URL, session cookie, and transport error capture

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// sessionCookie is the cookie the server issues on login/register finish.
const sessionCookie = "hmdl_session"

// maxErrorBody bounds how much of an error response is kept for diagnosis.
const maxErrorBody = 4096

// StatusError is a non-2xx response from the server. The body is retained so
// failures can be diagnosed; the console logs it and shows the user only a
// generic message.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// Client talks to one HMDL server. Safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	session string
	logger  *slog.Logger
}

// New creates a client for the server at base, e.g. "https://hmdl.example.com".
func New(base string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("server url %q must include scheme and host", base)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Client{
		baseURL: parsed,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		logger: slog.Default().With("component", "api"),
	}, nil
}

// Origin returns the web origin of the server (scheme://host).
func (c *Client) Origin() string {
	return c.baseURL.Scheme + "://" + c.baseURL.Host
}

// SetSession attaches a previously saved session token to future requests.
func (c *Client) SetSession(token string) {
	c.session = token
}

// SessionToken returns the session token the server issued during this
// process, or the one set via SetSession. Empty when unauthenticated.
func (c *Client) SessionToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == sessionCookie {
			return cookie.Value
		}
	}
	return c.session
}

// get issues a GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, out any, segments ...string) error {
	return c.do(ctx, http.MethodGet, segments, nil, out)
}

// post issues a POST with a JSON body, decoding any response into out.
func (c *Client) post(ctx context.Context, body, out any, segments ...string) error {
	return c.do(ctx, http.MethodPost, segments, body, out)
}

// put issues a PUT with a JSON body.
func (c *Client) put(ctx context.Context, body any, segments ...string) error {
	return c.do(ctx, http.MethodPut, segments, body, nil)
}

// delete issues a DELETE.
func (c *Client) delete(ctx context.Context, segments ...string) error {
	return c.do(ctx, http.MethodDelete, segments, nil, nil)
}

func (c *Client) do(ctx context.Context, method string, segments []string, body, out any) error {
	target := c.baseURL.JoinPath(segments...)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		c.logger.Debug("request failed",
			"method", method,
			"path", target.Path,
			"status", resp.StatusCode,
			"body", serr.Body,
		)
		return serr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
