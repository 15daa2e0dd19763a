// Package apiclient is the single gateway to the laundry REST API. Every request
// carries the session cookies; a request answered with 410 (session expired) is
// replayed once after a successful silent refresh.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/laundrypro/internal/apperr"
	"github.com/example/laundrypro/internal/metrics"
)

const (
	// APIPrefix is prepended to every request path.
	APIPrefix = "/v1"

	// DefaultTimeout is the blanket request deadline.
	DefaultTimeout = 15 * time.Second

	refreshPath     = "/users/refresh-token"
	requestIDHeader = "X-Request-ID"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Cookies   CookieStore
	Metrics   *metrics.Metrics
	Transport http.RoundTripper
}

// Client is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	jar     *PersistentJar
	metrics *metrics.Metrics
}

// New builds a Client for the API served at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("API base URL %q must be absolute", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	jar, err := NewPersistentJar(base, opts.Cookies)
	if err != nil {
		return nil, err
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
		jar:     jar,
		metrics: opts.Metrics,
	}, nil
}

// Request describes one API call. Path is relative to APIPrefix.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   *Form
}

type retriedKey struct{}

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

func retried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey{}).(bool)
	return v
}

// Do performs r and decodes the envelope's data into out (which may be nil).
// On a session-expired answer it refreshes the session and replays r once; if
// the refresh fails its error is returned and r is not replayed.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	err := c.do(ctx, r, out)
	if !apperr.Is(err, apperr.KindSessionExpired) || retried(ctx) {
		return err
	}

	ctx = withRetried(ctx)
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: refreshPath}, nil); err != nil {
		c.metrics.ObserveRefresh(false)
		log.Printf("[Gateway] session refresh failed for %s %s: %v", r.Method, r.Path, err)
		return err
	}
	c.metrics.ObserveRefresh(true)

	return c.Do(ctx, r, out)
}

// Cookie returns the value of the named session cookie, if present.
func (c *Client) Cookie(name string) (string, bool) {
	for _, ck := range c.jar.Cookies(c.endpoint("/")) {
		if ck.Name == name {
			return ck.Value, true
		}
	}
	return "", false
}

// ClearSession drops every session cookie held locally.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.jar.Clear(ctx)
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + APIPrefix + "/" + strings.TrimLeft(path, "/")
	return &u
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	if r.Method == "" {
		return nil, errors.New("request method is required")
	}

	target := c.endpoint(r.Path)
	if len(r.Query) > 0 {
		target.RawQuery = r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.Form != nil:
		payload, ct, err := r.Form.encode()
		if err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
		body, contentType = bytes.NewReader(payload), ct
	case r.Body != nil:
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, r Request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return &apperr.Error{Kind: apperr.KindUnexpected, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(r.Method, 0, time.Since(start))
		log.Printf("[Gateway] %s %s (%s) failed: %v", r.Method, r.Path, req.Header.Get(requestIDHeader), err)
		return apperr.Transport(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	c.metrics.ObserveRequest(r.Method, resp.StatusCode, time.Since(start))
	if err != nil {
		return apperr.Transport(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 500 {
		log.Printf("[Gateway] %s %s (%s) -> %d", r.Method, r.Path, req.Header.Get(requestIDHeader), resp.StatusCode)
	}
	return decode(resp.StatusCode, payload, out)
}

type rawEnvelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(status int, payload []byte, out any) error {
	if status < 200 || status >= 300 {
		return apperr.FromStatus(status, serverMessage(payload))
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	var env rawEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return &apperr.Error{Kind: apperr.KindUnexpected, Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	if env.Success != nil && !*env.Success {
		return &apperr.Error{Kind: apperr.KindDomain, Status: status, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &apperr.Error{Kind: apperr.KindUnexpected, Status: status, Err: fmt.Errorf("decode response data: %w", err)}
	}
	return nil
}

func serverMessage(payload []byte) string {
	var env rawEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ""
	}
	return env.Message
}
