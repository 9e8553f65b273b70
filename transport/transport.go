package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultPrefix is the reverse-proxy path prefix used in development, where
// no external origin is configured.
const DefaultPrefix = "/api"

const defaultTimeout = 30 * time.Second

// TokenSource is the single read accessor for the persisted bearer
// credential. Every outgoing request reads through it.
type TokenSource interface {
	Token() (string, bool)
}

type Config struct {
	// BaseURL is the externally configured origin. When unset, requests
	// fall back to the relative prefix (the development reverse-proxy).
	BaseURL string
	Prefix  string
	Timeout time.Duration

	// OnUnauthorized is invoked when the server signals an invalid token.
	// The owner of the credential store hooks its Clear here.
	OnUnauthorized func()
}

// Client is the configured request pipeline: base URL resolution, the
// interceptor chain, status validation and response normalization. All
// requests pass through it; callers never see a raw *http.Response error.
type Client struct {
	http           *http.Client
	baseURL        string
	onUnauthorized func()
	log            *slog.Logger
}

func New(cfg Config, tokens TokenSource, log *slog.Logger) *Client {
	var rt http.RoundTripper = http.DefaultTransport
	rt = &requestIDRoundTripper{base: rt}
	if tokens != nil {
		rt = &bearerRoundTripper{base: rt, tokens: tokens}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:           &http.Client{Transport: rt, Timeout: timeout},
		baseURL:        ResolveBaseURL(cfg.BaseURL, cfg.Prefix),
		onUnauthorized: cfg.OnUnauthorized,
		log:            log,
	}
}

// ResolveBaseURL combines the configured origin with the API prefix,
// falling back to the bare relative prefix when no origin is set.
func ResolveBaseURL(origin, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if origin == "" {
		return prefix
	}
	return strings.TrimRight(origin, "/") + prefix
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Do sends one request through the full pipeline. Only 200-299 is success;
// any other status, and any failure to obtain a response at all, comes back
// as an *ErrorEnvelope.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request did not reach the server", "method", method, "path", path, "err", err)
		return nil, newConnectionFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newConnectionFailure(err)
	}
	normalized := NormalizeBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		env := newEnvelope(resp.StatusCode, normalized)
		c.log.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode, "message", env.Message)
		return nil, env
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: normalized}, nil
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, "")
}

// PostJSON serializes a plain structured payload and posts it. Binary or
// multipart bodies go through Do directly with their own content type.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	body, contentType, err := EncodeBody(payload, "")
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPost, path, body, contentType)
}

// NormalizeBody applies the success-path response normalization: a body that
// is a JSON-encoded string gets one unwrapping pass when the inner text is
// itself valid JSON. Anything else passes through unchanged; this stage
// never fails.
func NormalizeBody(raw []byte) []byte {
	trimmed := strings.TrimSpace(string(raw))
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return raw
	}
	var inner string
	if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
		return raw
	}
	if json.Valid([]byte(inner)) {
		return []byte(inner)
	}
	return raw
}
