package client

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

	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/dmitrijs2005/recetario/internal/logging"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single request unless WithTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for requests that do not carry one.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Request describes one call. Path is relative to the base URL.
type Request struct {
	Method         string
	Path           string
	Query          url.Values
	Body           any
	Token          string
	DefaultMessage string
}

// HTTPClient is the REST wrapper every screen goes through.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger

	timeout    time.Duration
	hasTimeout bool
}

type Option func(*HTTPClient)

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

// WithTimeout sets the per-request timeout; zero disables it. It applies
// to a client given with WithHTTPClient too, without modifying it.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.timeout = d
		c.hasTimeout = true
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}

	switch {
	case c.http == nil:
		c.http = &http.Client{Timeout: DefaultTimeout}
		if c.hasTimeout {
			c.http.Timeout = c.timeout
		}
	case c.hasTimeout:
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

func (c *HTTPClient) bearer(r Request) string {
	if r.Token != "" {
		return r.Token
	}
	if c.tokens != nil {
		return c.tokens.Token()
	}
	return ""
}

// Do sends r and returns the parsed body of a 2xx answer. Transport failures
// wrap ErrUnavailable, non-2xx answers are *RequestError. No retries.
func (c *HTTPClient) Do(ctx context.Context, r Request) (Payload, error) {
	u := c.baseURL.JoinPath(r.Path)
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return Payload{}, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return Payload{}, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(r); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Payload{}, ctx.Err()
		}
		c.log.Warn(ctx, "request failed", "method", method, "path", r.Path, "request_id", requestID, "error", err)
		return Payload{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return Payload{}, ctx.Err()
		}
		return Payload{}, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request",
		"method", method,
		"path", r.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	p := newPayload(raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, newRequestError(resp.StatusCode, p, r.DefaultMessage)
	}
	return p, nil
}

// call is Do followed by decoding into out when out is non-nil.
func (c *HTTPClient) call(ctx context.Context, r Request, out any) error {
	p, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := p.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", r.Path, err)
	}
	return nil
}
