package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/securecrop-client/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// DefaultRefreshPath is the backend's token refresh endpoint.
const DefaultRefreshPath = "/auth/token/refresh/"

const maxErrorBody = 1 << 20

// Client sends requests to the SecureCrop API with the session's bearer
// token. A 401 on a request that has not been retried triggers one refresh
// and one resend; a failed refresh clears the session and returns an
// AuthError.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	store       sessions.Store
	refreshPath string
	userAgent   string
	coalesce    bool

	refreshLock sync.Mutex
	inflight    *refreshCall
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRefreshCoalescing makes concurrent 401s wait for a single in-flight
// refresh instead of each calling the refresh endpoint.
func WithRefreshCoalescing(enabled bool) Option {
	return func(c *Client) {
		c.coalesce = enabled
	}
}

func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// New creates a client for the API rooted at baseURL
// (e.g. "http://127.0.0.1:8000/api").
func New(baseURL string, store sessions.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		store:       store,
		refreshPath: DefaultRefreshPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the session store the client reads tokens from.
func (c *Client) Store() sessions.Store {
	return c.store
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req. Responses outside 2xx are returned as *HTTPError; transport
// errors are returned as produced by the http.Client. The caller closes the
// body of a returned response.
func (c *Client) Do(ctx context.Context, req *Request) (*http.Response, error) {
	if err := req.prepare(); err != nil {
		return nil, err
	}

	var sentToken string
	if !req.Anonymous {
		sentToken = c.currentAccessToken()
	}

	resp, err := c.send(ctx, req, sentToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || req.Anonymous || req.retried {
		return checkStatus(req, resp)
	}

	unauthorized := toHTTPError(req, resp)

	session, err := c.store.Get()
	if err != nil {
		log.Warn().Err(err).Str("request_id", req.id).Msg("session unreadable, not refreshing")
		return nil, unauthorized
	}
	if !session.HasRefreshToken() {
		return nil, unauthorized
	}

	accessToken, err := c.refresh(ctx, session.RefreshToken, sentToken)
	if err != nil {
		return nil, err
	}

	req.retried = true
	resp, err = c.send(ctx, req, accessToken)
	if err != nil {
		return nil, err
	}
	return checkStatus(req, resp)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (c *Client) currentAccessToken() string {
	session, err := c.store.Get()
	if err != nil {
		log.Warn().Err(err).Msg("session unreadable, sending request without bearer token")
		return ""
	}
	if !session.HasAccessToken() {
		return ""
	}
	return session.AccessToken
}

func (c *Client) send(ctx context.Context, req *Request, accessToken string) (*http.Response, error) {
	httpReq, err := req.build(ctx, c.baseURL, c.userAgent)
	if err != nil {
		return nil, err
	}
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(httpReq)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).
			Str("request_id", req.id).
			Str("method", req.Method).
			Str("path", req.Path).
			Bool("retried", req.retried).
			Msg("request failed")
		return nil, err
	}

	log.Debug().
		Str("request_id", req.id).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Bool("retried", req.retried).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	return resp, nil
}

func checkStatus(req *Request, resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	return nil, toHTTPError(req, resp)
}

// toHTTPError consumes and closes the response body.
func toHTTPError(req *Request, resp *http.Response) *HTTPError {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}
}
