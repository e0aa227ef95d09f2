package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/auth"
	"github.com/desertthunder/tempo/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Spotify Web API base.
	DefaultBaseURL = "https://api.spotify.com/v1"

	// DefaultTolerance is the refresh-ahead buffer applied before every
	// request: tokens expiring within it are refreshed proactively.
	DefaultTolerance = 60 * time.Second

	// DefaultRateLimit is the request budget in requests per second.
	DefaultRateLimit = 5.0
)

// Client makes authorized requests against the Spotify Web API.
//
// Every call funnels through [Client.Request], which refreshes the access
// token when needed, gates on the endpoint's required scopes, and rate
// limits the underlying HTTP call. Endpoint wrappers are thin: they declare
// scopes, build paths, and decode JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       *auth.Manager
	limiter    *rate.Limiter
	logger     *log.Logger
	tolerance  time.Duration
}

// Opts contains optional configuration for creating a Client.
type Opts struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
	RateLimit  float64       // requests per second; defaults to DefaultRateLimit
	Tolerance  time.Duration // defaults to DefaultTolerance
}

// New creates a Client over the given authorization manager.
func New(manager *auth.Manager, opts Opts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		auth:       manager,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     opts.Logger,
		tolerance:  opts.Tolerance,
	}
}

// Auth returns the client's authorization manager.
func (c *Client) Auth() *auth.Manager {
	return c.auth
}

// Response is a raw API response: status, headers, and undecoded body.
// Decoding is each endpoint wrapper's responsibility.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// RequestOpts describes one API request.
type RequestOpts struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte

	// Headers, when set, builds the request headers with the access token
	// injected. Defaults to a Bearer Authorization header and JSON content
	// type.
	Headers func(accessToken string) http.Header

	// Scopes the endpoint requires. Checked against the current grant
	// before any network call is made.
	Scopes auth.ScopeSet
}

// Request is the single chokepoint every API call goes through.
//
// It refreshes the access token if it is within the expiry tolerance (a
// no-op otherwise), verifies the current grant covers the required scopes,
// and performs the rate-limited HTTP call. The response body is returned
// raw regardless of status code.
func (c *Client) Request(ctx context.Context, opts RequestOpts) (*Response, error) {
	if err := c.auth.RefreshTokens(ctx, true, c.tolerance); err != nil {
		return nil, err
	}

	token, err := c.auth.AccessToken()
	if err != nil {
		return nil, err
	}

	if !c.auth.IsAuthorized(opts.Scopes) {
		actual := auth.ScopeSet{}
		if info := c.auth.Info(); info != nil {
			actual = info.Scopes
		}
		return nil, &auth.InsufficientScopeError{Required: opts.Scopes, Actual: actual}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := c.baseURL + opts.Path
	if len(opts.Query) > 0 {
		fullURL += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if opts.Headers != nil {
		req.Header = opts.Headers(token)
	} else {
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", opts.Method, "path", opts.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", shared.ErrNetwork, err)
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

// apiErrorBody is the Spotify error envelope.
type apiErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// checkStatus maps non-2xx responses to errors. Rate-limit responses carry
// the server's Retry-After hint; the client never retries on its own.
func checkStatus(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var envelope apiErrorBody
	message := ""
	if err := json.Unmarshal(resp.Body, &envelope); err == nil {
		message = envelope.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limited, retry after %s", shared.ErrAPIRequest, resp.Headers.Get("Retry-After"))
	}

	return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, message)
}

// decodeJSON unmarshals an API response body, wrapping failures in the
// decoding error class.
func decodeJSON(body []byte, result any) error {
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrDecoding, err)
	}
	return nil
}

// getJSON performs a GET request and decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, scopes auth.ScopeSet, result any) error {
	resp, err := c.Request(ctx, RequestOpts{Method: http.MethodGet, Path: path, Query: query, Scopes: scopes})
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return decodeJSON(resp.Body, result)
}

// sendJSON performs a request with a JSON body and optionally decodes the
// response into result.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, scopes auth.ScopeSet, result any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	resp, err := c.Request(ctx, RequestOpts{Method: method, Path: path, Body: body, Scopes: scopes})
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return decodeJSON(resp.Body, result)
}
