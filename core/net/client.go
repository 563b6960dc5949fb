// Package net provides the HTTP transport shared by the protocol API
// clients. It binds a fixed base URL and timeout, encodes/decodes JSON
// bodies, and runs a request interceptor that attaches a bearer credential
// to every request except those targeting auth-exempt endpoints.
//
// Example usage:
//
//	client := net.NewClient("https://api.soroswap.finance",
//	    net.WithTimeout(20*time.Second),
//	)
//	var out QuoteResponse
//	err := client.Post(ctx, "/quote", nil, req, &out)
package net

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

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	protocols "github.com/paltalabs/protocols-sdk-go"
	"github.com/paltalabs/protocols-sdk-go/errors"
)

// defaultTimeout applies uniformly to all requests, auth requests included.
const defaultTimeout = 30 * time.Second

// exemptPathFragments lists endpoints that must never be token-gated.
// Matching is substring-based, not exact-path: any request URL containing
// one of these fragments anywhere in it skips bearer injection. The
// looseness is intentional and load-bearing — the login and refresh calls
// themselves must not trigger token acquisition, or the interceptor would
// recurse into the auth manager forever.
var exemptPathFragments = []string{"/login", "/refresh", "/health"}

// Client is an HTTP transport bound to a single API host. Each SDK client
// owns its own Client instance; there is no process-wide shared transport.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokenProvider protocols.TokenProvider
	staticBearer  string
	log           logrus.FieldLogger
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the request timeout (default: 30s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithStaticBearer sets a fixed bearer credential (an API key) attached to
// every non-exempt request.
func WithStaticBearer(key string) ClientOption {
	return func(c *Client) {
		c.staticBearer = key
	}
}

// WithLogger sets the logger used for request-level debug logging.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a transport bound to baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cleanhttp.DefaultPooledClient(),
		log:        discard,
	}
	client.httpClient.Timeout = defaultTimeout

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// SetTokenProvider installs the dynamic token source consulted by the
// request interceptor. It is a setter rather than a construction option
// because the auth manager that backs it is itself built on top of this
// transport.
func (c *Client) SetTokenProvider(p protocols.TokenProvider) {
	c.tokenProvider = p
}

// RequestOption mutates an outgoing request after the auth interceptor has
// run, so explicit headers win over injected ones.
type RequestOption func(*http.Request)

// WithBearer sets an explicit bearer credential on a single request. The
// auth manager uses this to present the refresh token on /refresh.
func WithBearer(token string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, opts...)
}

// Post performs a POST request with a JSON body and decodes the JSON
// response into out. A nil body sends an empty JSON object.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, query, body, out, opts...)
}

// Delete performs a DELETE request and decodes the JSON response into out.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...RequestOption) error {
	rawURL := c.baseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var reader io.Reader
	if method == http.MethodPost {
		if body == nil {
			body = struct{}{}
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.NewTransportError(errors.ENCODE_FAILED, "failed to encode request body", 0, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return errors.NewTransportError(errors.TRANSPORT_ERROR, fmt.Sprintf("failed to create %s request", method), 0, err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	authenticated := c.intercept(ctx, req, rawURL)
	for _, opt := range opts {
		opt(req)
	}

	c.log.WithFields(logrus.Fields{
		"method":        method,
		"path":          path,
		"authenticated": authenticated,
	}).Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewTransportError(errors.TRANSPORT_ERROR, "no response received", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewTransportError(errors.TRANSPORT_ERROR, "failed to read response body", 0, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewTransportError(
			errors.REMOTE_REJECTION,
			remoteMessage(respBody, resp.StatusCode),
			resp.StatusCode,
			nil,
		)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.NewTransportError(errors.DECODE_FAILED, "failed to decode response JSON", resp.StatusCode, err)
		}
	}

	return nil
}

// intercept attaches a bearer credential unless the request URL contains an
// exempt fragment. It reports whether a credential was attached.
func (c *Client) intercept(ctx context.Context, req *http.Request, rawURL string) bool {
	if isExempt(rawURL) {
		return false
	}
	if c.staticBearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.staticBearer)
		return true
	}
	if c.tokenProvider != nil {
		if token, ok := c.tokenProvider(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
			return true
		}
	}
	return false
}

func isExempt(rawURL string) bool {
	for _, fragment := range exemptPathFragments {
		if strings.Contains(rawURL, fragment) {
			return true
		}
	}
	return false
}

// remoteMessage extracts the server-supplied error message from a rejection
// body, falling back to a generic message.
func remoteMessage(body []byte, statusCode int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", statusCode)
}
