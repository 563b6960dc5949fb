// Package soroswap provides client-side integration with the Soroswap
// aggregator API: quoting, transaction building, pool and liquidity
// inspection, prices, and asset lists. Authentication is email/password;
// the client logs in lazily and keeps its bearer token fresh through the
// auth manager, so callers never handle tokens directly.
package soroswap

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	protocols "github.com/paltalabs/protocols-sdk-go"
	"github.com/paltalabs/protocols-sdk-go/auth"
	"github.com/paltalabs/protocols-sdk-go/core/net"
	"github.com/paltalabs/protocols-sdk-go/errors"
)

// DefaultBaseURL is the production Soroswap API host.
const DefaultBaseURL = "https://api.soroswap.finance"

// Client is the entry point for the Soroswap API. Each Client owns its own
// transport and auth manager; token state is never shared across instances.
type Client struct {
	baseURL    string
	timeout    time.Duration
	log        logrus.FieldLogger
	httpClient *net.Client
	auth       *auth.Manager
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the request timeout (default: 30s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger passed down to the transport and auth manager.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Soroswap client for the given account. No network
// call happens here; the first authenticated request triggers login.
func NewClient(email, password string, opts ...ClientOption) (*Client, error) {
	if email == "" || password == "" {
		return nil, errors.NewClientError(errors.CONFIG_INVALID, "email and password are required", nil)
	}

	client := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(client)
	}

	var transportOpts []net.ClientOption
	if client.timeout != 0 {
		transportOpts = append(transportOpts, net.WithTimeout(client.timeout))
	}
	if client.log != nil {
		transportOpts = append(transportOpts, net.WithLogger(client.log))
	}
	client.httpClient = net.NewClient(client.baseURL, transportOpts...)

	var managerOpts []auth.ManagerOption
	if client.log != nil {
		managerOpts = append(managerOpts, auth.WithLogger(client.log))
	}
	client.auth = auth.NewManager(client.httpClient, auth.Credentials{Email: email, Password: password}, managerOpts...)
	client.httpClient.SetTokenProvider(client.auth.TokenProvider())

	return client, nil
}

// Health reports API liveness. Never token-gated.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.httpClient.Get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quote asks the aggregator for the best route between two assets.
func (c *Client) Quote(ctx context.Context, req QuoteRequest, network protocols.Network) (*Quote, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, errors.NewClientError(errors.INVALID_REQUEST, "quote amount is required", nil)
	}
	if req.TradeType != TradeExactIn && req.TradeType != TradeExactOut {
		return nil, errors.NewClientError(errors.INVALID_REQUEST, fmt.Sprintf("unknown trade type %q", string(req.TradeType)), nil)
	}
	var out Quote
	if err := c.httpClient.Post(ctx, "/quote", query, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Build turns a Quote into an unsigned transaction envelope.
func (c *Client) Build(ctx context.Context, req BuildRequest, network protocols.Network) (*BuildResponse, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	if req.From == "" {
		return nil, errors.NewClientError(errors.INVALID_REQUEST, "from address is required", nil)
	}
	var out BuildResponse
	if err := c.httpClient.Post(ctx, "/quote/build", query, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Send submits a signed transaction envelope.
func (c *Client) Send(ctx context.Context, params SendParams, network protocols.Network) (*SendResponse, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	if params.XDR == "" {
		return nil, errors.NewClientError(errors.INVALID_REQUEST, "signed transaction XDR is required", nil)
	}
	var out SendResponse
	if err := c.httpClient.Post(ctx, "/send", query, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pools lists pools, optionally filtered to a subset of protocols.
func (c *Client) Pools(ctx context.Context, network protocols.Network, protocolFilter ...Protocol) ([]Pool, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	if len(protocolFilter) > 0 {
		names := make([]string, len(protocolFilter))
		for i, p := range protocolFilter {
			names[i] = string(p)
		}
		query.Set("protocol", strings.Join(names, ","))
	}
	var out []Pool
	if err := c.httpClient.Get(ctx, "/pools", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pool returns the pool for a token pair on one protocol.
func (c *Client) Pool(ctx context.Context, protocol Protocol, tokenA, tokenB string, network protocols.Network) (*Pool, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	var out Pool
	path := fmt.Sprintf("/pools/%s/%s/%s", protocol, tokenA, tokenB)
	if err := c.httpClient.Get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddLiquidity builds an unsigned transaction depositing into a pool.
func (c *Client) AddLiquidity(ctx context.Context, req AddLiquidityRequest, network protocols.Network) (*LiquidityResponse, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	var out LiquidityResponse
	if err := c.httpClient.Post(ctx, "/liquidity/add", query, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveLiquidity builds an unsigned transaction burning pool shares.
func (c *Client) RemoveLiquidity(ctx context.Context, req RemoveLiquidityRequest, network protocols.Network) (*LiquidityResponse, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	var out LiquidityResponse
	if err := c.httpClient.Post(ctx, "/liquidity/remove", query, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LiquidityPositions lists the pool positions held by an account.
func (c *Client) LiquidityPositions(ctx context.Context, address string, network protocols.Network) ([]LiquidityPosition, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	var out []LiquidityPosition
	if err := c.httpClient.Get(ctx, "/liquidity/positions/"+address, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Price returns USD prices for the given asset contracts.
func (c *Client) Price(ctx context.Context, network protocols.Network, assets ...string) ([]AssetPrice, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, errors.NewClientError(errors.INVALID_REQUEST, "at least one asset is required", nil)
	}
	query.Set("asset", strings.Join(assets, ","))
	var out []AssetPrice
	if err := c.httpClient.Get(ctx, "/price", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssetLists returns the curated asset lists, optionally filtered by name.
func (c *Client) AssetLists(ctx context.Context, name string) ([]AssetList, error) {
	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}
	var out []AssetList
	if err := c.httpClient.Get(ctx, "/asset-list", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login authenticates eagerly. Calling it is optional; any token-gated
// request performs it on demand.
func (c *Client) Login(ctx context.Context) error {
	return c.auth.Login(ctx)
}

// Logout discards the cached token record.
func (c *Client) Logout() {
	c.auth.Logout()
}

// IsAuthenticated reports whether a fresh access token is cached.
func (c *Client) IsAuthenticated() bool {
	return c.auth.IsAuthenticated()
}

// UserInfo returns the identity claims from the current session.
func (c *Client) UserInfo() (auth.UserInfo, bool) {
	return c.auth.UserInfo()
}

// UpdateCredentials switches identity. Any cached token for the previous
// identity is discarded.
func (c *Client) UpdateCredentials(email, password string) {
	c.auth.UpdateCredentials(auth.Credentials{Email: email, Password: password})
}

func networkQuery(network protocols.Network) (url.Values, error) {
	if !network.IsValid() {
		return nil, errors.NewClientError(errors.INVALID_REQUEST, fmt.Sprintf("unknown network %q", string(network)), nil)
	}
	return url.Values{"network": []string{string(network)}}, nil
}
