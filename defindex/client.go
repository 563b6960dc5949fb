// Package defindex provides client-side integration with the DeFindex API:
// vault inspection, deposits, withdrawals, strategy management, fees, and
// vault deployment through the factory. All transaction-producing endpoints
// return unsigned base64 XDR envelopes; the caller signs them and submits
// through Send.
package defindex

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stellar/go/strkey"

	protocols "github.com/paltalabs/protocols-sdk-go"
	"github.com/paltalabs/protocols-sdk-go/core/net"
	"github.com/paltalabs/protocols-sdk-go/errors"
)

// DefaultBaseURL is the production DeFindex API host.
const DefaultBaseURL = "https://api.defindex.io"

// Client is the entry point for the DeFindex API. Authentication uses a
// static API key attached as a bearer credential to every non-exempt
// request. Each Client owns its own transport; nothing is shared across
// instances.
type Client struct {
	baseURL    string
	timeout    time.Duration
	log        logrus.FieldLogger
	httpClient *net.Client
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

// WithLogger sets the logger passed down to the transport.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a DeFindex client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.NewClientError(errors.CONFIG_INVALID, "api key is required", nil)
	}

	client := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(client)
	}

	transportOpts := []net.ClientOption{net.WithStaticBearer(apiKey)}
	if client.timeout != 0 {
		transportOpts = append(transportOpts, net.WithTimeout(client.timeout))
	}
	if client.log != nil {
		transportOpts = append(transportOpts, net.WithLogger(client.log))
	}
	client.httpClient = net.NewClient(client.baseURL, transportOpts...)

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

// FactoryAddress returns the factory contract address on the given network.
func (c *Client) FactoryAddress(ctx context.Context, network protocols.Network) (*FactoryInfo, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	var out FactoryInfo
	if err := c.httpClient.Get(ctx, "/factory", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Vault returns the configuration and state of a deployed vault.
func (c *Client) Vault(ctx context.Context, vault string, network protocols.Network) (*VaultInfo, error) {
	query, err := vaultQuery(vault, network)
	if err != nil {
		return nil, err
	}
	var out VaultInfo
	if err := c.httpClient.Get(ctx, "/vault/"+vault, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VaultAPY returns the vault's historical yield.
func (c *Client) VaultAPY(ctx context.Context, vault string, network protocols.Network) (*APYInfo, error) {
	query, err := vaultQuery(vault, network)
	if err != nil {
		return nil, err
	}
	var out APYInfo
	if err := c.httpClient.Get(ctx, "/vault/"+vault+"/apy", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Balance returns the position the `from` account holds in a vault.
func (c *Client) Balance(ctx context.Context, vault, from string, network protocols.Network) (*Balance, error) {
	query, err := vaultQuery(vault, network)
	if err != nil {
		return nil, err
	}
	if err := validAccount(from); err != nil {
		return nil, err
	}
	query.Set("from", from)
	var out Balance
	if err := c.httpClient.Get(ctx, "/vault/"+vault+"/balance", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report returns the vault's fee and performance report.
func (c *Client) Report(ctx context.Context, vault string, network protocols.Network) (*Report, error) {
	query, err := vaultQuery(vault, network)
	if err != nil {
		return nil, err
	}
	var out Report
	if err := c.httpClient.Get(ctx, "/vault/"+vault+"/report", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deposit builds an unsigned deposit transaction for a vault.
func (c *Client) Deposit(ctx context.Context, vault string, params DepositParams, network protocols.Network) (*TransactionResponse, error) {
	if err := validAccount(params.Caller); err != nil {
		return nil, err
	}
	return c.vaultTx(ctx, vault, "deposit", params, network)
}

// Withdraw builds an unsigned withdrawal transaction by underlying amounts.
func (c *Client) Withdraw(ctx context.Context, vault string, params WithdrawParams, network protocols.Network) (*TransactionResponse, error) {
	if err := validAccount(params.Caller); err != nil {
		return nil, err
	}
	return c.vaultTx(ctx, vault, "withdraw", params, network)
}

// WithdrawShares builds an unsigned withdrawal transaction by share amount.
func (c *Client) WithdrawShares(ctx context.Context, vault string, params WithdrawSharesParams, network protocols.Network) (*TransactionResponse, error) {
	if err := validAccount(params.Caller); err != nil {
		return nil, err
	}
	return c.vaultTx(ctx, vault, "withdraw-shares", params, network)
}

// Rescue builds a transaction pulling all funds out of a strategy back into
// the vault. Restricted to the emergency manager role on-chain.
func (c *Client) Rescue(ctx context.Context, vault string, params RescueParams, network protocols.Network) (*TransactionResponse, error) {
	if err := validContract(params.Strategy); err != nil {
		return nil, err
	}
	return c.vaultTx(ctx, vault, "rescue", params, network)
}

// PauseStrategy builds a transaction pausing a strategy.
func (c *Client) PauseStrategy(ctx context.Context, vault string, params StrategyParams, network protocols.Network) (*TransactionResponse, error) {
	if err := validContract(params.Strategy); err != nil {
		return nil, err
	}
	return c.vaultTx(ctx, vault, "pause-strategy", params, network)
}

// UnpauseStrategy builds a transaction unpausing a strategy.
func (c *Client) UnpauseStrategy(ctx context.Context, vault string, params StrategyParams, network protocols.Network) (*TransactionResponse, error) {
	if err := validContract(params.Strategy); err != nil {
		return nil, err
	}
	return c.vaultTx(ctx, vault, "unpause-strategy", params, network)
}

// SetRole builds a transaction reassigning a vault role.
func (c *Client) SetRole(ctx context.Context, vault string, params SetRoleParams, network protocols.Network) (*TransactionResponse, error) {
	if err := validAddress(params.NewAddress); err != nil {
		return nil, err
	}
	return c.vaultTx(ctx, vault, "set-role", params, network)
}

// LockFees builds a transaction locking accrued fees for distribution.
func (c *Client) LockFees(ctx context.Context, vault string, params FeeParams, network protocols.Network) (*TransactionResponse, error) {
	return c.vaultTx(ctx, vault, "lock-fees", params, network)
}

// ReleaseFees builds a transaction releasing previously locked fees.
func (c *Client) ReleaseFees(ctx context.Context, vault string, params FeeParams, network protocols.Network) (*TransactionResponse, error) {
	return c.vaultTx(ctx, vault, "release-fees", params, network)
}

// DistributeFees builds a transaction paying locked fees to the receiver.
func (c *Client) DistributeFees(ctx context.Context, vault string, params FeeParams, network protocols.Network) (*TransactionResponse, error) {
	return c.vaultTx(ctx, vault, "distribute-fees", params, network)
}

// CreateVault builds an unsigned vault-deployment transaction via the
// factory.
func (c *Client) CreateVault(ctx context.Context, params CreateVaultParams, network protocols.Network) (*TransactionResponse, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	if err := validAccount(params.Caller); err != nil {
		return nil, err
	}
	for _, asset := range params.Assets {
		if err := validContract(asset.Address); err != nil {
			return nil, err
		}
	}
	var out TransactionResponse
	if err := c.httpClient.Post(ctx, "/factory/create-vault", query, params, &out); err != nil {
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

// vaultTx is the common implementation for the POST /vault/{address}/...
// transaction builders.
func (c *Client) vaultTx(ctx context.Context, vault, operation string, body any, network protocols.Network) (*TransactionResponse, error) {
	query, err := vaultQuery(vault, network)
	if err != nil {
		return nil, err
	}
	var out TransactionResponse
	if err := c.httpClient.Post(ctx, "/vault/"+vault+"/"+operation, query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// networkQuery validates the network selector and returns the base query.
func networkQuery(network protocols.Network) (url.Values, error) {
	if !network.IsValid() {
		return nil, errors.NewClientError(errors.INVALID_REQUEST, fmt.Sprintf("unknown network %q", string(network)), nil)
	}
	return url.Values{"network": []string{string(network)}}, nil
}

func vaultQuery(vault string, network protocols.Network) (url.Values, error) {
	query, err := networkQuery(network)
	if err != nil {
		return nil, err
	}
	if err := validContract(vault); err != nil {
		return nil, err
	}
	return query, nil
}

// validContract checks a contract address (C...).
func validContract(address string) error {
	if _, err := strkey.Decode(strkey.VersionByteContract, address); err != nil {
		return errors.NewClientError(errors.INVALID_ADDRESS, fmt.Sprintf("invalid contract address %q", address), err)
	}
	return nil
}

// validAccount checks an account address (G...).
func validAccount(address string) error {
	if !strkey.IsValidEd25519PublicKey(address) {
		return errors.NewClientError(errors.INVALID_ADDRESS, fmt.Sprintf("invalid account address %q", address), nil)
	}
	return nil
}

// validAddress accepts either an account (G...) or a contract (C...)
// address.
func validAddress(address string) error {
	if strkey.IsValidEd25519PublicKey(address) {
		return nil
	}
	if _, err := strkey.Decode(strkey.VersionByteContract, address); err == nil {
		return nil
	}
	return errors.NewClientError(errors.INVALID_ADDRESS, fmt.Sprintf("invalid address %q", address), nil)
}
