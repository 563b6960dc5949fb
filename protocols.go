// Package protocols provides Go client SDKs for the PaltaLabs protocol APIs
// on Stellar/Soroban: DeFindex (vault management) and Soroswap (DEX quoting
// and liquidity). The SDK wraps the remote REST APIs; transaction envelopes
// are built and validated server-side and travel through the SDK as opaque
// base64 XDR strings. The caller signs them with a Signer and submits them
// back through the /send endpoint.
package protocols

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/stellar/go/network"
)

// Network selects which Stellar network the remote API should target.
// It is sent as a `network` query parameter on every request.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// IsValid reports whether n is one of the supported network selectors.
func (n Network) IsValid() bool {
	return n == NetworkMainnet || n == NetworkTestnet
}

// Passphrase returns the Stellar network passphrase for n. Signers need it
// to compute the correct transaction hash when signing returned envelopes.
func (n Network) Passphrase() (string, error) {
	switch n {
	case NetworkMainnet:
		return network.PublicNetworkPassphrase, nil
	case NetworkTestnet:
		return network.TestNetworkPassphrase, nil
	default:
		return "", fmt.Errorf("unknown network %q", string(n))
	}
}

// Signer is the minimal contract for authorizing the transactions the APIs
// return. The SDK does not manage keys, wallet connections, or signing
// infrastructure. The caller provides a Signer; the SDK uses it.
type Signer interface {
	// PublicKey returns the Stellar address (G...) identifying this signer.
	PublicKey() string

	// SignTransaction signs a Stellar transaction envelope (base64 XDR).
	// The networkPassphrase is required for computing the correct transaction hash.
	// Returns the signed envelope as base64 XDR.
	SignTransaction(ctx context.Context, xdr string, networkPassphrase string) (string, error)
}

// TokenProvider supplies a bearer token for an outgoing request. Returning
// ok=false means "no token available right now"; the transport sends the
// request unauthenticated and lets the remote server be the authority on
// whether that is acceptable. A TokenProvider must never return an error:
// failure to obtain a token is not a failure of the request pipeline.
type TokenProvider func(ctx context.Context) (token string, ok bool)

// BigInt is an arbitrary-precision integer for on-chain amounts (i128 token
// amounts, liquidity shares). Contract values routinely exceed the float64
// safe-integer range, so BigInt marshals to a JSON string and unmarshals
// from either a string or a bare number.
type BigInt struct {
	big.Int
}

// NewBigInt returns a BigInt holding v.
func NewBigInt(v int64) *BigInt {
	b := new(BigInt)
	b.SetInt64(v)
	return b
}

// ParseBigInt parses a base-10 integer string.
func ParseBigInt(s string) (*BigInt, error) {
	b := new(BigInt)
	if _, ok := b.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid integer amount %q", s)
	}
	return b, nil
}

// MarshalJSON encodes the value as a JSON string.
func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(b.String())), nil
}

// UnmarshalJSON accepts a JSON string or a bare JSON number.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid integer amount %s: %w", s, err)
		}
		s = unquoted
	}
	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("invalid integer amount %q", s)
	}
	return nil
}
