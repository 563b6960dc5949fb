package defindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	protocols "github.com/paltalabs/protocols-sdk-go"
	"github.com/paltalabs/protocols-sdk-go/errors"
)

func testContract(t *testing.T) string {
	t.Helper()
	address, err := strkey.Encode(strkey.VersionByteContract, make([]byte, 32))
	require.NoError(t, err)
	return address
}

func testAccount(t *testing.T) string {
	t.Helper()
	kp, err := keypair.Random()
	require.NoError(t, err)
	return kp.Address()
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient("sk_test", WithBaseURL(server.URL))
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CONFIG_INVALID))
}

func TestDeposit(t *testing.T) {
	vault := testContract(t)
	caller := testAccount(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/vault/"+vault+"/deposit", r.URL.Path)
		assert.Equal(t, "testnet", r.URL.Query().Get("network"))
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// Amounts travel as decimal strings, never floats.
		assert.Equal(t, []any{"9007199254740993"}, body["amounts"])
		assert.Equal(t, caller, body["caller"])

		json.NewEncoder(w).Encode(map[string]string{"xdr": "AAAA..."})
	})

	client := newTestClient(t, handler)
	amount, err := protocols.ParseBigInt("9007199254740993")
	require.NoError(t, err)

	tx, err := client.Deposit(context.Background(), vault, DepositParams{
		Amounts: []*protocols.BigInt{amount},
		Caller:  caller,
		Invest:  true,
	}, protocols.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, "AAAA...", tx.XDR)
}

func TestDepositRejectsInvalidVaultAddress(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be sent for an invalid address")
	})
	client := newTestClient(t, handler)

	_, err := client.Deposit(context.Background(), "not-a-contract", DepositParams{
		Caller: testAccount(t),
	}, protocols.NetworkTestnet)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.INVALID_ADDRESS))
}

func TestDepositRejectsInvalidCaller(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be sent for an invalid caller")
	})
	client := newTestClient(t, handler)

	_, err := client.Deposit(context.Background(), testContract(t), DepositParams{
		Caller: "not-an-account",
	}, protocols.NetworkTestnet)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.INVALID_ADDRESS))
}

func TestVaultRejectsUnknownNetwork(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be sent for an unknown network")
	})
	client := newTestClient(t, handler)

	_, err := client.Vault(context.Background(), testContract(t), protocols.Network("futurenet"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.INVALID_REQUEST))
}

func TestVaultInfo(t *testing.T) {
	vault := testContract(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vault/"+vault, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"address":       vault,
			"name":          "USDC Blend Vault",
			"symbol":        "dfUSDC",
			"vault_fee_bps": 100,
			"total_supply":  "123456789012345678901",
			"assets": []map[string]any{
				{"address": vault, "strategies": []map[string]any{
					{"address": vault, "name": "blend", "paused": false},
				}},
			},
		})
	})

	client := newTestClient(t, handler)
	info, err := client.Vault(context.Background(), vault, protocols.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, "USDC Blend Vault", info.Name)
	assert.Equal(t, uint32(100), info.VaultFeeBPS)
	assert.Equal(t, "123456789012345678901", info.TotalSupply.String())
	require.Len(t, info.Assets, 1)
	assert.Equal(t, "blend", info.Assets[0].Strategies[0].Name)
}

func TestHealthIsNeverTokenGated(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	client := newTestClient(t, handler)
	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestBalanceQuery(t *testing.T) {
	vault := testContract(t)
	from := testAccount(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vault/"+vault+"/balance", r.URL.Path)
		assert.Equal(t, from, r.URL.Query().Get("from"))
		json.NewEncoder(w).Encode(map[string]any{
			"df_tokens":          "5000000",
			"underlying_balance": []string{"4998000"},
		})
	})

	client := newTestClient(t, handler)
	balance, err := client.Balance(context.Background(), vault, from, protocols.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, "5000000", balance.DfTokens.String())
	require.Len(t, balance.UnderlyingBalance, 1)
	assert.Equal(t, "4998000", balance.UnderlyingBalance[0].String())
}

func TestRescueValidatesStrategyAddress(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be sent for an invalid strategy")
	})
	client := newTestClient(t, handler)

	_, err := client.Rescue(context.Background(), testContract(t), RescueParams{
		Strategy: "bogus",
		Caller:   testAccount(t),
	}, protocols.NetworkTestnet)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.INVALID_ADDRESS))
}

func TestCreateVault(t *testing.T) {
	asset := testContract(t)
	caller := testAccount(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/factory/create-vault", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"xdr": "FACTORY-XDR"})
	})

	client := newTestClient(t, handler)
	tx, err := client.CreateVault(context.Background(), CreateVaultParams{
		Roles:       VaultRoles{Manager: caller, FeeReceiver: caller, EmergencyManager: caller, RebalanceManager: caller},
		VaultFeeBPS: 50,
		Assets:      []AssetAllocation{{Address: asset}},
		Name:        "Test Vault",
		Symbol:      "TV",
		Caller:      caller,
	}, protocols.NetworkTestnet)
	require.NoError(t, err)
	assert.Equal(t, "FACTORY-XDR", tx.XDR)
}

func TestSendRequiresXDR(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must be sent without an envelope")
	})
	client := newTestClient(t, handler)

	_, err := client.Send(context.Background(), SendParams{}, protocols.NetworkTestnet)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.INVALID_REQUEST))
}

func TestSend(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/send", r.URL.Path)
		var body SendParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SIGNED-XDR", body.XDR)
		json.NewEncoder(w).Encode(map[string]string{"hash": "abc123", "status": "PENDING"})
	})

	client := newTestClient(t, handler)
	result, err := client.Send(context.Background(), SendParams{XDR: "SIGNED-XDR"}, protocols.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Hash)
	assert.Equal(t, "PENDING", result.Status)
}

func TestRemoteRejectionSurfacesServerMessage(t *testing.T) {
	vault := testContract(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "insufficient balance"})
	})

	client := newTestClient(t, handler)
	_, err := client.Withdraw(context.Background(), vault, WithdrawParams{
		Amounts: []*protocols.BigInt{protocols.NewBigInt(1)},
		Caller:  testAccount(t),
	}, protocols.NetworkTestnet)
	require.Error(t, err)
	assert.Equal(t, 422, errors.StatusOf(err))
	assert.Contains(t, err.Error(), "insufficient balance")
}
