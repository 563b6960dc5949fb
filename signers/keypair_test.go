package signers

import (
	"context"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSecretRejectsInvalidSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"garbage", "not-a-secret"},
		{"public key instead of secret", "GA3D5KRYM6CB7OWQ6TWYRR3Z4T7GNZLKERYNZGGA5SOAOPIFY6YQHES5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromSecret(tc.secret)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid secret key")
		})
	}
}

func TestFromSecretPublicKey(t *testing.T) {
	kp, err := keypair.Random()
	require.NoError(t, err)

	signer, err := FromSecret(kp.Seed())
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), signer.PublicKey())
}

func TestSignTransactionRoundTrip(t *testing.T) {
	kp, err := keypair.Random()
	require.NoError(t, err)

	// Build an unsigned envelope the way the remote APIs would return one.
	sourceAccount := txnbuild.NewSimpleAccount(kp.Address(), 1)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &sourceAccount,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: kp.Address(),
				Amount:      "10",
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)

	unsignedXDR, err := tx.Base64()
	require.NoError(t, err)

	signer, err := FromSecret(kp.Seed())
	require.NoError(t, err)

	signedXDR, err := signer.SignTransaction(context.Background(), unsignedXDR, network.TestNetworkPassphrase)
	require.NoError(t, err)
	require.NotEqual(t, unsignedXDR, signedXDR)

	parsed, err := txnbuild.TransactionFromXDR(signedXDR)
	require.NoError(t, err)
	signedTx, ok := parsed.Transaction()
	require.True(t, ok)

	signatures := signedTx.Signatures()
	require.Len(t, signatures, 1)

	hash, err := signedTx.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.NoError(t, kp.Verify(hash[:], signatures[0].Signature))
}

func TestSignTransactionRejectsMalformedXDR(t *testing.T) {
	kp, err := keypair.Random()
	require.NoError(t, err)

	signer, err := FromSecret(kp.Seed())
	require.NoError(t, err)

	_, err = signer.SignTransaction(context.Background(), "not base64 xdr", network.TestNetworkPassphrase)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse transaction XDR")
}
