// Package signers provides convenience constructors for creating Signer
// implementations used to sign the transaction envelopes the protocol APIs
// return.
//
//   - FromSecret: Wraps a Stellar secret key (S...) using stellar/go keypair
//     for signing. Intended for server-side use (exchanges, backends, bots).
//
// It returns an implementation of the protocols.Signer interface.
package signers
