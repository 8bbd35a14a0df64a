// proof.go - Capability boundary to an external proving system.
//
// The ledger does not implement zero-knowledge soundness; it consumes this
// interface and only requires that Verify succeeds before committing a
// transfer. Implementations range from an always-accept stub through a
// property-checking test double to a Groth16-backed range prover; a
// production deployment would plug in an audited proving system behind the
// same interface.

package proof

import (
	"math/big"

	"tongo/internal/ecc"
	"tongo/internal/elgamal"
)

// Object is an opaque proof artifact. Data is implementation-defined and
// carries whatever the producing capability needs to verify its own output.
type Object struct {
	Kind string `json:"kind"`
	Data []byte `json:"data,omitempty"`
}

// Public carries the public inputs a statement is verified against. Fields
// irrelevant to a given statement stay nil.
type Public struct {
	PublicKey *ecc.Point          `json:"public_key,omitempty"`
	Amount    *elgamal.Ciphertext `json:"amount,omitempty"`
	Balance   *elgamal.Ciphertext `json:"balance,omitempty"`
}

// Bundle groups the three proofs a transfer carries, together with the
// public inputs they were produced against, so a recorded transfer can be
// re-verified later.
type Bundle struct {
	Range    Object `json:"range"`
	Exponent Object `json:"exponent"`
	Balance  Object `json:"balance"`
	Public   Public `json:"public"`
}

// Capability generates and verifies the transfer proofs.
type Capability interface {
	// RangeProof attests that amount is non-negative and below the
	// configured maximum, bound to the given ciphertext.
	RangeProof(amount uint64, ct elgamal.Ciphertext) (Object, error)
	// ExponentProof attests knowledge of the private key behind pub.
	ExponentProof(priv *big.Int, pub ecc.Point) (Object, error)
	// BalanceProof attests that the balance ciphertext minus the amount
	// ciphertext stays non-negative.
	BalanceProof(balance, amount elgamal.Ciphertext) (Object, error)
	// Verify checks one proof object against its public inputs.
	Verify(obj Object, pub Public) error
}
