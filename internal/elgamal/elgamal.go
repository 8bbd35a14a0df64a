// elgamal.go - Exponential ElGamal over the secp256k1 group.
//
// Additive notation: a plaintext amount m is hidden as the exponent of the
// generator, Enc(m, pk; r) = (r·G, m·G + r·pk). A ciphertext alone never
// determines m; recovery needs the private key and a bounded search (see
// recover.go). All ephemeral randomness comes from crypto/rand.

package elgamal

import (
	"math/big"

	"tongo/internal/ecc"
)

// Ciphertext is an ElGamal ciphertext pair of curve points.
type Ciphertext struct {
	C1 ecc.Point `json:"c1"`
	C2 ecc.Point `json:"c2"`
}

// Encrypt encrypts a non-negative amount under pk with a fresh uniform nonce.
func Encrypt(m uint64, pk ecc.Point) (Ciphertext, error) {
	r, err := ecc.RandomScalar()
	if err != nil {
		return Ciphertext{}, err
	}
	return EncryptWithNonce(m, pk, r), nil
}

// EncryptWithNonce encrypts m under pk with the caller's ephemeral scalar r.
// A transfer uses this to encrypt one amount under two recipients' keys with
// the same r, so the sender-side and receiver-side ciphertexts carry the same
// value.
func EncryptWithNonce(m uint64, pk ecc.Point, r *big.Int) Ciphertext {
	c1 := ecc.ScalarBaseMult(r)
	mG := ecc.ScalarBaseMult(new(big.Int).SetUint64(m))
	c2 := ecc.Add(mG, ecc.ScalarMult(r, pk))
	return Ciphertext{C1: c1, C2: c2}
}

// DecryptPoint strips the key layer: c2 - sk·c1 = m·G.
func DecryptPoint(ct Ciphertext, sk *big.Int) ecc.Point {
	return ecc.Add(ct.C2, ecc.Negate(ecc.ScalarMult(sk, ct.C1)))
}

// Decrypt recovers the plaintext amount, searching [0, bound). Returns
// ErrAmountNotRecoverable when m·G matches no amount under the bound; a
// successful zero result is distinct from that error.
func Decrypt(ct Ciphertext, sk *big.Int, bound uint64) (uint64, error) {
	return RecoverExponent(DecryptPoint(ct, sk), bound)
}
