// keys.go - Keypair generation for the balance cipher.
//
// All randomness comes from crypto/rand. A private key is a uniform scalar
// in [0, CurveOrder); the public key is its multiple of the generator.

package ecc

import (
	"crypto/rand"
	"math/big"
)

// KeyPair holds a private scalar and the matching public point Priv·G.
// The private key is held only by the account owner; the public key is shared.
type KeyPair struct {
	Priv *big.Int
	Pub  Point
}

// RandomScalar draws a uniform scalar in [0, CurveOrder).
func RandomScalar() (*big.Int, error) {
	return rand.Int(rand.Reader, CurveOrder)
}

// GenerateKeyPair creates a fresh keypair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := RandomScalar()
	if err != nil {
		return nil, err
	}
	return &KeyPair{Priv: priv, Pub: ScalarBaseMult(priv)}, nil
}
