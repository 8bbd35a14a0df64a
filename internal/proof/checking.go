// checking.go - Property-checking capability stub.
//
// Rejects malformed inputs so the ledger's abort paths can be exercised
// without a real proving system: the range statement re-checks the embedded
// amount against the maximum, the exponent statement is a Schnorr proof over
// the ledger's own group, and the balance statement checks ciphertext
// well-formedness. Not zero-knowledge: the range object embeds its witness so
// Verify can re-check it. A test double, not a proving system.

package proof

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"tongo/internal/ecc"
	"tongo/internal/elgamal"
)

const (
	kindRange    = "range"
	kindExponent = "proof-of-exponent"
	kindBalance  = "balance"
)

var errMalformed = errors.New("proof: malformed proof object")

// Checking is the property-checking stub. MaxAmount bounds the range
// statement.
type Checking struct {
	MaxAmount uint64
}

func (c Checking) RangeProof(amount uint64, ct elgamal.Ciphertext) (Object, error) {
	if amount > c.MaxAmount {
		return Object{}, fmt.Errorf("proof: amount %d exceeds maximum %d", amount, c.MaxAmount)
	}
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, amount)
	return Object{Kind: kindRange, Data: data}, nil
}

// ExponentProof produces a Schnorr proof of knowledge of priv with
// pub = priv·G: commit R = k·G, challenge e = H(R || pub), response
// s = k + e·priv mod CurveOrder.
func (c Checking) ExponentProof(priv *big.Int, pub ecc.Point) (Object, error) {
	k, err := ecc.RandomScalar()
	if err != nil {
		return Object{}, err
	}
	R := ecc.ScalarBaseMult(k)
	e := schnorrChallenge(R, pub)
	s := new(big.Int).Mul(e, priv)
	s.Add(s, k)
	s.Mod(s, ecc.CurveOrder)

	data := make([]byte, 0, 3*ecc.CoordinateLen)
	data = append(data, R.Bytes()...)
	sBytes := make([]byte, ecc.CoordinateLen)
	s.FillBytes(sBytes)
	data = append(data, sBytes...)
	return Object{Kind: kindExponent, Data: data}, nil
}

func (c Checking) BalanceProof(balance, amount elgamal.Ciphertext) (Object, error) {
	if !ciphertextOnCurve(balance) || !ciphertextOnCurve(amount) {
		return Object{}, ecc.ErrInvalidPoint
	}
	return Object{Kind: kindBalance}, nil
}

func (c Checking) Verify(obj Object, pub Public) error {
	switch obj.Kind {
	case kindRange:
		if len(obj.Data) != 8 {
			return errMalformed
		}
		amount := binary.BigEndian.Uint64(obj.Data)
		if amount > c.MaxAmount {
			return fmt.Errorf("proof: amount %d exceeds maximum %d", amount, c.MaxAmount)
		}
		if pub.Amount == nil || !ciphertextOnCurve(*pub.Amount) {
			return errMalformed
		}
		return nil
	case kindExponent:
		return c.verifySchnorr(obj, pub)
	case kindBalance:
		if pub.Balance == nil || pub.Amount == nil {
			return errMalformed
		}
		if !ciphertextOnCurve(*pub.Balance) || !ciphertextOnCurve(*pub.Amount) {
			return ecc.ErrInvalidPoint
		}
		return nil
	default:
		return fmt.Errorf("proof: unknown proof kind %q", obj.Kind)
	}
}

// verifySchnorr checks s·G == R + e·pub.
func (c Checking) verifySchnorr(obj Object, pub Public) error {
	if pub.PublicKey == nil || len(obj.Data) != 3*ecc.CoordinateLen {
		return errMalformed
	}
	R, err := ecc.PointFromBytes(obj.Data[:2*ecc.CoordinateLen])
	if err != nil {
		return err
	}
	s := new(big.Int).SetBytes(obj.Data[2*ecc.CoordinateLen:])
	e := schnorrChallenge(R, *pub.PublicKey)
	lhs := ecc.ScalarBaseMult(s)
	rhs := ecc.Add(R, ecc.ScalarMult(e, *pub.PublicKey))
	if !lhs.Equal(rhs) {
		return errors.New("proof: exponent proof does not match public key")
	}
	return nil
}

func schnorrChallenge(R, pub ecc.Point) *big.Int {
	h := sha256.New()
	h.Write(R.Bytes())
	h.Write(pub.Bytes())
	e := new(big.Int).SetBytes(h.Sum(nil))
	return e.Mod(e, ecc.CurveOrder)
}

func ciphertextOnCurve(ct elgamal.Ciphertext) bool {
	return ecc.IsOnCurve(ct.C1) && ecc.IsOnCurve(ct.C2)
}
