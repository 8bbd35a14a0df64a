// curve.go - Affine short-Weierstrass group arithmetic over secp256k1.
//
// Implements the group law used by the ElGamal balance cipher: addition,
// doubling, negation, and double-and-add scalar multiplication over big.Int
// affine coordinates. Coordinate arithmetic reduces mod FieldPrime; scalar
// arithmetic reduces mod CurveOrder. The two moduli are distinct constants.

package ecc

import (
	"fmt"
	"math/big"
)

// secp256k1: y^2 = x^3 + 7 over F_p. The a = 0 form keeps the tangent slope
// at 3x^2 / 2y, with no linear term.
var (
	// FieldPrime is the coordinate field modulus p.
	FieldPrime, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)
	// CurveOrder is the order n of the generator's (prime) group.
	CurveOrder, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

	curveB = big.NewInt(7)

	genX, _ = new(big.Int).SetString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", 16)
	genY, _ = new(big.Int).SetString("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8", 16)

	// exponent for Fermat inversion, p-2
	pMinusTwo = new(big.Int).Sub(FieldPrime, big.NewInt(2))
)

// Point is an affine curve point. The zero value is the point at infinity,
// the group identity. Treat X and Y as read-only: every operation returns a
// fresh Point and never aliases its operands' coordinates.
type Point struct {
	X, Y *big.Int
}

// Generator returns the fixed base point G.
func Generator() Point {
	return Point{X: new(big.Int).Set(genX), Y: new(big.Int).Set(genY)}
}

// Infinity returns the group identity.
func Infinity() Point {
	return Point{}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.X == nil || p.Y == nil
}

// Equal reports whether two points are the same group element.
func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() && q.IsInfinity()
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

func (p Point) clone() Point {
	if p.IsInfinity() {
		return Point{}
	}
	return Point{X: new(big.Int).Set(p.X), Y: new(big.Int).Set(p.Y)}
}

// IsOnCurve reports whether p satisfies y^2 = x^3 + 7 with both coordinates
// in [0, FieldPrime). The identity is on the curve.
func IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return true
	}
	if p.X.Sign() < 0 || p.X.Cmp(FieldPrime) >= 0 || p.Y.Sign() < 0 || p.Y.Cmp(FieldPrime) >= 0 {
		return false
	}
	lhs := new(big.Int).Mul(p.Y, p.Y)
	lhs.Mod(lhs, FieldPrime)
	rhs := new(big.Int).Mul(p.X, p.X)
	rhs.Mul(rhs, p.X)
	rhs.Add(rhs, curveB)
	rhs.Mod(rhs, FieldPrime)
	return lhs.Cmp(rhs) == 0
}

// modInverse computes a^-1 mod FieldPrime via Fermat's little theorem.
// A zero denominator cannot arise from well-formed distinct points; it is an
// internal invariant violation, so fail fast instead of returning an error.
func modInverse(a *big.Int) *big.Int {
	r := new(big.Int).Mod(a, FieldPrime)
	if r.Sign() == 0 {
		panic(fmt.Sprintf("ecc: inverse of zero mod FieldPrime (invariant violation, a=%s)", a))
	}
	return r.Exp(r, pMinusTwo, FieldPrime)
}

// Add computes p + q under the affine group law.
func Add(p, q Point) Point {
	if p.IsInfinity() {
		return q.clone()
	}
	if q.IsInfinity() {
		return p.clone()
	}
	if p.X.Cmp(q.X) == 0 {
		if p.Y.Cmp(q.Y) == 0 {
			return Double(p)
		}
		// x1 == x2, y1 == -y2: vertical line, sum is the identity.
		return Infinity()
	}
	num := new(big.Int).Sub(q.Y, p.Y)
	den := new(big.Int).Sub(q.X, p.X)
	lambda := num.Mul(num, modInverse(den))
	lambda.Mod(lambda, FieldPrime)
	return chordResult(lambda, p, q)
}

// Double computes p + p using the tangent slope 3x^2 / 2y.
func Double(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	num := new(big.Int).Mul(p.X, p.X)
	num.Mul(num, big.NewInt(3))
	den := new(big.Int).Lsh(p.Y, 1)
	lambda := num.Mul(num, modInverse(den))
	lambda.Mod(lambda, FieldPrime)
	return chordResult(lambda, p, p)
}

// chordResult applies x3 = λ^2 - x1 - x2, y3 = λ(x1 - x3) - y1.
func chordResult(lambda *big.Int, p, q Point) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.X)
	x3.Sub(x3, q.X)
	x3.Mod(x3, FieldPrime)
	y3 := new(big.Int).Sub(p.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.Y)
	y3.Mod(y3, FieldPrime)
	return Point{X: x3, Y: y3}
}

// Negate returns -p, i.e. (x, -y mod FieldPrime). The identity negates to
// itself.
func Negate(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	y := new(big.Int).Neg(p.Y)
	y.Mod(y, FieldPrime)
	return Point{X: new(big.Int).Set(p.X), Y: y}
}

// ScalarMult computes k·p by double-and-add. The scalar is reduced mod
// CurveOrder first and the loop always walks CurveOrder.BitLen() bits, so the
// running time tracks the group order's bit length rather than the magnitude
// of the unreduced input.
func ScalarMult(k *big.Int, p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	red := new(big.Int).Mod(k, CurveOrder)
	if red.Sign() == 0 {
		return Infinity()
	}
	result := Infinity()
	addend := p.clone()
	bits := CurveOrder.BitLen()
	for i := 0; i < bits; i++ {
		if red.Bit(i) == 1 {
			result = Add(result, addend)
		}
		addend = Double(addend)
	}
	return result
}

// ScalarBaseMult computes k·G.
func ScalarBaseMult(k *big.Int) Point {
	return ScalarMult(k, Generator())
}
