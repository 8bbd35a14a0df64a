package ecc

import (
	"crypto/rand"
	"math/big"
	"testing"

	secp "github.com/consensys/gnark-crypto/ecc/secp256k1"
	secpfp "github.com/consensys/gnark-crypto/ecc/secp256k1/fp"
	secpfr "github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

func TestConstantsMatchReferenceCurve(t *testing.T) {
	if FieldPrime.Cmp(secpfp.Modulus()) != 0 {
		t.Fatalf("FieldPrime does not match the secp256k1 field modulus")
	}
	if CurveOrder.Cmp(secpfr.Modulus()) != 0 {
		t.Fatalf("CurveOrder does not match the secp256k1 group order")
	}
	if FieldPrime.Cmp(CurveOrder) == 0 {
		t.Fatalf("field prime and curve order must be distinct constants")
	}
	var g secp.G1Affine
	g.X.SetBigInt(genX)
	g.Y.SetBigInt(genY)
	if !g.IsOnCurve() {
		t.Fatalf("generator is not on the reference curve")
	}
}

func TestPointLaws(t *testing.T) {
	g := Generator()
	if !IsOnCurve(g) {
		t.Fatalf("generator not on curve")
	}
	if !Add(g, Negate(g)).IsInfinity() {
		t.Errorf("P + (-P) should be the identity")
	}
	if !Add(g, Infinity()).Equal(g) {
		t.Errorf("P + identity should be P")
	}
	if !Add(Infinity(), g).Equal(g) {
		t.Errorf("identity + P should be P")
	}
	if !ScalarMult(big.NewInt(0), g).IsInfinity() {
		t.Errorf("0·P should be the identity")
	}
	if !ScalarMult(CurveOrder, g).IsInfinity() {
		t.Errorf("CurveOrder·G should be the identity")
	}
	if !Negate(Infinity()).IsInfinity() {
		t.Errorf("identity should negate to itself")
	}
	// 2G via Add(g, g) must agree with Double.
	if !Add(g, g).Equal(Double(g)) {
		t.Errorf("Add(P, P) should equal Double(P)")
	}
	// (k+1)·G == k·G + G for a few k.
	for _, k := range []int64{1, 2, 7, 1000} {
		lhs := ScalarMult(big.NewInt(k+1), g)
		rhs := Add(ScalarMult(big.NewInt(k), g), g)
		if !lhs.Equal(rhs) {
			t.Errorf("(k+1)·G != k·G + G for k=%d", k)
		}
	}
}

// TestScalarMultAgainstReference checks the hand-rolled double-and-add against
// the gnark-crypto secp256k1 implementation on random scalars.
func TestScalarMultAgainstReference(t *testing.T) {
	var refG secp.G1Affine
	refG.X.SetBigInt(genX)
	refG.Y.SetBigInt(genY)

	for i := 0; i < 20; i++ {
		k, err := rand.Int(rand.Reader, CurveOrder)
		if err != nil {
			t.Fatalf("rand: %v", err)
		}
		got := ScalarBaseMult(k)

		var want secp.G1Affine
		want.ScalarMultiplication(&refG, k)
		wantX := want.X.BigInt(new(big.Int))
		wantY := want.Y.BigInt(new(big.Int))
		if got.IsInfinity() || got.X.Cmp(wantX) != 0 || got.Y.Cmp(wantY) != 0 {
			t.Fatalf("scalar mult mismatch for k=%s", k)
		}
	}
}

func TestScalarMultReducesInput(t *testing.T) {
	g := Generator()
	k := big.NewInt(123456)
	big1 := new(big.Int).Add(k, CurveOrder)
	if !ScalarMult(k, g).Equal(ScalarMult(big1, g)) {
		t.Errorf("k·G should equal (k+order)·G")
	}
	neg := new(big.Int).Neg(big.NewInt(1))
	if !ScalarMult(neg, g).Equal(ScalarMult(new(big.Int).Sub(CurveOrder, big.NewInt(1)), g)) {
		t.Errorf("-1 should reduce to order-1")
	}
}

func TestEncodingRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	back, err := PointFromBytes(kp.Pub.Bytes())
	if err != nil {
		t.Fatalf("PointFromBytes: %v", err)
	}
	if !back.Equal(kp.Pub) {
		t.Errorf("byte round trip changed the point")
	}
	x, y := kp.Pub.Hex()
	parsed, err := ParsePoint(x, y)
	if err != nil {
		t.Fatalf("ParsePoint: %v", err)
	}
	if !parsed.Equal(kp.Pub) {
		t.Errorf("hex round trip changed the point")
	}
	id, err := PointFromBytes(Infinity().Bytes())
	if err != nil || !id.IsInfinity() {
		t.Errorf("identity should round trip through the all-zero encoding")
	}
}

func TestParsePointRejectsInvalid(t *testing.T) {
	// Off-curve: bump the generator's y by one.
	g := Generator()
	y := new(big.Int).Add(g.Y, big.NewInt(1))
	bad := Point{X: g.X, Y: y}
	xHex, yHex := bad.Hex()
	if _, err := ParsePoint(xHex, yHex); err != ErrInvalidPoint {
		t.Errorf("off-curve point should be rejected, got %v", err)
	}
	// Coordinate at the field modulus is out of range.
	over := Point{X: new(big.Int).Set(FieldPrime), Y: g.Y}
	xHex, yHex = over.Hex()
	if _, err := ParsePoint(xHex, yHex); err != ErrInvalidPoint {
		t.Errorf("out-of-range coordinate should be rejected, got %v", err)
	}
	if _, err := ParsePoint("zz", "00"); err != ErrInvalidPoint {
		t.Errorf("non-hex input should be rejected, got %v", err)
	}
}

func TestInverseOfZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("inverse of zero should panic")
		}
	}()
	modInverse(big.NewInt(0))
}
