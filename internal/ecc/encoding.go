// encoding.go - Canonical point encoding and trust-boundary parsing.
//
// One encoding is used everywhere a point is compared, persisted, or handed
// across the API: 32-byte big-endian coordinates, hex when textual. The
// identity encodes as the all-zero pair. Externally supplied coordinates are
// validated against the curve equation; internally produced points are
// correct by construction and skip the check.

package ecc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
)

// CoordinateLen is the byte width of one canonical coordinate.
const CoordinateLen = 32

// ErrInvalidPoint reports externally supplied coordinates that are out of
// field range or off the curve.
var ErrInvalidPoint = errors.New("ecc: coordinates are not a valid curve point")

// Bytes returns the canonical 64-byte encoding x||y. The identity is the
// all-zero slice.
func (p Point) Bytes() []byte {
	out := make([]byte, 2*CoordinateLen)
	if p.IsInfinity() {
		return out
	}
	p.X.FillBytes(out[:CoordinateLen])
	p.Y.FillBytes(out[CoordinateLen:])
	return out
}

// Hex returns the canonical hex pair for the point.
func (p Point) Hex() (x, y string) {
	b := p.Bytes()
	return hex.EncodeToString(b[:CoordinateLen]), hex.EncodeToString(b[CoordinateLen:])
}

// PointFromBytes parses a canonical 64-byte encoding, validating the result.
func PointFromBytes(b []byte) (Point, error) {
	if len(b) != 2*CoordinateLen {
		return Point{}, ErrInvalidPoint
	}
	x := new(big.Int).SetBytes(b[:CoordinateLen])
	y := new(big.Int).SetBytes(b[CoordinateLen:])
	if x.Sign() == 0 && y.Sign() == 0 {
		return Infinity(), nil
	}
	p := Point{X: x, Y: y}
	if !IsOnCurve(p) {
		return Point{}, ErrInvalidPoint
	}
	return p, nil
}

// ParsePoint parses a hex coordinate pair supplied by a caller (public keys,
// persisted ciphertexts) and validates it.
func ParsePoint(xHex, yHex string) (Point, error) {
	xb, err := hex.DecodeString(xHex)
	if err != nil || len(xb) > CoordinateLen {
		return Point{}, ErrInvalidPoint
	}
	yb, err := hex.DecodeString(yHex)
	if err != nil || len(yb) > CoordinateLen {
		return Point{}, ErrInvalidPoint
	}
	x := new(big.Int).SetBytes(xb)
	y := new(big.Int).SetBytes(yb)
	if x.Sign() == 0 && y.Sign() == 0 {
		return Infinity(), nil
	}
	p := Point{X: x, Y: y}
	if !IsOnCurve(p) {
		return Point{}, ErrInvalidPoint
	}
	return p, nil
}

type pointJSON struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// MarshalJSON encodes the point as its canonical hex pair.
func (p Point) MarshalJSON() ([]byte, error) {
	x, y := p.Hex()
	return json.Marshal(pointJSON{X: x, Y: y})
}

// UnmarshalJSON decodes and validates a hex coordinate pair. JSON input is a
// trust boundary, so off-curve coordinates are rejected here.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw pointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePoint(raw.X, raw.Y)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
