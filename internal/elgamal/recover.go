// recover.go - Bounded discrete-log recovery for decryption.
//
// Given M = m·G and a caller-supplied bound N, find m in [0, N) or report
// failure. Small values hit a linear scan that adds G repeatedly (O(T) time,
// O(1) space); larger bounds fall through to baby-step giant-step
// (O(sqrt N) time and space). The linear phase is purely an optimization to
// skip table construction for everyday amounts; BSGS alone would be correct.

package elgamal

import (
	"errors"
	"math"
	"math/big"

	"tongo/internal/ecc"
)

// ErrAmountNotRecoverable reports that the search space was exhausted without
// a match. Callers should size the bound to the expected amount magnitude
// (e.g. total supply) and treat this as data, not a hang.
var ErrAmountNotRecoverable = errors.New("elgamal: amount not recoverable within search bound")

// DefaultLinearScanThreshold caps the linear phase before BSGS takes over.
const DefaultLinearScanThreshold = 250_000

// RecoverExponent finds m in [0, bound) with M = m·G, using the default
// linear-scan threshold.
func RecoverExponent(M ecc.Point, bound uint64) (uint64, error) {
	return RecoverExponentWithThreshold(M, bound, DefaultLinearScanThreshold)
}

// RecoverExponentWithThreshold is RecoverExponent with a caller-chosen linear
// phase cutoff.
func RecoverExponentWithThreshold(M ecc.Point, bound, linearThreshold uint64) (uint64, error) {
	if bound == 0 {
		return 0, ErrAmountNotRecoverable
	}
	g := ecc.Generator()

	// Phase 1: walk 0·G, 1·G, 2·G, ... by repeated addition.
	limit := bound
	if limit > linearThreshold {
		limit = linearThreshold
	}
	cur := ecc.Infinity()
	for m := uint64(0); m < limit; m++ {
		if cur.Equal(M) {
			return m, nil
		}
		cur = ecc.Add(cur, g)
	}
	if bound <= limit {
		return 0, ErrAmountNotRecoverable
	}

	// Phase 2: baby-step giant-step over the full [0, bound) range.
	n := uint64(math.Ceil(math.Sqrt(float64(bound))))

	// Baby table i·G -> i. Keys are the full canonical encoding; an x-only
	// key would let -i·G alias i·G and could report a wrong amount.
	table := make(map[string]uint64, n)
	baby := ecc.Infinity()
	for i := uint64(0); i < n; i++ {
		table[string(baby.Bytes())] = i
		baby = ecc.Add(baby, g)
	}

	// Giant steps: probe M - j·n·G for j = 0, 1, ...
	step := ecc.Negate(ecc.ScalarBaseMult(new(big.Int).SetUint64(n)))
	probe := M
	for j := uint64(0); j < n; j++ {
		if i, ok := table[string(probe.Bytes())]; ok {
			if m := j*n + i; m < bound {
				return m, nil
			}
		}
		probe = ecc.Add(probe, step)
	}
	return 0, ErrAmountNotRecoverable
}
