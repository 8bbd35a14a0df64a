// circuit.go - Groth16 range circuit.
//
// Statement: the private Amount fits in 64 bits and is bound, together with a
// private Salt, to the public MiMC Commitment. Compiled over BW6-761 so the
// in-circuit MiMC matches the native bw6-761 instance used outside.

package proof

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

type rangeCircuit struct {
	Commitment frontend.Variable `gnark:",public"`

	Amount frontend.Variable
	Salt   frontend.Variable
}

func (c *rangeCircuit) Define(api frontend.API) error {
	// 64-bit decomposition doubles as the range constraint.
	api.ToBinary(c.Amount, 64)

	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	hasher.Write(c.Amount)
	hasher.Write(c.Salt)
	api.AssertIsEqual(c.Commitment, hasher.Sum())
	return nil
}
