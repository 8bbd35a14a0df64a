// groth16.go - Groth16-backed capability.
//
// Proves the range statement with a real circuit (see circuit.go); the
// exponent and balance statements fall back to the property checks of the
// Checking stub. Proving and verifying keys are cached on disk and reused
// across runs.

package proof

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"hash"
	"math/big"
	"os"
	"path/filepath"

	gnarkecc "github.com/consensys/gnark-crypto/ecc"
	mimcNative "github.com/consensys/gnark-crypto/ecc/bw6-761/fr/mimc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"tongo/internal/elgamal"
)

const kindGroth16Range = "groth16-range"

// Groth16 is the Groth16-backed capability.
type Groth16 struct {
	Checking

	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewGroth16 compiles the range circuit and loads or generates its keys
// under keyDir.
func NewGroth16(keyDir string, maxAmount uint64) (*Groth16, error) {
	var circuit rangeCircuit
	ccs, err := frontend.Compile(gnarkecc.BW6_761.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, fmt.Errorf("range circuit compilation failed: %w", err)
	}
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		return nil, fmt.Errorf("key directory creation failed: %w", err)
	}
	pk, vk, err := setupOrLoadKeys(ccs,
		filepath.Join(keyDir, "range_proving.key"),
		filepath.Join(keyDir, "range_verifying.key"))
	if err != nil {
		return nil, err
	}
	return &Groth16{
		Checking: Checking{MaxAmount: maxAmount},
		ccs:      ccs,
		pk:       pk,
		vk:       vk,
	}, nil
}

type groth16RangePayload struct {
	Commitment []byte `json:"commitment"`
	Proof      []byte `json:"proof"`
}

// RangeProof commits to the amount with a fresh salt and proves the 64-bit
// range statement against that commitment.
func (g *Groth16) RangeProof(amount uint64, ct elgamal.Ciphertext) (Object, error) {
	if amount > g.MaxAmount {
		return Object{}, fmt.Errorf("proof: amount %d exceeds maximum %d", amount, g.MaxAmount)
	}
	saltBytes := make([]byte, 32)
	if _, err := rand.Read(saltBytes); err != nil {
		return Object{}, err
	}
	salt := new(big.Int).SetBytes(saltBytes)
	commitment := rangeCommitment(amount, salt)

	witness := &rangeCircuit{
		Commitment: commitment,
		Amount:     new(big.Int).SetUint64(amount),
		Salt:       salt,
	}
	w, err := frontend.NewWitness(witness, gnarkecc.BW6_761.ScalarField())
	if err != nil {
		return Object{}, fmt.Errorf("witness creation failed: %w", err)
	}
	prf, err := groth16.Prove(g.ccs, g.pk, w)
	if err != nil {
		return Object{}, fmt.Errorf("proof generation failed: %w", err)
	}
	var buf bytes.Buffer
	if _, err := prf.WriteTo(&buf); err != nil {
		return Object{}, fmt.Errorf("proof marshaling failed: %w", err)
	}
	data, err := json.Marshal(groth16RangePayload{
		Commitment: commitment.Bytes(),
		Proof:      buf.Bytes(),
	})
	if err != nil {
		return Object{}, err
	}
	return Object{Kind: kindGroth16Range, Data: data}, nil
}

func (g *Groth16) Verify(obj Object, pub Public) error {
	if obj.Kind != kindGroth16Range {
		return g.Checking.Verify(obj, pub)
	}
	var payload groth16RangePayload
	if err := json.Unmarshal(obj.Data, &payload); err != nil {
		return errMalformed
	}
	public := &rangeCircuit{Commitment: new(big.Int).SetBytes(payload.Commitment)}
	w, err := frontend.NewWitness(public, gnarkecc.BW6_761.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}
	prf := groth16.NewProof(gnarkecc.BW6_761)
	if _, err := prf.ReadFrom(bytes.NewReader(payload.Proof)); err != nil {
		return errMalformed
	}
	if err := groth16.Verify(prf, g.vk, w); err != nil {
		return fmt.Errorf("range proof verification failed: %w", err)
	}
	return nil
}

// rangeCommitment computes the native counterpart of the in-circuit
// MiMC(amount, salt).
func rangeCommitment(amount uint64, salt *big.Int) *big.Int {
	h := mimcNative.NewMiMC()
	writeBlock(h, new(big.Int).SetUint64(amount).Bytes())
	writeBlock(h, salt.Bytes())
	return new(big.Int).SetBytes(h.Sum(nil))
}

// writeBlock left-pads b to one MiMC block so the native hash consumes the
// same field-element sequence the circuit does.
func writeBlock(h hash.Hash, b []byte) {
	block := make([]byte, h.BlockSize())
	copy(block[len(block)-len(b):], b)
	h.Write(block)
}
