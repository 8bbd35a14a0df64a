// nullifier.go - One-way spend digests.
//
// A nullifier commits to (address, nonce, amount) with fresh randomness, so a
// spend event can be registered exactly once without revealing which account
// or amount produced it. Digests use the same MiMC instance as the proof
// circuits; each input field occupies one padded hash block.

package ledger

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	mimcNative "github.com/consensys/gnark-crypto/ecc/bw6-761/fr/mimc"
)

const nullifierSeedLen = 32

func newNullifierSeed() ([]byte, error) {
	seed := make([]byte, nullifierSeedLen)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// computeNullifier derives the spend digest. The address is pre-hashed so
// arbitrary-length addresses fit a single MiMC block.
func computeNullifier(address string, nonce, amount uint64, seed []byte) string {
	addrDigest := sha256.Sum256([]byte(address))

	var nonceBytes, amountBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], nonce)
	binary.BigEndian.PutUint64(amountBytes[:], amount)

	h := mimcNative.NewMiMC()
	writeBlock(h, addrDigest[:])
	writeBlock(h, nonceBytes[:])
	writeBlock(h, amountBytes[:])
	writeBlock(h, seed)
	return hex.EncodeToString(h.Sum(nil))
}

// writeBlock left-pads b to one MiMC block; padded 32-byte values are always
// canonical field elements.
func writeBlock(h hash.Hash, b []byte) {
	block := make([]byte, h.BlockSize())
	copy(block[len(block)-len(b):], b)
	h.Write(block)
}
