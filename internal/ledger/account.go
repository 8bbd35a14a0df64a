// account.go - Confidential account state.
//
// An account's balance exists on the ledger only as an ElGamal ciphertext
// under the account's own public key. Every funding, transfer, and withdrawal
// replaces the ciphertext with a homomorphically derived successor; nothing
// mutates a ciphertext in place. The nonce rises on every balance-affecting
// operation and feeds transfer-uniqueness.

package ledger

import (
	"tongo/internal/ecc"
	"tongo/internal/elgamal"
)

// Account is the public view of a confidential account. The private key is
// returned once at creation and never stored here.
type Account struct {
	Address          string             `json:"address"`
	PublicKey        ecc.Point          `json:"public_key"`
	EncryptedBalance elgamal.Ciphertext `json:"encrypted_balance"`
	Nonce            uint64             `json:"nonce"`
	// ViewingKey is an optional auditor-disclosure key reference attached
	// via SetViewingKey. It does not affect encryption.
	ViewingKey string `json:"viewing_key,omitempty"`
}

// Status of a transfer. Pending transfers move to exactly one terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)
