// errors.go - Error taxonomy for the account manager.
//
// All of these are expected, recoverable-by-caller conditions. Arithmetic
// invariant violations inside the curve engine panic instead; they indicate
// bugs, not user errors.

package ledger

import "errors"

var (
	// ErrAccountNotFound reports an operation against an unknown address.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrAccountExists reports a duplicate address on account creation.
	ErrAccountExists = errors.New("ledger: account already exists")
	// ErrDoubleSpend reports a nullifier already present in the registry.
	// The transfer aborts with no state change.
	ErrDoubleSpend = errors.New("ledger: double-spend detected, nullifier already used")
	// ErrProofRejected reports that the proof capability refused a proof.
	// The transfer aborts with no state change.
	ErrProofRejected = errors.New("ledger: proof verification failed")
	// ErrTransferNotFound reports an unknown transfer id.
	ErrTransferNotFound = errors.New("ledger: transfer not found")
)
