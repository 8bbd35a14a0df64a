// ledger.go - Accounts, funding, transfers, withdrawals, disclosure.
//
// The Ledger owns all shared mutable state (accounts, transfer log,
// nullifier registry) behind one mutex. Proof generation and verification
// run before the lock is taken; the locked section covers only the
// nullifier check-and-insert and the balance swaps, so no two concurrent
// transfers can both observe a nullifier as absent. Transfers are
// all-or-nothing: any failure leaves balances and nonces untouched and
// records a failed transfer.

package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"time"

	"tongo/internal/ecc"
	"tongo/internal/elgamal"
	"tongo/internal/proof"
)

// Config bounds the ledger's recovery search and amounts.
type Config struct {
	// SearchBound caps discrete-log recovery during balance disclosure.
	// Size it to the total supply; exceeding it is data, not a hang.
	SearchBound uint64 `json:"search_bound"`
	// LinearScanThreshold is the linear phase cutoff before BSGS.
	LinearScanThreshold uint64 `json:"linear_scan_threshold"`
	// MaxAmount is the upper bound asserted by range proofs.
	MaxAmount uint64 `json:"max_amount"`
}

// DefaultConfig returns bounds suitable for the demo scenario.
func DefaultConfig() Config {
	return Config{
		SearchBound:         1 << 32,
		LinearScanThreshold: elgamal.DefaultLinearScanThreshold,
		MaxAmount:           1 << 40,
	}
}

// Transfer is an append-only ledger entry. Confirmed transfers are immutable
// and never deleted.
type Transfer struct {
	ID              string             `json:"id"`
	From            string             `json:"from"`
	To              string             `json:"to"`
	EncryptedAmount elgamal.Ciphertext `json:"encrypted_amount"`
	Proof           proof.Bundle       `json:"proof"`
	Nullifier       string             `json:"nullifier"`
	Status          Status             `json:"status"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Ledger is the confidential account manager.
type Ledger struct {
	mu         sync.Mutex
	cfg        Config
	prover     proof.Capability
	accounts   map[string]*Account
	transfers  map[string]*Transfer
	order      []string
	nullifiers map[string]struct{}
}

// New creates an empty ledger backed by the given proof capability.
func New(prover proof.Capability, cfg Config) *Ledger {
	return &Ledger{
		cfg:        cfg,
		prover:     prover,
		accounts:   make(map[string]*Account),
		transfers:  make(map[string]*Transfer),
		nullifiers: make(map[string]struct{}),
	}
}

// CreateAccount registers a fresh account with an encrypted initial balance.
// It returns the account's public view and, exactly once, the private key;
// the ledger never stores it.
func (l *Ledger) CreateAccount(address string, initialBalance uint64) (Account, *big.Int, error) {
	kp, err := ecc.GenerateKeyPair()
	if err != nil {
		return Account{}, nil, err
	}
	balance, err := elgamal.Encrypt(initialBalance, kp.Pub)
	if err != nil {
		return Account{}, nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[address]; ok {
		return Account{}, nil, ErrAccountExists
	}
	acct := &Account{
		Address:          address,
		PublicKey:        kp.Pub,
		EncryptedBalance: balance,
		Nonce:            0,
	}
	l.accounts[address] = acct
	return *acct, kp.Priv, nil
}

// Fund encrypts amount under the account's own public key and homomorphically
// adds it to the balance. Returns the replacement balance ciphertext.
func (l *Ledger) Fund(address string, amount uint64) (elgamal.Ciphertext, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[address]
	if !ok {
		return elgamal.Ciphertext{}, ErrAccountNotFound
	}
	ct, err := elgamal.Encrypt(amount, acct.PublicKey)
	if err != nil {
		return elgamal.Ciphertext{}, err
	}
	acct.EncryptedBalance = elgamal.AddCiphertexts(acct.EncryptedBalance, ct)
	acct.Nonce++
	return acct.EncryptedBalance, nil
}

// Transfer moves an encrypted amount between accounts. The amount is
// encrypted once per recipient key with a shared ephemeral nonce; the proof
// capability must accept the range, exponent, and balance statements before
// anything commits; the nullifier registry rejects replays.
func (l *Ledger) Transfer(from, to string, amount uint64, senderPriv *big.Int) (Transfer, error) {
	l.mu.Lock()
	sender, ok := l.accounts[from]
	if !ok {
		l.mu.Unlock()
		return Transfer{}, fmt.Errorf("%w: %s", ErrAccountNotFound, from)
	}
	receiver, ok := l.accounts[to]
	if !ok {
		l.mu.Unlock()
		return Transfer{}, fmt.Errorf("%w: %s", ErrAccountNotFound, to)
	}
	senderPub := sender.PublicKey
	receiverPub := receiver.PublicKey
	senderBalance := sender.EncryptedBalance
	senderNonce := sender.Nonce
	l.mu.Unlock()

	// Everything below runs unlocked: encryption, proof generation, and
	// proof verification have no business holding up other transfers.
	r, err := ecc.RandomScalar()
	if err != nil {
		return Transfer{}, err
	}
	ctRecv := elgamal.EncryptWithNonce(amount, receiverPub, r)
	ctSend := elgamal.EncryptWithNonce(amount, senderPub, r)

	seed, err := newNullifierSeed()
	if err != nil {
		return Transfer{}, err
	}
	id, err := newID()
	if err != nil {
		return Transfer{}, err
	}
	tx := Transfer{
		ID:              id,
		From:            from,
		To:              to,
		EncryptedAmount: ctRecv,
		Nullifier:       computeNullifier(from, senderNonce, amount, seed),
		Status:          StatusPending,
		Timestamp:       time.Now().UTC(),
	}

	bundle, err := l.buildBundle(amount, ctRecv, ctSend, senderPriv, senderPub, senderBalance)
	if err != nil {
		l.recordFailed(&tx)
		return tx, err
	}
	tx.Proof = bundle
	if err := l.verifyBundle(bundle); err != nil {
		l.recordFailed(&tx)
		return tx, fmt.Errorf("%w: %v", ErrProofRejected, err)
	}

	if err := l.commit(&tx, ctSend, ctRecv); err != nil {
		return tx, err
	}
	return tx, nil
}

func (l *Ledger) buildBundle(amount uint64, ctRecv, ctSend elgamal.Ciphertext, senderPriv *big.Int, senderPub ecc.Point, senderBalance elgamal.Ciphertext) (proof.Bundle, error) {
	rangeObj, err := l.prover.RangeProof(amount, ctRecv)
	if err != nil {
		return proof.Bundle{}, fmt.Errorf("%w: range proof: %v", ErrProofRejected, err)
	}
	expObj, err := l.prover.ExponentProof(senderPriv, senderPub)
	if err != nil {
		return proof.Bundle{}, fmt.Errorf("%w: exponent proof: %v", ErrProofRejected, err)
	}
	balObj, err := l.prover.BalanceProof(senderBalance, ctSend)
	if err != nil {
		return proof.Bundle{}, fmt.Errorf("%w: balance proof: %v", ErrProofRejected, err)
	}
	return proof.Bundle{
		Range:    rangeObj,
		Exponent: expObj,
		Balance:  balObj,
		Public: proof.Public{
			PublicKey: &senderPub,
			Amount:    &ctRecv,
			Balance:   &senderBalance,
		},
	}, nil
}

func (l *Ledger) verifyBundle(b proof.Bundle) error {
	if err := l.prover.Verify(b.Range, b.Public); err != nil {
		return fmt.Errorf("range proof: %v", err)
	}
	if err := l.prover.Verify(b.Exponent, b.Public); err != nil {
		return fmt.Errorf("exponent proof: %v", err)
	}
	if err := l.prover.Verify(b.Balance, b.Public); err != nil {
		return fmt.Errorf("balance proof: %v", err)
	}
	return nil
}

// commit is the short locked section: nullifier check-and-insert, both
// balance swaps, both nonce bumps, one transfer record. All of it happens or
// none of it does.
func (l *Ledger) commit(tx *Transfer, ctSend, ctRecv elgamal.Ciphertext) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sender, ok := l.accounts[tx.From]
	if !ok {
		l.appendFailedLocked(tx)
		return fmt.Errorf("%w: %s", ErrAccountNotFound, tx.From)
	}
	receiver, ok := l.accounts[tx.To]
	if !ok {
		l.appendFailedLocked(tx)
		return fmt.Errorf("%w: %s", ErrAccountNotFound, tx.To)
	}
	if _, spent := l.nullifiers[tx.Nullifier]; spent {
		l.appendFailedLocked(tx)
		return ErrDoubleSpend
	}
	l.nullifiers[tx.Nullifier] = struct{}{}

	sender.EncryptedBalance = elgamal.SubCiphertexts(sender.EncryptedBalance, ctSend)
	receiver.EncryptedBalance = elgamal.AddCiphertexts(receiver.EncryptedBalance, ctRecv)
	sender.Nonce++
	receiver.Nonce++

	tx.Status = StatusConfirmed
	l.appendLocked(tx)
	return nil
}

func (l *Ledger) recordFailed(tx *Transfer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appendFailedLocked(tx)
}

func (l *Ledger) appendFailedLocked(tx *Transfer) {
	tx.Status = StatusFailed
	l.appendLocked(tx)
}

func (l *Ledger) appendLocked(tx *Transfer) {
	cp := *tx
	l.transfers[tx.ID] = &cp
	l.order = append(l.order, tx.ID)
}

// Withdraw subtracts a disclosed amount from the encrypted balance. The
// amount is public here by definition: it exits to a non-confidential
// system. Returns a withdrawal id.
func (l *Ledger) Withdraw(address string, amount uint64) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[address]
	if !ok {
		return "", ErrAccountNotFound
	}
	ct, err := elgamal.Encrypt(amount, acct.PublicKey)
	if err != nil {
		return "", err
	}
	acct.EncryptedBalance = elgamal.SubCiphertexts(acct.EncryptedBalance, ct)
	acct.Nonce++
	return newID()
}

// Balance returns the opaque balance ciphertext.
func (l *Ledger) Balance(address string) (elgamal.Ciphertext, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[address]
	if !ok {
		return elgamal.Ciphertext{}, ErrAccountNotFound
	}
	return acct.EncryptedBalance, nil
}

// BalanceWithKey decrypts the balance with a viewing (private) key. Recovery
// runs outside the lock; its cost is bounded by the configured search bound.
func (l *Ledger) BalanceWithKey(address string, key *big.Int) (uint64, error) {
	ct, err := l.Balance(address)
	if err != nil {
		return 0, err
	}
	M := elgamal.DecryptPoint(ct, key)
	return elgamal.RecoverExponentWithThreshold(M, l.cfg.SearchBound, l.cfg.LinearScanThreshold)
}

// SetViewingKey attaches an auditor-disclosure key reference to an account.
// Encryption is unaffected.
func (l *Ledger) SetViewingKey(address, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[address]
	if !ok {
		return ErrAccountNotFound
	}
	acct.ViewingKey = key
	return nil
}

// Account returns the public view of an account.
func (l *Ledger) Account(address string) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[address]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return *acct, nil
}

// TransferByID returns a recorded transfer.
func (l *Ledger) TransferByID(id string) (Transfer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, ok := l.transfers[id]
	if !ok {
		return Transfer{}, ErrTransferNotFound
	}
	return *tx, nil
}

// Transfers returns all recorded transfers in append order.
func (l *Ledger) Transfers() []Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Transfer, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.transfers[id])
	}
	return out
}

// VerifyTransferProof re-verifies a recorded transfer's proof bundle against
// the public inputs captured at transfer time.
func (l *Ledger) VerifyTransferProof(id string) error {
	tx, err := l.TransferByID(id)
	if err != nil {
		return err
	}
	if err := l.verifyBundle(tx.Proof); err != nil {
		return fmt.Errorf("%w: %v", ErrProofRejected, err)
	}
	return nil
}

// HasNullifier reports whether a nullifier has been consumed.
func (l *Ledger) HasNullifier(nf string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.nullifiers[nf]
	return ok
}

func newID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
