package ledger

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tongo/internal/elgamal"
	"tongo/internal/proof"
)

func testConfig() Config {
	return Config{
		SearchBound:         2_000_000,
		LinearScanThreshold: 1_000,
		MaxAmount:           1 << 40,
	}
}

func testLedger(t *testing.T) (*Ledger, map[string]*big.Int) {
	t.Helper()
	l := New(proof.Checking{MaxAmount: testConfig().MaxAmount}, testConfig())
	keys := make(map[string]*big.Int)
	for _, addr := range []string{"alice", "bob"} {
		_, priv, err := l.CreateAccount(addr, 0)
		if err != nil {
			t.Fatalf("CreateAccount(%s): %v", addr, err)
		}
		keys[addr] = priv
	}
	return l, keys
}

func mustBalance(t *testing.T, l *Ledger, addr string, key *big.Int) uint64 {
	t.Helper()
	v, err := l.BalanceWithKey(addr, key)
	if err != nil {
		t.Fatalf("BalanceWithKey(%s): %v", addr, err)
	}
	return v
}

func TestCreateAccount(t *testing.T) {
	l, keys := testLedger(t)
	if got := mustBalance(t, l, "alice", keys["alice"]); got != 0 {
		t.Errorf("fresh account balance = %d, want 0", got)
	}
	if _, _, err := l.CreateAccount("alice", 0); !errors.Is(err, ErrAccountExists) {
		t.Errorf("duplicate address: got %v, want ErrAccountExists", err)
	}
	if _, err := l.Balance("carol"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("unknown address: got %v, want ErrAccountNotFound", err)
	}
}

func TestFundTransferDisclose(t *testing.T) {
	l, keys := testLedger(t)
	if _, err := l.Fund("alice", 1_000_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}
	if got := mustBalance(t, l, "alice", keys["alice"]); got != 1_000_000 {
		t.Fatalf("alice after fund = %d, want 1000000", got)
	}

	tx, err := l.Transfer("alice", "bob", 500_000, keys["alice"])
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if tx.Status != StatusConfirmed {
		t.Errorf("transfer status = %s, want confirmed", tx.Status)
	}
	if got := mustBalance(t, l, "alice", keys["alice"]); got != 500_000 {
		t.Errorf("alice after transfer = %d, want 500000", got)
	}
	if got := mustBalance(t, l, "bob", keys["bob"]); got != 500_000 {
		t.Errorf("bob after transfer = %d, want 500000", got)
	}

	// The recorded proof bundle stays verifiable after the fact.
	if err := l.VerifyTransferProof(tx.ID); err != nil {
		t.Errorf("VerifyTransferProof: %v", err)
	}
	if err := l.VerifyTransferProof("no-such-id"); !errors.Is(err, ErrTransferNotFound) {
		t.Errorf("unknown transfer id: got %v, want ErrTransferNotFound", err)
	}

	// Nonces rose on both sides.
	alice, _ := l.Account("alice")
	bob, _ := l.Account("bob")
	if alice.Nonce != 2 || bob.Nonce != 1 {
		t.Errorf("nonces = (%d, %d), want (2, 1)", alice.Nonce, bob.Nonce)
	}
}

func TestTransferSharedCiphertext(t *testing.T) {
	l, keys := testLedger(t)
	if _, err := l.Fund("alice", 1_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}
	tx, err := l.Transfer("alice", "bob", 300, keys["alice"])
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	// The recorded ciphertext is under bob's key; his key opens it directly.
	M := elgamal.DecryptPoint(tx.EncryptedAmount, keys["bob"])
	got, err := elgamal.RecoverExponent(M, 1_000)
	if err != nil {
		t.Fatalf("RecoverExponent: %v", err)
	}
	if got != 300 {
		t.Errorf("recipient decrypts transfer amount = %d, want 300", got)
	}
}

func TestDoubleSpendRejected(t *testing.T) {
	l, keys := testLedger(t)
	if _, err := l.Fund("alice", 1_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}

	tx, err := l.Transfer("alice", "bob", 100, keys["alice"])
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if !l.HasNullifier(tx.Nullifier) {
		t.Fatalf("confirmed transfer's nullifier missing from registry")
	}

	// Replay the exact commit: same nullifier, same ciphertexts. The registry
	// must reject it and leave all balances untouched.
	replay := tx
	replay.ID = "replay"
	replay.Status = StatusPending
	ctSend := tx.EncryptedAmount
	if err := l.commit(&replay, ctSend, tx.EncryptedAmount); !errors.Is(err, ErrDoubleSpend) {
		t.Fatalf("replayed commit: got %v, want ErrDoubleSpend", err)
	}
	rec, err := l.TransferByID("replay")
	if err != nil {
		t.Fatalf("TransferByID(replay): %v", err)
	}
	if rec.Status != StatusFailed {
		t.Errorf("replayed transfer status = %s, want failed", rec.Status)
	}
	if got := mustBalance(t, l, "alice", keys["alice"]); got != 900 {
		t.Errorf("alice after rejected replay = %d, want 900", got)
	}
	if got := mustBalance(t, l, "bob", keys["bob"]); got != 100 {
		t.Errorf("bob after rejected replay = %d, want 100", got)
	}
}

func TestDistinctTransfersDistinctNullifiers(t *testing.T) {
	l, keys := testLedger(t)
	if _, err := l.Fund("alice", 1_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}
	a, err := l.Transfer("alice", "bob", 100, keys["alice"])
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	b, err := l.Transfer("alice", "bob", 100, keys["alice"])
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if a.Nullifier == b.Nullifier {
		t.Errorf("two honest transfers produced the same nullifier")
	}
}

func TestProofRejectionLeavesNoTrace(t *testing.T) {
	cfg := testConfig()
	// A verifier with a tight maximum rejects the range proof.
	l := New(proof.Checking{MaxAmount: 50}, cfg)
	_, alicePriv, err := l.CreateAccount("alice", 0)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, _, err := l.CreateAccount("bob", 0); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if _, err := l.Fund("alice", 40); err != nil {
		t.Fatalf("Fund: %v", err)
	}

	tx, err := l.Transfer("alice", "bob", 100, alicePriv)
	if !errors.Is(err, ErrProofRejected) {
		t.Fatalf("oversized transfer: got %v, want ErrProofRejected", err)
	}
	if tx.Status != StatusFailed {
		t.Errorf("rejected transfer status = %s, want failed", tx.Status)
	}
	if l.HasNullifier(tx.Nullifier) {
		t.Errorf("rejected transfer consumed a nullifier")
	}
	if got := mustBalance(t, l, "alice", alicePriv); got != 40 {
		t.Errorf("alice after rejected transfer = %d, want 40", got)
	}
	alice, _ := l.Account("alice")
	if alice.Nonce != 1 {
		t.Errorf("alice nonce after rejected transfer = %d, want 1", alice.Nonce)
	}
}

func TestWithdraw(t *testing.T) {
	l, keys := testLedger(t)
	if _, err := l.Fund("alice", 1_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}
	id, err := l.Withdraw("alice", 250)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if id == "" {
		t.Errorf("withdrawal id is empty")
	}
	if got := mustBalance(t, l, "alice", keys["alice"]); got != 750 {
		t.Errorf("alice after withdraw = %d, want 750", got)
	}
	if _, err := l.Withdraw("carol", 1); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("withdraw from unknown account: got %v, want ErrAccountNotFound", err)
	}
}

func TestSetViewingKey(t *testing.T) {
	l, _ := testLedger(t)
	before, _ := l.Balance("alice")
	if err := l.SetViewingKey("alice", "auditor-key-ref"); err != nil {
		t.Fatalf("SetViewingKey: %v", err)
	}
	acct, err := l.Account("alice")
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if acct.ViewingKey != "auditor-key-ref" {
		t.Errorf("viewing key = %q", acct.ViewingKey)
	}
	after, _ := l.Balance("alice")
	if !before.C1.Equal(after.C1) || !before.C2.Equal(after.C2) {
		t.Errorf("setting a viewing key changed the balance ciphertext")
	}
	if err := l.SetViewingKey("carol", "x"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("unknown account: got %v, want ErrAccountNotFound", err)
	}
}

func TestConcurrentTransfersConserveTotal(t *testing.T) {
	l, keys := testLedger(t)
	if _, err := l.Fund("alice", 10_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}
	if _, err := l.Fund("bob", 10_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}

	const rounds = 8
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := l.Transfer("alice", "bob", 10, keys["alice"]); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := l.Transfer("bob", "alice", 10, keys["bob"]); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent transfer: %v", err)
	}

	total := mustBalance(t, l, "alice", keys["alice"]) + mustBalance(t, l, "bob", keys["bob"])
	if total != 20_000 {
		t.Errorf("total after concurrent transfers = %d, want 20000", total)
	}
}

func TestSaveAndLoad(t *testing.T) {
	l, keys := testLedger(t)
	if _, err := l.Fund("alice", 5_000); err != nil {
		t.Fatalf("Fund: %v", err)
	}
	tx, err := l.Transfer("alice", "bob", 2_000, keys["alice"])
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := l.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	restored, err := LoadFromFile(path, proof.Checking{MaxAmount: testConfig().MaxAmount}, testConfig())
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if got := mustBalance(t, restored, "alice", keys["alice"]); got != 3_000 {
		t.Errorf("restored alice = %d, want 3000", got)
	}
	if got := mustBalance(t, restored, "bob", keys["bob"]); got != 2_000 {
		t.Errorf("restored bob = %d, want 2000", got)
	}
	if !restored.HasNullifier(tx.Nullifier) {
		t.Errorf("restored ledger lost the nullifier registry")
	}
	got, err := restored.TransferByID(tx.ID)
	if err != nil {
		t.Fatalf("restored TransferByID: %v", err)
	}
	if got.Status != StatusConfirmed {
		t.Errorf("restored transfer status = %s, want confirmed", got.Status)
	}
	if err := restored.VerifyTransferProof(tx.ID); err != nil {
		t.Errorf("restored proof bundle does not verify: %v", err)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFromFile(filepath.Join(dir, "missing.json"), proof.AcceptAll{}, testConfig()); err == nil {
		t.Errorf("loading a missing file should fail")
	}

	// An off-curve coordinate must not survive the load path.
	bad := filepath.Join(dir, "bad.json")
	content := `{"accounts":{"eve":{"address":"eve","public_key":{"x":"01","y":"01"},` +
		`"encrypted_balance":{"c1":{"x":"","y":""},"c2":{"x":"","y":""}},"nonce":0}},` +
		`"transfers":{},"order":[],"nullifiers":[]}`
	if err := os.WriteFile(bad, []byte(content), 0o600); err != nil {
		t.Fatalf("write bad file: %v", err)
	}
	if _, err := LoadFromFile(bad, proof.AcceptAll{}, testConfig()); err == nil {
		t.Errorf("loading an off-curve public key should fail")
	}
}

func TestNullifierDeterministic(t *testing.T) {
	seed := make([]byte, nullifierSeedLen)
	a := computeNullifier("alice", 3, 500, seed)
	b := computeNullifier("alice", 3, 500, seed)
	if a != b {
		t.Errorf("same inputs produced different nullifiers")
	}
	if c := computeNullifier("alice", 4, 500, seed); c == a {
		t.Errorf("nonce change did not change the nullifier")
	}
	if c := computeNullifier("bob", 3, 500, seed); c == a {
		t.Errorf("address change did not change the nullifier")
	}
}
