// persist.go - JSON snapshot of the ledger state.
//
// The snapshot carries accounts, the transfer log, and the nullifier
// registry. Points are validated on load, so a tampered or truncated file is
// rejected before any of it reaches the curve engine.

package ledger

import (
	"encoding/json"
	"fmt"
	"os"

	"tongo/internal/ecc"
	"tongo/internal/proof"
)

type ledgerFile struct {
	Accounts   map[string]*Account  `json:"accounts"`
	Transfers  map[string]*Transfer `json:"transfers"`
	Order      []string             `json:"order"`
	Nullifiers []string             `json:"nullifiers"`
}

// SaveToFile writes the full ledger state as JSON.
func (l *Ledger) SaveToFile(path string) error {
	l.mu.Lock()
	snap := ledgerFile{
		Accounts:   make(map[string]*Account, len(l.accounts)),
		Transfers:  make(map[string]*Transfer, len(l.transfers)),
		Order:      append([]string(nil), l.order...),
		Nullifiers: make([]string, 0, len(l.nullifiers)),
	}
	for addr, acct := range l.accounts {
		cp := *acct
		snap.Accounts[addr] = &cp
	}
	for id, tx := range l.transfers {
		cp := *tx
		snap.Transfers[id] = &cp
	}
	for nf := range l.nullifiers {
		snap.Nullifiers = append(snap.Nullifiers, nf)
	}
	l.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	return nil
}

// LoadFromFile restores a ledger from a JSON snapshot. The proof capability
// and config are supplied fresh; they are runtime policy, not state.
func LoadFromFile(path string, prover proof.Capability, cfg Config) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	var snap ledgerFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse ledger file: %w", err)
	}

	l := New(prover, cfg)
	for addr, acct := range snap.Accounts {
		if acct == nil {
			return nil, fmt.Errorf("ledger file: nil account %q", addr)
		}
		if err := validateAccount(acct); err != nil {
			return nil, fmt.Errorf("ledger file: account %q: %w", addr, err)
		}
		l.accounts[addr] = acct
	}
	for id, tx := range snap.Transfers {
		if tx == nil {
			return nil, fmt.Errorf("ledger file: nil transfer %q", id)
		}
		l.transfers[id] = tx
	}
	for _, id := range snap.Order {
		if _, ok := l.transfers[id]; !ok {
			return nil, fmt.Errorf("ledger file: order references unknown transfer %q", id)
		}
	}
	l.order = append([]string(nil), snap.Order...)
	for _, nf := range snap.Nullifiers {
		l.nullifiers[nf] = struct{}{}
	}
	return l, nil
}

func validateAccount(acct *Account) error {
	if !ecc.IsOnCurve(acct.PublicKey) {
		return fmt.Errorf("public key not on curve")
	}
	for _, p := range []struct {
		name string
		pt   ecc.Point
	}{
		{"balance c1", acct.EncryptedBalance.C1},
		{"balance c2", acct.EncryptedBalance.C2},
	} {
		if !ecc.IsOnCurve(p.pt) {
			return fmt.Errorf("%s not on curve", p.name)
		}
	}
	return nil
}
