// main.go - Confidential transfer scenario between two accounts.
//
// This demonstrates the full lifecycle of the confidential ledger:
//   - Two accounts are created; balances exist only as ElGamal ciphertexts
//   - The first account is funded, then transfers half to the second
//   - The transfer carries a proof bundle and consumes a nullifier
//   - Both holders disclose their balances with their own keys
//   - The sender withdraws a disclosed amount and the ledger is persisted
//
// Usage:
//   go run ./cmd/tongod
//
// Architecture:
//   - All state lives in a single ledger.json file
//   - Proof backend is configurable: accept (none), checking (sigma-style),
//     or groth16 (zk range proof with cached keys under key_dir)

package main

import (
	"errors"
	"fmt"
	"time"

	"tongo/internal/ecc"
	"tongo/internal/ledger"
	"tongo/internal/proof"
)

const version = "0.1.0"

func buildProver(cfg *Config, logger *Logger) (proof.Capability, error) {
	switch cfg.ProofBackend {
	case "accept":
		logger.Warn("proof backend 'accept': all proofs are trusted, use only for benchmarks")
		return proof.AcceptAll{}, nil
	case "checking":
		return proof.Checking{MaxAmount: cfg.MaxAmount}, nil
	case "groth16":
		logger.Info("compiling range circuit and loading Groth16 keys from %s", cfg.KeyDir)
		start := time.Now()
		p, err := proof.NewGroth16(cfg.KeyDir, cfg.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("groth16 setup failed: %w", err)
		}
		logger.Info("Groth16 backend ready in %s", time.Since(start))
		return p, nil
	default:
		return nil, fmt.Errorf("unknown proof backend %q", cfg.ProofBackend)
	}
}

func main() {
	cfg, err := LoadConfig("config.json")
	if err != nil {
		fmt.Printf("config error: %v\n", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("config invalid: %v\n", err)
		return
	}

	auditPath := ""
	if cfg.EnableAudit {
		auditPath = cfg.AuditLogPath
	}
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFile, auditPath)
	if err != nil {
		fmt.Printf("logger error: %v\n", err)
		return
	}
	defer logger.Close()

	metrics := NewMetricsCollector()
	limiter := NewAccountRateLimiter(cfg.RateLimitTokens, cfg.RateLimitRefill, time.Second)

	prover, err := buildProver(cfg, logger)
	if err != nil {
		logger.Fatal("prover setup: %v", err)
	}

	ledgerCfg := ledger.Config{
		SearchBound:         cfg.SearchBound,
		LinearScanThreshold: cfg.LinearScanThreshold,
		MaxAmount:           cfg.MaxAmount,
	}
	l, err := ledger.LoadFromFile(cfg.LedgerPath, prover, ledgerCfg)
	if err != nil {
		logger.Info("no existing ledger at %s, starting fresh", cfg.LedgerPath)
		l = ledger.New(prover, ledgerCfg)
	}

	health := NewHealthChecker(version)
	health.RegisterComponent("ledger", func() error {
		if _, err := l.Balance("alice"); err != nil && !errors.Is(err, ledger.ErrAccountNotFound) {
			return err
		}
		return nil
	})
	health.RegisterComponent("prover", func() error {
		kp, err := ecc.GenerateKeyPair()
		if err != nil {
			return err
		}
		obj, err := prover.ExponentProof(kp.Priv, kp.Pub)
		if err != nil {
			return err
		}
		return prover.Verify(obj, proof.Public{PublicKey: &kp.Pub})
	})

	logger.Info("=== Confidential Ledger Scenario ===")

	// 1. Create two accounts. The private keys come back exactly once.
	_, alicePriv, err := l.CreateAccount("alice", 0)
	if err != nil {
		logger.Fatal("create alice: %v", err)
	}
	_, bobPriv, err := l.CreateAccount("bob", 0)
	if err != nil {
		logger.Fatal("create bob: %v", err)
	}
	metrics.IncrementCounter(MetricAccountCount, nil)
	metrics.IncrementCounter(MetricAccountCount, nil)

	// 2. Fund alice. The ledger sees only a ciphertext.
	if !limiter.Allow("alice") {
		logger.Fatal("alice rate limited")
	}
	if _, err := l.Fund("alice", 1_000_000); err != nil {
		logger.Fatal("fund: %v", err)
	}
	logger.Info("alice funded with 1000000 units (ciphertext only on ledger)")

	// 3. Transfer half to bob with a full proof bundle.
	if !limiter.Allow("alice") {
		logger.Fatal("alice rate limited")
	}
	start := time.Now()
	tx, err := l.Transfer("alice", "bob", 500_000, alicePriv)
	if err != nil {
		metrics.RecordTransfer("failed")
		if errors.Is(err, ledger.ErrDoubleSpend) {
			metrics.RecordDoubleSpend()
		}
		logger.Fatal("transfer: %v", err)
	}
	metrics.RecordTransfer("confirmed")
	metrics.RecordProofGeneration(time.Since(start))
	logger.Info("transfer %s confirmed, nullifier %s consumed", tx.ID, tx.Nullifier[:16])
	logger.Audit("transfer", map[string]interface{}{
		"id":        tx.ID,
		"from":      tx.From,
		"to":        tx.To,
		"nullifier": tx.Nullifier,
	})

	// 4. The recorded proof bundle stays verifiable.
	if err := l.VerifyTransferProof(tx.ID); err != nil {
		logger.Fatal("proof re-verification: %v", err)
	}
	logger.Info("recorded proof bundle verified")

	// 5. Both holders disclose their balances with their own keys.
	start = time.Now()
	aliceBal, err := l.BalanceWithKey("alice", alicePriv)
	if err != nil {
		logger.Fatal("disclose alice: %v", err)
	}
	bobBal, err := l.BalanceWithKey("bob", bobPriv)
	if err != nil {
		logger.Fatal("disclose bob: %v", err)
	}
	metrics.RecordRecovery(time.Since(start))
	logger.Info("disclosed balances: alice=%d bob=%d", aliceBal, bobBal)

	// 6. Alice withdraws a disclosed amount.
	wid, err := l.Withdraw("alice", 100_000)
	if err != nil {
		logger.Fatal("withdraw: %v", err)
	}
	metrics.IncrementCounter(MetricWithdrawalCount, nil)
	logger.Info("withdrawal %s: alice -100000", wid)

	// 7. Persist the ledger.
	if err := l.SaveToFile(cfg.LedgerPath); err != nil {
		logger.Fatal("save ledger: %v", err)
	}
	logger.Info("ledger saved to %s", cfg.LedgerPath)

	// 8. Report health and metrics.
	h := health.CheckHealth()
	logger.Info("health: %s (uptime %s)", h.OverallStatus, h.Uptime.Round(time.Millisecond))
	summary := metrics.GetMetricsSummary()
	logger.Info("metrics: %+v", summary["counters"])
}
