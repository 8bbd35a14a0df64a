// config.go - Configuration management for the confidential ledger daemon
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the daemon configuration
type Config struct {
	// Ledger settings
	SearchBound         uint64 `json:"search_bound"`
	LinearScanThreshold uint64 `json:"linear_scan_threshold"`
	MaxAmount           uint64 `json:"max_amount"`

	// Proof backend: "accept", "checking", or "groth16"
	ProofBackend string `json:"proof_backend"`

	// File paths
	LedgerPath string `json:"ledger_path"`
	KeyDir     string `json:"key_dir"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Rate limiting (per account)
	RateLimitTokens int `json:"rate_limit_tokens"`
	RateLimitRefill int `json:"rate_limit_refill"`

	// Security
	EnableAudit  bool   `json:"enable_audit"`
	AuditLogPath string `json:"audit_log_path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SearchBound:         1 << 32,
		LinearScanThreshold: 250_000,
		MaxAmount:           1 << 40,
		ProofBackend:        "checking",
		LedgerPath:          "ledger.json",
		KeyDir:              "keys",
		LogLevel:            "info",
		LogFile:             "tongod.log",
		RateLimitTokens:     20,
		RateLimitRefill:     5,
		EnableAudit:         true,
		AuditLogPath:        "audit.log",
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		var config Config
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}

		return &config, nil
	}

	// Create default config and save it
	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.SearchBound == 0 {
		return fmt.Errorf("search_bound must be positive")
	}
	if c.MaxAmount == 0 {
		return fmt.Errorf("max_amount must be positive")
	}
	switch c.ProofBackend {
	case "accept", "checking", "groth16":
	default:
		return fmt.Errorf("proof_backend must be accept, checking, or groth16")
	}
	if c.RateLimitTokens <= 0 {
		return fmt.Errorf("rate_limit_tokens must be positive")
	}
	if c.RateLimitRefill <= 0 {
		return fmt.Errorf("rate_limit_refill must be positive")
	}
	return nil
}
