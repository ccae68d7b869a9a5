package config

import (
	"fmt"
	"net/url"

	"github.com/scilla-cli/scilla/internal/log"
)

// Validate checks the config for obvious mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if _, ok := LookupCluster(cfg.Network); !ok {
		return fmt.Errorf("network must be one of %v, got %q", Networks(), cfg.Network)
	}
	if cfg.Network == Custom && cfg.RPC.URL == "" {
		return fmt.Errorf("network %q requires rpc.url", Custom)
	}
	if err := validateURL(cfg.RPCURL()); err != nil {
		return fmt.Errorf("rpc.url: %w", err)
	}

	switch cfg.RPC.Commitment {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
	default:
		return fmt.Errorf("rpc.commitment must be %s, %s or %s",
			CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized)
	}
	if cfg.RPC.Timeout <= 0 {
		return fmt.Errorf("rpc.timeout must be positive")
	}
	if cfg.Tx.ConfirmTimeout <= 0 {
		return fmt.Errorf("tx.confirm_timeout must be positive")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir is empty")
	}
	if cfg.Keystore == "" && cfg.KeypairPath == "" {
		return fmt.Errorf("either keypair or keystore must be set")
	}
	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error, disabled", cfg.Log.Level)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
