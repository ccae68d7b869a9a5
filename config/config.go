// Package config handles scilla configuration.
//
// Settings come from three layers, later ones winning:
//   - Defaults for the selected network
//   - The key = value config file (~/.config/scilla.conf)
//   - Command-line flags
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the client's runtime configuration.
type Config struct {
	// Cluster
	Network Network `conf:"network"`
	RPC     RPCConfig

	// Signing key. Keystore names an entry in the keystore directory; when
	// empty the Solana keygen file at KeypairPath is used.
	KeypairPath string `conf:"keypair"`
	Keystore    string `conf:"keystore"`

	// Local state (keystore, transaction journal)
	DataDir string `conf:"datadir"`

	Tx  TxConfig
	Log LogConfig

	// Path the config was loaded from (not persisted).
	File string
}

// RPCConfig holds JSON-RPC client settings.
type RPCConfig struct {
	URL        string        `conf:"rpc.url"` // Overrides the network preset when set
	Commitment Commitment    `conf:"rpc.commitment"`
	Timeout    time.Duration `conf:"rpc.timeout"`
}

// TxConfig holds transaction submission settings.
type TxConfig struct {
	SkipPreflight  bool          `conf:"tx.skip_preflight"`
	ConfirmTimeout time.Duration `conf:"tx.confirm_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// Commitment is the RPC commitment level used for reads and confirmation.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// RPCURL returns the endpoint to use: the explicit URL when set, otherwise
// the network preset.
func (c *Config) RPCURL() string {
	if c.RPC.URL != "" {
		return c.RPC.URL
	}
	if cl, ok := LookupCluster(c.Network); ok {
		return cl.RPCURL
	}
	return ""
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.scilla
//	macOS:   ~/Library/Application Support/Scilla
//	Windows: %APPDATA%\Scilla
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scilla"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Scilla")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Scilla")
		}
		return filepath.Join(home, "AppData", "Roaming", "Scilla")
	default:
		return filepath.Join(home, ".scilla")
	}
}

// DefaultConfigFile returns ~/.config/scilla.conf.
func DefaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scilla.conf"
	}
	return filepath.Join(home, ".config", "scilla.conf")
}

// DefaultKeypairPath returns the Solana CLI's default keypair location.
func DefaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.DataDir, "keystore")
}

// JournalDir returns the transaction journal database directory. Journals
// are kept per network so devnet history never mixes with mainnet.
func (c *Config) JournalDir() string {
	return filepath.Join(c.DataDir, "journal", string(c.Network))
}

// EnsureDataDirs creates the data directory structure if missing.
func EnsureDataDirs(cfg *Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.KeystoreDir(), 0700); err != nil {
		return err
	}
	return os.MkdirAll(cfg.JournalDir(), 0755)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path == "~" || len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
