package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownKey is returned by Set for keys the config does not define.
var ErrUnknownKey = errors.New("unknown config key")

// Keys lists the persisted config keys in file order.
var Keys = []string{
	"network",
	"rpc.url",
	"rpc.commitment",
	"rpc.timeout",
	"keypair",
	"keystore",
	"datadir",
	"tx.skip_preflight",
	"tx.confirm_timeout",
	"log.level",
	"log.file",
	"log.json",
}

// LoadFile loads configuration values from a .conf file.
// Format: key = value (one per line, # for comments). A missing file yields
// no values.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file values to cfg. Unknown keys are ignored.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	// Network first: it decides what an empty rpc.url means.
	if v, ok := values["network"]; ok {
		if err := setConfigValue(cfg, "network", v); err != nil {
			return fmt.Errorf("config key %q: %w", "network", err)
		}
	}
	for key, value := range values {
		if key == "network" {
			continue
		}
		if err := setConfigValue(cfg, key, value); err != nil && !errors.Is(err, ErrUnknownKey) {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "network":
		cfg.Network = Network(strings.ToLower(value))
		if c, ok := LookupCluster(cfg.Network); ok {
			cfg.Network = c.Network
		}

	case "rpc.url", "url":
		cfg.RPC.URL = value
	case "rpc.commitment", "commitment":
		cfg.RPC.Commitment = Commitment(strings.ToLower(value))
	case "rpc.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.RPC.Timeout = d

	case "keypair":
		cfg.KeypairPath = expandHome(value)
	case "keystore":
		cfg.Keystore = value
	case "datadir":
		cfg.DataDir = expandHome(value)

	case "tx.skip_preflight":
		cfg.Tx.SkipPreflight = parseBool(value)
	case "tx.confirm_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Tx.ConfirmTimeout = d

	case "log.level":
		cfg.Log.Level = strings.ToLower(value)
	case "log.file":
		cfg.Log.File = expandHome(value)
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Value returns the string form of a config key, as it would be saved.
func (c *Config) Value(key string) (string, error) {
	switch key {
	case "network":
		return string(c.Network), nil
	case "rpc.url":
		return c.RPC.URL, nil
	case "rpc.commitment":
		return string(c.RPC.Commitment), nil
	case "rpc.timeout":
		return c.RPC.Timeout.String(), nil
	case "keypair":
		return c.KeypairPath, nil
	case "keystore":
		return c.Keystore, nil
	case "datadir":
		return c.DataDir, nil
	case "tx.skip_preflight":
		return strconv.FormatBool(c.Tx.SkipPreflight), nil
	case "tx.confirm_timeout":
		return c.Tx.ConfirmTimeout.String(), nil
	case "log.level":
		return c.Log.Level, nil
	case "log.file":
		return c.Log.File, nil
	case "log.json":
		return strconv.FormatBool(c.Log.JSON), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Save writes every persisted key of cfg to path, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# scilla configuration\n\n")
	for _, key := range Keys {
		v, err := cfg.Value(key)
		if err != nil {
			return err
		}
		if v == "" {
			fmt.Fprintf(&b, "# %s =\n", key)
			continue
		}
		fmt.Fprintf(&b, "%s = %s\n", key, v)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// Set updates a single key in the config file at path. The resulting
// config must validate before it is written.
func Set(path, key, value string) (*Config, error) {
	values, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default(Devnet)
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, err
	}
	if err := setConfigValue(cfg, key, value); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if err := Save(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefaultConfig writes a commented default configuration file.
func WriteDefaultConfig(path string, network Network) error {
	cfg := Default(network)
	content := `# scilla configuration
#
# Values here are overridden by command-line flags.

# Cluster: mainnet-beta, devnet, testnet, localnet or custom
network = ` + string(cfg.Network) + `

# ============================================================================
# RPC
# ============================================================================

# Endpoint override (required for network = custom)
# rpc.url = https://api.devnet.solana.com

# Commitment: processed, confirmed or finalized
rpc.commitment = ` + string(cfg.RPC.Commitment) + `
rpc.timeout = ` + cfg.RPC.Timeout.String() + `

# ============================================================================
# Signer
# ============================================================================

# Solana keygen JSON file
keypair = ` + cfg.KeypairPath + `

# Keystore wallet name (takes precedence over keypair when set)
# keystore = main

# Data directory (keystore, transaction journal)
# datadir = ~/.scilla

# ============================================================================
# Transactions
# ============================================================================

tx.skip_preflight = false
tx.confirm_timeout = ` + cfg.Tx.ConfirmTimeout.String() + `

# ============================================================================
# Logging
# ============================================================================

log.level = ` + cfg.Log.Level + `
# log.file =
log.json = false
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
