package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags holds command-line overrides. String fields left empty and bools
// not explicitly set keep the file or default value.
type Flags struct {
	Config     string
	Network    string
	URL        string
	Keypair    string
	Keystore   string
	Commitment string
	DataDir    string

	LogLevel string
	LogFile  string
	LogJSON  bool

	fs *pflag.FlagSet
}

// Register binds the flags to fs, normally a cobra command's persistent
// flag set.
func (f *Flags) Register(fs *pflag.FlagSet) {
	f.fs = fs

	fs.StringVarP(&f.Config, "config", "c", "", "Config file path (default ~/.config/scilla.conf)")
	fs.StringVarP(&f.Network, "network", "n", "", "Cluster: mainnet-beta, devnet, testnet, localnet or custom")
	fs.StringVarP(&f.URL, "url", "u", "", "RPC endpoint (overrides the network preset)")
	fs.StringVarP(&f.Keypair, "keypair", "k", "", "Solana keygen file to sign with")
	fs.StringVar(&f.Keystore, "keystore", "", "Keystore wallet name to sign with")
	fs.StringVar(&f.Commitment, "commitment", "", "Commitment: processed, confirmed or finalized")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory (default ~/.scilla)")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write JSON logs to this file")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Write logs to stderr as JSON")
}

// ConfigFile returns the config file path selected by --config, or the
// default location.
func (f *Flags) ConfigFile() string {
	if f != nil && f.Config != "" {
		return expandHome(f.Config)
	}
	return DefaultConfigFile()
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// ApplyFlags applies command-line flags to cfg.
func ApplyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Network != "" {
		_ = setConfigValue(cfg, "network", f.Network)
	}
	if f.URL != "" {
		cfg.RPC.URL = f.URL
	}
	if f.Keypair != "" {
		cfg.KeypairPath = expandHome(f.Keypair)
		// An explicit keypair file beats a keystore named in the file.
		if f.Keystore == "" {
			cfg.Keystore = ""
		}
	}
	if f.Keystore != "" {
		cfg.Keystore = f.Keystore
	}
	if f.Commitment != "" {
		_ = setConfigValue(cfg, "rpc.commitment", f.Commitment)
	}
	if f.DataDir != "" {
		cfg.DataDir = expandHome(f.DataDir)
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = expandHome(f.LogFile)
	}
	if f.changed("log-json") {
		cfg.Log.JSON = f.LogJSON
	}
}

// Load builds the configuration with the following precedence:
// 1. Defaults
// 2. Config file
// 3. Command-line flags
func Load(f *Flags) (*Config, error) {
	path := f.ConfigFile()

	fileValues, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}

	network := Devnet
	if v, ok := fileValues["network"]; ok {
		network = Network(v)
	}
	if f != nil && f.Network != "" {
		network = Network(f.Network)
	}

	cfg := Default(network)
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}
	ApplyFlags(cfg, f)
	cfg.File = path

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
