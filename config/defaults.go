package config

import "time"

// DefaultEpochLimit is the number of epochs shown by stake history.
const DefaultEpochLimit = 10

// Default returns the default configuration for the given network.
func Default(network Network) *Config {
	if c, ok := LookupCluster(network); ok {
		network = c.Network
	}
	return &Config{
		Network:     network,
		KeypairPath: DefaultKeypairPath(),
		DataDir:     DefaultDataDir(),
		RPC: RPCConfig{
			Commitment: CommitmentConfirmed,
			Timeout:    30 * time.Second,
		},
		Tx: TxConfig{
			ConfirmTimeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
