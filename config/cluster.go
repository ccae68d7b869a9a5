package config

import "strings"

// Network names a Solana cluster preset.
type Network string

const (
	MainnetBeta Network = "mainnet-beta"
	Devnet      Network = "devnet"
	Testnet     Network = "testnet"
	Localnet    Network = "localnet"
	Custom      Network = "custom"
)

// Cluster describes a known network: its public RPC endpoint and the
// genesis hash used to check that an endpoint really serves it.
type Cluster struct {
	Network     Network
	RPCURL      string
	GenesisHash string // empty when the cluster has no fixed genesis
	Airdrop     bool   // faucet available through requestAirdrop
}

var clusters = map[Network]Cluster{
	MainnetBeta: {
		Network:     MainnetBeta,
		RPCURL:      "https://api.mainnet-beta.solana.com",
		GenesisHash: "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d",
	},
	Devnet: {
		Network:     Devnet,
		RPCURL:      "https://api.devnet.solana.com",
		GenesisHash: "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG",
		Airdrop:     true,
	},
	Testnet: {
		Network:     Testnet,
		RPCURL:      "https://api.testnet.solana.com",
		GenesisHash: "4uhcVJyU9pJkvQyS88uRDiswHXSCkY3zQawwpjk2NsNY",
		Airdrop:     true,
	},
	Localnet: {
		Network: Localnet,
		RPCURL:  "http://127.0.0.1:8899",
		Airdrop: true,
	},
	Custom: {
		Network: Custom,
	},
}

// LookupCluster returns the preset for a network name. "mainnet" is
// accepted as an alias for mainnet-beta.
func LookupCluster(n Network) (Cluster, bool) {
	n = Network(strings.ToLower(string(n)))
	if n == "mainnet" {
		n = MainnetBeta
	}
	c, ok := clusters[n]
	return c, ok
}

// Networks lists the selectable presets in display order.
func Networks() []Network {
	return []Network{MainnetBeta, Devnet, Testnet, Localnet, Custom}
}

// CheckGenesis reports whether hash matches the cluster's genesis. Clusters
// without a fixed genesis accept any hash.
func (c Cluster) CheckGenesis(hash string) bool {
	return c.GenesisHash == "" || c.GenesisHash == hash
}
