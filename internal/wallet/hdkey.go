package wallet

import (
	"crypto/ed25519"
	"fmt"

	"github.com/blocto/solana-go-sdk/pkg/hdwallet"
	"github.com/gagliardetto/solana-go"
)

// HardenedOffset is the first hardened child index. ed25519 SLIP-10 only
// supports hardened children.
const HardenedOffset uint32 = 0x80000000

// AccountPath returns m/44'/501'/account'/0', the path used by Phantom,
// Solflare and `solana-keygen --derivation-path`.
func AccountPath(account uint32) string {
	return fmt.Sprintf("m/44'/501'/%d'/0'", account)
}

// HDKey is a SLIP-10 ed25519 node.
type HDKey struct {
	key hdwallet.Key
}

// DerivePath derives the node at path (for example "m/0'/1'") from a
// BIP-39 seed.
func DerivePath(seed []byte, path string) (*HDKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, fmt.Errorf("seed must be 16-64 bytes, got %d", len(seed))
	}
	k, err := hdwallet.Derived(path, seed)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", path, err)
	}
	if len(k.PrivateKey) != ed25519.SeedSize {
		return nil, fmt.Errorf("derive %s: private key is %d bytes", path, len(k.PrivateKey))
	}
	return &HDKey{key: k}, nil
}

// Seed returns the 32-byte ed25519 seed of this node.
func (k *HDKey) Seed() []byte {
	return append([]byte(nil), k.key.PrivateKey...)
}

// ChainCode returns the 32-byte chain code.
func (k *HDKey) ChainCode() []byte {
	return append([]byte(nil), k.key.ChainCode...)
}

// PrivateKey returns the node as a Solana keypair.
func (k *HDKey) PrivateKey() solana.PrivateKey {
	return solana.PrivateKey(ed25519.NewKeyFromSeed(k.key.PrivateKey))
}

// PublicKey returns the node's Solana address.
func (k *HDKey) PublicKey() solana.PublicKey {
	return k.PrivateKey().PublicKey()
}

// DeriveKeypair derives the keypair for account directly from a BIP-39 seed.
func DeriveKeypair(seed []byte, account uint32) (solana.PrivateKey, error) {
	if account >= HardenedOffset {
		return nil, fmt.Errorf("account index %d out of range", account)
	}
	k, err := DerivePath(seed, AccountPath(account))
	if err != nil {
		return nil, err
	}
	return k.PrivateKey(), nil
}
