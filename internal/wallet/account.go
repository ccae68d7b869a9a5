package wallet

import (
	"encoding/hex"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/zeebo/blake3"
)

// Kind is the type of secret a keystore entry holds.
type Kind string

const (
	// KindMnemonic entries hold a BIP-39 seed and can derive many accounts.
	KindMnemonic Kind = "mnemonic"
	// KindKeypair entries hold one imported 64-byte keypair.
	KindKeypair Kind = "keypair"
)

// AccountEntry stores metadata for a derived or imported account.
type AccountEntry struct {
	Index   uint32 `json:"index"`
	Name    string `json:"name"`
	Address string `json:"address"` // base58
}

// PublicKey parses the stored address.
func (a AccountEntry) PublicKey() (solana.PublicKey, error) {
	return solana.PublicKeyFromBase58(a.Address)
}

// Info summarizes a keystore entry without decrypting it.
type Info struct {
	Name        string
	Kind        Kind
	Fingerprint string
	CreatedAt   time.Time
	Accounts    []AccountEntry
	Active      uint32
}

// ActiveAccount returns the account used for signing.
func (i *Info) ActiveAccount() (AccountEntry, bool) {
	for _, a := range i.Accounts {
		if a.Index == i.Active {
			return a, true
		}
	}
	return AccountEntry{}, false
}

// Fingerprint identifies a wallet by the BLAKE3 hash of its first address,
// short enough to read aloud when comparing machines.
func Fingerprint(pub solana.PublicKey) string {
	sum := blake3.Sum256(pub[:])
	return hex.EncodeToString(sum[:4])
}
