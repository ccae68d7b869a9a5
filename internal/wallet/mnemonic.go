// Package wallet manages signing keys: Solana keygen files, BIP-39
// mnemonics, SLIP-10 ed25519 derivation and an encrypted keystore.
package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// Supported mnemonic lengths. The Solana CLI defaults to 12 words.
const (
	Words12 = 12
	Words24 = 24
)

// GenerateMnemonic creates a new BIP-39 mnemonic of 12 or 24 words.
func GenerateMnemonic(words int) (string, error) {
	var bits int
	switch words {
	case Words12:
		bits = 128
	case Words24:
		bits = 256
	default:
		return "", fmt.Errorf("mnemonic must be %d or %d words, got %d", Words12, Words24, words)
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic lowercases and collapses whitespace so pasted phrases
// validate.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// ValidateMnemonic checks word count, word list membership and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}
