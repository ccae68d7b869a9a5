package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
)

// PasswordFunc asks the user for a password.
type PasswordFunc func(prompt string) ([]byte, error)

// Source says where the signing key lives. A non-empty Keystore wins over
// KeypairPath.
type Source struct {
	KeypairPath string
	KeystoreDir string
	Keystore    string
}

// LoadSigner returns the keypair described by src. password is only called
// for keystore entries.
func LoadSigner(src Source, password PasswordFunc) (solana.PrivateKey, error) {
	if src.Keystore == "" {
		if src.KeypairPath == "" {
			return nil, fmt.Errorf("no keypair or keystore configured")
		}
		return ReadKeygenFile(src.KeypairPath)
	}

	ks, err := NewKeystore(src.KeystoreDir)
	if err != nil {
		return nil, err
	}
	if _, err := ks.Info(src.Keystore); err != nil {
		return nil, err
	}
	if password == nil {
		return nil, fmt.Errorf("wallet %q is encrypted and no password prompt is available", src.Keystore)
	}
	pw, err := password(fmt.Sprintf("Password for wallet %q: ", src.Keystore))
	if err != nil {
		return nil, err
	}
	defer zero(pw)
	return ks.Signer(src.Keystore, pw)
}

// ReadKeygenFile reads a solana-keygen JSON keypair file.
func ReadKeygenFile(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("keypair %s: %w", path, err)
	}
	return key, nil
}

// WriteKeygenFile writes key in solana-keygen format (a JSON array of 64
// byte values). Existing files are never overwritten.
func WriteKeygenFile(path string, key solana.PrivateKey) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite %s", path)
	}
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
