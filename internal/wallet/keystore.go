package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/internal/log"
)

// ErrWalletNotFound is returned for names with no keystore file.
var ErrWalletNotFound = errors.New("wallet not found")

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version         int            `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	Kind            Kind           `json:"kind"`
	EncryptedSecret []byte         `json:"encrypted_secret"`
	Fingerprint     string         `json:"fingerprint"`
	Accounts        []AccountEntry `json:"accounts"`
	Active          uint32         `json:"active"`
}

// Keystore manages encrypted key storage on disk.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Dir returns the keystore directory.
func (ks *Keystore) Dir() string { return ks.path }

func (ks *Keystore) walletPath(name string) string {
	return filepath.Join(ks.path, name+".wallet")
}

// CreateFromSeed stores a BIP-39 seed and records account 0.
func (ks *Keystore) CreateFromSeed(name string, seed, password []byte, params EncryptionParams) (*Info, error) {
	first, err := DeriveKeypair(seed, 0)
	if err != nil {
		return nil, err
	}
	return ks.create(name, KindMnemonic, seed, first.PublicKey(), password, params)
}

// ImportKeypair stores a single keypair, for example one read from a
// solana-keygen file.
func (ks *Keystore) ImportKeypair(name string, key solana.PrivateKey, password []byte, params EncryptionParams) (*Info, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keypair: %w", err)
	}
	return ks.create(name, KindKeypair, key, key.PublicKey(), password, params)
}

func (ks *Keystore) create(name string, kind Kind, secret []byte, first solana.PublicKey, password []byte, params EncryptionParams) (*Info, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("invalid wallet name %q", name)
	}
	path := ks.walletPath(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("wallet %q already exists", name)
	}

	encrypted, err := Encrypt(secret, password, params)
	if err != nil {
		return nil, fmt.Errorf("encrypt secret: %w", err)
	}

	kf := &keystoreFile{
		Version:         1,
		CreatedAt:       time.Now().UTC(),
		Kind:            kind,
		EncryptedSecret: encrypted,
		Fingerprint:     Fingerprint(first),
		Accounts:        []AccountEntry{{Index: 0, Name: "default", Address: first.String()}},
	}
	if err := ks.writeFile(path, kf); err != nil {
		return nil, err
	}
	log.Wallet.Info().Str("wallet", name).Str("kind", string(kind)).Str("address", first.String()).Msg("wallet created")
	return kf.info(name), nil
}

// Signer decrypts the wallet and returns the keypair of its active account.
func (ks *Keystore) Signer(name string, password []byte) (solana.PrivateKey, error) {
	kf, err := ks.readFile(name)
	if err != nil {
		return nil, err
	}
	secret, err := Decrypt(kf.EncryptedSecret, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet %q: %w", name, err)
	}
	defer zero(secret)

	var key solana.PrivateKey
	switch kf.Kind {
	case KindMnemonic:
		key, err = DeriveKeypair(secret, kf.Active)
		if err != nil {
			return nil, err
		}
	case KindKeypair:
		key = append(solana.PrivateKey(nil), secret...)
	default:
		return nil, fmt.Errorf("wallet %q: unknown kind %q", name, kf.Kind)
	}

	// The recorded address guards against a file edited by hand.
	for _, a := range kf.Accounts {
		if a.Index == kf.Active && a.Address != key.PublicKey().String() {
			return nil, fmt.Errorf("wallet %q: account %d address mismatch", name, a.Index)
		}
	}
	return key, nil
}

// AddAccount derives and records the account at index. Only mnemonic
// wallets can derive accounts. Adding an existing index is a no-op.
func (ks *Keystore) AddAccount(name string, password []byte, index uint32, label string) (AccountEntry, error) {
	kf, err := ks.readFile(name)
	if err != nil {
		return AccountEntry{}, err
	}
	if kf.Kind != KindMnemonic {
		return AccountEntry{}, fmt.Errorf("wallet %q holds a single keypair and cannot derive accounts", name)
	}
	for _, a := range kf.Accounts {
		if a.Index == index {
			return a, nil
		}
	}

	seed, err := Decrypt(kf.EncryptedSecret, password)
	if err != nil {
		return AccountEntry{}, fmt.Errorf("decrypt wallet %q: %w", name, err)
	}
	defer zero(seed)
	key, err := DeriveKeypair(seed, index)
	if err != nil {
		return AccountEntry{}, err
	}

	if label == "" {
		label = fmt.Sprintf("account %d", index)
	}
	entry := AccountEntry{Index: index, Name: label, Address: key.PublicKey().String()}
	kf.Accounts = append(kf.Accounts, entry)
	return entry, ks.writeFile(ks.walletPath(name), kf)
}

// SetActive selects which recorded account signs.
func (ks *Keystore) SetActive(name string, index uint32) error {
	kf, err := ks.readFile(name)
	if err != nil {
		return err
	}
	for _, a := range kf.Accounts {
		if a.Index == index {
			kf.Active = index
			return ks.writeFile(ks.walletPath(name), kf)
		}
	}
	return fmt.Errorf("wallet %q has no account %d", name, index)
}

// Info returns wallet metadata without decrypting.
func (ks *Keystore) Info(name string) (*Info, error) {
	kf, err := ks.readFile(name)
	if err != nil {
		return nil, err
	}
	return kf.info(name), nil
}

// List returns the names of all wallet files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".wallet" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	path := ks.walletPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return os.Remove(path)
}

func (kf *keystoreFile) info(name string) *Info {
	accts := make([]AccountEntry, len(kf.Accounts))
	copy(accts, kf.Accounts)
	return &Info{
		Name:        name,
		Kind:        kf.Kind,
		Fingerprint: kf.Fingerprint,
		CreatedAt:   kf.CreatedAt,
		Accounts:    accts,
		Active:      kf.Active,
	}
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(name string) (*keystoreFile, error) {
	data, err := os.ReadFile(ks.walletPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
		}
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
