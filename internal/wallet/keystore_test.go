package wallet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ks, err := NewKeystore(filepath.Join(t.TempDir(), "keystore"))
	if err != nil {
		t.Fatalf("NewKeystore() error: %v", err)
	}
	return ks
}

func testSeedBytes(t *testing.T) []byte {
	t.Helper()
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	return seed
}

func TestKeystore_CreateFromSeedAndSigner(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)
	password := []byte("test-password")

	info, err := ks.CreateFromSeed("main", seed, password, fastParams())
	if err != nil {
		t.Fatalf("CreateFromSeed() error: %v", err)
	}
	if info.Kind != KindMnemonic || len(info.Accounts) != 1 || len(info.Fingerprint) != 8 {
		t.Fatalf("info = %+v", info)
	}

	key, err := ks.Signer("main", password)
	if err != nil {
		t.Fatalf("Signer() error: %v", err)
	}
	want, _ := DeriveKeypair(seed, 0)
	if key.PublicKey() != want.PublicKey() {
		t.Errorf("signer = %s, want %s", key.PublicKey(), want.PublicKey())
	}
	if info.Fingerprint != Fingerprint(want.PublicKey()) {
		t.Error("fingerprint does not match account 0")
	}
}

func TestKeystore_WrongPassword(t *testing.T) {
	ks := testKeystore(t)
	if _, err := ks.CreateFromSeed("w", testSeedBytes(t), []byte("right"), fastParams()); err != nil {
		t.Fatalf("CreateFromSeed() error: %v", err)
	}
	if _, err := ks.Signer("w", []byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Signer() error = %v, want ErrWrongPassword", err)
	}
}

func TestKeystore_Duplicate(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)
	if _, err := ks.CreateFromSeed("dup", seed, []byte("pass"), fastParams()); err != nil {
		t.Fatalf("first CreateFromSeed() error: %v", err)
	}
	if _, err := ks.CreateFromSeed("dup", seed, []byte("pass"), fastParams()); err == nil {
		t.Error("duplicate wallet name should fail")
	}
}

func TestKeystore_InvalidName(t *testing.T) {
	ks := testKeystore(t)
	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if _, err := ks.CreateFromSeed(name, testSeedBytes(t), []byte("p"), fastParams()); err == nil {
			t.Errorf("CreateFromSeed(%q) should fail", name)
		}
	}
}

func TestKeystore_ImportKeypair(t *testing.T) {
	ks := testKeystore(t)
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey() error: %v", err)
	}

	info, err := ks.ImportKeypair("imported", key, []byte("pw"), fastParams())
	if err != nil {
		t.Fatalf("ImportKeypair() error: %v", err)
	}
	if info.Kind != KindKeypair {
		t.Errorf("Kind = %s, want keypair", info.Kind)
	}

	got, err := ks.Signer("imported", []byte("pw"))
	if err != nil {
		t.Fatalf("Signer() error: %v", err)
	}
	if got.PublicKey() != key.PublicKey() {
		t.Error("imported keypair changed on the way back")
	}

	if _, err := ks.AddAccount("imported", []byte("pw"), 1, ""); err == nil {
		t.Error("AddAccount() on a keypair wallet should fail")
	}
}

func TestKeystore_AccountsAndActive(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)
	pw := []byte("pw")
	if _, err := ks.CreateFromSeed("hd", seed, pw, fastParams()); err != nil {
		t.Fatalf("CreateFromSeed() error: %v", err)
	}

	entry, err := ks.AddAccount("hd", pw, 3, "")
	if err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}
	if entry.Name != "account 3" {
		t.Errorf("Name = %q", entry.Name)
	}
	again, err := ks.AddAccount("hd", pw, 3, "other label")
	if err != nil || again != entry {
		t.Errorf("AddAccount() should be idempotent, got %+v, %v", again, err)
	}

	if err := ks.SetActive("hd", 7); err == nil {
		t.Error("SetActive() for an unrecorded account should fail")
	}
	if err := ks.SetActive("hd", 3); err != nil {
		t.Fatalf("SetActive() error: %v", err)
	}

	key, err := ks.Signer("hd", pw)
	if err != nil {
		t.Fatalf("Signer() error: %v", err)
	}
	want, _ := DeriveKeypair(seed, 3)
	if key.PublicKey() != want.PublicKey() {
		t.Error("Signer() did not use the active account")
	}

	info, err := ks.Info("hd")
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	active, ok := info.ActiveAccount()
	if !ok || active.Address != want.PublicKey().String() {
		t.Errorf("ActiveAccount() = %+v, %v", active, ok)
	}
}

func TestKeystore_ListAndDelete(t *testing.T) {
	ks := testKeystore(t)
	for _, name := range []string{"alpha", "beta"} {
		if _, err := ks.CreateFromSeed(name, testSeedBytes(t), []byte("p"), fastParams()); err != nil {
			t.Fatalf("CreateFromSeed(%s) error: %v", name, err)
		}
	}
	os.WriteFile(filepath.Join(ks.Dir(), "notes.txt"), []byte("x"), 0600)

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List() = %v, want 2 wallets", names)
	}

	if err := ks.Delete("alpha"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := ks.Info("alpha"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Info() after delete error = %v, want ErrWalletNotFound", err)
	}
	if err := ks.Delete("alpha"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("second Delete() error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_FilePermissions(t *testing.T) {
	ks := testKeystore(t)
	if _, err := ks.CreateFromSeed("perm", testSeedBytes(t), []byte("p"), fastParams()); err != nil {
		t.Fatalf("CreateFromSeed() error: %v", err)
	}
	st, err := os.Stat(filepath.Join(ks.Dir(), "perm.wallet"))
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if st.Mode().Perm() != 0600 {
		t.Errorf("wallet file mode = %o, want 600", st.Mode().Perm())
	}
}
