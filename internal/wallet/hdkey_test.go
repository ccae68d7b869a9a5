package wallet

import (
	"encoding/hex"
	"testing"
)

// SLIP-10 ed25519 test vector 1.
func TestSLIP10_Vector1(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	tests := []struct {
		path      string
		chainCode string
		private   string
	}{
		{
			path:      "m/0'",
			chainCode: "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69",
			private:   "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
		},
		{
			path:      "m/0'/1'",
			chainCode: "a320425f77d1b5c2505a6b1b27382b37368ee640e3557c315416801243552f14",
			private:   "b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2",
		},
		{
			path:      "m/0'/1'/2'",
			chainCode: "2e69929e00b5ab250f49c3fb1c12f252de4fed2c1db88387094a0f8c4c9ccd6c",
			private:   "92a5b23c0b8a99e37d07df3fb9966917f5d06e02ddbd909c7e184371463e9fc9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, err := DerivePath(seed, tt.path)
			if err != nil {
				t.Fatalf("DerivePath() error: %v", err)
			}
			if got := hex.EncodeToString(key.ChainCode()); got != tt.chainCode {
				t.Errorf("chain code = %s, want %s", got, tt.chainCode)
			}
			if got := hex.EncodeToString(key.Seed()); got != tt.private {
				t.Errorf("private = %s, want %s", got, tt.private)
			}
		})
	}
}

func TestAccountPath(t *testing.T) {
	if got := AccountPath(7); got != "m/44'/501'/7'/0'" {
		t.Errorf("AccountPath(7) = %q", got)
	}
}

func TestDeriveKeypair(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}

	k0, err := DeriveKeypair(seed, 0)
	if err != nil {
		t.Fatalf("DeriveKeypair() error: %v", err)
	}
	k0again, _ := DeriveKeypair(seed, 0)
	k1, _ := DeriveKeypair(seed, 1)

	if k0.PublicKey() != k0again.PublicKey() {
		t.Error("derivation is not deterministic")
	}
	if k0.PublicKey() == k1.PublicKey() {
		t.Error("accounts 0 and 1 derived the same key")
	}
	if len(k0) != 64 {
		t.Errorf("keypair length = %d, want 64", len(k0))
	}

	node, err := DerivePath(seed, "m/44'/501'/0'/0'")
	if err != nil {
		t.Fatalf("DerivePath() error: %v", err)
	}
	if node.PublicKey() != k0.PublicKey() {
		t.Error("DeriveKeypair does not follow m/44'/501'/0'/0'")
	}
}

func TestDeriveKeypair_Rejected(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	if _, err := DeriveKeypair(make([]byte, 8), 0); err == nil {
		t.Error("DeriveKeypair() should reject an 8-byte seed")
	}
	if _, err := DeriveKeypair(seed, HardenedOffset); err == nil {
		t.Error("DeriveKeypair() should reject a hardened account index")
	}
	if _, err := DerivePath(seed, "not/a/path"); err == nil {
		t.Error("DerivePath() should reject a malformed path")
	}
}
