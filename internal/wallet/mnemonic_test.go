package wallet

import (
	"bytes"
	"strings"
	"testing"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateMnemonic(t *testing.T) {
	for _, words := range []int{Words12, Words24} {
		m, err := GenerateMnemonic(words)
		if err != nil {
			t.Fatalf("GenerateMnemonic(%d) error: %v", words, err)
		}
		if n := len(strings.Fields(m)); n != words {
			t.Errorf("word count = %d, want %d", n, words)
		}
		if !ValidateMnemonic(m) {
			t.Errorf("generated mnemonic failed validation: %q", m)
		}
	}

	if _, err := GenerateMnemonic(15); err == nil {
		t.Error("GenerateMnemonic(15) should fail")
	}
}

func TestValidateMnemonic(t *testing.T) {
	if !ValidateMnemonic(testMnemonic) {
		t.Error("BIP-39 test vector rejected")
	}
	if !ValidateMnemonic("  ABANDON abandon abandon abandon abandon abandon\tabandon abandon abandon abandon abandon about\n") {
		t.Error("mnemonic with odd case and whitespace rejected")
	}
	bad := strings.Replace(testMnemonic, "about", "abandon", 1)
	if ValidateMnemonic(bad) {
		t.Error("bad checksum accepted")
	}
	if ValidateMnemonic("not a real mnemonic") {
		t.Error("garbage accepted")
	}
}

func TestSeedFromMnemonic(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if len(seed) != SeedSize {
		t.Fatalf("seed length = %d, want %d", len(seed), SeedSize)
	}

	withPass, err := SeedFromMnemonic(testMnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if bytes.Equal(seed, withPass) {
		t.Error("passphrase should change the seed")
	}

	if _, err := SeedFromMnemonic("abandon abandon", ""); err == nil {
		t.Error("SeedFromMnemonic() should reject an invalid mnemonic")
	}
}
