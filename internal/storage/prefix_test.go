package storage

import (
	"fmt"
	"testing"
)

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	devnet := NewPrefixDB(inner, []byte("devnet/"))
	testnet := NewPrefixDB(inner, []byte("testnet/"))

	devnet.Put([]byte("sig"), []byte("d"))
	testnet.Put([]byte("sig"), []byte("t"))

	got, err := devnet.Get([]byte("sig"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != "d" {
		t.Fatalf("devnet Get() = %q, want %q", got, "d")
	}

	raw, err := inner.Get([]byte("testnet/sig"))
	if err != nil {
		t.Fatalf("inner Get() error: %v", err)
	}
	if string(raw) != "t" {
		t.Fatalf("inner Get(testnet/sig) = %q", raw)
	}

	if err := devnet.Delete([]byte("sig")); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if ok, _ := testnet.Has([]byte("sig")); !ok {
		t.Fatal("Delete() in one namespace removed the other's key")
	}
}

func TestPrefixDB_ForEachStripsPrefix(t *testing.T) {
	db := NewPrefixDB(NewMemory(), []byte("ns/"))
	for i := 0; i < 3; i++ {
		db.Put([]byte(fmt.Sprintf("k%d", i)), []byte("v"))
	}

	var keys []string
	db.ForEachReverse(nil, func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if got := fmt.Sprint(keys); got != "[k2 k1 k0]" {
		t.Fatalf("ForEachReverse keys = %s, want [k2 k1 k0]", got)
	}
}

func TestPrefixDB_DeleteAll(t *testing.T) {
	inner := NewMemory()
	a := NewPrefixDB(inner, []byte("a/"))
	b := NewPrefixDB(inner, []byte("b/"))

	a.Put([]byte("k1"), []byte("v1"))
	a.Put([]byte("k2"), []byte("v2"))
	b.Put([]byte("k1"), []byte("other"))

	if err := a.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll() error: %v", err)
	}
	if ok, _ := a.Has([]byte("k1")); ok {
		t.Fatal("a still has k1 after DeleteAll()")
	}
	if got, err := b.Get([]byte("k1")); err != nil || string(got) != "other" {
		t.Fatalf("b.Get(k1) = %q, %v", got, err)
	}

	if err := NewPrefixDB(inner, []byte("empty/")).DeleteAll(); err != nil {
		t.Fatalf("DeleteAll() on empty namespace: %v", err)
	}
}
