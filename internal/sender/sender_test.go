package sender

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/storage"
)

type fakeChain struct {
	blockhash  solana.Hash
	sent       []*solana.Transaction
	sendErr    error
	confirmErr error
}

func (f *fakeChain) GetLatestBlockhash(context.Context) (solana.Hash, error) {
	return f.blockhash, nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *solana.Transaction, _ bool) (solana.Signature, error) {
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	f.sent = append(f.sent, tx)
	return tx.Signatures[0], nil
}

func (f *fakeChain) ConfirmTransaction(context.Context, solana.Signature, time.Duration) error {
	return f.confirmErr
}

func newKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	k, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey() error: %v", err)
	}
	return k
}

func transfer(from, to solana.PublicKey) solana.Instruction {
	return system.NewTransferInstruction(1000, from, to).Build()
}

func TestBuildAndSend_SignsAndJournals(t *testing.T) {
	payer := newKey(t)
	extra := newKey(t)
	chain := &fakeChain{blockhash: solana.Hash{1, 2, 3}}
	j := journal.New(storage.NewMemory())
	s := New(chain, j, Options{Cluster: "devnet"})

	// extra signs as the source of the second transfer.
	ixs := []solana.Instruction{
		transfer(payer.PublicKey(), extra.PublicKey()),
		transfer(extra.PublicKey(), payer.PublicKey()),
	}
	meta := Meta{Kind: journal.KindStakeSplit, Accounts: []solana.PublicKey{extra.PublicKey()}, Lamports: 1000}

	sig, err := s.BuildAndSend(context.Background(), meta, ixs, payer, extra)
	if err != nil {
		t.Fatalf("BuildAndSend() error: %v", err)
	}
	if len(chain.sent) != 1 {
		t.Fatalf("sent %d transactions, want 1", len(chain.sent))
	}
	tx := chain.sent[0]
	if !tx.Message.AccountKeys[0].Equals(payer.PublicKey()) {
		t.Errorf("fee payer = %s, want %s", tx.Message.AccountKeys[0], payer.PublicKey())
	}
	if len(tx.Signatures) != 2 {
		t.Errorf("signatures = %d, want 2", len(tx.Signatures))
	}
	if err := tx.VerifySignatures(); err != nil {
		t.Errorf("VerifySignatures() error: %v", err)
	}
	if tx.Message.RecentBlockhash != chain.blockhash {
		t.Errorf("blockhash = %s", tx.Message.RecentBlockhash)
	}

	rec, err := j.Get(sig)
	if err != nil {
		t.Fatalf("journal Get() error: %v", err)
	}
	if rec.Status != journal.StatusConfirmed || rec.Cluster != "devnet" || rec.Lamports != 1000 {
		t.Errorf("journal record = %+v", rec)
	}
}

func TestBuildAndSend_ConfirmFailure(t *testing.T) {
	payer := newKey(t)
	boom := errors.New("instruction 0 failed")
	chain := &fakeChain{confirmErr: boom}
	j := journal.New(storage.NewMemory())
	s := New(chain, j, Options{})

	sig, err := s.BuildAndSend(context.Background(), Meta{Kind: journal.KindStakeWithdraw},
		[]solana.Instruction{transfer(payer.PublicKey(), solana.SystemProgramID)}, payer)
	if !errors.Is(err, boom) {
		t.Fatalf("BuildAndSend() error = %v, want %v", err, boom)
	}
	if sig == (solana.Signature{}) {
		t.Fatal("signature should be returned for a submitted transaction")
	}
	rec, err := j.Get(sig)
	if err != nil {
		t.Fatalf("journal Get() error: %v", err)
	}
	if rec.Status != journal.StatusFailed || rec.Error != boom.Error() {
		t.Errorf("journal record = %+v", rec)
	}
}

func TestBuildAndSend_SendFailureNotJournaled(t *testing.T) {
	payer := newKey(t)
	chain := &fakeChain{sendErr: errors.New("blockhash not found")}
	j := journal.New(storage.NewMemory())
	s := New(chain, j, Options{})

	_, err := s.BuildAndSend(context.Background(), Meta{Kind: journal.KindStakeDelegate},
		[]solana.Instruction{transfer(payer.PublicKey(), solana.SystemProgramID)}, payer)
	if err == nil {
		t.Fatal("BuildAndSend() should fail when send fails")
	}
	recs, _ := j.List(0)
	if len(recs) != 0 {
		t.Errorf("journal has %d records, want 0", len(recs))
	}
}

func TestBuild_NoSigners(t *testing.T) {
	s := New(&fakeChain{}, nil, Options{})
	if _, err := s.Build(context.Background(), nil); !errors.Is(err, ErrNoSigners) {
		t.Fatalf("Build() error = %v, want ErrNoSigners", err)
	}
}

func TestBuild_MissingSigner(t *testing.T) {
	payer := newKey(t)
	other := newKey(t)
	s := New(&fakeChain{}, nil, Options{})

	// other must sign but is not provided.
	_, err := s.Build(context.Background(),
		[]solana.Instruction{transfer(other.PublicKey(), payer.PublicKey())}, payer)
	if err == nil {
		t.Fatal("Build() should fail when a required signer is missing")
	}
}
