package commands

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/config"
	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/rpcclient"
	"github.com/scilla-cli/scilla/internal/storage"
	"github.com/scilla-cli/scilla/internal/ui"
	"github.com/scilla-cli/scilla/pkg/stake"
	"github.com/scilla-cli/scilla/pkg/vote"
)

// fakeChain is an in-memory cluster.
type fakeChain struct {
	accounts   map[solana.PublicKey]*rpcclient.Account
	voteInfo   map[solana.PublicKey]*rpcclient.VoteAccountInfo
	epoch      uint64
	genesis    solana.Hash
	sent       []*solana.Transaction
	airdrops   []uint64
	confirmErr error
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		accounts: make(map[solana.PublicKey]*rpcclient.Account),
		voteInfo: make(map[solana.PublicKey]*rpcclient.VoteAccountInfo),
		epoch:    10,
	}
}

func rentFor(size uint64) uint64 { return (size + 128) * 6960 }

func (f *fakeChain) Endpoint() string { return "http://fake.invalid" }

func (f *fakeChain) GetAccount(_ context.Context, pk solana.PublicKey) (*rpcclient.Account, error) {
	a, ok := f.accounts[pk]
	if !ok {
		return nil, fmt.Errorf("%w: %s", rpcclient.ErrAccountNotFound, pk)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeChain) GetBalance(_ context.Context, pk solana.PublicKey) (uint64, error) {
	if a, ok := f.accounts[pk]; ok {
		return a.Lamports, nil
	}
	return 0, nil
}

func (f *fakeChain) GetEpochInfo(context.Context) (*rpcclient.EpochInfo, error) {
	return &rpcclient.EpochInfo{Epoch: f.epoch, SlotIndex: 108000, SlotsInEpoch: 432000, AbsoluteSlot: 4428000, BlockHeight: 4400000}, nil
}

func (f *fakeChain) FetchAccountWithEpoch(ctx context.Context, pk solana.PublicKey) (*rpcclient.Account, uint64, error) {
	a, err := f.GetAccount(ctx, pk)
	if err != nil {
		return nil, 0, err
	}
	return a, f.epoch, nil
}

func (f *fakeChain) GetMinimumBalanceForRentExemption(_ context.Context, size uint64) (uint64, error) {
	return rentFor(size), nil
}

func (f *fakeChain) GetGenesisHash(context.Context) (solana.Hash, error) { return f.genesis, nil }

func (f *fakeChain) GetVersion(context.Context) (string, error) { return "2.1.14", nil }

func (f *fakeChain) GetVoteAccount(_ context.Context, pk solana.PublicKey) (*rpcclient.VoteAccountInfo, error) {
	if v, ok := f.voteInfo[pk]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", rpcclient.ErrVoteAccountNotFound, pk)
}

func (f *fakeChain) RequestAirdrop(_ context.Context, pk solana.PublicKey, lamports uint64) (solana.Signature, error) {
	f.airdrops = append(f.airdrops, lamports)
	var sig solana.Signature
	copy(sig[:], pk[:])
	sig[63] = byte(len(f.airdrops))
	return sig, nil
}

func (f *fakeChain) GetLatestBlockhash(context.Context) (solana.Hash, error) {
	return solana.Hash{9, 9, 9}, nil
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *solana.Transaction, _ bool) (solana.Signature, error) {
	f.sent = append(f.sent, tx)
	return tx.Signatures[0], nil
}

func (f *fakeChain) ConfirmTransaction(context.Context, solana.Signature, time.Duration) error {
	return f.confirmErr
}

func (f *fakeChain) put(pk, owner solana.PublicKey, lamports uint64, data []byte) {
	f.accounts[pk] = &rpcclient.Account{Address: pk, Lamports: lamports, Owner: owner, Data: data}
}

func (f *fakeChain) putStake(t *testing.T, pk solana.PublicKey, lamports uint64, st *stake.State) {
	t.Helper()
	data, err := st.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	f.put(pk, stake.ProgramID, lamports, data)
}

func (f *fakeChain) putVote(pk solana.PublicKey, lamports uint64, h vote.Header) {
	data := make([]byte, vote.AccountSize)
	copy(data, h.Encode())
	f.put(pk, vote.ProgramID, lamports, data)
}

type testEnv struct {
	chain  *fakeChain
	c      *Context
	out    *bytes.Buffer
	wallet solana.PrivateKey
}

func (e *testEnv) pubkey() solana.PublicKey { return e.wallet.PublicKey() }

func newEnv(t *testing.T, lines ...string) *testEnv {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey() error: %v", err)
	}
	chain := newFakeChain()
	out := new(bytes.Buffer)
	cfg := config.Default(config.Devnet)
	cfg.File = "/tmp/scilla-test.conf"
	c := NewContext(cfg, chain, journal.New(storage.NewMemory()), ui.NewScripted(out, lines...),
		func() (solana.PrivateKey, error) { return key, nil })
	return &testEnv{chain: chain, c: c, out: out, wallet: key}
}

func newPubkey(t *testing.T) solana.PublicKey {
	t.Helper()
	k, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey() error: %v", err)
	}
	return k.PublicKey()
}

func initializedState(staker, withdrawer solana.PublicKey) *stake.State {
	return &stake.State{
		Kind: stake.KindInitialized,
		Meta: stake.Meta{
			RentExemptReserve: rentFor(stake.AccountSize),
			Authorized:        stake.Authorized{Staker: staker, Withdrawer: withdrawer},
		},
	}
}

func delegatedState(staker, withdrawer, voter solana.PublicKey, activation, deactivation uint64) *stake.State {
	st := initializedState(staker, withdrawer)
	st.Kind = stake.KindStake
	st.Stake = stake.Stake{Delegation: stake.Delegation{
		VoterPubkey:        voter,
		Stake:              5 * 1_000_000_000,
		ActivationEpoch:    activation,
		DeactivationEpoch:  deactivation,
		WarmupCooldownRate: 0.25,
	}}
	return st
}

// ixProgram returns the program of instruction i in tx.
func ixProgram(t *testing.T, tx *solana.Transaction, i int) solana.PublicKey {
	t.Helper()
	if i >= len(tx.Message.Instructions) {
		t.Fatalf("transaction has %d instructions, want > %d", len(tx.Message.Instructions), i)
	}
	return tx.Message.AccountKeys[tx.Message.Instructions[i].ProgramIDIndex]
}

// ixTag returns the leading u32 tag of instruction i.
func ixTag(t *testing.T, tx *solana.Transaction, i int) uint32 {
	t.Helper()
	data := tx.Message.Instructions[i].Data
	if len(data) < 4 {
		t.Fatalf("instruction %d data too short: %d bytes", i, len(data))
	}
	return binary.LittleEndian.Uint32(data[:4])
}

// lastTx returns the only transaction sent so far.
func (e *testEnv) lastTx(t *testing.T) *solana.Transaction {
	t.Helper()
	if len(e.chain.sent) != 1 {
		t.Fatalf("sent %d transactions, want 1", len(e.chain.sent))
	}
	return e.chain.sent[0]
}

func (e *testEnv) noTx(t *testing.T) {
	t.Helper()
	if len(e.chain.sent) != 0 {
		t.Fatalf("sent %d transactions, want none", len(e.chain.sent))
	}
}
