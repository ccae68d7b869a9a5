package stake

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestMerge_Encoding(t *testing.T) {
	dst, src, staker := testKey(1), testKey(2), testKey(3)
	ix := Merge(dst, src, staker)

	if !ix.ProgramID().Equals(ProgramID) {
		t.Errorf("ProgramID() = %s, want %s", ix.ProgramID(), ProgramID)
	}
	data, err := ix.Data()
	if err != nil {
		t.Fatalf("Data() error: %v", err)
	}
	if !bytes.Equal(data, []byte{7, 0, 0, 0}) {
		t.Errorf("Data() = %x, want 07000000", data)
	}

	accts := ix.Accounts()
	if len(accts) != 5 {
		t.Fatalf("accounts = %d, want 5", len(accts))
	}
	if !accts[0].PublicKey.Equals(dst) || !accts[0].IsWritable {
		t.Error("destination must be first and writable")
	}
	if !accts[1].PublicKey.Equals(src) || !accts[1].IsWritable {
		t.Error("source must be second and writable")
	}
	if !accts[2].PublicKey.Equals(solana.SysVarClockPubkey) {
		t.Error("clock sysvar missing")
	}
	if !accts[3].PublicKey.Equals(solana.SysVarStakeHistoryPubkey) {
		t.Error("stake history sysvar missing")
	}
	if !accts[4].PublicKey.Equals(staker) || !accts[4].IsSigner {
		t.Error("staker must sign")
	}
}

func TestAuthorize_Encoding(t *testing.T) {
	stakeAcct, auth, newAuth := testKey(1), testKey(2), testKey(9)
	ix := Authorize(stakeAcct, auth, newAuth, AuthorizeWithdrawer)

	data, err := ix.Data()
	if err != nil {
		t.Fatalf("Data() error: %v", err)
	}
	if len(data) != 4+32+4 {
		t.Fatalf("data length = %d, want 40", len(data))
	}
	if tag := binary.LittleEndian.Uint32(data); tag != 1 {
		t.Errorf("tag = %d, want 1", tag)
	}
	if !bytes.Equal(data[4:36], newAuth[:]) {
		t.Error("new authority not encoded")
	}
	if kind := binary.LittleEndian.Uint32(data[36:]); kind != uint32(AuthorizeWithdrawer) {
		t.Errorf("kind = %d, want %d", kind, AuthorizeWithdrawer)
	}
	if accts := ix.Accounts(); !accts[2].IsSigner || !accts[2].PublicKey.Equals(auth) {
		t.Error("current authority must sign")
	}
}

func TestCreateAccount_Instructions(t *testing.T) {
	payer, acct := testKey(1), testKey(2)
	ixs := CreateAccount(payer, acct, 1_000_000_000, Authorized{Staker: payer, Withdrawer: payer})
	if len(ixs) != 2 {
		t.Fatalf("instructions = %d, want 2", len(ixs))
	}
	if !ixs[0].ProgramID().Equals(solana.SystemProgramID) {
		t.Error("first instruction should create the account")
	}
	if !ixs[1].ProgramID().Equals(ProgramID) {
		t.Error("second instruction should initialize the stake account")
	}
}

func TestSplit_Instructions(t *testing.T) {
	ixs := Split(testKey(1), testKey(2), testKey(3), 500)
	if len(ixs) != 3 {
		t.Fatalf("instructions = %d, want 3", len(ixs))
	}
	data, err := ixs[2].Data()
	if err != nil {
		t.Fatalf("Data() error: %v", err)
	}
	if tag := binary.LittleEndian.Uint32(data); tag != 3 {
		t.Errorf("split tag = %d, want 3", tag)
	}
	if lamports := binary.LittleEndian.Uint64(data[4:]); lamports != 500 {
		t.Errorf("lamports = %d, want 500", lamports)
	}
}

func TestWithdraw_Data(t *testing.T) {
	ix := Withdraw(testKey(1), testKey(2), testKey(3), 42)
	data, err := ix.Data()
	if err != nil {
		t.Fatalf("Data() error: %v", err)
	}
	if tag := binary.LittleEndian.Uint32(data); tag != 4 {
		t.Errorf("withdraw tag = %d, want 4", tag)
	}
	if lamports := binary.LittleEndian.Uint64(data[4:]); lamports != 42 {
		t.Errorf("lamports = %d, want 42", lamports)
	}
}

func TestDelegate_Encoding(t *testing.T) {
	stakeAcct, voteAcct, staker := testKey(1), testKey(2), testKey(3)
	ix := Delegate(stakeAcct, voteAcct, staker)

	data, err := ix.Data()
	if err != nil {
		t.Fatalf("Data() error: %v", err)
	}
	if !bytes.Equal(data, []byte{2, 0, 0, 0}) {
		t.Errorf("Data() = %x, want 02000000", data)
	}

	want := []solana.PublicKey{
		stakeAcct, voteAcct, solana.SysVarClockPubkey,
		solana.SysVarStakeHistoryPubkey, solana.SysVarStakeConfigPubkey, staker,
	}
	accts := ix.Accounts()
	if len(accts) != len(want) {
		t.Fatalf("accounts = %d, want %d", len(accts), len(want))
	}
	for i, pk := range want {
		if !accts[i].PublicKey.Equals(pk) {
			t.Errorf("account %d = %s, want %s", i, accts[i].PublicKey, pk)
		}
	}
	if !accts[0].IsWritable {
		t.Error("stake account must be writable")
	}
}

// The wallet only holds authority keys, so existing stake accounts must
// never be required to sign.
func TestInstructions_OnlyAuthoritiesSign(t *testing.T) {
	stakeAcct, other, auth, recipient := testKey(1), testKey(2), testKey(3), testKey(4)

	tests := []struct {
		name string
		ix   solana.Instruction
	}{
		{"delegate", Delegate(stakeAcct, other, auth)},
		{"deactivate", Deactivate(stakeAcct, auth)},
		{"withdraw", Withdraw(stakeAcct, auth, recipient, 1)},
		{"merge", Merge(stakeAcct, other, auth)},
		{"authorize", Authorize(stakeAcct, auth, other, AuthorizeStaker)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, a := range tt.ix.Accounts() {
				if a.IsSigner && !a.PublicKey.Equals(auth) {
					t.Errorf("%s marked as signer", a.PublicKey)
				}
			}
		})
	}
}
