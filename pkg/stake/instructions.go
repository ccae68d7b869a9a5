package stake

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	stakeprog "github.com/gagliardetto/solana-go/programs/stake"
	"github.com/gagliardetto/solana-go/programs/system"
)

// Instruction tags not covered by the SDK's stake program bindings.
const (
	tagAuthorize uint32 = 1
	tagDelegate  uint32 = 2
	tagMerge     uint32 = 7
)

// AuthorizeKind selects which authority an Authorize instruction replaces.
type AuthorizeKind uint32

const (
	AuthorizeStaker AuthorizeKind = iota
	AuthorizeWithdrawer
)

func (k AuthorizeKind) String() string {
	switch k {
	case AuthorizeStaker:
		return "Staker"
	case AuthorizeWithdrawer:
		return "Withdrawer"
	}
	return fmt.Sprintf("AuthorizeKind(%d)", uint32(k))
}

// ProgramID is the stake program address.
var ProgramID = solana.StakeProgramID

// CreateAccount returns the instructions that fund a new stake account with
// lamports and initialize it with the given authorities.
func CreateAccount(payer, stakeAccount solana.PublicKey, lamports uint64, auth Authorized) []solana.Instruction {
	return []solana.Instruction{
		system.NewCreateAccountInstruction(lamports, AccountSize, ProgramID, payer, stakeAccount).Build(),
		stakeprog.NewInitializeInstruction(auth.Staker, auth.Withdrawer, stakeAccount).Build(),
	}
}

// Delegate delegates a stake account to a vote account. Only the staker
// signs; the SDK builder also marks the stake account as a signer.
func Delegate(stakeAccount, voteAccount, staker solana.PublicKey) solana.Instruction {
	buf := new(bytes.Buffer)
	_ = bin.NewBinEncoder(buf).WriteUint32(tagDelegate, binary.LittleEndian)

	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(stakeAccount).WRITE(),
		solana.Meta(voteAccount),
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(solana.SysVarStakeHistoryPubkey),
		solana.Meta(solana.SysVarStakeConfigPubkey),
		solana.Meta(staker).SIGNER(),
	}, buf.Bytes())
}

// Deactivate starts the cooldown of a delegated stake account.
func Deactivate(stakeAccount, staker solana.PublicKey) solana.Instruction {
	return stakeprog.NewDeactivateInstruction(stakeAccount, staker).Build()
}

// Withdraw moves lamports out of a stake account.
func Withdraw(stakeAccount, withdrawer, recipient solana.PublicKey, lamports uint64) solana.Instruction {
	return stakeprog.NewWithdrawInstruction(lamports, stakeAccount, recipient, withdrawer).Build()
}

// Split moves lamports into a new stake account. The new account is
// allocated and assigned to the stake program in the same transaction, so it
// must sign.
func Split(stakeAccount, newAccount, staker solana.PublicKey, lamports uint64) []solana.Instruction {
	return []solana.Instruction{
		system.NewAllocateInstruction(AccountSize, newAccount).Build(),
		system.NewAssignInstruction(ProgramID, newAccount).Build(),
		stakeprog.NewSplitInstruction(lamports, stakeAccount, newAccount, staker).Build(),
	}
}

// Merge folds source into destination. Both must share authorities and,
// when delegated, the same vote account.
func Merge(destination, source, staker solana.PublicKey) solana.Instruction {
	buf := new(bytes.Buffer)
	_ = bin.NewBinEncoder(buf).WriteUint32(tagMerge, binary.LittleEndian)

	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(destination).WRITE(),
		solana.Meta(source).WRITE(),
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(solana.SysVarStakeHistoryPubkey),
		solana.Meta(staker).SIGNER(),
	}, buf.Bytes())
}

// Authorize replaces the staker or withdrawer of a stake account.
func Authorize(stakeAccount, authority, newAuthority solana.PublicKey, kind AuthorizeKind) solana.Instruction {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	_ = enc.WriteUint32(tagAuthorize, binary.LittleEndian)
	_, _ = enc.Write(newAuthority[:])
	_ = enc.WriteUint32(uint32(kind), binary.LittleEndian)

	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(stakeAccount).WRITE(),
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(authority).SIGNER(),
	}, buf.Bytes())
}
