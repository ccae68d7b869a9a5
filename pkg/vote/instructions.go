// Package vote builds vote program instructions and decodes the fixed
// header of vote account state.
package vote

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	voteprog "github.com/gagliardetto/solana-go/programs/vote"
)

// AccountSize is the space allocated for a new vote account.
const AccountSize = 3762

const (
	tagInitializeAccount uint32 = 0
	tagAuthorize         uint32 = 1
	tagWithdraw          uint32 = 3
)

// AuthorizeKind selects which vote authority is replaced.
type AuthorizeKind uint32

const (
	AuthorizeVoter AuthorizeKind = iota
	AuthorizeWithdrawer
)

// ProgramID is the vote program address.
var ProgramID = solana.VoteProgramID

// Init holds the parameters of a new vote account.
type Init struct {
	Node       solana.PublicKey
	Voter      solana.PublicKey
	Withdrawer solana.PublicKey
	Commission uint8
}

// CreateAccount funds a new vote account and initializes it. Both the vote
// account and the node identity must sign.
func CreateAccount(payer, voteAccount solana.PublicKey, lamports uint64, init Init) []solana.Instruction {
	return []solana.Instruction{
		system.NewCreateAccountInstruction(lamports, AccountSize, ProgramID, payer, voteAccount).Build(),
		InitializeAccount(voteAccount, init),
	}
}

// InitializeAccount initializes an allocated vote account.
func InitializeAccount(voteAccount solana.PublicKey, init Init) solana.Instruction {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	_ = enc.WriteUint32(tagInitializeAccount, binary.LittleEndian)
	_, _ = enc.Write(init.Node[:])
	_, _ = enc.Write(init.Voter[:])
	_, _ = enc.Write(init.Withdrawer[:])
	_ = enc.WriteUint8(init.Commission)

	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(voteAccount).WRITE(),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(init.Node).SIGNER(),
	}, buf.Bytes())
}

// Authorize replaces the voter or withdrawer of a vote account.
func Authorize(voteAccount, authority, newAuthority solana.PublicKey, kind AuthorizeKind) solana.Instruction {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	_ = enc.WriteUint32(tagAuthorize, binary.LittleEndian)
	_, _ = enc.Write(newAuthority[:])
	_ = enc.WriteUint32(uint32(kind), binary.LittleEndian)

	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.Meta(voteAccount).WRITE(),
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(authority).SIGNER(),
	}, buf.Bytes())
}

// Withdraw moves lamports out of a vote account to recipient.
func Withdraw(voteAccount, withdrawer, recipient solana.PublicKey, lamports uint64) solana.Instruction {
	w := voteprog.NewWithdrawInstruction(lamports, voteAccount, recipient, withdrawer)
	return &voteprog.Instruction{BaseVariant: bin.BaseVariant{
		Impl:   w,
		TypeID: bin.TypeIDFromUint32(tagWithdraw, binary.LittleEndian),
	}}
}
