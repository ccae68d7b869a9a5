// Package stake decodes stake program accounts and builds stake instructions.
//
// Account data is bincode: little-endian fixed-width integers, a u32 tag in
// front of enum variants and a u64 length in front of vectors.
package stake

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ActiveEpochBound is the deactivation epoch recorded for stake that has not
// been deactivated.
const ActiveEpochBound uint64 = math.MaxUint64

// AccountSize is the allocated size of a stake account.
const AccountSize uint64 = 200

// Kind identifies the variant of a stake account's state.
type Kind uint32

const (
	KindUninitialized Kind = iota
	KindInitialized
	KindStake
	KindRewardsPool
)

func (k Kind) String() string {
	switch k {
	case KindUninitialized:
		return "uninitialized"
	case KindInitialized:
		return "initialized"
	case KindStake:
		return "delegated"
	case KindRewardsPool:
		return "rewards pool"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(k))
	}
}

// ErrInvalidState is returned when account data is not a stake state.
var ErrInvalidState = errors.New("invalid stake account data")

// Authorized holds the keys allowed to manage a stake account.
type Authorized struct {
	Staker     solana.PublicKey
	Withdrawer solana.PublicKey
}

// Lockup restricts withdrawals until the given time or epoch, unless signed by
// the custodian.
type Lockup struct {
	UnixTimestamp int64
	Epoch         uint64
	Custodian     solana.PublicKey
}

// InForce reports whether the lockup still applies at the given epoch and time.
func (l Lockup) InForce(epoch uint64, unixTime int64) bool {
	return l.UnixTimestamp > unixTime || l.Epoch > epoch
}

// Meta is the part of the state shared by initialized and delegated accounts.
type Meta struct {
	RentExemptReserve uint64
	Authorized        Authorized
	Lockup            Lockup
}

// Delegation describes stake delegated to a vote account.
type Delegation struct {
	VoterPubkey        solana.PublicKey
	Stake              uint64
	ActivationEpoch    uint64
	DeactivationEpoch  uint64
	WarmupCooldownRate float64
}

// IsDeactivating reports whether a deactivation has been requested.
func (d Delegation) IsDeactivating() bool {
	return d.DeactivationEpoch != ActiveEpochBound
}

// Delegated stake and the vote credits it last observed.
type Stake struct {
	Delegation      Delegation
	CreditsObserved uint64
}

// State is a decoded stake account.
// Meta is set for KindInitialized and KindStake, Stake only for KindStake.
type State struct {
	Kind  Kind
	Meta  Meta
	Stake Stake
	Flags uint8
}

// DecodeState parses raw stake account data.
func DecodeState(data []byte) (*State, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidState, len(data))
	}
	dec := bin.NewBinDecoder(data)

	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("%w: read tag: %v", ErrInvalidState, err)
	}

	st := &State{Kind: Kind(tag)}
	switch st.Kind {
	case KindUninitialized, KindRewardsPool:
		return st, nil
	case KindInitialized:
		if err := decodeMeta(dec, &st.Meta); err != nil {
			return nil, err
		}
		return st, nil
	case KindStake:
		if err := decodeMeta(dec, &st.Meta); err != nil {
			return nil, err
		}
		if err := decodeStake(dec, &st.Stake); err != nil {
			return nil, err
		}
		// Older accounts end before the flags byte.
		if dec.HasRemaining() {
			flags, err := dec.ReadUint8()
			if err != nil {
				return nil, fmt.Errorf("%w: read flags: %v", ErrInvalidState, err)
			}
			st.Flags = flags
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrInvalidState, tag)
	}
}

func decodeMeta(dec *bin.Decoder, m *Meta) error {
	var err error
	if m.RentExemptReserve, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read rent reserve: %v", ErrInvalidState, err)
	}
	if m.Authorized.Staker, err = readPubkey(dec); err != nil {
		return fmt.Errorf("%w: read staker: %v", ErrInvalidState, err)
	}
	if m.Authorized.Withdrawer, err = readPubkey(dec); err != nil {
		return fmt.Errorf("%w: read withdrawer: %v", ErrInvalidState, err)
	}
	if m.Lockup.UnixTimestamp, err = dec.ReadInt64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read lockup timestamp: %v", ErrInvalidState, err)
	}
	if m.Lockup.Epoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read lockup epoch: %v", ErrInvalidState, err)
	}
	if m.Lockup.Custodian, err = readPubkey(dec); err != nil {
		return fmt.Errorf("%w: read custodian: %v", ErrInvalidState, err)
	}
	return nil
}

func decodeStake(dec *bin.Decoder, s *Stake) error {
	var err error
	d := &s.Delegation
	if d.VoterPubkey, err = readPubkey(dec); err != nil {
		return fmt.Errorf("%w: read voter: %v", ErrInvalidState, err)
	}
	if d.Stake, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read stake: %v", ErrInvalidState, err)
	}
	if d.ActivationEpoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read activation epoch: %v", ErrInvalidState, err)
	}
	if d.DeactivationEpoch, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read deactivation epoch: %v", ErrInvalidState, err)
	}
	if d.WarmupCooldownRate, err = dec.ReadFloat64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read warmup rate: %v", ErrInvalidState, err)
	}
	if s.CreditsObserved, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return fmt.Errorf("%w: read credits observed: %v", ErrInvalidState, err)
	}
	return nil
}

func readPubkey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

// Encode serializes the state into an AccountSize buffer, zero padded.
func (s *State) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)

	if err := enc.WriteUint32(uint32(s.Kind), binary.LittleEndian); err != nil {
		return nil, err
	}
	if s.Kind == KindInitialized || s.Kind == KindStake {
		m := s.Meta
		writes := []func() error{
			func() error { return enc.WriteUint64(m.RentExemptReserve, binary.LittleEndian) },
			func() error { _, err := enc.Write(m.Authorized.Staker[:]); return err },
			func() error { _, err := enc.Write(m.Authorized.Withdrawer[:]); return err },
			func() error { return enc.WriteInt64(m.Lockup.UnixTimestamp, binary.LittleEndian) },
			func() error { return enc.WriteUint64(m.Lockup.Epoch, binary.LittleEndian) },
			func() error { _, err := enc.Write(m.Lockup.Custodian[:]); return err },
		}
		if s.Kind == KindStake {
			d := s.Stake.Delegation
			writes = append(writes,
				func() error { _, err := enc.Write(d.VoterPubkey[:]); return err },
				func() error { return enc.WriteUint64(d.Stake, binary.LittleEndian) },
				func() error { return enc.WriteUint64(d.ActivationEpoch, binary.LittleEndian) },
				func() error { return enc.WriteUint64(d.DeactivationEpoch, binary.LittleEndian) },
				func() error { return enc.WriteFloat64(d.WarmupCooldownRate, binary.LittleEndian) },
				func() error { return enc.WriteUint64(s.Stake.CreditsObserved, binary.LittleEndian) },
				func() error { return enc.WriteUint8(s.Flags) },
			)
		}
		for _, w := range writes {
			if err := w(); err != nil {
				return nil, err
			}
		}
	}

	out := buf.Bytes()
	if uint64(len(out)) < AccountSize {
		out = append(out, make([]byte, int(AccountSize)-len(out))...)
	}
	return out, nil
}
