package vote

import (
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Vote state versions as stored in the leading u32 tag.
const (
	versionV0_23_5  uint32 = 0
	versionV1_14_11 uint32 = 1
	versionCurrent  uint32 = 2
)

// ErrInvalidState is returned when account data is not a vote state.
var ErrInvalidState = errors.New("invalid vote account data")

// Header is the fixed prefix of a vote account's state.
type Header struct {
	Version    uint32
	Node       solana.PublicKey
	Withdrawer solana.PublicKey
	Commission uint8
}

// DecodeHeader reads the node identity, withdraw authority and commission
// from vote account data.
func DecodeHeader(data []byte) (*Header, error) {
	dec := bin.NewBinDecoder(data)
	version, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	switch version {
	case versionV1_14_11, versionCurrent:
	case versionV0_23_5:
		return nil, fmt.Errorf("%w: legacy version 0.23.5 is not supported", ErrInvalidState)
	default:
		return nil, fmt.Errorf("%w: unknown version %d", ErrInvalidState, version)
	}

	h := &Header{Version: version}
	node, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: node: %v", ErrInvalidState, err)
	}
	withdrawer, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: withdrawer: %v", ErrInvalidState, err)
	}
	h.Node = solana.PublicKeyFromBytes(node)
	h.Withdrawer = solana.PublicKeyFromBytes(withdrawer)
	if h.Commission, err = dec.ReadUint8(); err != nil {
		return nil, fmt.Errorf("%w: commission: %v", ErrInvalidState, err)
	}
	return h, nil
}

// Encode writes the header in account layout. The remainder of a real vote
// state is left zeroed.
func (h *Header) Encode() []byte {
	out := make([]byte, 4+2*solana.PublicKeyLength+1)
	binary.LittleEndian.PutUint32(out, h.Version)
	copy(out[4:], h.Node[:])
	copy(out[4+solana.PublicKeyLength:], h.Withdrawer[:])
	out[len(out)-1] = h.Commission
	return out
}
