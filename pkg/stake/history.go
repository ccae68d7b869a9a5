package stake

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// historyEntrySize is the encoded size of one (epoch, entry) pair.
const historyEntrySize = 32

// HistoryEntry is the cluster-wide stake totals for one epoch, in lamports.
type HistoryEntry struct {
	Epoch        uint64
	Effective    uint64
	Activating   uint64
	Deactivating uint64
}

// History is the contents of the stake history sysvar, newest epoch first.
type History []HistoryEntry

// DecodeHistory parses the stake history sysvar. The declared entry count is
// checked against the data length before anything is allocated.
func DecodeHistory(data []byte) (History, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("stake history: data too short (%d bytes)", len(data))
	}
	dec := bin.NewBinDecoder(data)

	n, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("stake history: read length: %w", err)
	}
	limit := uint64(len(data)-8) / historyEntrySize
	if n > limit {
		return nil, fmt.Errorf("stake history: %d entries declared, data holds at most %d", n, limit)
	}

	h := make(History, 0, n)
	for i := uint64(0); i < n; i++ {
		var e HistoryEntry
		for _, dst := range []*uint64{&e.Epoch, &e.Effective, &e.Activating, &e.Deactivating} {
			v, err := dec.ReadUint64(binary.LittleEndian)
			if err != nil {
				return nil, fmt.Errorf("stake history: entry %d: %w", i, err)
			}
			*dst = v
		}
		h = append(h, e)
	}
	return h, nil
}

// Encode serializes the history in sysvar layout.
func (h History) Encode() []byte {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	_ = enc.WriteUint64(uint64(len(h)), binary.LittleEndian)
	for _, e := range h {
		_ = enc.WriteUint64(e.Epoch, binary.LittleEndian)
		_ = enc.WriteUint64(e.Effective, binary.LittleEndian)
		_ = enc.WriteUint64(e.Activating, binary.LittleEndian)
		_ = enc.WriteUint64(e.Deactivating, binary.LittleEndian)
	}
	return buf.Bytes()
}

// Latest returns at most n entries from the front of the history.
func (h History) Latest(n int) History {
	if n <= 0 || n >= len(h) {
		return h
	}
	return h[:n]
}
