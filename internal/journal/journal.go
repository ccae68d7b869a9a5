// Package journal keeps a local record of every transaction scilla submits.
//
// Key layout:
//
//	Entry: "t/<unixNano8><signature64>" -> JSON Record
//	Index: "s/<signature64>"            -> entry key
//
// Entries are keyed by submission time so reverse iteration lists the
// newest transaction first.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/internal/log"
	"github.com/scilla-cli/scilla/internal/storage"
)

// Kind names the operation a transaction performed.
type Kind string

const (
	KindStakeCreate     Kind = "stake-create"
	KindStakeDelegate   Kind = "stake-delegate"
	KindStakeDeactivate Kind = "stake-deactivate"
	KindStakeWithdraw   Kind = "stake-withdraw"
	KindStakeMerge      Kind = "stake-merge"
	KindStakeSplit      Kind = "stake-split"
	KindStakeAuthorize  Kind = "stake-authorize"
	KindVoteCreate      Kind = "vote-create"
	KindVoteAuthorize   Kind = "vote-authorize"
	KindVoteWithdraw    Kind = "vote-withdraw"
	KindAirdrop         Kind = "airdrop"
)

// Status is the last known outcome of a journaled transaction.
type Status string

const (
	StatusSent      Status = "sent"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Record is one journaled transaction.
type Record struct {
	Signature solana.Signature `json:"signature"`
	Kind      Kind             `json:"kind"`
	Cluster   string           `json:"cluster"`
	Accounts  []string         `json:"accounts,omitempty"`
	Lamports  uint64           `json:"lamports,omitempty"`
	Status    Status           `json:"status"`
	Error     string           `json:"error,omitempty"`
	Time      time.Time        `json:"time"`
}

// ErrRecordNotFound is returned by Get for unknown signatures.
var ErrRecordNotFound = errors.New("journal record not found")

var (
	prefixEntry = []byte("t/")
	prefixSig   = []byte("s/")
)

// Journal stores Records in a storage.DB.
type Journal struct {
	db storage.DB
}

// New creates a journal backed by db. The journal owns the "j/" namespace.
func New(db storage.DB) *Journal {
	return &Journal{db: storage.NewPrefixDB(db, []byte("j/"))}
}

// Open opens a badger-backed journal in dir. The returned close function
// releases the database.
func Open(dir string) (*Journal, func() error, error) {
	db, err := storage.NewBadger(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return New(db), db.Close, nil
}

func entryKey(t time.Time, sig solana.Signature) []byte {
	key := make([]byte, len(prefixEntry)+8+len(sig))
	copy(key, prefixEntry)
	binary.BigEndian.PutUint64(key[len(prefixEntry):], uint64(t.UnixNano()))
	copy(key[len(prefixEntry)+8:], sig[:])
	return key
}

func sigKey(sig solana.Signature) []byte {
	return append(append([]byte{}, prefixSig...), sig[:]...)
}

// Record stores rec. A record with the same signature replaces the earlier
// one, so status updates keep the original position in the log.
func (j *Journal) Record(rec Record) error {
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = StatusSent
	}

	key := entryKey(rec.Time, rec.Signature)
	if prev, err := j.db.Get(sigKey(rec.Signature)); err == nil {
		key = prev
		var old Record
		if raw, err := j.db.Get(prev); err == nil && json.Unmarshal(raw, &old) == nil {
			rec.Time = old.Time
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("journal lookup: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := j.db.Put(key, data); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := j.db.Put(sigKey(rec.Signature), key); err != nil {
		return fmt.Errorf("write record index: %w", err)
	}
	log.Journal.Debug().
		Str("sig", rec.Signature.String()).
		Str("kind", string(rec.Kind)).
		Str("status", string(rec.Status)).
		Msg("Journal record written")
	return nil
}

// SetStatus updates the status of an existing record.
func (j *Journal) SetStatus(sig solana.Signature, status Status, errMsg string) error {
	rec, err := j.Get(sig)
	if err != nil {
		return err
	}
	rec.Status = status
	rec.Error = errMsg
	return j.Record(*rec)
}

// Get returns the record for sig.
func (j *Journal) Get(sig solana.Signature) (*Record, error) {
	key, err := j.db.Get(sigKey(sig))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("journal lookup: %w", err)
	}
	raw, err := j.db.Get(key)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("corrupt journal record: %w", err)
	}
	return &rec, nil
}

// List returns up to limit records, newest first. A limit <= 0 returns all.
func (j *Journal) List(limit int) ([]Record, error) {
	var out []Record
	err := j.db.ForEachReverse(prefixEntry, func(_, value []byte) error {
		var rec Record
		if err := json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("corrupt journal record: %w", err)
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			return storage.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
