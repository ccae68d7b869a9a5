// Package sender builds, signs, submits and confirms wallet transactions and
// records each one in the journal.
package sender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/log"
)

// ErrNoSigners is returned when BuildAndSend is called without a fee payer.
var ErrNoSigners = errors.New("at least one signer is required")

// Chain is the part of the RPC client the sender needs.
type Chain interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (solana.Signature, error)
	ConfirmTransaction(ctx context.Context, sig solana.Signature, timeout time.Duration) error
}

// Options configures a Sender.
type Options struct {
	Cluster        string
	SkipPreflight  bool
	ConfirmTimeout time.Duration
}

// Meta describes a transaction for the journal.
type Meta struct {
	Kind     journal.Kind
	Accounts []solana.PublicKey
	Lamports uint64
}

// Sender submits transactions.
type Sender struct {
	chain   Chain
	journal *journal.Journal
	opts    Options
}

// New creates a Sender. j may be nil to disable journaling.
func New(chain Chain, j *journal.Journal, opts Options) *Sender {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 60 * time.Second
	}
	return &Sender{chain: chain, journal: j, opts: opts}
}

// Build creates a transaction paid for by the first signer and signs it with
// every signer.
func (s *Sender) Build(ctx context.Context, instructions []solana.Instruction, signers ...solana.PrivateKey) (*solana.Transaction, error) {
	if len(signers) == 0 {
		return nil, ErrNoSigners
	}
	blockhash, err := s.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(signers[0].PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}

// BuildAndSend builds and signs a transaction, submits it and waits for
// confirmation. The signature is returned whenever the transaction was
// submitted, even if confirmation fails.
func (s *Sender) BuildAndSend(ctx context.Context, meta Meta, instructions []solana.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	tx, err := s.Build(ctx, instructions, signers...)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := s.chain.SendTransaction(ctx, tx, s.opts.SkipPreflight)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	log.Sender.Info().Str("sig", sig.String()).Str("kind", string(meta.Kind)).Msg("Transaction submitted")
	s.record(meta, sig)

	if err := s.chain.ConfirmTransaction(ctx, sig, s.opts.ConfirmTimeout); err != nil {
		s.setStatus(sig, journal.StatusFailed, err.Error())
		return sig, err
	}
	s.setStatus(sig, journal.StatusConfirmed, "")
	log.Sender.Info().Str("sig", sig.String()).Msg("Transaction confirmed")
	return sig, nil
}

// Journal failures never fail the transaction; they are logged.
func (s *Sender) record(meta Meta, sig solana.Signature) {
	if s.journal == nil {
		return
	}
	accounts := make([]string, len(meta.Accounts))
	for i, a := range meta.Accounts {
		accounts[i] = a.String()
	}
	err := s.journal.Record(journal.Record{
		Signature: sig,
		Kind:      meta.Kind,
		Cluster:   s.opts.Cluster,
		Accounts:  accounts,
		Lamports:  meta.Lamports,
		Status:    journal.StatusSent,
	})
	if err != nil {
		log.Sender.Warn().Err(err).Str("sig", sig.String()).Msg("Failed to journal transaction")
	}
}

func (s *Sender) setStatus(sig solana.Signature, status journal.Status, msg string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SetStatus(sig, status, msg); err != nil {
		log.Sender.Warn().Err(err).Str("sig", sig.String()).Msg("Failed to update journal")
	}
}
