// Package commands implements the interactive wallet menus and the
// validate-then-submit logic behind each stake, vote, account and cluster
// command.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/config"
	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/rpcclient"
	"github.com/scilla-cli/scilla/internal/sender"
	"github.com/scilla-cli/scilla/internal/ui"
)

// ErrNoWallet is returned when a command needs a signer and none is
// configured.
var ErrNoWallet = errors.New("no wallet configured")

// Chain is the RPC surface the commands use. *rpcclient.Client implements it.
type Chain interface {
	sender.Chain
	Endpoint() string
	GetAccount(ctx context.Context, addr solana.PublicKey) (*rpcclient.Account, error)
	GetBalance(ctx context.Context, addr solana.PublicKey) (uint64, error)
	GetEpochInfo(ctx context.Context) (*rpcclient.EpochInfo, error)
	FetchAccountWithEpoch(ctx context.Context, addr solana.PublicKey) (*rpcclient.Account, uint64, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
	GetGenesisHash(ctx context.Context) (solana.Hash, error)
	GetVersion(ctx context.Context) (string, error)
	GetVoteAccount(ctx context.Context, votePubkey solana.PublicKey) (*rpcclient.VoteAccountInfo, error)
	RequestAirdrop(ctx context.Context, addr solana.PublicKey, lamports uint64) (solana.Signature, error)
}

var _ Chain = (*rpcclient.Client)(nil)

// SignerFunc loads the wallet keypair.
type SignerFunc func() (solana.PrivateKey, error)

// Context carries everything a command needs.
type Context struct {
	RPC     Chain
	Config  *config.Config
	Journal *journal.Journal
	UI      *ui.UI
	Sender  *sender.Sender

	loadSigner SignerFunc
	signer     solana.PrivateKey
}

// NewContext wires a command context. The signer is loaded on first use so
// read-only commands never ask for a password. j may be nil.
func NewContext(cfg *config.Config, chain Chain, j *journal.Journal, u *ui.UI, signer SignerFunc) *Context {
	return &Context{
		RPC:     chain,
		Config:  cfg,
		Journal: j,
		UI:      u,
		Sender: sender.New(chain, j, sender.Options{
			Cluster:        string(cfg.Network),
			SkipPreflight:  cfg.Tx.SkipPreflight,
			ConfirmTimeout: cfg.Tx.ConfirmTimeout,
		}),
		loadSigner: signer,
	}
}

// Wallet returns the signing keypair, loading it on first call.
func (c *Context) Wallet() (solana.PrivateKey, error) {
	if c.signer != nil {
		return c.signer, nil
	}
	if c.loadSigner == nil {
		return nil, ErrNoWallet
	}
	key, err := c.loadSigner()
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	c.signer = key
	return key, nil
}

// Pubkey returns the wallet address.
func (c *Context) Pubkey() (solana.PublicKey, error) {
	key, err := c.Wallet()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return key.PublicKey(), nil
}

// Exec tells the menu loop what to do after a command.
type Exec int

const (
	Process Exec = iota
	GoBack
	Exit
)

// report prints a command's result once its spinner has stopped.
type report func(u *ui.UI)

// run executes fn behind a spinner and prints its report.
func (c *Context) run(ctx context.Context, msg string, fn func(context.Context) (report, error)) error {
	r, err := ui.Spin(ctx, c.UI, msg, fn)
	if err != nil {
		return err
	}
	if r != nil {
		r(c.UI)
	}
	return nil
}

// send submits instructions signed by the wallet plus extra signers.
func (c *Context) send(ctx context.Context, meta sender.Meta, ixs []solana.Instruction, extra ...solana.PrivateKey) (solana.Signature, error) {
	key, err := c.Wallet()
	if err != nil {
		return solana.Signature{}, err
	}
	signers := append([]solana.PrivateKey{key}, extra...)
	return c.Sender.BuildAndSend(ctx, meta, ixs, signers...)
}
