// Package rpcclient wraps the Solana JSON-RPC API with the subset of calls
// the wallet needs, applying the configured commitment and per-call timeouts.
package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/scilla-cli/scilla/internal/log"
)

// Sentinel errors.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrVoteAccountNotFound = errors.New("vote account not found in cluster vote accounts")
	ErrConfirmTimeout      = errors.New("transaction not confirmed before timeout")
)

// PollInterval is the delay between signature status checks.
var PollInterval = 500 * time.Millisecond

// Client is a Solana JSON-RPC client.
type Client struct {
	endpoint   string
	rpc        *rpc.Client
	commitment rpc.CommitmentType
	timeout    time.Duration
}

// New creates a client targeting endpoint with "confirmed" commitment.
func New(endpoint string) *Client {
	return NewWithOptions(endpoint, rpc.CommitmentConfirmed, 30*time.Second)
}

// NewWithOptions creates a client with a custom commitment and per-call
// timeout.
func NewWithOptions(endpoint string, commitment rpc.CommitmentType, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &Client{
		endpoint:   endpoint,
		rpc:        rpc.New(endpoint),
		commitment: commitment,
		timeout:    timeout,
	}
}

// Endpoint returns the RPC URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Commitment returns the commitment applied to reads.
func (c *Client) Commitment() rpc.CommitmentType { return c.commitment }

// Close releases the underlying HTTP client.
func (c *Client) Close() error { return c.rpc.Close() }

// RPCError is returned when the server responds with an error.
type RPCError struct {
	Method  string
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s error %d: %s", e.Method, e.Code, e.Message)
}

// call runs fn with the per-call timeout and normalizes JSON-RPC errors.
func (c *Client) call(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	log.RPC.Debug().
		Str("method", method).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("rpc call")

	if err == nil {
		return nil
	}
	var rerr *jsonrpc.RPCError
	if errors.As(err, &rerr) {
		return &RPCError{Method: method, Code: rerr.Code, Message: rerr.Message}
	}
	return fmt.Errorf("%s: %w", method, err)
}

// Account is an on-chain account as returned by getAccountInfo.
type Account struct {
	Address    solana.PublicKey
	Lamports   uint64
	Owner      solana.PublicKey
	Data       []byte
	Executable bool
}

// GetAccount fetches an account. A missing account yields ErrAccountNotFound.
func (c *Client) GetAccount(ctx context.Context, addr solana.PublicKey) (*Account, error) {
	var res *rpc.GetAccountInfoResult
	err := c.call(ctx, "getAccountInfo", func(ctx context.Context) error {
		var err error
		res, err = c.rpc.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
		}
		return nil, err
	}
	return &Account{
		Address:    addr,
		Lamports:   res.Value.Lamports,
		Owner:      res.Value.Owner,
		Data:       res.GetBinary(),
		Executable: res.Value.Executable,
	}, nil
}

// GetBalance returns an account's balance in lamports. Missing accounts have
// a zero balance.
func (c *Client) GetBalance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	var res *rpc.GetBalanceResult
	err := c.call(ctx, "getBalance", func(ctx context.Context) error {
		var err error
		res, err = c.rpc.GetBalance(ctx, addr, c.commitment)
		return err
	})
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// EpochInfo describes the current epoch.
type EpochInfo struct {
	Epoch            uint64
	SlotIndex        uint64
	SlotsInEpoch     uint64
	AbsoluteSlot     uint64
	BlockHeight      uint64
	TransactionCount uint64
}

// Progress returns how far through the epoch the cluster is, in [0, 1].
func (e *EpochInfo) Progress() float64 {
	if e.SlotsInEpoch == 0 {
		return 0
	}
	return float64(e.SlotIndex) / float64(e.SlotsInEpoch)
}

// GetEpochInfo returns the current epoch.
func (c *Client) GetEpochInfo(ctx context.Context) (*EpochInfo, error) {
	var res *rpc.GetEpochInfoResult
	err := c.call(ctx, "getEpochInfo", func(ctx context.Context) error {
		var err error
		res, err = c.rpc.GetEpochInfo(ctx, c.commitment)
		return err
	})
	if err != nil {
		return nil, err
	}
	info := &EpochInfo{
		Epoch:        res.Epoch,
		SlotIndex:    res.SlotIndex,
		SlotsInEpoch: res.SlotsInEpoch,
		AbsoluteSlot: res.AbsoluteSlot,
		BlockHeight:  res.BlockHeight,
	}
	if res.TransactionCount != nil {
		info.TransactionCount = *res.TransactionCount
	}
	return info, nil
}

// FetchAccountWithEpoch fetches an account together with the current epoch,
// which most stake validations need side by side.
func (c *Client) FetchAccountWithEpoch(ctx context.Context, addr solana.PublicKey) (*Account, uint64, error) {
	acct, err := c.GetAccount(ctx, addr)
	if err != nil {
		return nil, 0, err
	}
	info, err := c.GetEpochInfo(ctx)
	if err != nil {
		return nil, 0, err
	}
	return acct, info.Epoch, nil
}

// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for an
// account of size bytes.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	var lamports uint64
	err := c.call(ctx, "getMinimumBalanceForRentExemption", func(ctx context.Context) error {
		var err error
		lamports, err = c.rpc.GetMinimumBalanceForRentExemption(ctx, size, c.commitment)
		return err
	})
	return lamports, err
}

// GetLatestBlockhash returns a recent blockhash for signing.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var res *rpc.GetLatestBlockhashResult
	err := c.call(ctx, "getLatestBlockhash", func(ctx context.Context) error {
		var err error
		res, err = c.rpc.GetLatestBlockhash(ctx, c.commitment)
		return err
	})
	if err != nil {
		return solana.Hash{}, err
	}
	if res == nil || res.Value == nil {
		return solana.Hash{}, fmt.Errorf("getLatestBlockhash: empty result")
	}
	return res.Value.Blockhash, nil
}

// GetGenesisHash returns the cluster's genesis hash.
func (c *Client) GetGenesisHash(ctx context.Context) (solana.Hash, error) {
	var h solana.Hash
	err := c.call(ctx, "getGenesisHash", func(ctx context.Context) error {
		var err error
		h, err = c.rpc.GetGenesisHash(ctx)
		return err
	})
	return h, err
}

// GetVersion returns the node's solana-core version string.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	var res *rpc.GetVersionResult
	err := c.call(ctx, "getVersion", func(ctx context.Context) error {
		var err error
		res, err = c.rpc.GetVersion(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	return res.SolanaCore, nil
}

// SendTransaction submits a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction, skipPreflight bool) (solana.Signature, error) {
	var sig solana.Signature
	err := c.call(ctx, "sendTransaction", func(ctx context.Context) error {
		var err error
		sig, err = c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			SkipPreflight:       skipPreflight,
			PreflightCommitment: c.commitment,
		})
		return err
	})
	return sig, err
}

// TxFailedError reports a transaction that landed but failed on chain.
type TxFailedError struct {
	Signature solana.Signature
	Err       interface{}
}

func (e *TxFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

// ConfirmTransaction polls the signature status until it reaches the
// client's commitment, fails, or timeout elapses.
func (c *Client) ConfirmTransaction(ctx context.Context, sig solana.Signature, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		var res *rpc.GetSignatureStatusesResult
		err := c.call(ctx, "getSignatureStatuses", func(ctx context.Context) error {
			var err error
			res, err = c.rpc.GetSignatureStatuses(ctx, false, sig)
			return err
		})
		if err == nil && res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			st := res.Value[0]
			if st.Err != nil {
				return &TxFailedError{Signature: sig, Err: st.Err}
			}
			if reached(st.ConfirmationStatus, c.commitment) {
				return nil
			}
		} else if err != nil && ctx.Err() == nil && !errors.Is(err, rpc.ErrNotFound) {
			log.RPC.Warn().Err(err).Str("sig", sig.String()).Msg("signature status poll failed")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrConfirmTimeout, sig)
		case <-ticker.C:
		}
	}
}

// reached reports whether status satisfies the wanted commitment.
func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := map[string]int{
		string(rpc.ConfirmationStatusProcessed): 1,
		string(rpc.ConfirmationStatusConfirmed): 2,
		string(rpc.ConfirmationStatusFinalized): 3,
	}
	have, ok := rank[string(status)]
	if !ok {
		return false
	}
	need, ok := rank[string(want)]
	if !ok {
		need = 2
	}
	return have >= need
}

// VoteAccountInfo is a vote account's entry in getVoteAccounts.
type VoteAccountInfo struct {
	VotePubkey       solana.PublicKey
	NodePubkey       solana.PublicKey
	ActivatedStake   uint64
	EpochVoteAccount bool
	Commission       uint8
	LastVote         uint64
	RootSlot         uint64
	EpochCredits     [][]int64
	Delinquent       bool
}

// GetVoteAccount looks up a single vote account in the cluster's current
// and delinquent sets.
func (c *Client) GetVoteAccount(ctx context.Context, votePubkey solana.PublicKey) (*VoteAccountInfo, error) {
	var res *rpc.GetVoteAccountsResult
	err := c.call(ctx, "getVoteAccounts", func(ctx context.Context) error {
		var err error
		res, err = c.rpc.GetVoteAccounts(ctx, &rpc.GetVoteAccountsOpts{
			Commitment: c.commitment,
			VotePubkey: &votePubkey,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	convert := func(v rpc.VoteAccountsResult, delinquent bool) *VoteAccountInfo {
		return &VoteAccountInfo{
			VotePubkey:       v.VotePubkey,
			NodePubkey:       v.NodePubkey,
			ActivatedStake:   v.ActivatedStake,
			EpochVoteAccount: v.EpochVoteAccount,
			Commission:       v.Commission,
			LastVote:         v.LastVote,
			RootSlot:         v.RootSlot,
			EpochCredits:     v.EpochCredits,
			Delinquent:       delinquent,
		}
	}
	for _, v := range res.Current {
		if v.VotePubkey.Equals(votePubkey) {
			return convert(v, false), nil
		}
	}
	for _, v := range res.Delinquent {
		if v.VotePubkey.Equals(votePubkey) {
			return convert(v, true), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVoteAccountNotFound, votePubkey)
}

// RequestAirdrop asks the cluster faucet for lamports.
func (c *Client) RequestAirdrop(ctx context.Context, addr solana.PublicKey, lamports uint64) (solana.Signature, error) {
	var sig solana.Signature
	err := c.call(ctx, "requestAirdrop", func(ctx context.Context) error {
		var err error
		sig, err = c.rpc.RequestAirdrop(ctx, addr, lamports, c.commitment)
		return err
	})
	return sig, err
}
