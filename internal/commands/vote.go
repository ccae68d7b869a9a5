package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/log"
	"github.com/scilla-cli/scilla/internal/rpcclient"
	"github.com/scilla-cli/scilla/internal/sender"
	"github.com/scilla-cli/scilla/internal/ui"
	"github.com/scilla-cli/scilla/internal/wallet"
	"github.com/scilla-cli/scilla/pkg/vote"
)

// ErrNotVoteAccount is returned for accounts not owned by the vote program.
var ErrNotVoteAccount = errors.New("account is not owned by the vote program")

// VoteCommand is an entry of the vote menu.
type VoteCommand int

const (
	VoteCreate VoteCommand = iota
	VoteAuthorizeVoter
	VoteWithdraw
	VoteShow
	VoteGoBack
)

// VoteCommands lists the menu in display order.
var VoteCommands = []VoteCommand{VoteCreate, VoteAuthorizeVoter, VoteWithdraw, VoteShow, VoteGoBack}

func (v VoteCommand) String() string {
	switch v {
	case VoteCreate:
		return "Initialize a new vote account"
	case VoteAuthorizeVoter:
		return "Change authorized voter"
	case VoteWithdraw:
		return "Withdraw from vote account"
	case VoteShow:
		return "Display vote account info"
	case VoteGoBack:
		return "Go back"
	}
	return "unknown"
}

// SpinnerMsg is shown while the command talks to the cluster.
func (v VoteCommand) SpinnerMsg() string {
	switch v {
	case VoteCreate:
		return "Creating vote account…"
	case VoteAuthorizeVoter:
		return "Authorizing new voter…"
	case VoteWithdraw:
		return "Withdrawing from vote account…"
	case VoteShow:
		return "Fetching vote account details…"
	}
	return ""
}

// Run prompts for the command's parameters and executes it.
func (v VoteCommand) Run(ctx context.Context, c *Context) (Exec, error) {
	u := c.UI
	var fn func(context.Context) (report, error)

	switch v {
	case VoteCreate:
		wk, err := c.Wallet()
		if err != nil {
			return Process, err
		}
		identity, err := ui.PromptData(u, "Enter Validator Identity Keypair Path (empty to use the wallet):",
			func(s string) (solana.PrivateKey, error) {
				if s == "" {
					return wk, nil
				}
				return wallet.ReadKeygenFile(s)
			})
		if err != nil {
			return Process, err
		}
		commission, err := ui.PromptData(u, "Enter Commission (0-100):", parseCommission)
		if err != nil {
			return Process, err
		}
		withdrawer, err := ui.PromptData(u, "Enter Authorized Withdrawer (empty for the wallet):", pubkeyOr(wk.PublicKey()))
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) {
			return createVote(ctx, c, identity, commission, withdrawer)
		}

	case VoteAuthorizeVoter:
		votePk, err := promptPubkey(u, "Enter Vote Account Pubkey:")
		if err != nil {
			return Process, err
		}
		voter, err := promptPubkey(u, "Enter New Authorized Voter Pubkey:")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return authorizeVoter(ctx, c, votePk, voter) }

	case VoteWithdraw:
		votePk, err := promptPubkey(u, "Enter Vote Account Pubkey to Withdraw from:")
		if err != nil {
			return Process, err
		}
		recipient, err := promptPubkey(u, "Enter Recipient Address:")
		if err != nil {
			return Process, err
		}
		amount, err := promptAmount(u, "Enter Amount to Withdraw (SOL):")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return withdrawVote(ctx, c, votePk, recipient, amount) }

	case VoteShow:
		votePk, err := promptPubkey(u, "Enter Vote Account Pubkey:")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return showVote(ctx, c, votePk) }

	case VoteGoBack:
		return GoBack, nil

	default:
		return Process, fmt.Errorf("unknown vote command %d", int(v))
	}

	return Process, c.run(ctx, v.SpinnerMsg(), fn)
}

// ShowVote prints a vote account. Used by the non-interactive CLI.
func ShowVote(ctx context.Context, c *Context, votePk solana.PublicKey) error {
	return c.run(ctx, VoteShow.SpinnerMsg(), func(ctx context.Context) (report, error) {
		return showVote(ctx, c, votePk)
	})
}

func fetchVote(ctx context.Context, c *Context, pk solana.PublicKey) (*rpcclient.Account, *vote.Header, error) {
	acct, err := c.RPC.GetAccount(ctx, pk)
	if err != nil {
		return nil, nil, err
	}
	if !acct.Owner.Equals(vote.ProgramID) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotVoteAccount, pk)
	}
	h, err := vote.DecodeHeader(acct.Data)
	if err != nil {
		return nil, nil, err
	}
	log.Vote.Debug().
		Str("account", pk.String()).
		Str("node", h.Node.String()).
		Uint32("version", h.Version).
		Msg("Fetched vote account")
	return acct, h, nil
}

func createVote(ctx context.Context, c *Context, identity solana.PrivateKey, commission uint8, withdrawer solana.PublicKey) (report, error) {
	if commission > 100 {
		return nil, fmt.Errorf("commission must be between 0 and 100, got %d", commission)
	}
	wk, err := c.Wallet()
	if err != nil {
		return nil, err
	}
	walletPk := wk.PublicKey()

	rent, err := c.RPC.GetMinimumBalanceForRentExemption(ctx, vote.AccountSize)
	if err != nil {
		return nil, err
	}
	balance, err := c.RPC.GetBalance(ctx, walletPk)
	if err != nil {
		return nil, err
	}
	if rent > balance {
		return nil, fmt.Errorf("%w. Have %s, a vote account needs %s for rent exemption", ErrInsufficient, sol(balance), sol(rent))
	}

	voteKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate vote keypair: %w", err)
	}
	votePk := voteKey.PublicKey()
	params := vote.Init{
		Node:       identity.PublicKey(),
		Voter:      identity.PublicKey(),
		Withdrawer: withdrawer,
		Commission: commission,
	}

	extra := []solana.PrivateKey{voteKey}
	if !identity.PublicKey().Equals(walletPk) {
		extra = append(extra, identity)
	}
	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindVoteCreate,
		Accounts: []solana.PublicKey{votePk, params.Node},
		Lamports: rent,
	}, vote.CreateAccount(walletPk, votePk, rent, params), extra...)
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Vote Account Created Successfully!")
		u.Warn("Vote Account: %s", votePk)
		u.Warn("Validator Identity: %s", params.Node)
		u.Warn("Authorized Withdrawer: %s", withdrawer)
		u.Info("Commission: %d%%", commission)
		u.Info("Signature: %s", sig)
	}, nil
}

func authorizeVoter(ctx context.Context, c *Context, votePk, newVoter solana.PublicKey) (report, error) {
	walletPk, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	_, h, err := fetchVote(ctx, c, votePk)
	if err != nil {
		return nil, err
	}
	// The header does not carry the authorized voter, so only the
	// withdrawer is checked before signing.
	if !h.Withdrawer.Equals(walletPk) {
		return nil, fmt.Errorf("%w. Authorized withdrawer: %s (the current authorized voter may also sign)",
			ErrNotWithdrawer, h.Withdrawer)
	}

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindVoteAuthorize,
		Accounts: []solana.PublicKey{votePk, newVoter},
	}, []solana.Instruction{vote.Authorize(votePk, walletPk, newVoter, vote.AuthorizeVoter)})
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Authorized Voter Changed Successfully!")
		u.Warn("(The new voter takes effect at the next epoch)")
		u.Warn("Vote Account: %s", votePk)
		u.Warn("New Voter: %s", newVoter)
		u.Info("Signature: %s", sig)
	}, nil
}

func withdrawVote(ctx context.Context, c *Context, votePk, recipient solana.PublicKey, amount uint64) (report, error) {
	walletPk, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	acct, h, err := fetchVote(ctx, c, votePk)
	if err != nil {
		return nil, err
	}
	if !h.Withdrawer.Equals(walletPk) {
		return nil, fmt.Errorf("%w. Authorized withdrawer: %s", ErrNotWithdrawer, h.Withdrawer)
	}
	if amount > acct.Lamports {
		return nil, fmt.Errorf("%w. Have %s, trying to withdraw %s", ErrInsufficient, sol(acct.Lamports), sol(amount))
	}
	if amount < acct.Lamports {
		rent, err := c.RPC.GetMinimumBalanceForRentExemption(ctx, uint64(len(acct.Data)))
		if err != nil {
			return nil, err
		}
		if acct.Lamports-amount < rent {
			return nil, fmt.Errorf("withdrawal would leave %s, below the rent-exempt minimum of %s. Withdraw at most %s or the full balance",
				sol(acct.Lamports-amount), sol(rent), sol(acct.Lamports-rent))
		}
	}

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindVoteWithdraw,
		Accounts: []solana.PublicKey{votePk, recipient},
		Lamports: amount,
	}, []solana.Instruction{vote.Withdraw(votePk, walletPk, recipient, amount)})
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Vote Account Withdrawal Successful!")
		u.Warn("From Vote Account: %s", votePk)
		u.Warn("To Recipient: %s", recipient)
		u.Info("Amount: %s", sol(amount))
		u.Info("Signature: %s", sig)
	}, nil
}

func showVote(ctx context.Context, c *Context, votePk solana.PublicKey) (report, error) {
	acct, h, err := fetchVote(ctx, c, votePk)
	if err != nil {
		return nil, err
	}

	version := "current"
	if h.Version == 1 {
		version = "1.14.11"
	}
	rows := [][2]string{
		{"Vote Account", votePk.String()},
		{"Balance", sol(acct.Lamports)},
		{"Validator Identity", h.Node.String()},
		{"Authorized Withdrawer", h.Withdrawer.String()},
		{"Commission", fmt.Sprintf("%d%%", h.Commission)},
		{"State Version", version},
	}

	info, err := c.RPC.GetVoteAccount(ctx, votePk)
	switch {
	case err == nil:
		status := "current"
		if info.Delinquent {
			status = "delinquent"
		}
		rows = append(rows,
			[2]string{"Activated Stake", sol(info.ActivatedStake)},
			[2]string{"Last Vote", strconv.FormatUint(info.LastVote, 10)},
			[2]string{"Root Slot", strconv.FormatUint(info.RootSlot, 10)},
			[2]string{"Status", status},
		)
		if n := len(info.EpochCredits); n > 0 {
			ec := info.EpochCredits[n-1]
			if len(ec) == 3 {
				rows = append(rows, [2]string{"Epoch Credits", fmt.Sprintf("epoch %d: %d", ec[0], ec[1]-ec[2])})
			}
		}
	case errors.Is(err, rpcclient.ErrVoteAccountNotFound):
		rows = append(rows, [2]string{"Status", "not voting"})
	default:
		return nil, err
	}

	return func(u *ui.UI) {
		u.Heading("VOTE ACCOUNT")
		u.Fields(rows)
	}, nil
}
