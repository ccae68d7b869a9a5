package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/config"
	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/log"
	"github.com/scilla-cli/scilla/internal/rpcclient"
	"github.com/scilla-cli/scilla/internal/sender"
	"github.com/scilla-cli/scilla/internal/ui"
	"github.com/scilla-cli/scilla/pkg/stake"
)

// Stake validation errors.
var (
	ErrNotStakeAccount = errors.New("account is not owned by the stake program")
	ErrNotStaker       = errors.New("you are not the authorized staker")
	ErrNotWithdrawer   = errors.New("you are not the authorized withdrawer")
	ErrInsufficient    = errors.New("insufficient balance")
)

// StakeCommand is an entry of the stake menu.
type StakeCommand int

const (
	StakeCreate StakeCommand = iota
	StakeDelegate
	StakeDeactivate
	StakeWithdraw
	StakeMerge
	StakeSplit
	StakeAuthorize
	StakeShow
	StakeHistory
	StakeGoBack
)

// StakeCommands lists the menu in display order.
var StakeCommands = []StakeCommand{
	StakeCreate, StakeDelegate, StakeDeactivate, StakeWithdraw,
	StakeMerge, StakeSplit, StakeAuthorize, StakeShow, StakeHistory, StakeGoBack,
}

func (s StakeCommand) String() string {
	switch s {
	case StakeCreate:
		return "Create stake account"
	case StakeDelegate:
		return "Delegate stake"
	case StakeDeactivate:
		return "Deactivate stake"
	case StakeWithdraw:
		return "Withdraw stake"
	case StakeMerge:
		return "Merge stake accounts"
	case StakeSplit:
		return "Split stake account"
	case StakeAuthorize:
		return "Change stake authority"
	case StakeShow:
		return "Show stake"
	case StakeHistory:
		return "View stake history"
	case StakeGoBack:
		return "Go back"
	}
	return "unknown"
}

// SpinnerMsg is shown while the command talks to the cluster.
func (s StakeCommand) SpinnerMsg() string {
	switch s {
	case StakeCreate:
		return "Creating new stake account…"
	case StakeDelegate:
		return "Delegating stake to validator…"
	case StakeDeactivate:
		return "Deactivating stake (cooldown starting)…"
	case StakeWithdraw:
		return "Withdrawing SOL from deactivated stake…"
	case StakeMerge:
		return "Merging stake accounts…"
	case StakeSplit:
		return "Splitting stake into multiple accounts…"
	case StakeAuthorize:
		return "Updating stake authority…"
	case StakeShow:
		return "Fetching stake account details…"
	case StakeHistory:
		return "Fetching stake account history…"
	case StakeGoBack:
		return "Going back…"
	}
	return ""
}

// Run prompts for the command's parameters and executes it.
func (s StakeCommand) Run(ctx context.Context, c *Context) (Exec, error) {
	u := c.UI
	var fn func(context.Context) (report, error)

	switch s {
	case StakeCreate:
		amount, err := promptAmount(u, "Enter Amount to Stake (SOL):")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return createStake(ctx, c, amount) }

	case StakeDelegate:
		stakePk, err := promptPubkey(u, "Enter Stake Account Pubkey to Delegate:")
		if err != nil {
			return Process, err
		}
		votePk, err := promptPubkey(u, "Enter Vote Account Pubkey:")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return delegateStake(ctx, c, stakePk, votePk) }

	case StakeDeactivate:
		stakePk, err := promptPubkey(u, "Enter Stake Account Pubkey to Deactivate:")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return deactivateStake(ctx, c, stakePk) }

	case StakeWithdraw:
		stakePk, err := promptPubkey(u, "Enter Stake Account Pubkey to Withdraw from:")
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
		fn = func(ctx context.Context) (report, error) { return withdrawStake(ctx, c, stakePk, recipient, amount) }

	case StakeMerge:
		dest, err := promptPubkey(u, "Enter Destination Stake Account Pubkey:")
		if err != nil {
			return Process, err
		}
		src, err := promptPubkey(u, "Enter Source Stake Account Pubkey (will be closed):")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return mergeStake(ctx, c, dest, src) }

	case StakeSplit:
		stakePk, err := promptPubkey(u, "Enter Stake Account Pubkey to Split:")
		if err != nil {
			return Process, err
		}
		amount, err := promptAmount(u, "Enter Amount to Move to the New Account (SOL):")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return splitStake(ctx, c, stakePk, amount) }

	case StakeAuthorize:
		stakePk, err := promptPubkey(u, "Enter Stake Account Pubkey:")
		if err != nil {
			return Process, err
		}
		idx, err := u.Prompter.Select("Which authority do you want to change?",
			[]string{stake.AuthorizeStaker.String(), stake.AuthorizeWithdrawer.String()})
		if err != nil {
			return Process, err
		}
		kind := stake.AuthorizeKind(idx)
		newAuth, err := promptPubkey(u, "Enter New Authority Pubkey:")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return authorizeStake(ctx, c, stakePk, newAuth, kind) }

	case StakeShow:
		stakePk, err := promptPubkey(u, "Enter Stake Account Pubkey:")
		if err != nil {
			return Process, err
		}
		fn = func(ctx context.Context) (report, error) { return showStake(ctx, c, stakePk) }

	case StakeHistory:
		fn = func(ctx context.Context) (report, error) { return stakeHistory(ctx, c) }

	case StakeGoBack:
		return GoBack, nil

	default:
		return Process, fmt.Errorf("unknown stake command %d", int(s))
	}

	return Process, c.run(ctx, s.SpinnerMsg(), fn)
}

// ShowStake prints a stake account. Used by the non-interactive CLI.
func ShowStake(ctx context.Context, c *Context, stakePk solana.PublicKey) error {
	return c.run(ctx, StakeShow.SpinnerMsg(), func(ctx context.Context) (report, error) {
		return showStake(ctx, c, stakePk)
	})
}

// ShowStakeHistory prints the cluster stake history.
func ShowStakeHistory(ctx context.Context, c *Context) error {
	return c.run(ctx, StakeHistory.SpinnerMsg(), func(ctx context.Context) (report, error) {
		return stakeHistory(ctx, c)
	})
}

// fetchStake loads a stake account, checks its owner and decodes its state.
func fetchStake(ctx context.Context, c *Context, pk solana.PublicKey) (*rpcclient.Account, *stake.State, uint64, error) {
	acct, epoch, err := c.RPC.FetchAccountWithEpoch(ctx, pk)
	if err != nil {
		return nil, nil, 0, err
	}
	if !acct.Owner.Equals(stake.ProgramID) {
		return nil, nil, 0, fmt.Errorf("%w: %s", ErrNotStakeAccount, pk)
	}
	st, err := stake.DecodeState(acct.Data)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("stake account data: %w", err)
	}
	log.Stake.Debug().
		Str("account", pk.String()).
		Str("state", st.Kind.String()).
		Uint64("epoch", epoch).
		Msg("Fetched stake account")
	return acct, st, epoch, nil
}

func checkStaker(meta stake.Meta, wallet solana.PublicKey) error {
	if !meta.Authorized.Staker.Equals(wallet) {
		return fmt.Errorf("%w. Authorized staker: %s", ErrNotStaker, meta.Authorized.Staker)
	}
	return nil
}

func checkWithdrawer(meta stake.Meta, wallet solana.PublicKey) error {
	if !meta.Authorized.Withdrawer.Equals(wallet) {
		return fmt.Errorf("%w. Authorized withdrawer: %s", ErrNotWithdrawer, meta.Authorized.Withdrawer)
	}
	return nil
}

func createStake(ctx context.Context, c *Context, amount uint64) (report, error) {
	wallet, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	balance, err := c.RPC.GetBalance(ctx, wallet)
	if err != nil {
		return nil, err
	}
	rent, err := c.RPC.GetMinimumBalanceForRentExemption(ctx, stake.AccountSize)
	if err != nil {
		return nil, err
	}
	total := amount + rent
	if total < amount || total > balance {
		return nil, fmt.Errorf("%w. Have %s, need %s (%s stake plus %s rent-exempt reserve)",
			ErrInsufficient, sol(balance), sol(total), sol(amount), sol(rent))
	}

	stakeKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate stake keypair: %w", err)
	}
	stakePk := stakeKey.PublicKey()
	ixs := stake.CreateAccount(wallet, stakePk, total, stake.Authorized{Staker: wallet, Withdrawer: wallet})

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindStakeCreate,
		Accounts: []solana.PublicKey{stakePk},
		Lamports: total,
	}, ixs, stakeKey)
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Stake Account Created Successfully!")
		u.Warn("Stake Account: %s", stakePk)
		u.Info("Amount: %s (plus %s rent-exempt reserve)", sol(amount), sol(rent))
		u.Info("Signature: %s", sig)
	}, nil
}

func delegateStake(ctx context.Context, c *Context, stakePk, votePk solana.PublicKey) (report, error) {
	wallet, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	_, st, epoch, err := fetchStake(ctx, c, stakePk)
	if err != nil {
		return nil, err
	}

	voteAcct, err := c.RPC.GetAccount(ctx, votePk)
	if err != nil {
		return nil, fmt.Errorf("vote account: %w", err)
	}
	if !voteAcct.Owner.Equals(solana.VoteProgramID) {
		return nil, fmt.Errorf("%w: %s", ErrNotVoteAccount, votePk)
	}

	switch st.Kind {
	case stake.KindInitialized:
	case stake.KindStake:
		d := st.Stake.Delegation
		if !d.IsDeactivating() {
			return nil, fmt.Errorf("stake is already delegated to %s", d.VoterPubkey)
		}
		if epoch <= d.DeactivationEpoch {
			return nil, fmt.Errorf("stake is still deactivating. Current epoch: %d, deactivation epoch: %d", epoch, d.DeactivationEpoch)
		}
	default:
		return nil, fmt.Errorf("stake account is not in a valid state for delegation (%s)", st.Kind)
	}
	if err := checkStaker(st.Meta, wallet); err != nil {
		return nil, err
	}

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindStakeDelegate,
		Accounts: []solana.PublicKey{stakePk, votePk},
	}, []solana.Instruction{stake.Delegate(stakePk, votePk, wallet)})
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Stake Delegated Successfully!")
		u.Warn("(Warmup will take effect at the next epoch boundary)")
		u.Warn("Stake Account: %s", stakePk)
		u.Warn("Vote Account: %s", votePk)
		u.Info("Signature: %s", sig)
	}, nil
}

func deactivateStake(ctx context.Context, c *Context, stakePk solana.PublicKey) (report, error) {
	wallet, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	acct, err := c.RPC.GetAccount(ctx, stakePk)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(stake.ProgramID) {
		return nil, fmt.Errorf("%w: %s", ErrNotStakeAccount, stakePk)
	}
	st, err := stake.DecodeState(acct.Data)
	if err != nil {
		return nil, fmt.Errorf("stake account data: %w", err)
	}

	switch st.Kind {
	case stake.KindStake:
		if st.Stake.Delegation.IsDeactivating() {
			return nil, fmt.Errorf("stake is already deactivating at epoch %d", st.Stake.Delegation.DeactivationEpoch)
		}
		if err := checkStaker(st.Meta, wallet); err != nil {
			return nil, err
		}
	case stake.KindInitialized:
		return nil, errors.New("stake account is initialized but not delegated")
	default:
		return nil, errors.New("stake account is not in a valid state for deactivation")
	}

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindStakeDeactivate,
		Accounts: []solana.PublicKey{stakePk},
	}, []solana.Instruction{stake.Deactivate(stakePk, wallet)})
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Stake Deactivated Successfully!")
		u.Warn("(Cooldown will take 1-2 epochs ≈ 2-4 days)")
		u.Warn("Stake Account: %s", stakePk)
		u.Info("Signature: %s", sig)
	}, nil
}

func withdrawStake(ctx context.Context, c *Context, stakePk, recipient solana.PublicKey, amount uint64) (report, error) {
	wallet, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	acct, st, epoch, err := fetchStake(ctx, c, stakePk)
	if err != nil {
		return nil, err
	}

	switch st.Kind {
	case stake.KindStake:
		if err := checkWithdrawer(st.Meta, wallet); err != nil {
			return nil, err
		}
		d := st.Stake.Delegation
		if !d.IsDeactivating() {
			return nil, errors.New("stake is still active. You must deactivate it first and wait for the cooldown period")
		}
		if !stake.Withdrawable(d, epoch) {
			return nil, fmt.Errorf("stake is still cooling down. Current epoch: %d, deactivation epoch: %d, epochs remaining: %d",
				epoch, d.DeactivationEpoch, stake.EpochsRemaining(d, epoch))
		}
	case stake.KindInitialized:
		if err := checkWithdrawer(st.Meta, wallet); err != nil {
			return nil, err
		}
	case stake.KindUninitialized:
		return nil, errors.New("stake account is uninitialized")
	case stake.KindRewardsPool:
		return nil, errors.New("cannot withdraw from rewards pool")
	}

	lockup := st.Meta.Lockup
	if lockup.InForce(epoch, time.Now().Unix()) && !lockup.Custodian.Equals(wallet) {
		return nil, fmt.Errorf("stake account is locked up until epoch %d / unix time %d (custodian %s)",
			lockup.Epoch, lockup.UnixTimestamp, lockup.Custodian)
	}

	if amount > acct.Lamports {
		return nil, fmt.Errorf("%w. Have %s, trying to withdraw %s", ErrInsufficient, sol(acct.Lamports), sol(amount))
	}
	// A partial withdrawal must leave the rent-exempt reserve behind.
	reserve := st.Meta.RentExemptReserve
	if amount < acct.Lamports && acct.Lamports-amount < reserve {
		var most uint64
		if acct.Lamports > reserve {
			most = acct.Lamports - reserve
		}
		return nil, fmt.Errorf("%w. Withdrawal would leave %s, below the rent-exempt reserve of %s. Withdraw at most %s or the full balance",
			ErrInsufficient, sol(acct.Lamports-amount), sol(reserve), sol(most))
	}

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindStakeWithdraw,
		Accounts: []solana.PublicKey{stakePk, recipient},
		Lamports: amount,
	}, []solana.Instruction{stake.Withdraw(stakePk, wallet, recipient, amount)})
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Stake Withdrawn Successfully!")
		u.Warn("From Stake Account: %s", stakePk)
		u.Warn("To Recipient: %s", recipient)
		u.Info("Amount: %s", sol(amount))
		u.Info("Signature: %s", sig)
	}, nil
}

// authorizeStake hands the staker or withdrawer role to another key. The
// withdrawer may replace either authority; the staker only itself.
func authorizeStake(ctx context.Context, c *Context, stakePk, newAuth solana.PublicKey, kind stake.AuthorizeKind) (report, error) {
	wallet, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	_, st, epoch, err := fetchStake(ctx, c, stakePk)
	if err != nil {
		return nil, err
	}
	if st.Kind != stake.KindInitialized && st.Kind != stake.KindStake {
		return nil, fmt.Errorf("stake account is %s, authorities cannot be changed", st.Kind)
	}

	auth := st.Meta.Authorized
	switch kind {
	case stake.AuthorizeStaker:
		if !auth.Staker.Equals(wallet) && !auth.Withdrawer.Equals(wallet) {
			return nil, fmt.Errorf("%w. Authorized staker: %s, withdrawer: %s", ErrNotStaker, auth.Staker, auth.Withdrawer)
		}
		if auth.Staker.Equals(newAuth) {
			return nil, fmt.Errorf("%s is already the authorized staker", newAuth)
		}
	case stake.AuthorizeWithdrawer:
		if err := checkWithdrawer(st.Meta, wallet); err != nil {
			return nil, err
		}
		if auth.Withdrawer.Equals(newAuth) {
			return nil, fmt.Errorf("%s is already the authorized withdrawer", newAuth)
		}
		lockup := st.Meta.Lockup
		if lockup.InForce(epoch, time.Now().Unix()) && !lockup.Custodian.Equals(wallet) {
			return nil, fmt.Errorf("stake account is locked up until epoch %d / unix time %d (custodian %s)",
				lockup.Epoch, lockup.UnixTimestamp, lockup.Custodian)
		}
	default:
		return nil, fmt.Errorf("unknown stake authority %d", uint32(kind))
	}

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindStakeAuthorize,
		Accounts: []solana.PublicKey{stakePk, newAuth},
	}, []solana.Instruction{stake.Authorize(stakePk, wallet, newAuth, kind)})
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Stake Authority Updated!")
		u.Warn("Stake Account: %s", stakePk)
		u.Info("New %s: %s", kind, newAuth)
		u.Info("Signature: %s", sig)
	}, nil
}

func mergeStake(ctx context.Context, c *Context, dest, src solana.PublicKey) (report, error) {
	if dest.Equals(src) {
		return nil, errors.New("cannot merge a stake account into itself")
	}
	wallet, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	_, dst, _, err := fetchStake(ctx, c, dest)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	srcAcct, sst, _, err := fetchStake(ctx, c, src)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	for _, s := range []struct {
		pk solana.PublicKey
		st *stake.State
	}{{dest, dst}, {src, sst}} {
		if s.st.Kind != stake.KindInitialized && s.st.Kind != stake.KindStake {
			return nil, fmt.Errorf("stake account %s is not in a valid state for merging (%s)", s.pk, s.st.Kind)
		}
		if err := checkStaker(s.st.Meta, wallet); err != nil {
			return nil, fmt.Errorf("%s: %w", s.pk, err)
		}
	}
	if !dst.Meta.Authorized.Withdrawer.Equals(sst.Meta.Authorized.Withdrawer) {
		return nil, fmt.Errorf("stake accounts have different withdraw authorities (%s vs %s)",
			dst.Meta.Authorized.Withdrawer, sst.Meta.Authorized.Withdrawer)
	}
	if dst.Kind == stake.KindStake && sst.Kind == stake.KindStake {
		dv, sv := dst.Stake.Delegation.VoterPubkey, sst.Stake.Delegation.VoterPubkey
		if !dv.Equals(sv) {
			return nil, fmt.Errorf("stake accounts are delegated to different vote accounts (%s vs %s)", dv, sv)
		}
	}

	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindStakeMerge,
		Accounts: []solana.PublicKey{dest, src},
		Lamports: srcAcct.Lamports,
	}, []solana.Instruction{stake.Merge(dest, src, wallet)})
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Stake Accounts Merged Successfully!")
		u.Warn("Destination: %s", dest)
		u.Warn("Merged and closed: %s", src)
		u.Info("Signature: %s", sig)
	}, nil
}

func splitStake(ctx context.Context, c *Context, stakePk solana.PublicKey, amount uint64) (report, error) {
	wallet, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	acct, st, _, err := fetchStake(ctx, c, stakePk)
	if err != nil {
		return nil, err
	}
	if st.Kind != stake.KindInitialized && st.Kind != stake.KindStake {
		return nil, fmt.Errorf("stake account is not in a valid state for splitting (%s)", st.Kind)
	}
	if err := checkStaker(st.Meta, wallet); err != nil {
		return nil, err
	}
	if amount >= acct.Lamports {
		return nil, fmt.Errorf("%w. Split amount %s must be less than the account balance of %s",
			ErrInsufficient, sol(amount), sol(acct.Lamports))
	}
	if amount < st.Meta.RentExemptReserve {
		return nil, fmt.Errorf("split amount must be at least the rent-exempt reserve of %s", sol(st.Meta.RentExemptReserve))
	}

	newKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate stake keypair: %w", err)
	}
	newPk := newKey.PublicKey()
	sig, err := c.send(ctx, sender.Meta{
		Kind:     journal.KindStakeSplit,
		Accounts: []solana.PublicKey{stakePk, newPk},
		Lamports: amount,
	}, stake.Split(stakePk, newPk, wallet, amount), newKey)
	if err != nil {
		return nil, err
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Stake Split Successfully!")
		u.Warn("From Stake Account: %s", stakePk)
		u.Warn("New Stake Account: %s", newPk)
		u.Info("Amount: %s", sol(amount))
		u.Info("Signature: %s", sig)
	}, nil
}

func showStake(ctx context.Context, c *Context, stakePk solana.PublicKey) (report, error) {
	acct, st, epoch, err := fetchStake(ctx, c, stakePk)
	if err != nil {
		return nil, err
	}

	rows := [][2]string{
		{"Stake Account", stakePk.String()},
		{"Balance", sol(acct.Lamports)},
		{"State", st.Kind.String()},
	}
	if st.Kind == stake.KindInitialized || st.Kind == stake.KindStake {
		m := st.Meta
		lockup := "none"
		if m.Lockup.InForce(epoch, time.Now().Unix()) {
			lockup = fmt.Sprintf("until epoch %d / unix %d (custodian %s)", m.Lockup.Epoch, m.Lockup.UnixTimestamp, m.Lockup.Custodian)
		}
		rows = append(rows,
			[2]string{"Rent Reserve", sol(m.RentExemptReserve)},
			[2]string{"Staker", m.Authorized.Staker.String()},
			[2]string{"Withdrawer", m.Authorized.Withdrawer.String()},
			[2]string{"Lockup", lockup},
		)
	}
	if st.Kind == stake.KindStake {
		d := st.Stake.Delegation
		status := stake.StatusAt(d, epoch)
		rows = append(rows,
			[2]string{"Voter", d.VoterPubkey.String()},
			[2]string{"Delegated Stake", sol(d.Stake)},
			[2]string{"Activation Epoch", epochString(d.ActivationEpoch)},
			[2]string{"Deactivation Epoch", epochString(d.DeactivationEpoch)},
			[2]string{"Status", string(status)},
		)
		if status == stake.StatusDeactivating {
			rows = append(rows, [2]string{"Epochs Until Withdrawable", strconv.FormatUint(stake.EpochsRemaining(d, epoch)+1, 10)})
		}
	}
	rows = append(rows, [2]string{"Current Epoch", strconv.FormatUint(epoch, 10)})

	return func(u *ui.UI) {
		u.Heading("STAKE ACCOUNT")
		u.Fields(rows)
	}, nil
}

func stakeHistory(ctx context.Context, c *Context) (report, error) {
	acct, err := c.RPC.GetAccount(ctx, solana.SysVarStakeHistoryPubkey)
	if err != nil {
		return nil, err
	}
	history, err := stake.DecodeHistory(acct.Data)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return func(u *ui.UI) {
			u.Println()
			u.Warn("No stake history available")
		}, nil
	}

	var rows [][]string
	for _, e := range history.Latest(config.DefaultEpochLimit) {
		rows = append(rows, []string{
			strconv.FormatUint(e.Epoch, 10),
			sol(e.Effective),
			sol(e.Activating),
			sol(e.Deactivating),
		})
	}
	return func(u *ui.UI) {
		u.Heading("CLUSTER STAKE HISTORY")
		u.Table([]string{"Epoch", "Effective Stake", "Activating Stake", "Deactivating Stake"}, rows)
	}, nil
}
