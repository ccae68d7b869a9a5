package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/scilla-cli/scilla/config"
	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/ui"
	"github.com/scilla-cli/scilla/pkg/types"
)

// MaxAirdrop caps a single faucet request.
const MaxAirdrop = 5 * types.LamportsPerSOL

// AccountCommand is an entry of the account menu.
type AccountCommand int

const (
	AccountAddress AccountCommand = iota
	AccountBalance
	AccountAirdrop
	AccountGoBack
)

// AccountCommands lists the menu in display order.
var AccountCommands = []AccountCommand{AccountAddress, AccountBalance, AccountAirdrop, AccountGoBack}

func (a AccountCommand) String() string {
	switch a {
	case AccountAddress:
		return "Show address"
	case AccountBalance:
		return "Show balance"
	case AccountAirdrop:
		return "Request airdrop"
	case AccountGoBack:
		return "Go back"
	}
	return "unknown"
}

// Run executes the command.
func (a AccountCommand) Run(ctx context.Context, c *Context) (Exec, error) {
	switch a {
	case AccountAddress:
		pk, err := c.Pubkey()
		if err != nil {
			return Process, err
		}
		c.UI.Info("Address: %s", pk)
		return Process, nil

	case AccountBalance:
		return Process, c.run(ctx, "Fetching balance…", func(ctx context.Context) (report, error) {
			return showBalance(ctx, c)
		})

	case AccountAirdrop:
		if err := checkAirdrop(c.Config); err != nil {
			return Process, err
		}
		amount, err := promptAmount(c.UI, "Enter Airdrop Amount (SOL):")
		if err != nil {
			return Process, err
		}
		return Process, c.run(ctx, "Requesting airdrop…", func(ctx context.Context) (report, error) {
			return airdrop(ctx, c, amount)
		})

	case AccountGoBack:
		return GoBack, nil
	}
	return Process, fmt.Errorf("unknown account command %d", int(a))
}

func showBalance(ctx context.Context, c *Context) (report, error) {
	pk, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	lamports, err := c.RPC.GetBalance(ctx, pk)
	if err != nil {
		return nil, err
	}
	return func(u *ui.UI) {
		u.Fields([][2]string{
			{"Address", pk.String()},
			{"Balance", sol(lamports)},
			{"Lamports", fmt.Sprint(lamports)},
		})
	}, nil
}

// Airdrop requests lamports from the cluster faucet. Used by the
// non-interactive CLI.
func Airdrop(ctx context.Context, c *Context, amount uint64) error {
	return c.run(ctx, "Requesting airdrop…", func(ctx context.Context) (report, error) {
		return airdrop(ctx, c, amount)
	})
}

func checkAirdrop(cfg *config.Config) error {
	cl, ok := config.LookupCluster(cfg.Network)
	if !ok || !cl.Airdrop {
		return fmt.Errorf("airdrops are not available on %s", cfg.Network)
	}
	return nil
}

func airdrop(ctx context.Context, c *Context, amount uint64) (report, error) {
	if err := checkAirdrop(c.Config); err != nil {
		return nil, err
	}
	if amount > MaxAirdrop {
		return nil, fmt.Errorf("airdrop amount %s exceeds the %s limit", sol(amount), sol(MaxAirdrop))
	}
	pk, err := c.Pubkey()
	if err != nil {
		return nil, err
	}
	sig, err := c.RPC.RequestAirdrop(ctx, pk, amount)
	if err != nil {
		return nil, err
	}
	if c.Journal != nil {
		_ = c.Journal.Record(journal.Record{
			Signature: sig,
			Kind:      journal.KindAirdrop,
			Cluster:   string(c.Config.Network),
			Accounts:  []string{pk.String()},
			Lamports:  amount,
		})
	}

	confirmErr := c.RPC.ConfirmTransaction(ctx, sig, c.Config.Tx.ConfirmTimeout)
	if c.Journal != nil {
		status, msg := journal.StatusConfirmed, ""
		if confirmErr != nil {
			status, msg = journal.StatusFailed, confirmErr.Error()
		}
		_ = c.Journal.SetStatus(sig, status, msg)
	}
	if confirmErr != nil {
		return nil, confirmErr
	}

	return func(u *ui.UI) {
		u.Println()
		u.Success("Airdrop Received!")
		u.Info("Amount: %s", sol(amount))
		u.Info("Signature: %s", sig)
	}, nil
}

// ClusterCommand is an entry of the cluster menu.
type ClusterCommand int

const (
	ClusterEpoch ClusterCommand = iota
	ClusterInfo
	ClusterGoBack
)

// ClusterCommands lists the menu in display order.
var ClusterCommands = []ClusterCommand{ClusterEpoch, ClusterInfo, ClusterGoBack}

func (cc ClusterCommand) String() string {
	switch cc {
	case ClusterEpoch:
		return "Epoch info"
	case ClusterInfo:
		return "Cluster info"
	case ClusterGoBack:
		return "Go back"
	}
	return "unknown"
}

// Run executes the command.
func (cc ClusterCommand) Run(ctx context.Context, c *Context) (Exec, error) {
	switch cc {
	case ClusterEpoch:
		return Process, c.run(ctx, "Fetching epoch info…", func(ctx context.Context) (report, error) {
			return epochInfo(ctx, c)
		})
	case ClusterInfo:
		return Process, c.run(ctx, "Fetching cluster info…", func(ctx context.Context) (report, error) {
			return clusterInfo(ctx, c)
		})
	case ClusterGoBack:
		return GoBack, nil
	}
	return Process, fmt.Errorf("unknown cluster command %d", int(cc))
}

func epochInfo(ctx context.Context, c *Context) (report, error) {
	info, err := c.RPC.GetEpochInfo(ctx)
	if err != nil {
		return nil, err
	}
	return func(u *ui.UI) {
		u.Heading("EPOCH INFO")
		u.Fields([][2]string{
			{"Epoch", fmt.Sprint(info.Epoch)},
			{"Slot", fmt.Sprintf("%d / %d", info.SlotIndex, info.SlotsInEpoch)},
			{"Progress", fmt.Sprintf("%.2f%%", info.Progress()*100)},
			{"Absolute Slot", fmt.Sprint(info.AbsoluteSlot)},
			{"Block Height", fmt.Sprint(info.BlockHeight)},
			{"Transactions", fmt.Sprint(info.TransactionCount)},
		})
	}, nil
}

func clusterInfo(ctx context.Context, c *Context) (report, error) {
	version, err := c.RPC.GetVersion(ctx)
	if err != nil {
		return nil, err
	}
	genesis, err := c.RPC.GetGenesisHash(ctx)
	if err != nil {
		return nil, err
	}
	matches := "n/a"
	if cl, ok := config.LookupCluster(c.Config.Network); ok && cl.GenesisHash != "" {
		matches = "yes"
		if !cl.CheckGenesis(genesis.String()) {
			matches = "NO"
		}
	}
	return func(u *ui.UI) {
		u.Heading("CLUSTER")
		u.Fields([][2]string{
			{"Network", string(c.Config.Network)},
			{"RPC URL", c.RPC.Endpoint()},
			{"Version", version},
			{"Genesis Hash", genesis.String()},
			{"Genesis Matches Network", matches},
		})
		if matches == "NO" {
			u.Warn("The RPC endpoint does not serve %s", c.Config.Network)
		}
	}, nil
}

// VerifyCluster checks that the RPC endpoint serves the configured network.
func VerifyCluster(ctx context.Context, c *Context) error {
	cl, ok := config.LookupCluster(c.Config.Network)
	if !ok || cl.GenesisHash == "" {
		return nil
	}
	genesis, err := c.RPC.GetGenesisHash(ctx)
	if err != nil {
		return err
	}
	if !cl.CheckGenesis(genesis.String()) {
		return fmt.Errorf("RPC endpoint %s has genesis %s, which is not %s", c.RPC.Endpoint(), genesis, c.Config.Network)
	}
	return nil
}

// ShowJournal prints the most recent journaled transactions.
func ShowJournal(c *Context, limit int) error {
	if c.Journal == nil {
		return errors.New("transaction journal is not available")
	}
	recs, err := c.Journal.List(limit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		c.UI.Warn("No transactions recorded")
		return nil
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		amount := "-"
		if r.Lamports > 0 {
			amount = sol(r.Lamports)
		}
		rows = append(rows, []string{
			r.Time.Local().Format("2006-01-02 15:04:05"),
			string(r.Kind),
			string(r.Status),
			amount,
			r.Signature.String(),
		})
	}
	c.UI.Heading("TRANSACTION LOG")
	c.UI.Table([]string{"Time", "Kind", "Status", "Amount", "Signature"}, rows)
	return nil
}

// ShowConfig prints the effective configuration.
func ShowConfig(c *Context) error {
	rows := make([][2]string, 0, len(config.Keys)+2)
	for _, key := range config.Keys {
		v, err := c.Config.Value(key)
		if err != nil {
			return err
		}
		rows = append(rows, [2]string{key, v})
	}
	rows = append(rows,
		[2]string{"(rpc endpoint)", c.Config.RPCURL()},
		[2]string{"(config file)", c.Config.File},
	)
	c.UI.Heading("CONFIGURATION")
	c.UI.Fields(rows)
	return nil
}
