package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/scilla-cli/scilla/internal/commands"
	"github.com/scilla-cli/scilla/pkg/types"
)

// withSession runs fn with a wired command context.
func withSession(a *app, journal bool, fn func(cmd *cobra.Command, c *commands.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, cleanup, err := a.session(journal)
		if err != nil {
			return err
		}
		defer cleanup()
		return fn(cmd, c, args)
	}
}

func pubkeyArg(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid public key %q: %v", s, err)
	}
	return pk, nil
}

func newStakeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Inspect stake accounts (use the interactive menu to change them)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <address>",
			Short: "Show a stake account",
			Args:  cobra.ExactArgs(1),
			RunE: withSession(a, false, func(cmd *cobra.Command, c *commands.Context, args []string) error {
				pk, err := pubkeyArg(args[0])
				if err != nil {
					return err
				}
				return commands.ShowStake(cmd.Context(), c, pk)
			}),
		},
		&cobra.Command{
			Use:   "history",
			Short: "Show recent cluster stake history",
			Args:  cobra.NoArgs,
			RunE: withSession(a, false, func(cmd *cobra.Command, c *commands.Context, _ []string) error {
				return commands.ShowStakeHistory(cmd.Context(), c)
			}),
		},
	)
	return cmd
}

func newVoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Inspect vote accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <address>",
		Short: "Show a vote account",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(a, false, func(cmd *cobra.Command, c *commands.Context, args []string) error {
			pk, err := pubkeyArg(args[0])
			if err != nil {
				return err
			}
			return commands.ShowVote(cmd.Context(), c, pk)
		}),
	})
	return cmd
}

func newJournalCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "journal",
		Aliases: []string{"log"},
		Short:   "List transactions sent from this machine",
		Args:    cobra.NoArgs,
		RunE: withSession(a, true, func(_ *cobra.Command, c *commands.Context, _ []string) error {
			return commands.ShowJournal(c, limit)
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", commands.JournalLimit, "Rows to show (0 for all)")
	return cmd
}

// newAccountCmds returns the wallet-account and cluster shortcuts.
func newAccountCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "balance",
			Short: "Show the signer's balance",
			Args:  cobra.NoArgs,
			RunE: withSession(a, false, func(cmd *cobra.Command, c *commands.Context, _ []string) error {
				_, err := commands.AccountBalance.Run(cmd.Context(), c)
				return err
			}),
		},
		{
			Use:   "airdrop <SOL>",
			Short: "Request test SOL from the cluster faucet",
			Args:  cobra.ExactArgs(1),
			RunE: withSession(a, true, func(cmd *cobra.Command, c *commands.Context, args []string) error {
				amount, err := types.ParseSOL(args[0])
				if err != nil {
					return err
				}
				return commands.Airdrop(cmd.Context(), c, amount)
			}),
		},
		{
			Use:   "epoch",
			Short: "Show the current epoch",
			Args:  cobra.NoArgs,
			RunE: withSession(a, false, func(cmd *cobra.Command, c *commands.Context, _ []string) error {
				_, err := commands.ClusterEpoch.Run(cmd.Context(), c)
				return err
			}),
		},
		{
			Use:   "cluster",
			Short: "Show the RPC node version and genesis check",
			Args:  cobra.NoArgs,
			RunE: withSession(a, false, func(cmd *cobra.Command, c *commands.Context, _ []string) error {
				_, err := commands.ClusterInfo.Run(cmd.Context(), c)
				return err
			}),
		},
	}
}
