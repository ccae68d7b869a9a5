// scilla is an interactive manager for Solana stake and vote accounts.
//
// Usage:
//
//	scilla [--network devnet] [--keypair id.json]   Interactive menu
//	scilla stake show <address>                      One-shot commands
//	scilla --help                                    Show help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	"github.com/scilla-cli/scilla/config"
	"github.com/scilla-cli/scilla/internal/commands"
	"github.com/scilla-cli/scilla/internal/journal"
	"github.com/scilla-cli/scilla/internal/log"
	"github.com/scilla-cli/scilla/internal/rpcclient"
	"github.com/scilla-cli/scilla/internal/ui"
	"github.com/scilla-cli/scilla/internal/wallet"
)

var version = "0.1.0-dev"

// app carries state shared by every subcommand.
type app struct {
	flags config.Flags
	cfg   *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "scilla",
		Short:             "Manage Solana stake and vote accounts",
		Long:              "scilla is an interactive terminal tool for creating, delegating and withdrawing Solana stake accounts and for administering validator vote accounts.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
		Args:              cobra.NoArgs,
		RunE:              a.interactive,
	}
	a.flags.Register(root.PersistentFlags())

	root.AddCommand(
		newConfigCmd(a),
		newWalletCmd(a),
		newStakeCmd(a),
		newVoteCmd(a),
		newJournalCmd(a),
	)
	root.AddCommand(newAccountCmds(a)...)
	return root
}

// load reads the configuration and sets up logging.
func (a *app) load(*cobra.Command, []string) error {
	cfg, err := config.Load(&a.flags)
	if err != nil {
		return err
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	a.cfg = cfg
	log.Debug().
		Str("network", string(cfg.Network)).
		Str("rpc", cfg.RPCURL()).
		Str("config", cfg.File).
		Msg("Configuration loaded")
	return nil
}

// session wires a command context. The journal is optional: when it cannot be
// opened (another scilla holds the lock, say) commands still run unjournaled.
func (a *app) session(withJournal bool) (*commands.Context, func(), error) {
	if err := config.EnsureDataDirs(a.cfg); err != nil {
		return nil, nil, fmt.Errorf("create data dirs: %w", err)
	}
	client := rpcclient.NewWithOptions(a.cfg.RPCURL(), rpc.CommitmentType(a.cfg.RPC.Commitment), a.cfg.RPC.Timeout)
	cleanup := func() { _ = client.Close() }

	var j *journal.Journal
	if withJournal {
		opened, closeJournal, err := journal.Open(a.cfg.JournalDir())
		if err != nil {
			log.Journal.Warn().Err(err).Msg("Transaction journal unavailable")
		} else {
			j = opened
			cleanup = func() {
				if err := closeJournal(); err != nil {
					log.Journal.Error().Err(err).Msg("Failed to close journal")
				}
				_ = client.Close()
			}
		}
	}

	u := ui.New(os.Stdin, os.Stdout)
	return commands.NewContext(a.cfg, client, j, u, a.signer(u)), cleanup, nil
}

func (a *app) signer(u *ui.UI) commands.SignerFunc {
	return func() (solana.PrivateKey, error) {
		src := wallet.Source{
			KeypairPath: a.cfg.KeypairPath,
			KeystoreDir: a.cfg.KeystoreDir(),
			Keystore:    a.cfg.Keystore,
		}
		return wallet.LoadSigner(src, func(prompt string) ([]byte, error) {
			pw, err := u.Prompter.Password(prompt)
			return []byte(pw), err
		})
	}
}

func (a *app) interactive(cmd *cobra.Command, _ []string) error {
	c, cleanup, err := a.session(true)
	if err != nil {
		return err
	}
	defer cleanup()

	c.UI.Info("Network: %s (%s)", a.cfg.Network, a.cfg.RPCURL())
	if err := commands.VerifyCluster(cmd.Context(), c); err != nil {
		c.UI.Warn("%v", err)
	}
	return commands.Run(cmd.Context(), c)
}
