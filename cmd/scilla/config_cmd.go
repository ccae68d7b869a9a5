package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scilla-cli/scilla/config"
	"github.com/scilla-cli/scilla/internal/commands"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c, cleanup, err := a.session(false)
			if err != nil {
				return err
			}
			defer cleanup()
			return commands.ShowConfig(c)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Args:  cobra.NoArgs,
		// The file may not exist or parse yet.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			path := a.flags.ConfigFile()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			network := config.Devnet
			if a.flags.Network != "" {
				network = config.Network(a.flags.Network)
			}
			if _, ok := config.LookupCluster(network); !ok {
				return fmt.Errorf("unknown network %q", network)
			}
			if err := config.WriteDefaultConfig(path, network); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Update one configuration key",
		Long:  "Update one configuration key. Keys: network, rpc.url, rpc.commitment, rpc.timeout, keypair, keystore, datadir, tx.skip_preflight, tx.confirm_timeout, log.level, log.file, log.json.",
		Args:  cobra.ExactArgs(2),
		// Set validates the file it writes; a broken file is what it fixes.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(_ *cobra.Command, args []string) error {
			path := a.flags.ConfigFile()
			cfg, err := config.Set(path, args[0], args[1])
			if err != nil {
				return err
			}
			v, err := cfg.Value(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s (%s)\n", args[0], v, path)
			return nil
		},
	}

	cmd.AddCommand(show, initCmd, set)
	return cmd
}
