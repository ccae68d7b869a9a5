package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scilla-cli/scilla/internal/ui"
	"github.com/scilla-cli/scilla/internal/wallet"
)

func newWalletCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage encrypted keystore wallets",
	}

	var words int
	newCmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a wallet from a fresh mnemonic",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mnemonic, err := wallet.GenerateMnemonic(words)
			if err != nil {
				return err
			}
			u := ui.New(os.Stdin, os.Stdout)
			u.Warn("Write down this recovery phrase. It is shown only once:")
			u.Println()
			u.Println("  " + mnemonic)
			u.Println()
			return createFromMnemonic(a, u, args[0], mnemonic)
		},
	}
	newCmd.Flags().IntVar(&words, "words", wallet.Words12, "Mnemonic length (12 or 24)")

	recoverCmd := &cobra.Command{
		Use:   "recover <name>",
		Short: "Restore a wallet from its recovery phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			u := ui.New(os.Stdin, os.Stdout)
			mnemonic, err := ui.PromptData(u, "Recovery phrase:", func(s string) (string, error) {
				if !wallet.ValidateMnemonic(s) {
					return "", errors.New("invalid recovery phrase")
				}
				return wallet.NormalizeMnemonic(s), nil
			})
			if err != nil {
				return err
			}
			return createFromMnemonic(a, u, args[0], mnemonic)
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <name> <keypair.json>",
		Short: "Encrypt a solana-keygen file into the keystore",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := wallet.ReadKeygenFile(args[1])
			if err != nil {
				return err
			}
			ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
			if err != nil {
				return err
			}
			u := ui.New(os.Stdin, os.Stdout)
			pw, err := newPassword(u)
			if err != nil {
				return err
			}
			info, err := ks.ImportKeypair(args[0], key, pw, wallet.DefaultParams())
			if err != nil {
				return err
			}
			printWallet(u, info)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List keystore wallets",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
			if err != nil {
				return err
			}
			names, err := ks.List()
			if err != nil {
				return err
			}
			u := ui.New(os.Stdin, os.Stdout)
			if len(names) == 0 {
				u.Warn("No wallets in %s", ks.Dir())
				return nil
			}
			var rows [][]string
			for _, name := range names {
				info, err := ks.Info(name)
				if err != nil {
					rows = append(rows, []string{name, "-", "-", "unreadable: " + err.Error()})
					continue
				}
				addr := "-"
				if acct, ok := info.ActiveAccount(); ok {
					addr = acct.Address
				}
				if name == a.cfg.Keystore {
					name += " *"
				}
				rows = append(rows, []string{name, string(info.Kind), info.Fingerprint, addr})
			}
			u.Table([]string{"Name", "Kind", "Fingerprint", "Active Address"}, rows)
			return nil
		},
	}

	var label string
	derive := &cobra.Command{
		Use:   "derive <name> <index>",
		Short: "Derive and record another account of a mnemonic wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
			if err != nil {
				return err
			}
			u := ui.New(os.Stdin, os.Stdout)
			pw, err := u.Prompter.Password(fmt.Sprintf("Password for wallet %q: ", args[0]))
			if err != nil {
				return err
			}
			entry, err := ks.AddAccount(args[0], []byte(pw), index, label)
			if err != nil {
				return err
			}
			u.Success("Account %d (%s): %s", entry.Index, entry.Name, entry.Address)
			return nil
		},
	}
	derive.Flags().StringVar(&label, "label", "", "Account label")

	use := &cobra.Command{
		Use:   "use <name> <index>",
		Short: "Select the signing account of a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
			if err != nil {
				return err
			}
			if err := ks.SetActive(args[0], index); err != nil {
				return err
			}
			ui.New(os.Stdin, os.Stdout).Success("Wallet %q now signs with account %d", args[0], index)
			return nil
		},
	}

	address := &cobra.Command{
		Use:   "address",
		Short: "Print the configured signer's address",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u := ui.New(os.Stdin, os.Stdout)
			key, err := a.signer(u)()
			if err != nil {
				return err
			}
			fmt.Println(key.PublicKey())
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a wallet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
			if err != nil {
				return err
			}
			u := ui.New(os.Stdin, os.Stdout)
			ok, err := ui.Confirm(u, fmt.Sprintf("Delete wallet %q? Funds are lost without its recovery phrase.", args[0]))
			if err != nil || !ok {
				return err
			}
			if err := ks.Delete(args[0]); err != nil {
				return err
			}
			u.Success("Deleted wallet %q", args[0])
			return nil
		},
	}

	cmd.AddCommand(newCmd, recoverCmd, importCmd, list, derive, use, address, remove)
	return cmd
}

func createFromMnemonic(a *app, u *ui.UI, name, mnemonic string) error {
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return err
	}
	ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
	if err != nil {
		return err
	}
	pw, err := newPassword(u)
	if err != nil {
		return err
	}
	info, err := ks.CreateFromSeed(name, seed, pw, wallet.DefaultParams())
	if err != nil {
		return err
	}
	printWallet(u, info)
	return nil
}

// newPassword asks for a password twice.
func newPassword(u *ui.UI) ([]byte, error) {
	for {
		pw, err := u.Prompter.Password("New wallet password: ")
		if err != nil {
			return nil, err
		}
		if len(pw) < 8 {
			u.Error(errors.New("password must be at least 8 characters"))
			continue
		}
		again, err := u.Prompter.Password("Repeat password: ")
		if err != nil {
			return nil, err
		}
		if pw != again {
			u.Error(errors.New("passwords do not match"))
			continue
		}
		return []byte(pw), nil
	}
}

func printWallet(u *ui.UI, info *wallet.Info) {
	addr := "-"
	if acct, ok := info.ActiveAccount(); ok {
		addr = acct.Address
	}
	u.Success("Wallet %q created", info.Name)
	u.Fields([][2]string{
		{"Kind", string(info.Kind)},
		{"Fingerprint", info.Fingerprint},
		{"Address", addr},
	})
	u.Info("Sign with it using --keystore %s or `scilla config set keystore %s`", info.Name, info.Name)
}

func parseIndex(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid account index %q", s)
	}
	return uint32(n), nil
}
