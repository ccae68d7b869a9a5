// derive_key.go prints the addresses a recovery phrase derives, one per
// account index, using the same m/44'/501'/i'/0' path as scilla wallets.
// Usage: go run scripts/derive_key.go <phrase-file> [count]
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scilla-cli/scilla/internal/wallet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <phrase-file> [count]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	count := 1
	if len(os.Args) > 2 {
		count, err = strconv.Atoi(os.Args[2])
		if err != nil || count < 1 {
			fmt.Fprintln(os.Stderr, "count must be a positive integer")
			os.Exit(1)
		}
	}
	seed, err := wallet.SeedFromMnemonic(strings.TrimSpace(string(data)), "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for i := 0; i < count; i++ {
		key, err := wallet.DeriveKeypair(seed, uint32(i))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if i == 0 {
			fmt.Printf("fingerprint=%s\n", wallet.Fingerprint(key.PublicKey()))
		}
		fmt.Printf("account=%d address=%s\n", i, key.PublicKey())
	}
}
