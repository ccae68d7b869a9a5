package commands

import (
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"

	"github.com/scilla-cli/scilla/internal/ui"
	"github.com/scilla-cli/scilla/pkg/types"
)

func parsePubkey(s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid public key %q: %v", s, err)
	}
	return pk, nil
}

func parseCommission(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > 100 {
		return 0, fmt.Errorf("commission must be a whole number between 0 and 100")
	}
	return uint8(n), nil
}

// pubkeyOr parses s, returning def for an empty answer.
func pubkeyOr(def solana.PublicKey) func(string) (solana.PublicKey, error) {
	return func(s string) (solana.PublicKey, error) {
		if s == "" {
			return def, nil
		}
		return parsePubkey(s)
	}
}

func promptPubkey(u *ui.UI, prompt string) (solana.PublicKey, error) {
	return ui.PromptData(u, prompt, parsePubkey)
}

func promptAmount(u *ui.UI, prompt string) (uint64, error) {
	return ui.PromptData(u, prompt, types.ParseSOL)
}

func sol(lamports uint64) string {
	return types.FormatSOL(lamports) + " SOL"
}

func epochString(e uint64) string {
	if e == ^uint64(0) {
		return "-"
	}
	return strconv.FormatUint(e, 10)
}
