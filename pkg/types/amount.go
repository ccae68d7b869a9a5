// Package types holds shared value types used across scilla.
package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL uint64 = 1_000_000_000

// SOLDecimals is the number of fractional digits a SOL amount may carry.
const SOLDecimals = 9

// Amount parsing errors.
var (
	ErrEmptyAmount    = errors.New("empty amount")
	ErrNegativeAmount = errors.New("negative amount")
	ErrZeroAmount     = errors.New("amount must be greater than zero")
	ErrAmountTooLarge = errors.New("amount too large")
)

// ParseSOL converts a decimal SOL string (e.g. "1.5") to lamports.
// The conversion is exact: at most SOLDecimals fractional digits are accepted.
func ParseSOL(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyAmount
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.SplitN(s, ".", 2)
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	var whole uint64
	if parts[0] != "" {
		w, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid whole part: %w", err)
		}
		whole = w
	}

	var frac uint64
	if len(parts) == 2 && parts[1] != "" {
		fracStr := parts[1]
		if len(fracStr) > SOLDecimals {
			return 0, fmt.Errorf("too many decimal places (max %d)", SOLDecimals)
		}
		fracStr += strings.Repeat("0", SOLDecimals-len(fracStr))
		f, err := strconv.ParseUint(fracStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fractional part: %w", err)
		}
		frac = f
	}

	if whole > math.MaxUint64/LamportsPerSOL {
		return 0, ErrAmountTooLarge
	}
	result := whole * LamportsPerSOL
	if result > math.MaxUint64-frac {
		return 0, ErrAmountTooLarge
	}
	result += frac
	if result == 0 {
		return 0, ErrZeroAmount
	}
	return result, nil
}

// FormatSOL renders lamports as a SOL decimal string without trailing zeros.
func FormatSOL(lamports uint64) string {
	whole := lamports / LamportsPerSOL
	frac := lamports % LamportsPerSOL
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return fmt.Sprintf("%d.%s", whole, fracStr)
}
