package utils

import (
	"math/big"
)

const nativeDecimals = 18

// FormatBalance renders a wei amount as a decimal string with six fractional
// digits followed by the native symbol, e.g. "1.500000 NEON". A nil balance
// renders as "unknown".
func FormatBalance(wei *big.Int, symbol string) string {
	if wei == nil {
		return "unknown"
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(nativeDecimals), nil)
	balance := new(big.Float).SetPrec(256).SetInt(wei)
	balance.Quo(balance, new(big.Float).SetPrec(256).SetInt(divisor))

	formatted := balance.Text('f', 6)
	if symbol == "" {
		return formatted
	}
	return formatted + " " + symbol
}
