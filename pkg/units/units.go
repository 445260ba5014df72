// Package units converts raw on-chain integers to and from human-readable decimal strings.
package units

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrExcessPrecision = errors.New("amount has more decimals than the token supports")
)

// ToDecimal scales a raw integer amount down by decimals.
func ToDecimal(v *big.Int, decimals uint8) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -int32(decimals))
}

// FormatUnits renders a raw amount as a decimal string without trailing zeros.
func FormatUnits(v *big.Int, decimals uint8) string {
	return ToDecimal(v, decimals).String()
}

// ParseUnits converts a decimal string into a raw integer amount.
// Inputs with more fractional digits than decimals are rejected rather than truncated.
func ParseUnits(s string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return nil, ErrNegativeAmount
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q at %d decimals", ErrExcessPrecision, s, decimals)
	}
	return scaled.BigInt(), nil
}

// ShortAddress abbreviates an address to its first 6 and last 4 characters.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
