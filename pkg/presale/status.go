package presale

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Sale status labels.
const (
	StatusLive    = "Live"
	StatusClosed  = "Closed"
	StatusNotLive = "Not Live"
)

// Status labels the sale: live, closed after having taken money, or not live.
func Status(s *Snapshot) string {
	switch {
	case s.IsLive:
		return StatusLive
	case s.TotalUSDCIn != nil && s.TotalUSDCIn.Sign() > 0:
		return StatusClosed
	default:
		return StatusNotLive
	}
}

// Progress is the sold share of the presale allocation in percent, rounded to
// two places. A zero allocation reports zero.
func Progress(s *Snapshot) decimal.Decimal {
	if s.PresaleTokens == nil || s.PresaleTokens.Sign() == 0 || s.SoldTokens == nil {
		return decimal.Zero
	}
	sold := decimal.NewFromBigInt(s.SoldTokens, 0)
	total := decimal.NewFromBigInt(s.PresaleTokens, 0)
	return sold.Mul(decimal.NewFromInt(100)).DivRound(total, 2)
}

// HardCapProgress is totalUsdcIn against the hardcap in percent.
func HardCapProgress(s *Snapshot) decimal.Decimal {
	if s.HardCapUSDC == nil || s.HardCapUSDC.Sign() == 0 || s.TotalUSDCIn == nil {
		return decimal.Zero
	}
	in := decimal.NewFromBigInt(s.TotalUSDCIn, 0)
	hardCap := decimal.NewFromBigInt(s.HardCapUSDC, 0)
	return in.Mul(decimal.NewFromInt(100)).DivRound(hardCap, 2)
}

// EstimateTokens converts a raw USDC amount to raw tokens at the sale rate,
// where rate is tokens (18 decimals) per whole USDC.
func EstimateTokens(usdc, tokensPerUSDC *big.Int, usdcDecimals uint8) *big.Int {
	if usdc == nil || tokensPerUSDC == nil {
		return new(big.Int)
	}
	out := new(big.Int).Mul(usdc, tokensPerUSDC)
	return out.Div(out, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(usdcDecimals)), nil))
}
