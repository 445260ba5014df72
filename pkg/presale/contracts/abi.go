// Package contracts encodes calls to the presale and ERC-20 contracts and decodes
// their results into typed values.
package contracts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PresaleABI is the subset of the presale contract the dashboard consumes.
const PresaleABI = `[
	{"type":"function","name":"usdc","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"treasury","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"PRESALE_TOKENS","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"HARD_CAP_USDC","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"MIN_USDC","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"TOKENS_PER_USDC","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"soldTokens","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalUsdcIn","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"isLive","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isFinalized","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"success","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"isOngoing","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"contributions","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"purchasedTokens","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"buy","stateMutability":"nonpayable","inputs":[{"name":"usdcAmount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"finalize","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"claimTokens","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"claimRefund","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"setLive","stateMutability":"nonpayable","inputs":[{"name":"live","type":"bool"}],"outputs":[]},
	{"type":"event","name":"Buy","anonymous":false,"inputs":[
		{"name":"buyer","type":"address","indexed":true},
		{"name":"usdcIn","type":"uint256","indexed":false},
		{"name":"tokensOut","type":"uint256","indexed":false}
	]}
]`

// ERC20ABI covers the payment-token calls used around a purchase.
const ERC20ABI = `[
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

// Presale function and event names.
const (
	MethodUSDC            = "usdc"
	MethodToken           = "token"
	MethodTreasury        = "treasury"
	MethodPresaleTokens   = "PRESALE_TOKENS"
	MethodHardCapUSDC     = "HARD_CAP_USDC"
	MethodMinUSDC         = "MIN_USDC"
	MethodTokensPerUSDC   = "TOKENS_PER_USDC"
	MethodSoldTokens      = "soldTokens"
	MethodTotalUSDCIn     = "totalUsdcIn"
	MethodIsLive          = "isLive"
	MethodIsFinalized     = "isFinalized"
	MethodSuccess         = "success"
	MethodIsOngoing       = "isOngoing"
	MethodContributions   = "contributions"
	MethodPurchasedTokens = "purchasedTokens"
	MethodBuy             = "buy"
	MethodFinalize        = "finalize"
	MethodClaimTokens     = "claimTokens"
	MethodClaimRefund     = "claimRefund"
	MethodSetLive         = "setLive"

	EventBuy = "Buy"
)

// ERC-20 function names.
const (
	MethodApprove   = "approve"
	MethodAllowance = "allowance"
	MethodBalanceOf = "balanceOf"
	MethodDecimals  = "decimals"
)

var (
	presaleABI = mustParse(PresaleABI)
	erc20ABI   = mustParse(ERC20ABI)
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("contracts: invalid ABI: %v", err))
	}
	return parsed
}

// PresaleContractABI returns the parsed presale ABI.
func PresaleContractABI() abi.ABI { return presaleABI }

// ERC20ContractABI returns the parsed ERC-20 ABI.
func ERC20ContractABI() abi.ABI { return erc20ABI }
