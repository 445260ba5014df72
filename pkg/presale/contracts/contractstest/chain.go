// Package contractstest provides an in-memory presale deployment that answers
// eth_call and eth_getLogs for tests.
package contractstest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainsafe/presale-dashboard/pkg/presale/contracts"
)

// Well-known test addresses.
var (
	PresaleAddress = common.HexToAddress("0x10fA1126291D5576A2a2fD2Ae5c9125F663f726e")
	USDCAddress    = common.HexToAddress("0x15D38573d2feeb82e7ad5187aB8c1D52810B1f07")
	TokenAddress   = common.HexToAddress("0xD6c9B6Ba58c29Db06f1ab375Cb820f166C41e77D")
)

// ErrInjected is returned by calls listed in Chain.Fail.
var ErrInjected = errors.New("injected rpc failure")

// Chain is a fake presale + USDC deployment.
type Chain struct {
	mu sync.Mutex

	Head          uint64
	PresaleTokens *big.Int
	HardCap       *big.Int
	MinUSDC       *big.Int
	TokensPerUSDC *big.Int
	SoldTokens    *big.Int
	TotalUSDCIn   *big.Int
	Live          bool
	Finalized     bool
	Success       bool
	Ongoing       bool
	USDCDecimals  uint8

	Contributions map[common.Address]*big.Int
	Purchased     map[common.Address]*big.Int
	Allowances    map[common.Address]*big.Int
	Balances      map[common.Address]*big.Int
	Logs          []types.Log

	// Fail makes the named contract method (or "getLogs"/"blockNumber") error.
	Fail map[string]error
	// Calls counts eth_call invocations per method.
	Calls map[string]int
}

// NewChain returns a live sale with the ProveX parameters: 8000 USDC hardcap,
// 10 USDC minimum, 50M presale tokens and 6250 tokens per USDC.
func NewChain() *Chain {
	return &Chain{
		Head:          1000,
		PresaleTokens: mustBig("50000000000000000000000000"),
		HardCap:       big.NewInt(8000_000000),
		MinUSDC:       big.NewInt(10_000000),
		TokensPerUSDC: mustBig("6250000000000000000000"),
		SoldTokens:    new(big.Int),
		TotalUSDCIn:   new(big.Int),
		Live:          true,
		Ongoing:       true,
		USDCDecimals:  6,
		Contributions: make(map[common.Address]*big.Int),
		Purchased:     make(map[common.Address]*big.Int),
		Allowances:    make(map[common.Address]*big.Int),
		Balances:      make(map[common.Address]*big.Int),
		Fail:          make(map[string]error),
		Calls:         make(map[string]int),
	}
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("contractstest: bad integer " + s)
	}
	return v
}

// AddPurchase records a purchase as the contract would: totals, per-address
// counters and a Buy log at block.
func (c *Chain) AddPurchase(buyer common.Address, usdcIn *big.Int, block uint64) types.Log {
	c.mu.Lock()
	defer c.mu.Unlock()

	tokensOut := new(big.Int).Mul(usdcIn, c.TokensPerUSDC)
	tokensOut.Div(tokensOut, big.NewInt(1_000000))

	c.TotalUSDCIn = new(big.Int).Add(c.TotalUSDCIn, usdcIn)
	c.SoldTokens = new(big.Int).Add(c.SoldTokens, tokensOut)
	c.Contributions[buyer] = addTo(c.Contributions[buyer], usdcIn)
	c.Purchased[buyer] = addTo(c.Purchased[buyer], tokensOut)

	l, err := contracts.EncodeBuy(PresaleAddress, contracts.BuyLog{
		Buyer:       buyer,
		USDCIn:      usdcIn,
		TokensOut:   tokensOut,
		BlockNumber: block,
		TxHash:      common.BigToHash(big.NewInt(int64(len(c.Logs) + 1))),
		LogIndex:    uint(len(c.Logs)),
	})
	if err != nil {
		panic(err)
	}
	c.Logs = append(c.Logs, l)
	if block > c.Head {
		c.Head = block
	}
	return l
}

// SetAllowance sets owner's USDC allowance towards the presale.
func (c *Chain) SetAllowance(owner common.Address, amount *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Allowances[owner] = new(big.Int).Set(amount)
}

// CallCount returns how many eth_calls hit method.
func (c *Chain) CallCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Calls[method]
}

func addTo(cur, delta *big.Int) *big.Int {
	if cur == nil {
		return new(big.Int).Set(delta)
	}
	return new(big.Int).Add(cur, delta)
}

// CallContract implements contracts.Caller.
func (c *Chain) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if call.To == nil || len(call.Data) < 4 {
		return nil, fmt.Errorf("malformed call")
	}

	var parsed abi.ABI
	switch *call.To {
	case PresaleAddress:
		parsed = contracts.PresaleContractABI()
	case USDCAddress:
		parsed = contracts.ERC20ContractABI()
	default:
		// An address without code answers with empty return data.
		return nil, nil
	}

	method, err := parsed.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls[method.Name]++
	if err := c.Fail[method.Name]; err != nil {
		return nil, err
	}

	var out any
	switch method.Name {
	case contracts.MethodUSDC:
		out = USDCAddress
	case contracts.MethodToken:
		out = TokenAddress
	case contracts.MethodTreasury:
		out = common.Address{}
	case contracts.MethodPresaleTokens:
		out = c.PresaleTokens
	case contracts.MethodHardCapUSDC:
		out = c.HardCap
	case contracts.MethodMinUSDC:
		out = c.MinUSDC
	case contracts.MethodTokensPerUSDC:
		out = c.TokensPerUSDC
	case contracts.MethodSoldTokens:
		out = c.SoldTokens
	case contracts.MethodTotalUSDCIn:
		out = c.TotalUSDCIn
	case contracts.MethodIsLive:
		out = c.Live
	case contracts.MethodIsFinalized:
		out = c.Finalized
	case contracts.MethodSuccess:
		out = c.Success
	case contracts.MethodIsOngoing:
		out = c.Ongoing
	case contracts.MethodContributions:
		out = valueOrZero(c.Contributions[args[0].(common.Address)])
	case contracts.MethodPurchasedTokens:
		out = valueOrZero(c.Purchased[args[0].(common.Address)])
	case contracts.MethodAllowance:
		out = valueOrZero(c.Allowances[args[0].(common.Address)])
	case contracts.MethodBalanceOf:
		out = valueOrZero(c.Balances[args[0].(common.Address)])
	case contracts.MethodDecimals:
		out = c.USDCDecimals
	default:
		return nil, fmt.Errorf("execution reverted: %s is not a view", method.Name)
	}

	return method.Outputs.Pack(out)
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// FilterLogs implements the log query surface.
func (c *Chain) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.Fail["getLogs"]; err != nil {
		return nil, err
	}

	from := uint64(0)
	if q.FromBlock != nil {
		from = q.FromBlock.Uint64()
	}
	to := c.Head
	if q.ToBlock != nil {
		to = q.ToBlock.Uint64()
	}

	var out []types.Log
	for _, l := range c.Logs {
		if l.BlockNumber < from || l.BlockNumber > to {
			continue
		}
		if len(q.Addresses) > 0 && !containsAddress(q.Addresses, l.Address) {
			continue
		}
		if len(q.Topics) > 0 && len(q.Topics[0]) > 0 && q.Topics[0][0] != l.Topics[0] {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func containsAddress(list []common.Address, addr common.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}

// BlockNumber returns the head block.
func (c *Chain) BlockNumber(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Fail["blockNumber"]; err != nil {
		return 0, err
	}
	return c.Head, nil
}
