package ethrpc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainsafe/presale-dashboard/pkg/presale"
)

// rpcError carries a JSON-RPC error code.
type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

var errSnapshotUnavailable = &rpcError{code: -32000, msg: "sale snapshot not loaded yet"}

// RPCSnapshot is a snapshot in JSON-RPC format. Amounts are hex quantities in
// base units.
type RPCSnapshot struct {
	IsLive        bool           `json:"isLive"`
	IsFinalized   bool           `json:"isFinalized"`
	Success       bool           `json:"success"`
	IsOngoing     bool           `json:"isOngoing"`
	SoldTokens    *hexutil.Big   `json:"soldTokens"`
	TotalUSDCIn   *hexutil.Big   `json:"totalUsdcIn"`
	PresaleTokens *hexutil.Big   `json:"presaleTokens"`
	HardCapUSDC   *hexutil.Big   `json:"hardCapUsdc"`
	MinUSDC       *hexutil.Big   `json:"minUsdc"`
	TokensPerUSDC *hexutil.Big   `json:"tokensPerUsdc"`
	USDCDecimals  hexutil.Uint   `json:"usdcDecimals"`
	BlockNumber   hexutil.Uint64 `json:"blockNumber"`
	FetchedAt     hexutil.Uint64 `json:"fetchedAt"`
	Source        string         `json:"source"`
}

// RPCPurchase is one Buy event in JSON-RPC format.
type RPCPurchase struct {
	Buyer       common.Address `json:"buyer"`
	USDCIn      *hexutil.Big   `json:"usdcIn"`
	TokensOut   *hexutil.Big   `json:"tokensOut"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
	TxHash      common.Hash    `json:"txHash"`
	LogIndex    hexutil.Uint   `json:"logIndex"`
}

// RPCPosition is an address's aggregated purchases.
type RPCPosition struct {
	Address             common.Address `json:"address"`
	TotalContributed    *hexutil.Big   `json:"totalContributed"`
	TotalTokensReceived *hexutil.Big   `json:"totalTokensReceived"`
	Purchases           []RPCPurchase  `json:"purchases"`
}

// RPCStatus is the sale status plus refresh freshness.
type RPCStatus struct {
	Status       string         `json:"status"`
	Progress     string         `json:"progress"`
	Participants hexutil.Uint   `json:"participants"`
	Stale        bool           `json:"stale"`
	SnapshotAt   hexutil.Uint64 `json:"snapshotAt"`
	RosterAt     hexutil.Uint64 `json:"rosterAt"`
}

func hexBig(v *big.Int) *hexutil.Big {
	if v == nil {
		return (*hexutil.Big)(new(big.Int))
	}
	return (*hexutil.Big)(v)
}

func toRPCSnapshot(s *presale.Snapshot) *RPCSnapshot {
	return &RPCSnapshot{
		IsLive:        s.IsLive,
		IsFinalized:   s.IsFinalized,
		Success:       s.Success,
		IsOngoing:     s.IsOngoing,
		SoldTokens:    hexBig(s.SoldTokens),
		TotalUSDCIn:   hexBig(s.TotalUSDCIn),
		PresaleTokens: hexBig(s.PresaleTokens),
		HardCapUSDC:   hexBig(s.HardCapUSDC),
		MinUSDC:       hexBig(s.MinUSDC),
		TokensPerUSDC: hexBig(s.TokensPerUSDC),
		USDCDecimals:  hexutil.Uint(s.USDCDecimals),
		BlockNumber:   hexutil.Uint64(s.BlockNumber),
		FetchedAt:     hexutil.Uint64(s.FetchedAt.Unix()),
		Source:        s.Source,
	}
}

func toRPCPurchases(events []presale.PurchaseEvent) []RPCPurchase {
	out := make([]RPCPurchase, 0, len(events))
	for _, e := range events {
		out = append(out, RPCPurchase{
			Buyer:       e.Buyer,
			USDCIn:      hexBig(e.USDCIn),
			TokensOut:   hexBig(e.TokensOut),
			BlockNumber: hexutil.Uint64(e.BlockNumber),
			TxHash:      e.TxHash,
			LogIndex:    hexutil.Uint(e.LogIndex),
		})
	}
	return out
}
