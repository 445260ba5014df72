package service

import (
	"time"

	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/units"
)

// ChainInfo describes the target network and deployed contracts.
type ChainInfo struct {
	ChainID        uint64                  `json:"chainId"`
	HexChainID     string                  `json:"hexChainId"`
	Name           string                  `json:"name"`
	ExplorerURL    string                  `json:"explorerUrl"`
	Presale        string                  `json:"presale"`
	Token          string                  `json:"token"`
	USDC           string                  `json:"usdc"`
	AddChainParams chain.AddChainParams    `json:"addChainParams"`
	SwitchParams   chain.SwitchChainParams `json:"switchChainParams"`
}

// AccountView is the connected account's part of a snapshot.
type AccountView struct {
	Address         string `json:"address"`
	Contribution    string `json:"contribution"`
	PurchasedTokens string `json:"purchasedTokens"`
}

// SnapshotView is a snapshot with display formatting applied.
type SnapshotView struct {
	Status          string       `json:"status"`
	Progress        string       `json:"progress"`
	HardCapProgress string       `json:"hardCapProgress"`
	IsLive          bool         `json:"isLive"`
	IsFinalized     bool         `json:"isFinalized"`
	Success         bool         `json:"success"`
	IsOngoing       bool         `json:"isOngoing"`
	CanBuy          bool         `json:"canBuy"`
	SoldTokens      string       `json:"soldTokens"`
	PresaleTokens   string       `json:"presaleTokens"`
	TotalUSDCIn     string       `json:"totalUsdcIn"`
	HardCapUSDC     string       `json:"hardCapUsdc"`
	RemainingUSDC   string       `json:"remainingUsdc"`
	MinUSDC         string       `json:"minUsdc"`
	TokensPerUSDC   string       `json:"tokensPerUsdc"`
	TokenSymbol     string       `json:"tokenSymbol"`
	Account         *AccountView `json:"account,omitempty"`
	BlockNumber     uint64       `json:"blockNumber"`
	FetchedAt       time.Time    `json:"fetchedAt"`
	Source          string       `json:"source"`
	Stale           bool         `json:"stale"`
	PresaleURL      string       `json:"presaleUrl"`
}

// PurchaseView is one roster row.
type PurchaseView struct {
	Buyer       string `json:"buyer"`
	BuyerShort  string `json:"buyerShort"`
	USDCIn      string `json:"usdcIn"`
	TokensOut   string `json:"tokensOut"`
	BlockNumber uint64 `json:"blockNumber"`
	TxHash      string `json:"txHash"`
	TxURL       string `json:"txUrl"`
}

// ParticipantsView is a page of the roster.
type ParticipantsView struct {
	Total        int            `json:"total"`
	Participants int            `json:"participants"`
	Offset       int            `json:"offset"`
	Items        []PurchaseView `json:"items"`
	RosterAt     time.Time      `json:"rosterAt"`
}

// PositionView is an address's aggregated purchases.
type PositionView struct {
	Address             string         `json:"address"`
	TotalContributed    string         `json:"totalContributed"`
	TotalTokensReceived string         `json:"totalTokensReceived"`
	Purchases           []PurchaseView `json:"purchases"`
}

// EstimateView is the token estimate for a USDC amount.
type EstimateView struct {
	USDC      string `json:"usdc"`
	Tokens    string `json:"tokens"`
	TokensRaw string `json:"tokensRaw"`
	Valid     bool   `json:"valid"`
	Reason    string `json:"reason,omitempty"`
}

// TransferView is one incoming sacrifice transfer.
type TransferView struct {
	Hash        string    `json:"hash"`
	From        string    `json:"from"`
	Value       string    `json:"value"`
	BlockNumber uint64    `json:"blockNumber"`
	Timestamp   time.Time `json:"timestamp"`
	TxURL       string    `json:"txUrl"`
}

// SacrificeView summarizes the sacrifice address.
type SacrificeView struct {
	Address   string         `json:"address"`
	Balance   string         `json:"balance"`
	Symbol    string         `json:"symbol"`
	TxCount   uint64         `json:"txCount"`
	Transfers []TransferView `json:"transfers"`
}

// ScheduleRequest updates the sale window.
type ScheduleRequest struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

// ScheduleView is the sale window with its phase at request time.
type ScheduleView struct {
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Phase     string    `json:"phase"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest carries a signed admin login message.
type LoginRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func (s *dashboardService) purchaseViews(events []presale.PurchaseEvent) []PurchaseView {
	out := make([]PurchaseView, 0, len(events))
	for _, e := range events {
		buyer := e.Buyer.Hex()
		out = append(out, PurchaseView{
			Buyer:       buyer,
			BuyerShort:  units.ShortAddress(buyer),
			USDCIn:      units.FormatUnits(e.USDCIn, s.cfg.USDCDecimals),
			TokensOut:   units.FormatUnits(e.TokensOut, s.cfg.TokenDecimals),
			BlockNumber: e.BlockNumber,
			TxHash:      e.TxHash.Hex(),
			TxURL:       s.network.TxURL(e.TxHash.Hex()),
		})
	}
	return out
}
