package presale

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/internal/metrics"
	"github.com/chainsafe/presale-dashboard/pkg/evm"
	"github.com/chainsafe/presale-dashboard/pkg/presale/contracts"
)

// PurchaseEvent is one Buy log.
type PurchaseEvent struct {
	Buyer       common.Address `json:"buyer"`
	USDCIn      *big.Int       `json:"usdcIn"`
	TokensOut   *big.Int       `json:"tokensOut"`
	BlockNumber uint64         `json:"blockNumber"`
	TxHash      common.Hash    `json:"txHash"`
	LogIndex    uint           `json:"logIndex"`
}

// EventFromLog decodes a raw Buy log.
func EventFromLog(l types.Log) (PurchaseEvent, error) {
	decoded, err := contracts.DecodeBuy(l)
	if err != nil {
		return PurchaseEvent{}, err
	}
	return PurchaseEvent{
		Buyer:       decoded.Buyer,
		USDCIn:      decoded.USDCIn,
		TokensOut:   decoded.TokensOut,
		BlockNumber: decoded.BlockNumber,
		TxHash:      decoded.TxHash,
		LogIndex:    decoded.LogIndex,
	}, nil
}

// BuyFilter returns the log filter for Buy events over [from, to]. A nil to
// means the latest block.
func BuyFilter(presale common.Address, from uint64, to *big.Int) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   to,
		Addresses: []common.Address{presale},
		Topics:    [][]common.Hash{{contracts.BuyTopic()}},
	}
}

// FetchPurchaseEvents returns every Buy event in [from, to]. A nil to means
// the latest block; from below the configured start block is raised to it.
// A malformed log fails the whole fetch.
func (r *Reader) FetchPurchaseEvents(ctx context.Context, from uint64, to *big.Int) ([]PurchaseEvent, error) {
	backend, source, err := r.Backend()
	if err != nil {
		return nil, err
	}
	if from < r.startBlock {
		from = r.startBlock
	}
	return FetchPurchaseEvents(ctx, backend, r.presale.Address(), from, to, r.logger.With(zap.String("source", source)))
}

// FetchPurchaseEvents runs one eth_getLogs query for Buy events and decodes the result.
func FetchPurchaseEvents(ctx context.Context, backend evm.Reader, presale common.Address, from uint64, to *big.Int, logger *zap.Logger) ([]PurchaseEvent, error) {
	logs, err := backend.FilterLogs(ctx, BuyFilter(presale, from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Buy logs: %w", err)
	}

	events := make([]PurchaseEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		ev, err := EventFromLog(l)
		if err != nil {
			return nil, fmt.Errorf("block %d tx %s: %w", l.BlockNumber, l.TxHash.Hex(), err)
		}
		events = append(events, ev)
	}

	metrics.PurchaseEvents.WithLabelValues("replay").Add(float64(len(events)))
	logger.Debug("Fetched purchase events", zap.Uint64("from_block", from), zap.Int("count", len(events)))
	return events, nil
}
