// Package sacrifice summarizes native-coin transfers into a sacrifice address.
package sacrifice

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/internal/metrics"
)

// ErrNotConfigured is returned when no sacrifice address is set.
var ErrNotConfigured = errors.New("sacrifice address not configured")

// Chain is the subset of the RPC client the tracker reads from.
type Chain interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
}

// Transfer is one incoming native transfer.
type Transfer struct {
	Hash        common.Hash    `json:"hash"`
	From        common.Address `json:"from"`
	Value       *big.Int       `json:"value"`
	BlockNumber uint64         `json:"blockNumber"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Summary is the tracker's view of the sacrifice address.
type Summary struct {
	Address   common.Address `json:"address"`
	Balance   *big.Int       `json:"balance"`
	TxCount   uint64         `json:"txCount"`
	Transfers []Transfer     `json:"transfers"`
	HeadBlock uint64         `json:"headBlock"`
}

// Config bounds the backwards block scan.
type Config struct {
	Address        common.Address
	ChainID        *big.Int
	LookbackBlocks uint64
	BlockStep      uint64
	MaxTransfers   int
}

// Tracker samples blocks for transfers into the configured address.
type Tracker struct {
	chain  Chain
	cfg    Config
	signer types.Signer
	logger *zap.Logger
}

// NewTracker creates a Tracker.
func NewTracker(chain Chain, cfg Config, logger *zap.Logger) *Tracker {
	if cfg.BlockStep == 0 {
		cfg.BlockStep = 1000
	}
	if cfg.MaxTransfers <= 0 {
		cfg.MaxTransfers = 20
	}
	return &Tracker{
		chain:  chain,
		cfg:    cfg,
		signer: types.LatestSignerForChainID(cfg.ChainID),
		logger: logger,
	}
}

// Summary reads the balance and nonce at head and scans sampled blocks for
// incoming transfers, newest first.
func (t *Tracker) Summary(ctx context.Context) (*Summary, error) {
	if t.cfg.Address == (common.Address{}) {
		return nil, ErrNotConfigured
	}

	head, err := t.chain.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read head block: %w", err)
	}
	at := new(big.Int).SetUint64(head)

	balance, err := t.chain.BalanceAt(ctx, t.cfg.Address, at)
	if err != nil {
		return nil, fmt.Errorf("failed to read sacrifice balance: %w", err)
	}
	nonce, err := t.chain.NonceAt(ctx, t.cfg.Address, at)
	if err != nil {
		return nil, fmt.Errorf("failed to read sacrifice tx count: %w", err)
	}

	transfers := t.scan(ctx, head)

	return &Summary{
		Address:   t.cfg.Address,
		Balance:   balance,
		TxCount:   nonce,
		Transfers: transfers,
		HeadBlock: head,
	}, nil
}

func (t *Tracker) scan(ctx context.Context, head uint64) []Transfer {
	var floor uint64
	if head > t.cfg.LookbackBlocks {
		floor = head - t.cfg.LookbackBlocks
	}

	transfers := make([]Transfer, 0, t.cfg.MaxTransfers)
	for n := head; n >= floor && len(transfers) < t.cfg.MaxTransfers; n -= t.cfg.BlockStep {
		if ctx.Err() != nil {
			break
		}

		block, err := t.chain.BlockByNumber(ctx, new(big.Int).SetUint64(n))
		if err != nil {
			metrics.ErrorsTotal.WithLabelValues("sacrifice", "block").Inc()
			t.logger.Warn("Skipping unreadable block", zap.Uint64("block", n), zap.Error(err))
		} else {
			transfers = append(transfers, t.incoming(block)...)
		}

		if n < t.cfg.BlockStep {
			break
		}
	}

	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].Timestamp.After(transfers[j].Timestamp)
	})
	if len(transfers) > t.cfg.MaxTransfers {
		transfers = transfers[:t.cfg.MaxTransfers]
	}
	return transfers
}

func (t *Tracker) incoming(block *types.Block) []Transfer {
	var out []Transfer
	ts := time.Unix(int64(block.Time()), 0).UTC()
	for _, tx := range block.Transactions() {
		if tx.To() == nil || *tx.To() != t.cfg.Address || tx.Value().Sign() == 0 {
			continue
		}
		from, err := types.Sender(t.signer, tx)
		if err != nil {
			t.logger.Debug("Skipping transaction with unrecoverable sender",
				zap.String("tx_hash", tx.Hash().Hex()), zap.Error(err))
			continue
		}
		out = append(out, Transfer{
			Hash:        tx.Hash(),
			From:        from,
			Value:       tx.Value(),
			BlockNumber: block.NumberU64(),
			Timestamp:   ts,
		})
	}
	return out
}
