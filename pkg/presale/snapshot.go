package presale

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/presale-dashboard/internal/metrics"
	"github.com/chainsafe/presale-dashboard/pkg/evm"
	"github.com/chainsafe/presale-dashboard/pkg/presale/contracts"
)

// Snapshot is a point-in-time read of the presale. It is replaced wholesale
// and never modified after construction.
type Snapshot struct {
	USDC     common.Address `json:"usdc"`
	Token    common.Address `json:"token"`
	Treasury common.Address `json:"treasury"`

	IsLive      bool `json:"isLive"`
	IsFinalized bool `json:"isFinalized"`
	Success     bool `json:"success"`
	IsOngoing   bool `json:"isOngoing"`

	SoldTokens    *big.Int `json:"soldTokens"`
	TotalUSDCIn   *big.Int `json:"totalUsdcIn"`
	PresaleTokens *big.Int `json:"presaleTokens"`
	HardCapUSDC   *big.Int `json:"hardCapUsdc"`
	MinUSDC       *big.Int `json:"minUsdc"`
	TokensPerUSDC *big.Int `json:"tokensPerUsdc"`
	USDCDecimals  uint8    `json:"usdcDecimals"`

	Account *AccountState `json:"account,omitempty"`

	BlockNumber uint64    `json:"blockNumber"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Source      string    `json:"source"`
}

// AccountState is the per-address part of a snapshot.
type AccountState struct {
	Address         common.Address `json:"address"`
	Contribution    *big.Int       `json:"contribution"`
	PurchasedTokens *big.Int       `json:"purchasedTokens"`
}

// RemainingUSDC is the hardcap headroom, never negative.
func (s *Snapshot) RemainingUSDC() *big.Int {
	rem := new(big.Int).Sub(s.HardCapUSDC, s.TotalUSDCIn)
	if rem.Sign() < 0 {
		return new(big.Int)
	}
	return rem
}

// CanBuy reports whether the sale currently accepts purchases.
func (s *Snapshot) CanBuy() bool {
	return s.IsLive && !s.IsFinalized
}

// FetchSnapshot reads every sale field concurrently at the current head and
// assembles a Snapshot. account, when non-nil, adds its contribution and
// purchased tokens. Any failed call fails the whole fetch.
func (r *Reader) FetchSnapshot(ctx context.Context, account *common.Address) (*Snapshot, error) {
	backend, source, err := r.Backend()
	if err != nil {
		return nil, err
	}

	start := r.now()
	snap, err := r.fetchSnapshot(ctx, backend, account)
	metrics.SnapshotFetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SnapshotFetches.WithLabelValues(source, "failed").Inc()
		r.logger.Warn("Snapshot fetch failed", zap.String("source", source), zap.Error(err))
		return nil, err
	}
	metrics.SnapshotFetches.WithLabelValues(source, "ok").Inc()

	snap.Source = source
	snap.FetchedAt = start.UTC()
	snap.USDCDecimals = r.usdcDecimals

	r.logger.Debug("Snapshot fetched",
		zap.String("source", source),
		zap.Uint64("block", snap.BlockNumber),
		zap.Stringer("total_usdc_in", snap.TotalUSDCIn),
		zap.Bool("live", snap.IsLive))
	return snap, nil
}

func (r *Reader) fetchSnapshot(ctx context.Context, backend evm.Reader, account *common.Address) (*Snapshot, error) {
	head, err := backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block number: %w", err)
	}
	block := new(big.Int).SetUint64(head)

	snap := &Snapshot{BlockNumber: head}
	g, gctx := errgroup.WithContext(ctx)

	addr := func(dst *common.Address, method string) {
		g.Go(func() (err error) {
			*dst, err = r.presale.CallAddress(gctx, backend, block, method)
			return err
		})
	}
	flag := func(dst *bool, method string) {
		g.Go(func() (err error) {
			*dst, err = r.presale.CallBool(gctx, backend, block, method)
			return err
		})
	}
	amount := func(dst **big.Int, method string, args ...any) {
		g.Go(func() (err error) {
			*dst, err = r.presale.CallUint256(gctx, backend, block, method, args...)
			return err
		})
	}

	addr(&snap.USDC, contracts.MethodUSDC)
	addr(&snap.Token, contracts.MethodToken)
	addr(&snap.Treasury, contracts.MethodTreasury)
	flag(&snap.IsLive, contracts.MethodIsLive)
	flag(&snap.IsFinalized, contracts.MethodIsFinalized)
	flag(&snap.Success, contracts.MethodSuccess)
	flag(&snap.IsOngoing, contracts.MethodIsOngoing)
	amount(&snap.SoldTokens, contracts.MethodSoldTokens)
	amount(&snap.TotalUSDCIn, contracts.MethodTotalUSDCIn)
	amount(&snap.PresaleTokens, contracts.MethodPresaleTokens)
	amount(&snap.HardCapUSDC, contracts.MethodHardCapUSDC)
	amount(&snap.MinUSDC, contracts.MethodMinUSDC)
	amount(&snap.TokensPerUSDC, contracts.MethodTokensPerUSDC)

	if account != nil {
		snap.Account = &AccountState{Address: *account}
		amount(&snap.Account.Contribution, contracts.MethodContributions, *account)
		amount(&snap.Account.PurchasedTokens, contracts.MethodPurchasedTokens, *account)
	}

	if err := g.Wait(); err != nil {
		return nil, evm.WrapRevert(err)
	}
	return snap, nil
}
