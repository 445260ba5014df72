// Package presale reads the presale contract and derives the dashboard's view
// of the sale from its state and Buy events.
package presale

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/evm"
	"github.com/chainsafe/presale-dashboard/pkg/presale/contracts"
)

// Read backend labels.
const (
	SourceWallet = "wallet"
	SourceRPC    = "rpc"
)

var (
	// ErrNoBackend is returned when neither a wallet nor a fallback RPC is available.
	ErrNoBackend        = errors.New("no chain read backend available")
	ErrDecimalsMismatch = errors.New("USDC decimals mismatch")
)

// BackendSource yields the wallet-backed reader while it may be used.
// *wallet.Session implements it.
type BackendSource interface {
	ReadBackend() (evm.Reader, bool)
}

// Reader fetches snapshots and purchase events.
type Reader struct {
	presale      *contracts.Contract
	usdc         *contracts.Contract
	fallback     evm.Reader
	wallet       BackendSource
	usdcDecimals uint8
	startBlock   uint64
	logger       *zap.Logger
	now          func() time.Time
}

// Config describes the deployment a Reader works against.
type Config struct {
	Presale      common.Address
	USDC         common.Address
	USDCDecimals uint8
	// StartBlock is the lower bound of full event replay.
	StartBlock uint64
}

// NewReader creates a Reader. wallet may be nil; fallback is used whenever the
// wallet cannot serve reads.
func NewReader(cfg Config, fallback evm.Reader, wallet BackendSource, logger *zap.Logger) *Reader {
	return &Reader{
		presale:      contracts.NewPresale(cfg.Presale),
		usdc:         contracts.NewERC20(cfg.USDC),
		fallback:     fallback,
		wallet:       wallet,
		usdcDecimals: cfg.USDCDecimals,
		startBlock:   cfg.StartBlock,
		logger:       logger,
		now:          time.Now,
	}
}

// Backend returns the reader to use right now and its label.
func (r *Reader) Backend() (evm.Reader, string, error) {
	if r.wallet != nil {
		if b, ok := r.wallet.ReadBackend(); ok {
			return b, SourceWallet, nil
		}
	}
	if r.fallback == nil {
		return nil, "", ErrNoBackend
	}
	return r.fallback, SourceRPC, nil
}

// Allowance reads owner's USDC allowance towards the presale.
func (r *Reader) Allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	backend, _, err := r.Backend()
	if err != nil {
		return nil, err
	}
	return r.usdc.CallUint256(ctx, backend, nil, contracts.MethodAllowance, owner, r.presale.Address())
}

// USDCBalance reads owner's USDC balance.
func (r *Reader) USDCBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	backend, _, err := r.Backend()
	if err != nil {
		return nil, err
	}
	return r.usdc.CallUint256(ctx, backend, nil, contracts.MethodBalanceOf, owner)
}

// CheckUSDCDecimals compares the configured USDC decimals with the token's
// decimals(). Amounts are parsed and formatted with the configured value, so
// a mismatch scales every figure.
func (r *Reader) CheckUSDCDecimals(ctx context.Context) error {
	backend, _, err := r.Backend()
	if err != nil {
		return err
	}
	onChain, err := r.usdc.CallUint8(ctx, backend, nil, contracts.MethodDecimals)
	if err != nil {
		return fmt.Errorf("read USDC decimals: %w", err)
	}
	if onChain != r.usdcDecimals {
		return fmt.Errorf("%w: configured %d, token reports %d", ErrDecimalsMismatch, r.usdcDecimals, onChain)
	}
	return nil
}
