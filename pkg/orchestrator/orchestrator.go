// Package orchestrator sequences presale writes: pre-checks against the latest
// snapshot, approve-then-buy, receipt confirmation and the refresh callback.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/internal/metrics"
	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	"github.com/chainsafe/presale-dashboard/pkg/evm"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/presale/contracts"
)

// SnapshotSource returns the most recent snapshot, or nil before the first one.
type SnapshotSource interface {
	LatestSnapshot() *presale.Snapshot
}

// AllowanceReader reads the USDC allowance towards the presale.
type AllowanceReader interface {
	Allowance(ctx context.Context, owner common.Address) (*big.Int, error)
}

// WriteGate reports whether transactions may be submitted.
type WriteGate interface {
	CanWrite() bool
}

// Observer receives phase updates.
type Observer func(Progress)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWriteGate blocks actions while gate reports false.
func WithWriteGate(gate WriteGate) Option {
	return func(o *Orchestrator) { o.gate = gate }
}

// WithObserver adds a phase observer.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, fn) }
}

// WithOnSuccess sets the callback run after every successful action.
func WithOnSuccess(fn func()) Option {
	return func(o *Orchestrator) { o.onSuccess = fn }
}

// Orchestrator runs one presale action at a time.
type Orchestrator struct {
	sender    evm.Sender
	allowance AllowanceReader
	snapshots SnapshotSource
	presale   *contracts.Contract
	usdc      *contracts.Contract
	logger    *zap.Logger

	gate      WriteGate
	observers []Observer
	onSuccess func()

	mu       sync.Mutex
	busy     bool
	state    State
	progress *Progress
	last     *Outcome
	now      func() time.Time
}

// New creates an Orchestrator submitting through sender.
func New(
	presaleAddr, usdcAddr common.Address,
	sender evm.Sender,
	allowance AllowanceReader,
	snapshots SnapshotSource,
	logger *zap.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		sender:    sender,
		allowance: allowance,
		snapshots: snapshots,
		presale:   contracts.NewPresale(presaleAddr),
		usdc:      contracts.NewERC20(usdcAddr),
		logger:    logger,
		state:     StateIdle,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Status returns the current state, the last reported phase of the running
// or most recent action, and the outcome of the most recent action.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := Status{State: o.state}
	if o.progress != nil {
		p := *o.progress
		st.Progress = &p
	}
	if o.last != nil {
		last := *o.last
		st.Last = &last
	}
	return st
}

// ValidateBuy checks amount against the snapshot. It is advisory: the
// contract has the final word.
func ValidateBuy(snap *presale.Snapshot, amount *big.Int) error {
	if snap == nil {
		return apperrors.DependencyFailureError(ErrSnapshotUnavailable, ErrSnapshotUnavailable.Error())
	}
	if !snap.CanBuy() {
		return apperrors.BadRequestError(ErrSaleNotActive, ErrSaleNotActive.Error())
	}
	if amount == nil || amount.Sign() <= 0 {
		return apperrors.BadRequestError(ErrInvalidAmount, ErrInvalidAmount.Error())
	}
	if amount.Cmp(snap.MinUSDC) < 0 {
		return apperrors.BadRequestError(ErrBelowMinimum, ErrBelowMinimum.Error())
	}
	total := new(big.Int).Add(snap.TotalUSDCIn, amount)
	if total.Cmp(snap.HardCapUSDC) > 0 {
		return apperrors.BadRequestError(ErrHardCapExceeded, ErrHardCapExceeded.Error())
	}
	return nil
}

// Buy purchases with amount raw USDC, approving exactly amount first when the
// current allowance is short.
func (o *Orchestrator) Buy(ctx context.Context, amount *big.Int) (*Result, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	res := &Result{Action: KindBuy}
	err := o.buy(ctx, amount, res)
	o.finish(KindBuy, res, err)
	return res, err
}

func (o *Orchestrator) buy(ctx context.Context, amount *big.Int, res *Result) error {
	if err := ValidateBuy(o.snapshots.LatestSnapshot(), amount); err != nil {
		return err
	}

	o.setState(StateAllowanceCheck)
	allowance, err := o.allowance.Allowance(ctx, o.sender.From())
	if err != nil {
		return apperrors.DependencyFailureError(fmt.Errorf("failed to read allowance: %w", err), "failed to read USDC allowance")
	}

	if allowance.Cmp(amount) < 0 {
		o.setState(StateApproving)
		data, err := o.usdc.Pack(contracts.MethodApprove, o.presale.Address(), amount)
		if err != nil {
			return apperrors.GeneralError(err)
		}
		if err := o.step(ctx, KindBuy, KindApprove, o.usdc.Address(), data, res); err != nil {
			return err
		}
	}

	o.setState(StateSubmitting)
	data, err := o.presale.Pack(contracts.MethodBuy, amount)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	return o.step(ctx, KindBuy, KindBuy, o.presale.Address(), data, res)
}

// ClaimTokens claims purchased tokens after a successful sale.
func (o *Orchestrator) ClaimTokens(ctx context.Context) (*Result, error) {
	return o.single(ctx, KindClaim, func(snap *presale.Snapshot) error {
		if snap == nil {
			return apperrors.DependencyFailureError(ErrSnapshotUnavailable, ErrSnapshotUnavailable.Error())
		}
		if !snap.IsFinalized {
			return apperrors.BadRequestError(ErrNotFinalized, ErrNotFinalized.Error())
		}
		if !snap.Success {
			return apperrors.BadRequestError(ErrClaimUnavailable, ErrClaimUnavailable.Error())
		}
		return nil
	}, contracts.MethodClaimTokens)
}

// ClaimRefund reclaims the contribution after a failed sale.
func (o *Orchestrator) ClaimRefund(ctx context.Context) (*Result, error) {
	return o.single(ctx, KindRefund, func(snap *presale.Snapshot) error {
		if snap == nil {
			return apperrors.DependencyFailureError(ErrSnapshotUnavailable, ErrSnapshotUnavailable.Error())
		}
		if !snap.IsFinalized {
			return apperrors.BadRequestError(ErrNotFinalized, ErrNotFinalized.Error())
		}
		if snap.Success {
			return apperrors.BadRequestError(ErrRefundUnavailable, ErrRefundUnavailable.Error())
		}
		return nil
	}, contracts.MethodClaimRefund)
}

// Finalize closes the sale. Operator only; the contract enforces ownership.
func (o *Orchestrator) Finalize(ctx context.Context) (*Result, error) {
	return o.single(ctx, KindFinalize, nil, contracts.MethodFinalize)
}

// SetLive opens or pauses the sale. Operator only.
func (o *Orchestrator) SetLive(ctx context.Context, live bool) (*Result, error) {
	return o.single(ctx, KindSetLive, nil, contracts.MethodSetLive, live)
}

func (o *Orchestrator) single(ctx context.Context, kind Kind, check func(*presale.Snapshot) error, method string, args ...any) (*Result, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}
	res := &Result{Action: kind}
	err := func() error {
		if check != nil {
			if err := check(o.snapshots.LatestSnapshot()); err != nil {
				return err
			}
		}
		o.setState(StateSubmitting)
		data, err := o.presale.Pack(method, args...)
		if err != nil {
			return apperrors.GeneralError(err)
		}
		return o.step(ctx, kind, kind, o.presale.Address(), data, res)
	}()
	o.finish(kind, res, err)
	return res, err
}

// step submits one transaction and waits for its receipt.
func (o *Orchestrator) step(ctx context.Context, action, kind Kind, to common.Address, data []byte, res *Result) error {
	tx := PendingTransaction{ID: uuid.New(), Kind: kind}
	o.notify(action, PhaseAwaitingWallet, tx)

	start := time.Now()
	hash, err := o.sender.SendTransaction(ctx, to, data)
	if err != nil {
		return o.fail(action, &tx, res, classify(err))
	}
	tx.TxHash = hash
	tx.State = TxSubmitted
	tx.SubmittedAt = start.UTC()

	if kind != KindApprove {
		o.setState(StateConfirming)
	}
	o.notify(action, PhaseAwaitingChain, tx)
	o.logger.Info("Transaction submitted",
		zap.String("id", tx.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("tx_hash", hash.Hex()))

	receipt, err := o.sender.WaitMined(ctx, hash)
	if err != nil {
		return o.fail(action, &tx, res, apperrors.DependencyFailureError(
			fmt.Errorf("waiting for %s: %w", hash.Hex(), err), "failed to confirm transaction"))
	}
	tx.GasUsed = receipt.GasUsed
	if err := evm.CheckReceipt(receipt); err != nil {
		return o.fail(action, &tx, res, apperrors.ConflictError(err, "transaction reverted"))
	}

	tx.State = TxConfirmed
	res.Transactions = append(res.Transactions, tx)
	metrics.TransactionsSent.WithLabelValues(string(kind), "confirmed").Inc()
	metrics.TransactionDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.GasUsed.WithLabelValues(string(kind)).Observe(float64(receipt.GasUsed))
	o.notify(action, PhaseDone, tx)

	o.logger.Info("Transaction confirmed",
		zap.String("id", tx.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("tx_hash", hash.Hex()),
		zap.Uint64("gas_used", receipt.GasUsed))
	return nil
}

func (o *Orchestrator) fail(action Kind, tx *PendingTransaction, res *Result, err error) error {
	tx.State = TxFailed
	tx.Error = err.Error()
	res.Transactions = append(res.Transactions, *tx)
	metrics.TransactionsSent.WithLabelValues(string(tx.Kind), "failed").Inc()
	o.notify(action, PhaseFailed, *tx)
	return err
}

// classify maps a submission error to a service error category. Errors the
// sender already categorized pass through.
func classify(err error) error {
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	if evm.IsRevert(err) {
		return apperrors.ConflictError(evm.WrapRevert(err), evm.RevertReason(err))
	}
	if errors.Is(err, evm.ErrReadOnly) {
		return apperrors.LockedError(err, "no signer configured")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ConnectionTimeoutError(err, "timed out waiting for the network")
	}
	return apperrors.DependencyFailureError(fmt.Errorf("submit transaction: %w", err), "failed to submit transaction")
}

// errorMessage is the client-facing text of err.
func errorMessage(err error) string {
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return err.Error()
}

func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return apperrors.ConflictError(ErrActionInProgress, ErrActionInProgress.Error())
	}
	if o.gate != nil && !o.gate.CanWrite() {
		return apperrors.LockedError(ErrNotWritable, ErrNotWritable.Error())
	}
	o.busy = true
	o.progress = nil
	return nil
}

func (o *Orchestrator) finish(action Kind, res *Result, err error) {
	out := &Outcome{Action: action, Succeeded: err == nil, Result: res, FinishedAt: o.now().UTC()}
	if err != nil {
		out.Error = errorMessage(err)
	}

	o.mu.Lock()
	if err != nil {
		o.state = StateFailed
	} else {
		o.state = StateSucceeded
	}
	o.last = out
	o.mu.Unlock()

	if err != nil {
		o.logger.Warn("Action failed", zap.String("action", string(action)), zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("orchestrator", string(action)).Inc()
	} else if o.onSuccess != nil {
		o.onSuccess()
	}

	o.mu.Lock()
	o.state = StateIdle
	o.busy = false
	o.mu.Unlock()
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) notify(action Kind, phase Phase, tx PendingTransaction) {
	o.mu.Lock()
	p := Progress{Action: action, State: o.state, Phase: phase, Tx: tx}
	o.progress = &p
	o.mu.Unlock()

	for _, fn := range o.observers {
		fn(p)
	}
}
