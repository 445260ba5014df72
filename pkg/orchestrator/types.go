package orchestrator

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Pre-check and sequencing errors.
var (
	ErrActionInProgress    = errors.New("another transaction is in progress")
	ErrNotWritable         = errors.New("wallet is not connected to the expected network")
	ErrSnapshotUnavailable = errors.New("sale state has not been loaded yet")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrBelowMinimum        = errors.New("amount is below the minimum purchase")
	ErrHardCapExceeded     = errors.New("amount would exceed the hardcap")
	ErrSaleNotActive       = errors.New("sale is not accepting purchases")
	ErrNotFinalized        = errors.New("sale is not finalized")
	ErrClaimUnavailable    = errors.New("tokens can only be claimed after a successful sale")
	ErrRefundUnavailable   = errors.New("refunds are only available after a failed sale")
)

// State is the orchestrator's position in an action.
type State string

const (
	StateIdle           State = "idle"
	StateAllowanceCheck State = "allowance_check"
	StateApproving      State = "approving"
	StateSubmitting     State = "submitting"
	StateConfirming     State = "confirming"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
)

// Kind identifies the contract call a transaction makes.
type Kind string

const (
	KindApprove  Kind = "approve"
	KindBuy      Kind = "buy"
	KindClaim    Kind = "claim"
	KindRefund   Kind = "refund"
	KindFinalize Kind = "finalize"
	KindSetLive  Kind = "setLive"
)

// TxState is the lifecycle of a single submitted transaction.
type TxState string

const (
	TxSubmitted TxState = "submitted"
	TxConfirmed TxState = "confirmed"
	TxFailed    TxState = "failed"
)

// Phase is what the user is waiting on for the current step.
type Phase string

const (
	PhaseAwaitingWallet Phase = "awaiting_wallet"
	PhaseAwaitingChain  Phase = "awaiting_chain"
	PhaseDone           Phase = "done"
	PhaseFailed         Phase = "failed"
)

// PendingTransaction tracks one transaction of an action. It lives only as
// long as the action.
type PendingTransaction struct {
	ID          uuid.UUID   `json:"id"`
	Kind        Kind        `json:"kind"`
	State       TxState     `json:"state"`
	TxHash      common.Hash `json:"txHash"`
	Error       string      `json:"error,omitempty"`
	SubmittedAt time.Time   `json:"submittedAt"`
	GasUsed     uint64      `json:"gasUsed,omitempty"`
}

// Progress is reported to observers on every phase change.
type Progress struct {
	Action Kind               `json:"action"`
	State  State              `json:"state"`
	Phase  Phase              `json:"phase"`
	Tx     PendingTransaction `json:"tx"`
}

// Result lists the transactions an action produced, in order.
type Result struct {
	Action       Kind                 `json:"action"`
	Transactions []PendingTransaction `json:"transactions"`
}

// Outcome is how the most recent action ended. It stays readable after the
// action returns so a client that lost the response can still see it.
type Outcome struct {
	Action     Kind      `json:"action"`
	Succeeded  bool      `json:"succeeded"`
	Error      string    `json:"error,omitempty"`
	Result     *Result   `json:"result,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Status is the orchestrator state with the latest phase and outcome.
type Status struct {
	State    State     `json:"state"`
	Progress *Progress `json:"progress,omitempty"`
	Last     *Outcome  `json:"last,omitempty"`
}
