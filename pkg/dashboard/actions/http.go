// Package actions exposes the wallet session and the transaction orchestrator
// of a dashboard bound to a single wallet.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	apphttp "github.com/chainsafe/presale-dashboard/pkg/app/http"
	"github.com/chainsafe/presale-dashboard/pkg/orchestrator"
	"github.com/chainsafe/presale-dashboard/pkg/units"
	"github.com/chainsafe/presale-dashboard/pkg/wallet"
)

const (
	defaultActionTimeout = 10 * time.Minute
	// writeGrace covers encoding the response once the action has returned.
	writeGrace = 30 * time.Second
)

// Wallet is the session surface the routes drive. *wallet.Session implements it.
type Wallet interface {
	Snapshot() wallet.State
	Connect(ctx context.Context) (wallet.State, error)
	Disconnect()
	SwitchNetwork(ctx context.Context) error
}

// Orchestrator runs presale writes. *orchestrator.Orchestrator implements it.
type Orchestrator interface {
	Status() orchestrator.Status
	Buy(ctx context.Context, amount *big.Int) (*orchestrator.Result, error)
	ClaimTokens(ctx context.Context) (*orchestrator.Result, error)
	ClaimRefund(ctx context.Context) (*orchestrator.Result, error)
	Finalize(ctx context.Context) (*orchestrator.Result, error)
	SetLive(ctx context.Context, live bool) (*orchestrator.Result, error)
}

// Balances reads the connected account's USDC balance. *presale.Reader implements it.
type Balances interface {
	USDCBalance(ctx context.Context, owner common.Address) (*big.Int, error)
}

// WalletView is the session plus the orchestrator position. Progress and
// LastAction stay set after an action returns, so a client whose action
// request was cut off can still read how it ended.
type WalletView struct {
	wallet.State
	USDCBalance string                 `json:"usdcBalance,omitempty"`
	Action      orchestrator.State     `json:"action"`
	Progress    *orchestrator.Progress `json:"progress,omitempty"`
	LastAction  *orchestrator.Outcome  `json:"lastAction,omitempty"`
}

// BuyRequest carries a human-readable USDC amount, e.g. "250.5".
type BuyRequest struct {
	USDC string `json:"usdc"`
}

// LiveRequest opens or pauses the sale.
type LiveRequest struct {
	Live bool `json:"live"`
}

// Config tunes the routes.
type Config struct {
	USDCDecimals uint8
	// ActionTimeout bounds an action including confirmation. It is detached
	// from the request so a dropped client does not abandon a submitted tx.
	ActionTimeout time.Duration
}

type handler struct {
	wallet   Wallet
	orch     Orchestrator
	balances Balances
	cfg      Config
	logger   *zap.Logger
}

// RegisterRoutes mounts /wallet and /actions on r. balances may be nil. The
// routes set their own write deadline and must not sit behind a request
// timeout shorter than cfg.ActionTimeout.
func RegisterRoutes(r chi.Router, w Wallet, orch Orchestrator, balances Balances, cfg Config, logger *zap.Logger) {
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = defaultActionTimeout
	}
	h := &handler{wallet: w, orch: orch, balances: balances, cfg: cfg, logger: logger}

	r.Get("/wallet", apphttp.HandleError(h.state))
	r.Post("/wallet/connect", apphttp.HandleError(h.connect))
	r.Post("/wallet/disconnect", apphttp.HandleError(h.disconnect))
	r.Post("/wallet/switch-network", apphttp.HandleError(h.switchNetwork))

	r.Post("/actions/buy", apphttp.HandleError(h.buy))
	r.Post("/actions/claim", apphttp.HandleError(h.run(orch.ClaimTokens)))
	r.Post("/actions/refund", apphttp.HandleError(h.run(orch.ClaimRefund)))
	r.Post("/actions/finalize", apphttp.HandleError(h.run(orch.Finalize)))
	r.Post("/actions/live", apphttp.HandleError(h.setLive))
}

func (h *handler) view(ctx context.Context) WalletView {
	st := h.orch.Status()
	v := WalletView{
		State:      h.wallet.Snapshot(),
		Action:     st.State,
		Progress:   st.Progress,
		LastAction: st.Last,
	}
	if h.balances != nil && v.Connected {
		balance, err := h.balances.USDCBalance(ctx, v.Account)
		if err != nil {
			h.logger.Warn("Failed to read USDC balance", zap.String("account", v.Account.Hex()), zap.Error(err))
		} else {
			v.USDCBalance = units.FormatUnits(balance, h.cfg.USDCDecimals)
		}
	}
	return v
}

func (h *handler) state(w http.ResponseWriter, r *http.Request) error {
	h.writeJSON(w, http.StatusOK, h.view(r.Context()))
	return nil
}

// connect and switchNetwork wait on a wallet prompt, so they get the action
// write deadline too.
func (h *handler) connect(w http.ResponseWriter, r *http.Request) error {
	h.extendWriteDeadline(w)
	if _, err := h.wallet.Connect(r.Context()); err != nil {
		return categorize(err)
	}
	h.writeJSON(w, http.StatusOK, h.view(r.Context()))
	return nil
}

func (h *handler) disconnect(w http.ResponseWriter, r *http.Request) error {
	h.wallet.Disconnect()
	h.writeJSON(w, http.StatusOK, h.view(r.Context()))
	return nil
}

func (h *handler) switchNetwork(w http.ResponseWriter, r *http.Request) error {
	h.extendWriteDeadline(w)
	if err := h.wallet.SwitchNetwork(r.Context()); err != nil {
		return categorize(err)
	}
	h.writeJSON(w, http.StatusOK, h.view(r.Context()))
	return nil
}

func (h *handler) buy(w http.ResponseWriter, r *http.Request) error {
	var req BuyRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := units.ParseUnits(req.USDC, h.cfg.USDCDecimals)
	if err != nil {
		return apperrors.BadRequestError(err, err.Error())
	}
	return h.run(func(ctx context.Context) (*orchestrator.Result, error) {
		return h.orch.Buy(ctx, amount)
	})(w, r)
}

func (h *handler) setLive(w http.ResponseWriter, r *http.Request) error {
	var req LiveRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	return h.run(func(ctx context.Context) (*orchestrator.Result, error) {
		return h.orch.SetLive(ctx, req.Live)
	})(w, r)
}

func (h *handler) run(action func(context.Context) (*orchestrator.Result, error)) apphttp.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		h.extendWriteDeadline(w)
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.cfg.ActionTimeout)
		defer cancel()

		res, err := action(ctx)
		if err != nil {
			h.logger.Warn("Presale action failed", zap.String("path", r.URL.Path), zap.Error(err))
			return categorize(err)
		}
		h.writeJSON(w, http.StatusOK, res)
		return nil
	}
}

// extendWriteDeadline lifts the server write timeout for this response to
// the action timeout.
func (h *handler) extendWriteDeadline(w http.ResponseWriter) {
	deadline := time.Now().Add(h.cfg.ActionTimeout + writeGrace)
	if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil {
		h.logger.Debug("Cannot extend write deadline", zap.Error(err))
	}
}

// categorize leaves service errors untouched and hides anything else.
func categorize(err error) error {
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return apperrors.GeneralError(err)
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
