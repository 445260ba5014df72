package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	"github.com/chainsafe/presale-dashboard/pkg/auth"
	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/dashboard"
	"github.com/chainsafe/presale-dashboard/pkg/orchestrator"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/sacrifice"
	"github.com/chainsafe/presale-dashboard/pkg/schedule"
	"github.com/chainsafe/presale-dashboard/pkg/units"
)

const maxPageSize = 200

var (
	ErrSnapshotUnavailable = errors.New("sale data is still loading")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrFeatureDisabled     = errors.New("feature not enabled")
	ErrMissingToken        = errors.New("missing bearer token")
)

// Source is the read side of the dashboard. *dashboard.Dashboard implements it.
type Source interface {
	LatestSnapshot() *presale.Snapshot
	Roster() presale.Roster
	Position(address common.Address) presale.UserPosition
	Status() dashboard.Status
}

// SacrificeTracker summarizes the sacrifice address.
type SacrificeTracker interface {
	Summary(ctx context.Context) (*sacrifice.Summary, error)
}

// Scheduler reads and writes the sale window.
type Scheduler interface {
	Get(ctx context.Context) (*schedule.Schedule, error)
	Set(ctx context.Context, startsAt, endsAt time.Time, by common.Address) (*schedule.Schedule, error)
}

// Authenticator logs administrators in and checks their sessions.
type Authenticator interface {
	Login(message, signature string) (*auth.Session, error)
	Authorize(token string) (common.Address, error)
}

// Service defines the dashboard read API and the admin operations
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	Chain(ctx context.Context) (*ChainInfo, error)
	Snapshot(ctx context.Context) (*SnapshotView, error)
	Participants(ctx context.Context, query string, offset, limit int) (*ParticipantsView, error)
	Position(ctx context.Context, address string) (*PositionView, error)
	Estimate(ctx context.Context, usdc string) (*EstimateView, error)
	Sacrifice(ctx context.Context) (*SacrificeView, error)
	Schedule(ctx context.Context) (*ScheduleView, error)
	SetSchedule(ctx context.Context, req *ScheduleRequest, by common.Address) (*ScheduleView, error)
	AdminLogin(ctx context.Context, req *LoginRequest) (*auth.Session, error)
	AuthorizeAdmin(ctx context.Context, token string) (common.Address, error)
}

// Config carries display settings.
type Config struct {
	TokenSymbol   string
	TokenDecimals uint8
	USDCDecimals  uint8
}

// Deps are the optional collaborators. Nil members disable their endpoints.
type Deps struct {
	Sacrifice SacrificeTracker
	Schedule  Scheduler
	Admin     Authenticator
}

type dashboardService struct {
	network *chain.Network
	source  Source
	cfg     Config
	deps    Deps
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates the dashboard service
func NewService(network *chain.Network, source Source, cfg Config, deps Deps, logger *zap.Logger) Service {
	return &dashboardService{
		network: network,
		source:  source,
		cfg:     cfg,
		deps:    deps,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *dashboardService) Chain(_ context.Context) (*ChainInfo, error) {
	return &ChainInfo{
		ChainID:        s.network.ChainID,
		HexChainID:     s.network.HexChainID(),
		Name:           s.network.Name,
		ExplorerURL:    s.network.ExplorerURL,
		Presale:        s.network.Presale.Hex(),
		Token:          s.network.Token.Hex(),
		USDC:           s.network.USDC.Hex(),
		AddChainParams: s.network.AddChainParams(),
		SwitchParams:   s.network.SwitchChainParams(),
	}, nil
}

func (s *dashboardService) latest() (*presale.Snapshot, error) {
	snap := s.source.LatestSnapshot()
	if snap == nil {
		return nil, apperrors.RecoveringError(ErrSnapshotUnavailable, ErrSnapshotUnavailable.Error())
	}
	return snap, nil
}

func (s *dashboardService) Snapshot(_ context.Context) (*SnapshotView, error) {
	snap, err := s.latest()
	if err != nil {
		return nil, err
	}

	usdc := s.cfg.USDCDecimals
	view := &SnapshotView{
		Status:          presale.Status(snap),
		Progress:        presale.Progress(snap).StringFixed(2),
		HardCapProgress: presale.HardCapProgress(snap).StringFixed(2),
		IsLive:          snap.IsLive,
		IsFinalized:     snap.IsFinalized,
		Success:         snap.Success,
		IsOngoing:       snap.IsOngoing,
		CanBuy:          snap.CanBuy(),
		SoldTokens:      units.FormatUnits(snap.SoldTokens, s.cfg.TokenDecimals),
		PresaleTokens:   units.FormatUnits(snap.PresaleTokens, s.cfg.TokenDecimals),
		TotalUSDCIn:     units.FormatUnits(snap.TotalUSDCIn, usdc),
		HardCapUSDC:     units.FormatUnits(snap.HardCapUSDC, usdc),
		RemainingUSDC:   units.FormatUnits(snap.RemainingUSDC(), usdc),
		MinUSDC:         units.FormatUnits(snap.MinUSDC, usdc),
		TokensPerUSDC:   units.FormatUnits(snap.TokensPerUSDC, s.cfg.TokenDecimals),
		TokenSymbol:     s.cfg.TokenSymbol,
		BlockNumber:     snap.BlockNumber,
		FetchedAt:       snap.FetchedAt,
		Source:          snap.Source,
		Stale:           s.source.Status().Stale,
		PresaleURL:      s.network.AddressURL(s.network.Presale.Hex()),
	}
	if snap.Account != nil {
		view.Account = &AccountView{
			Address:         snap.Account.Address.Hex(),
			Contribution:    units.FormatUnits(snap.Account.Contribution, usdc),
			PurchasedTokens: units.FormatUnits(snap.Account.PurchasedTokens, s.cfg.TokenDecimals),
		}
	}
	return view, nil
}

func (s *dashboardService) Participants(_ context.Context, query string, offset, limit int) (*ParticipantsView, error) {
	if offset < 0 {
		return nil, apperrors.BadRequestError(nil, "offset must not be negative")
	}
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	roster := s.source.Roster().Search(query)
	return &ParticipantsView{
		Total:        len(roster),
		Participants: roster.Participants(),
		Offset:       offset,
		Items:        s.purchaseViews(roster.Page(offset, limit)),
		RosterAt:     s.source.Status().RosterAt,
	}, nil
}

func (s *dashboardService) Position(_ context.Context, address string) (*PositionView, error) {
	if !common.IsHexAddress(address) {
		return nil, apperrors.BadRequestError(ErrInvalidAddress, ErrInvalidAddress.Error())
	}
	pos := s.source.Position(common.HexToAddress(address))
	return &PositionView{
		Address:             pos.Address.Hex(),
		TotalContributed:    units.FormatUnits(pos.TotalContributed, s.cfg.USDCDecimals),
		TotalTokensReceived: units.FormatUnits(pos.TotalTokensReceived, s.cfg.TokenDecimals),
		Purchases:           s.purchaseViews(pos.Purchases),
	}, nil
}

func (s *dashboardService) Estimate(_ context.Context, usdc string) (*EstimateView, error) {
	snap, err := s.latest()
	if err != nil {
		return nil, err
	}

	amount, err := units.ParseUnits(strings.TrimSpace(usdc), snap.USDCDecimals)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	tokens := presale.EstimateTokens(amount, snap.TokensPerUSDC, snap.USDCDecimals)
	view := &EstimateView{
		USDC:      units.FormatUnits(amount, snap.USDCDecimals),
		Tokens:    units.FormatUnits(tokens, s.cfg.TokenDecimals),
		TokensRaw: tokens.String(),
		Valid:     true,
	}

	if err := orchestrator.ValidateBuy(snap, amount); err != nil {
		view.Valid = false
		var svcErr *apperrors.ServiceError
		if errors.As(err, &svcErr) {
			view.Reason = svcErr.Message
		} else {
			view.Reason = err.Error()
		}
	}
	return view, nil
}

func (s *dashboardService) Sacrifice(ctx context.Context) (*SacrificeView, error) {
	if s.deps.Sacrifice == nil {
		return nil, apperrors.ResourceNotFoundError(ErrFeatureDisabled, "sacrifice tracking not configured")
	}

	summary, err := s.deps.Sacrifice.Summary(ctx)
	if err != nil {
		if errors.Is(err, sacrifice.ErrNotConfigured) {
			return nil, apperrors.ResourceNotFoundError(err, "sacrifice tracking not configured")
		}
		return nil, apperrors.DependencyFailureError(err, "failed to read sacrifice address")
	}

	decimals := s.network.NativeCurrency.Decimals
	view := &SacrificeView{
		Address:   summary.Address.Hex(),
		Balance:   units.FormatUnits(summary.Balance, decimals),
		Symbol:    s.network.NativeCurrency.Symbol,
		TxCount:   summary.TxCount,
		Transfers: make([]TransferView, 0, len(summary.Transfers)),
	}
	for _, tr := range summary.Transfers {
		view.Transfers = append(view.Transfers, TransferView{
			Hash:        tr.Hash.Hex(),
			From:        tr.From.Hex(),
			Value:       units.FormatUnits(valueOrZero(tr.Value), decimals),
			BlockNumber: tr.BlockNumber,
			Timestamp:   tr.Timestamp,
			TxURL:       s.network.TxURL(tr.Hash.Hex()),
		})
	}
	return view, nil
}

func (s *dashboardService) Schedule(ctx context.Context) (*ScheduleView, error) {
	if s.deps.Schedule == nil {
		return nil, apperrors.ResourceNotFoundError(ErrFeatureDisabled, "sale schedule requires persistence")
	}
	sched, err := s.deps.Schedule.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.scheduleView(sched), nil
}

func (s *dashboardService) SetSchedule(ctx context.Context, req *ScheduleRequest, by common.Address) (*ScheduleView, error) {
	if s.deps.Schedule == nil {
		return nil, apperrors.ResourceNotFoundError(ErrFeatureDisabled, "sale schedule requires persistence")
	}
	sched, err := s.deps.Schedule.Set(ctx, req.StartsAt, req.EndsAt, by)
	if err != nil {
		return nil, err
	}
	return s.scheduleView(sched), nil
}

func (s *dashboardService) scheduleView(sched *schedule.Schedule) *ScheduleView {
	return &ScheduleView{
		StartsAt:  sched.StartsAt,
		EndsAt:    sched.EndsAt,
		Phase:     sched.PhaseAt(s.now()),
		UpdatedBy: sched.UpdatedBy.Hex(),
		UpdatedAt: sched.UpdatedAt,
	}
}

func (s *dashboardService) AdminLogin(_ context.Context, req *LoginRequest) (*auth.Session, error) {
	if s.deps.Admin == nil {
		return nil, apperrors.ResourceNotFoundError(ErrFeatureDisabled, "admin access not configured")
	}
	if req.Message == "" || req.Signature == "" {
		return nil, apperrors.UnAuthorizedError(nil, "signature and message required")
	}

	session, err := s.deps.Admin.Login(req.Message, req.Signature)
	if err != nil {
		return nil, adminError(err)
	}
	return session, nil
}

func (s *dashboardService) AuthorizeAdmin(_ context.Context, token string) (common.Address, error) {
	if s.deps.Admin == nil {
		return common.Address{}, apperrors.ResourceNotFoundError(ErrFeatureDisabled, "admin access not configured")
	}
	if token == "" {
		return common.Address{}, apperrors.UnAuthorizedError(ErrMissingToken, ErrMissingToken.Error())
	}
	addr, err := s.deps.Admin.Authorize(token)
	if err != nil {
		return common.Address{}, adminError(err)
	}
	return addr, nil
}

func adminError(err error) error {
	switch {
	case errors.Is(err, auth.ErrAdminNotEnabled):
		return apperrors.ResourceNotFoundError(err, "admin access not configured")
	case errors.Is(err, auth.ErrMalformedLogin):
		return apperrors.BadRequestError(err, err.Error())
	case errors.Is(err, auth.ErrNotAllowed):
		return apperrors.ForbiddenError(err, "address is not an administrator")
	case errors.Is(err, auth.ErrLoginExpired), errors.Is(err, auth.ErrLoginReplayed):
		return apperrors.UnAuthorizedError(err, err.Error())
	default:
		return apperrors.UnAuthorizedError(err, "invalid credentials")
	}
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
