package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	"github.com/chainsafe/presale-dashboard/pkg/auth"
	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/config"
	"github.com/chainsafe/presale-dashboard/pkg/dashboard"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/sacrifice"
	"github.com/chainsafe/presale-dashboard/pkg/schedule"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type fakeSource struct {
	snapshot *presale.Snapshot
	roster   presale.Roster
	status   dashboard.Status
}

func (f *fakeSource) LatestSnapshot() *presale.Snapshot { return f.snapshot }
func (f *fakeSource) Roster() presale.Roster            { return f.roster }
func (f *fakeSource) Status() dashboard.Status          { return f.status }
func (f *fakeSource) Position(address common.Address) presale.UserPosition {
	return presale.DeriveUserPosition(f.roster, address)
}

type fakeTracker struct {
	summary *sacrifice.Summary
	err     error
}

func (f *fakeTracker) Summary(context.Context) (*sacrifice.Summary, error) { return f.summary, f.err }

type fakeScheduler struct {
	current *schedule.Schedule
}

func (f *fakeScheduler) Get(context.Context) (*schedule.Schedule, error) {
	if f.current == nil {
		return nil, apperrors.ResourceNotFoundError(schedule.ErrNotFound, "sale schedule not set")
	}
	return f.current, nil
}

func (f *fakeScheduler) Set(_ context.Context, startsAt, endsAt time.Time, by common.Address) (*schedule.Schedule, error) {
	f.current = &schedule.Schedule{StartsAt: startsAt, EndsAt: endsAt, UpdatedBy: by, UpdatedAt: time.Now()}
	return f.current, nil
}

type fakeAdmin struct {
	loginErr error
	authErr  error
}

func (f *fakeAdmin) Login(string, string) (*auth.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &auth.Session{Address: alice, Token: "token"}, nil
}

func (f *fakeAdmin) Authorize(string) (common.Address, error) {
	return alice, f.authErr
}

func liveSnapshot() *presale.Snapshot {
	tokens, _ := new(big.Int).SetString("6250000000000000000000", 10)
	presaleTokens, _ := new(big.Int).SetString("50000000000000000000000000", 10)
	sold, _ := new(big.Int).SetString("12500000000000000000000000", 10)
	return &presale.Snapshot{
		IsLive:        true,
		IsOngoing:     true,
		SoldTokens:    sold,
		TotalUSDCIn:   big.NewInt(2000_000000),
		PresaleTokens: presaleTokens,
		HardCapUSDC:   big.NewInt(8000_000000),
		MinUSDC:       big.NewInt(10_000000),
		TokensPerUSDC: tokens,
		USDCDecimals:  6,
		BlockNumber:   1000,
		Source:        presale.SourceRPC,
	}
}

func newTestService(source Source, deps Deps) *dashboardService {
	network := chain.NewNetwork(config.ChainConfig{
		ChainID:        369,
		Name:           "PulseChain",
		RPCURL:         "https://rpc.pulsechain.com",
		ExplorerURL:    "https://scan.pulsechain.com/",
		NativeCurrency: config.NativeCurrency{Name: "Pulse", Symbol: "PLS", Decimals: 18},
	}, config.ContractsConfig{
		Presale: "0x10fA1126291D5576A2a2fD2Ae5c9125F663f726e",
		Token:   "0xD6c9B6Ba58c29Db06f1ab375Cb820f166C41e77D",
		USDC:    "0x15D38573d2feeb82e7ad5187aB8c1D52810B1f07",
	})
	cfg := Config{TokenSymbol: "PROVEX", TokenDecimals: 18, USDCDecimals: 6}
	return NewService(network, source, cfg, deps, zap.NewNop()).(*dashboardService)
}

func testRoster() presale.Roster {
	return presale.DeriveGlobalRoster([]presale.PurchaseEvent{
		{Buyer: alice, USDCIn: big.NewInt(20_000000), TokensOut: big.NewInt(0), BlockNumber: 10, TxHash: common.HexToHash("0x01")},
		{Buyer: bob, USDCIn: big.NewInt(30_500000), TokensOut: big.NewInt(0), BlockNumber: 12, TxHash: common.HexToHash("0x02")},
		{Buyer: alice, USDCIn: big.NewInt(10_000000), TokensOut: big.NewInt(0), BlockNumber: 15, TxHash: common.HexToHash("0x03")},
	})
}

func TestChain(t *testing.T) {
	svc := newTestService(&fakeSource{}, Deps{})

	info, err := svc.Chain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x171", info.HexChainID)
	assert.Equal(t, "0x171", info.SwitchParams.ChainID)
	assert.Equal(t, "PLS", info.AddChainParams.NativeCurrency.Symbol)
	assert.Equal(t, "https://scan.pulsechain.com", info.ExplorerURL)
}

func TestSnapshot_NotLoaded(t *testing.T) {
	svc := newTestService(&fakeSource{}, Deps{})

	_, err := svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryRecovering))
}

func TestSnapshot_Formats(t *testing.T) {
	snap := liveSnapshot()
	snap.Account = &presale.AccountState{
		Address:         alice,
		Contribution:    big.NewInt(30_000000),
		PurchasedTokens: new(big.Int).Mul(big.NewInt(187500), big.NewInt(1e18)),
	}
	svc := newTestService(&fakeSource{snapshot: snap, status: dashboard.Status{Stale: true}}, Deps{})

	view, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, presale.StatusLive, view.Status)
	assert.Equal(t, "25.00", view.Progress)
	assert.Equal(t, "25.00", view.HardCapProgress)
	assert.Equal(t, "2000", view.TotalUSDCIn)
	assert.Equal(t, "6000", view.RemainingUSDC)
	assert.Equal(t, "6250", view.TokensPerUSDC)
	assert.True(t, view.CanBuy)
	assert.True(t, view.Stale)
	require.NotNil(t, view.Account)
	assert.Equal(t, "30", view.Account.Contribution)
	assert.Equal(t, "187500", view.Account.PurchasedTokens)
	assert.Equal(t, "https://scan.pulsechain.com/address/0x10fA1126291D5576A2a2fD2Ae5c9125F663f726e", view.PresaleURL)
}

func TestParticipants(t *testing.T) {
	svc := newTestService(&fakeSource{roster: testRoster()}, Deps{})

	all, err := svc.Participants(context.Background(), "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 2, all.Participants)
	require.Len(t, all.Items, 3)
	assert.Equal(t, uint64(15), all.Items[0].BlockNumber)
	assert.Len(t, all.Items[0].BuyerShort, 13)
	assert.Equal(t, "30.5", all.Items[1].USDCIn)

	filtered, err := svc.Participants(context.Background(), "B0B", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Total)

	page, err := svc.Participants(context.Background(), "", 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, uint64(10), page.Items[0].BlockNumber)

	_, err = svc.Participants(context.Background(), "", -1, 0)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestPosition(t *testing.T) {
	svc := newTestService(&fakeSource{roster: testRoster()}, Deps{})

	pos, err := svc.Position(context.Background(), "0x00000000000000000000000000000000000A11CE")
	require.NoError(t, err)
	assert.Equal(t, "30", pos.TotalContributed)
	assert.Len(t, pos.Purchases, 2)

	_, err = svc.Position(context.Background(), "not-an-address")
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestEstimate(t *testing.T) {
	svc := newTestService(&fakeSource{snapshot: liveSnapshot()}, Deps{})

	view, err := svc.Estimate(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, "625000", view.Tokens)
	assert.True(t, view.Valid)

	view, err = svc.Estimate(context.Background(), "5")
	require.NoError(t, err)
	assert.False(t, view.Valid)
	assert.NotEmpty(t, view.Reason)

	view, err = svc.Estimate(context.Background(), "6000.000001")
	require.NoError(t, err)
	assert.False(t, view.Valid)

	_, err = svc.Estimate(context.Background(), "1.0000001")
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestSacrifice(t *testing.T) {
	disabled := newTestService(&fakeSource{}, Deps{})
	_, err := disabled.Sacrifice(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))

	tracker := &fakeTracker{summary: &sacrifice.Summary{
		Address: bob,
		Balance: new(big.Int).Mul(big.NewInt(3), big.NewInt(1e18)),
		TxCount: 4,
		Transfers: []sacrifice.Transfer{
			{Hash: common.HexToHash("0xaa"), From: alice, Value: big.NewInt(5e17), BlockNumber: 9},
		},
	}}
	svc := newTestService(&fakeSource{}, Deps{Sacrifice: tracker})

	view, err := svc.Sacrifice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3", view.Balance)
	assert.Equal(t, "PLS", view.Symbol)
	require.Len(t, view.Transfers, 1)
	assert.Equal(t, "0.5", view.Transfers[0].Value)

	tracker.summary, tracker.err = nil, errors.New("rpc down")
	_, err = svc.Sacrifice(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.CategoryDependencyFailure))
}

func TestSchedule(t *testing.T) {
	disabled := newTestService(&fakeSource{}, Deps{})
	_, err := disabled.Schedule(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))

	sched := &fakeScheduler{}
	svc := newTestService(&fakeSource{}, Deps{Schedule: sched})
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err = svc.Schedule(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))

	view, err := svc.SetSchedule(context.Background(), &ScheduleRequest{
		StartsAt: now.Add(time.Hour),
		EndsAt:   now.Add(48 * time.Hour),
	}, alice)
	require.NoError(t, err)
	assert.Equal(t, schedule.PhaseUpcoming, view.Phase)
	assert.Equal(t, alice.Hex(), view.UpdatedBy)
}

func TestAdmin(t *testing.T) {
	disabled := newTestService(&fakeSource{}, Deps{})
	_, err := disabled.AdminLogin(context.Background(), &LoginRequest{Message: "m", Signature: "s"})
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))

	admin := &fakeAdmin{}
	svc := newTestService(&fakeSource{}, Deps{Admin: admin})

	_, err = svc.AdminLogin(context.Background(), &LoginRequest{})
	assert.True(t, apperrors.Is(err, apperrors.CategoryUnauthorized))

	session, err := svc.AdminLogin(context.Background(), &LoginRequest{Message: "m", Signature: "s"})
	require.NoError(t, err)
	assert.Equal(t, "token", session.Token)

	tests := []struct {
		err  error
		want apperrors.Category
	}{
		{auth.ErrNotAllowed, apperrors.CategoryForbidden},
		{auth.ErrLoginExpired, apperrors.CategoryUnauthorized},
		{auth.ErrMalformedLogin, apperrors.CategoryDataError},
		{errors.New("bad signature"), apperrors.CategoryUnauthorized},
	}
	for _, tt := range tests {
		admin.loginErr = tt.err
		_, err := svc.AdminLogin(context.Background(), &LoginRequest{Message: "m", Signature: "s"})
		assert.True(t, apperrors.Is(err, tt.want), "login error %v", tt.err)
	}

	_, err = svc.AuthorizeAdmin(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.CategoryUnauthorized))

	admin.authErr = auth.ErrInvalidToken
	_, err = svc.AuthorizeAdmin(context.Background(), "token")
	assert.True(t, apperrors.Is(err, apperrors.CategoryUnauthorized))

	admin.authErr = nil
	addr, err := svc.AuthorizeAdmin(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, alice, addr)
}
