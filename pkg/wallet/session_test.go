package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/config"
)

var (
	testAccount  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	otherAccount = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	presaleAddr  = common.HexToAddress("0x10fA1126291D5576A2a2fD2Ae5c9125F663f726e")
)

type codedError struct {
	code int
	msg  string
}

func (e codedError) Error() string  { return e.msg }
func (e codedError) ErrorCode() int { return e.code }

// fakeWallet is an EIP-1193 wallet served over an in-process JSON-RPC server.
type fakeWallet struct {
	mu          sync.Mutex
	accounts    []common.Address
	authorized  bool
	chainID     uint64
	knownChains map[uint64]bool
	requestErr  error
	switchErr   error
	sendErr     error
	sent        []sendTxArgs
	receiptWait int

	notifiers map[string][]subscriber
}

type subscriber struct {
	notifier *rpc.Notifier
	sub      *rpc.Subscription
}

func newFakeWallet(chainID uint64) *fakeWallet {
	return &fakeWallet{
		accounts:    []common.Address{testAccount},
		chainID:     chainID,
		knownChains: map[uint64]bool{1: true, 369: true},
		notifiers:   map[string][]subscriber{},
	}
}

type ethAPI struct{ w *fakeWallet }

func (a ethAPI) RequestAccounts() ([]common.Address, error) {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.requestErr != nil {
		return nil, a.w.requestErr
	}
	a.w.authorized = true
	return a.w.accounts, nil
}

func (a ethAPI) Accounts() []common.Address {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if !a.w.authorized {
		return []common.Address{}
	}
	return a.w.accounts
}

func (a ethAPI) ChainId() hexutil.Uint64 {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	return hexutil.Uint64(a.w.chainID)
}

func (a ethAPI) SendTransaction(args sendTxArgs) (common.Hash, error) {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.sendErr != nil {
		return common.Hash{}, a.w.sendErr
	}
	a.w.sent = append(a.w.sent, args)
	return common.BigToHash(common.Big1), nil
}

func (a ethAPI) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.receiptWait > 0 {
		a.w.receiptWait--
		return nil, nil
	}
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      hash,
		Logs:        []*types.Log{},
		BlockNumber: common.Big1,
	}, nil
}

func (a ethAPI) AccountsChanged(ctx context.Context) (*rpc.Subscription, error) {
	return a.w.subscribe(ctx, eventAccountsChanged)
}

func (a ethAPI) ChainChanged(ctx context.Context) (*rpc.Subscription, error) {
	return a.w.subscribe(ctx, eventChainChanged)
}

type walletAPI struct{ w *fakeWallet }

func (a walletAPI) SwitchEthereumChain(params chain.SwitchChainParams) error {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.switchErr != nil {
		return a.w.switchErr
	}
	id, err := hexutil.DecodeUint64(params.ChainID)
	if err != nil {
		return err
	}
	if !a.w.knownChains[id] {
		return codedError{code: CodeUnrecognizedChain, msg: "unrecognized chain"}
	}
	a.w.chainID = id
	return nil
}

func (a walletAPI) AddEthereumChain(params chain.AddChainParams) error {
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	id, err := hexutil.DecodeUint64(params.ChainID)
	if err != nil {
		return err
	}
	a.w.knownChains[id] = true
	a.w.chainID = id
	return nil
}

func (w *fakeWallet) subscribe(ctx context.Context, event string) (*rpc.Subscription, error) {
	notifier, ok := rpc.NotifierFromContext(ctx)
	if !ok {
		return nil, rpc.ErrNotificationsUnsupported
	}
	sub := notifier.CreateSubscription()
	w.mu.Lock()
	w.notifiers[event] = append(w.notifiers[event], subscriber{notifier: notifier, sub: sub})
	w.mu.Unlock()
	return sub, nil
}

func (w *fakeWallet) emit(event string, payload any) {
	w.mu.Lock()
	subs := append([]subscriber{}, w.notifiers[event]...)
	w.mu.Unlock()
	for _, s := range subs {
		_ = s.notifier.Notify(s.sub.ID, payload)
	}
}

func (w *fakeWallet) subscriberCount(event string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.notifiers[event])
}

func testNetwork() *chain.Network {
	return chain.NewNetwork(config.ChainConfig{
		ChainID:     369,
		Name:        "PulseChain",
		RPCURL:      "https://rpc.pulsechain.com",
		ExplorerURL: "https://scan.pulsechain.com",
		NativeCurrency: config.NativeCurrency{
			Name: "Pulse", Symbol: "PLS", Decimals: 18,
		},
	}, config.ContractsConfig{Presale: presaleAddr.Hex()})
}

func newTestSession(t *testing.T, w *fakeWallet) *Session {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", ethAPI{w: w}))
	require.NoError(t, server.RegisterName("wallet", walletAPI{w: w}))
	t.Cleanup(server.Stop)

	s := NewSession(NewRPCProvider(rpc.DialInProc(server)), testNetwork(), zap.NewNop())
	s.SetReceiptPollInterval(5 * time.Millisecond)
	t.Cleanup(s.Close)
	return s
}

func TestConnect_NoProvider(t *testing.T) {
	s := NewSession(nil, testNetwork(), zap.NewNop())

	_, err := s.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoProviderDetected)
	require.True(t, apperrors.Is(err, apperrors.CategoryDependencyFailure))
	require.False(t, s.Snapshot().Connected)
	require.False(t, s.HasProvider())

	_, ok := s.ReadBackend()
	require.False(t, ok)
}

func TestConnect_CorrectNetwork(t *testing.T) {
	s := newTestSession(t, newFakeWallet(369))

	var notified []State
	s.OnAccountChange(func(st State) { notified = append(notified, st) })

	st, err := s.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, testAccount, st.Account)
	require.True(t, st.Connected)
	require.True(t, st.CorrectNetwork)
	require.EqualValues(t, 369, st.ChainID)
	require.True(t, s.CanWrite())
	require.Len(t, notified, 1)

	_, ok := s.ReadBackend()
	require.True(t, ok)
}

func TestConnect_WrongNetwork(t *testing.T) {
	s := newTestSession(t, newFakeWallet(1))

	st, err := s.Connect(context.Background())
	require.NoError(t, err)
	require.True(t, st.Connected)
	require.False(t, st.CorrectNetwork)
	require.False(t, s.CanWrite())

	_, ok := s.ReadBackend()
	require.False(t, ok, "reads must not go through a wallet on another chain")
}

func TestConnect_UserRejected(t *testing.T) {
	w := newFakeWallet(369)
	w.requestErr = codedError{code: CodeUserRejected, msg: "User rejected the request."}
	s := newTestSession(t, w)

	_, err := s.Connect(context.Background())
	require.ErrorIs(t, err, ErrUserRejected)
	require.True(t, apperrors.Is(err, apperrors.CategoryForbidden))
	require.False(t, s.Snapshot().Connected)
}

func TestConnect_MethodNotFound(t *testing.T) {
	w := newFakeWallet(369)
	w.requestErr = codedError{code: codeMethodNotFound, msg: "method not found"}
	s := newTestSession(t, w)

	_, err := s.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoProviderDetected)
}

func TestRestore(t *testing.T) {
	w := newFakeWallet(369)
	s := newTestSession(t, w)

	require.NoError(t, s.Restore(context.Background()))
	require.False(t, s.Snapshot().Connected, "nothing authorized yet")

	w.authorized = true
	require.NoError(t, s.Restore(context.Background()))
	require.True(t, s.Snapshot().Connected)
	require.Equal(t, testAccount, s.Snapshot().Account)
	require.True(t, s.Snapshot().CorrectNetwork)
}

func TestSwitchNetwork(t *testing.T) {
	t.Run("known chain", func(t *testing.T) {
		s := newTestSession(t, newFakeWallet(1))
		_, err := s.Connect(context.Background())
		require.NoError(t, err)

		require.NoError(t, s.SwitchNetwork(context.Background()))
		require.True(t, s.Snapshot().CorrectNetwork)
	})

	t.Run("unknown chain is added", func(t *testing.T) {
		w := newFakeWallet(1)
		delete(w.knownChains, 369)
		s := newTestSession(t, w)
		_, err := s.Connect(context.Background())
		require.NoError(t, err)

		require.NoError(t, s.SwitchNetwork(context.Background()))
		require.True(t, s.Snapshot().CorrectNetwork)
		require.True(t, w.knownChains[369])
	})

	t.Run("rejected", func(t *testing.T) {
		w := newFakeWallet(1)
		w.switchErr = codedError{code: CodeUserRejected, msg: "rejected"}
		s := newTestSession(t, w)
		_, err := s.Connect(context.Background())
		require.NoError(t, err)

		err = s.SwitchNetwork(context.Background())
		require.ErrorIs(t, err, ErrUserRejected)
		require.False(t, s.Snapshot().CorrectNetwork)
	})
}

func TestDisconnect(t *testing.T) {
	s := newTestSession(t, newFakeWallet(369))
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	var last *State
	s.OnAccountChange(func(st State) { last = &st })

	s.Disconnect()
	require.Equal(t, State{}, s.Snapshot())
	require.NotNil(t, last)
	require.False(t, last.Connected)
	require.False(t, s.CanWrite())
}

func TestWatch(t *testing.T) {
	w := newFakeWallet(369)
	s := newTestSession(t, w)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	reloads := make(chan struct{}, 1)
	s.OnReload(func() { reloads <- struct{}{} })

	require.NoError(t, s.Watch(context.Background()))
	require.Eventually(t, func() bool {
		return w.subscriberCount(eventAccountsChanged) == 1 && w.subscriberCount(eventChainChanged) == 1
	}, time.Second, 5*time.Millisecond)

	w.emit(eventAccountsChanged, []common.Address{otherAccount})
	require.Eventually(t, func() bool { return s.Snapshot().Account == otherAccount }, time.Second, 5*time.Millisecond)

	w.emit(eventChainChanged, hexutil.Uint64(1))
	select {
	case <-reloads:
	case <-time.After(time.Second):
		t.Fatal("reload hook not called")
	}
	require.False(t, s.Snapshot().CorrectNetwork)

	w.emit(eventAccountsChanged, []common.Address{})
	require.Eventually(t, func() bool { return !s.Snapshot().Connected }, time.Second, 5*time.Millisecond)

	s.StopWatching()
}

// stubProvider hands out subscriptions whose error channel the test controls.
type stubProvider struct {
	mu   sync.Mutex
	subs []*stubSubscription
}

type stubSubscription struct {
	errCh chan error
}

func (s *stubSubscription) Unsubscribe()      {}
func (s *stubSubscription) Err() <-chan error { return s.errCh }

func (p *stubProvider) Request(context.Context, any, string, ...any) error {
	return errors.New("not implemented")
}

func (p *stubProvider) Subscribe(context.Context, string, any) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sub := &stubSubscription{errCh: make(chan error, 1)}
	p.subs = append(p.subs, sub)
	return sub, nil
}

func (p *stubProvider) Close() {}

func (p *stubProvider) subscriptions() []*stubSubscription {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*stubSubscription(nil), p.subs...)
}

func TestWatch_ResubscribesAfterStreamClosed(t *testing.T) {
	p := &stubProvider{}
	s := NewSession(p, testNetwork(), zap.NewNop())
	defer s.StopWatching()

	require.NoError(t, s.Watch(context.Background()))
	require.Len(t, p.subscriptions(), 2)

	// A second Watch on a live loop is a no-op.
	require.NoError(t, s.Watch(context.Background()))
	require.Len(t, p.subscriptions(), 2)

	p.subscriptions()[0].errCh <- errors.New("connection lost")

	require.Eventually(t, func() bool {
		require.NoError(t, s.Watch(context.Background()))
		return len(p.subscriptions()) == 4
	}, time.Second, 5*time.Millisecond)
}

func TestSendTransaction(t *testing.T) {
	t.Run("requires connection", func(t *testing.T) {
		s := newTestSession(t, newFakeWallet(369))
		_, err := s.SendTransaction(context.Background(), presaleAddr, []byte{1})
		require.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("requires correct network", func(t *testing.T) {
		s := newTestSession(t, newFakeWallet(1))
		_, err := s.Connect(context.Background())
		require.NoError(t, err)

		_, err = s.SendTransaction(context.Background(), presaleAddr, []byte{1})
		require.ErrorIs(t, err, ErrWrongNetwork)
		require.True(t, apperrors.Is(err, apperrors.CategoryLocked))
	})

	t.Run("rejected in wallet", func(t *testing.T) {
		w := newFakeWallet(369)
		w.sendErr = codedError{code: CodeUserRejected, msg: "denied"}
		s := newTestSession(t, w)
		_, err := s.Connect(context.Background())
		require.NoError(t, err)

		_, err = s.SendTransaction(context.Background(), presaleAddr, []byte{1})
		require.ErrorIs(t, err, ErrUserRejected)
	})

	t.Run("submits and waits", func(t *testing.T) {
		w := newFakeWallet(369)
		w.receiptWait = 2
		s := newTestSession(t, w)
		_, err := s.Connect(context.Background())
		require.NoError(t, err)

		hash, err := s.SendTransaction(context.Background(), presaleAddr, []byte{0xde, 0xad})
		require.NoError(t, err)
		require.Len(t, w.sent, 1)
		require.Equal(t, testAccount, w.sent[0].From)
		require.Equal(t, presaleAddr, w.sent[0].To)
		require.Equal(t, hexutil.Bytes{0xde, 0xad}, w.sent[0].Data)

		receipt, err := s.WaitMined(context.Background(), hash)
		require.NoError(t, err)
		require.Equal(t, hash, receipt.TxHash)
	})

	t.Run("wait honours cancellation", func(t *testing.T) {
		w := newFakeWallet(369)
		w.receiptWait = 1 << 20
		s := newTestSession(t, w)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := s.WaitMined(ctx, common.Hash{})
		require.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}
