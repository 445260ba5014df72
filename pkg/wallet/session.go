// Package wallet manages the connection to a user's EIP-1193 wallet: account
// access, network enforcement and change notifications.
package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/evm"
)

// State is a point-in-time copy of the session.
type State struct {
	Account        common.Address `json:"account"`
	Connected      bool           `json:"connected"`
	ChainID        uint64         `json:"chainId"`
	CorrectNetwork bool           `json:"correctNetwork"`
}

// Session is the single wallet session shared by every consumer. It is created
// at startup and passed by reference; Disconnect tears it down locally.
type Session struct {
	provider Provider
	network  *chain.Network
	reader   evm.Reader
	logger   *zap.Logger

	mu       sync.RWMutex
	state    State
	onReload []func()
	onAcct   []func(State)

	pollInterval time.Duration

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
	watchGen    uint64
	watchWG     sync.WaitGroup
}

// NewSession creates a disconnected session. provider may be nil when no wallet
// is available, in which case Connect reports ErrNoProviderDetected.
func NewSession(provider Provider, network *chain.Network, logger *zap.Logger) *Session {
	s := &Session{
		provider:     provider,
		network:      network,
		logger:       logger,
		pollInterval: defaultReceiptPollInterval,
	}
	if rp, ok := provider.(interface{ RPCClient() *rpc.Client }); ok {
		s.reader = ethclient.NewClient(rp.RPCClient())
	}
	return s
}

// HasProvider reports whether a wallet provider is present.
func (s *Session) HasProvider() bool {
	return s.provider != nil
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CanWrite reports whether transactions may be submitted: connected and on the expected chain.
func (s *Session) CanWrite() bool {
	st := s.Snapshot()
	return st.Connected && st.CorrectNetwork
}

// OnReload registers fn to run after a chain change. Dependent state must be
// rebuilt from scratch when it fires.
func (s *Session) OnReload(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// OnAccountChange registers fn to run when the active account changes or the
// session is torn down.
func (s *Session) OnAccountChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAcct = append(s.onAcct, fn)
}

// Restore re-establishes a session for a wallet that already authorized this
// dashboard, without prompting. It is a no-op when nothing is authorized.
func (s *Session) Restore(ctx context.Context) error {
	if s.provider == nil {
		return nil
	}

	var accounts []common.Address
	if err := s.provider.Request(ctx, &accounts, "eth_accounts"); err != nil {
		return apperrors.DependencyFailureError(fmt.Errorf("eth_accounts: %w", err), "failed to query wallet accounts")
	}
	if len(accounts) == 0 {
		return nil
	}

	s.setAccount(accounts[0])
	_, err := s.CheckNetwork(ctx)
	return err
}

// Connect requests account access from the wallet and checks the network.
func (s *Session) Connect(ctx context.Context) (State, error) {
	if s.provider == nil {
		return State{}, apperrors.DependencyFailureError(ErrNoProviderDetected, "no wallet detected, install a wallet to continue")
	}

	var accounts []common.Address
	if err := s.provider.Request(ctx, &accounts, "eth_requestAccounts"); err != nil {
		switch {
		case isUserRejection(err):
			return State{}, apperrors.ForbiddenError(fmt.Errorf("%w: %v", ErrUserRejected, err), "wallet connection was rejected")
		case isMethodNotFound(err):
			return State{}, apperrors.DependencyFailureError(fmt.Errorf("%w: %v", ErrNoProviderDetected, err), "no wallet detected, install a wallet to continue")
		default:
			return State{}, apperrors.DependencyFailureError(fmt.Errorf("eth_requestAccounts: %w", err), "failed to connect wallet")
		}
	}
	if len(accounts) == 0 {
		return State{}, apperrors.DependencyFailureError(ErrNoAccounts, "wallet returned no accounts")
	}

	s.setAccount(accounts[0])
	s.logger.Info("Wallet connected", zap.String("account", accounts[0].Hex()))

	if _, err := s.CheckNetwork(ctx); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// Disconnect clears the local session. Wallets offer no revocation for this
// kind of connection, so nothing is sent to the provider.
func (s *Session) Disconnect() {
	s.mu.Lock()
	wasConnected := s.state.Connected
	s.state = State{}
	hooks := append([]func(State){}, s.onAcct...)
	s.mu.Unlock()

	if wasConnected {
		s.logger.Info("Wallet disconnected")
		for _, fn := range hooks {
			fn(State{})
		}
	}
}

// CheckNetwork reads the wallet's active chain and records whether it matches
// the expected one.
func (s *Session) CheckNetwork(ctx context.Context) (bool, error) {
	if s.provider == nil {
		return false, apperrors.DependencyFailureError(ErrNoProviderDetected, "no wallet detected, install a wallet to continue")
	}

	var chainID hexutil.Uint64
	if err := s.provider.Request(ctx, &chainID, "eth_chainId"); err != nil {
		return false, apperrors.DependencyFailureError(fmt.Errorf("eth_chainId: %w", err), "failed to read wallet network")
	}

	correct := s.setChain(uint64(chainID))
	if !correct {
		s.logger.Warn("Wallet on unexpected network",
			zap.Uint64("chain_id", uint64(chainID)),
			zap.Uint64("expected_chain_id", s.network.ChainID))
	}
	return correct, nil
}

// SwitchNetwork asks the wallet to switch to the expected chain, adding the
// chain definition first if the wallet does not know it. Failures are
// returned to the caller and never retried.
func (s *Session) SwitchNetwork(ctx context.Context) error {
	if s.provider == nil {
		return apperrors.DependencyFailureError(ErrNoProviderDetected, "no wallet detected, install a wallet to continue")
	}

	err := s.provider.Request(ctx, nil, "wallet_switchEthereumChain", s.network.SwitchChainParams())
	if err != nil && isUnrecognizedChain(err) {
		s.logger.Info("Wallet does not know the chain, requesting add",
			zap.String("chain_id", s.network.HexChainID()))
		err = s.provider.Request(ctx, nil, "wallet_addEthereumChain", s.network.AddChainParams())
	}
	if err != nil {
		if isUserRejection(err) {
			return apperrors.ForbiddenError(fmt.Errorf("%w: %v", ErrUserRejected, err), "network switch was rejected")
		}
		return apperrors.DependencyFailureError(fmt.Errorf("switch network: %w", err), "failed to switch network")
	}

	correct, err := s.CheckNetwork(ctx)
	if err != nil {
		return err
	}
	if !correct {
		return apperrors.LockedError(ErrWrongNetwork, "wallet is still on the wrong network")
	}
	return nil
}

// HandleAccountsChanged applies an accountsChanged notification. An empty list
// means the wallet revoked access.
func (s *Session) HandleAccountsChanged(accounts []common.Address) {
	if len(accounts) == 0 {
		s.Disconnect()
		return
	}
	s.setAccount(accounts[0])
	s.logger.Info("Wallet account changed", zap.String("account", accounts[0].Hex()))
}

// HandleChainChanged applies a chainChanged notification and forces a reload of
// every dependent component.
func (s *Session) HandleChainChanged(chainID uint64) {
	s.setChain(chainID)
	s.logger.Info("Wallet network changed", zap.Uint64("chain_id", chainID))

	s.mu.RLock()
	hooks := append([]func(){}, s.onReload...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// ReadBackend returns the wallet-backed chain reader when the wallet is
// connected to the expected network. Reads against another chain would
// describe a different deployment, so callers fall back to the public RPC then.
func (s *Session) ReadBackend() (evm.Reader, bool) {
	if s.reader == nil || !s.CanWrite() {
		return nil, false
	}
	return s.reader, true
}

// Close stops notification watching and closes the provider.
func (s *Session) Close() {
	s.StopWatching()
	if s.provider != nil {
		s.provider.Close()
	}
}

func (s *Session) setAccount(account common.Address) {
	s.mu.Lock()
	changed := !s.state.Connected || s.state.Account != account
	s.state.Account = account
	s.state.Connected = true
	st := s.state
	hooks := append([]func(State){}, s.onAcct...)
	s.mu.Unlock()

	if changed {
		for _, fn := range hooks {
			fn(st)
		}
	}
}

func (s *Session) setChain(chainID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ChainID = chainID
	s.state.CorrectNetwork = chainID == s.network.ChainID
	return s.state.CorrectNetwork
}
