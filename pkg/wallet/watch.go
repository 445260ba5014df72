package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

const (
	eventAccountsChanged = "accountsChanged"
	eventChainChanged    = "chainChanged"
)

// Watch subscribes to the wallet's accountsChanged and chainChanged
// notifications and applies them until StopWatching or ctx is done.
func (s *Session) Watch(ctx context.Context) error {
	if s.provider == nil {
		return ErrNoProviderDetected
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watchCancel != nil {
		return nil
	}

	accountsCh := make(chan []common.Address, 8)
	chainCh := make(chan hexutil.Uint64, 8)

	accountsSub, err := s.provider.Subscribe(ctx, eventAccountsChanged, accountsCh)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", eventAccountsChanged, err)
	}
	chainSub, err := s.provider.Subscribe(ctx, eventChainChanged, chainCh)
	if err != nil {
		accountsSub.Unsubscribe()
		return fmt.Errorf("subscribe %s: %w", eventChainChanged, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.watchCancel = cancel
	s.watchGen++
	gen := s.watchGen
	s.watchWG.Add(1)

	go func() {
		defer s.watchWG.Done()
		defer accountsSub.Unsubscribe()
		defer chainSub.Unsubscribe()
		defer s.clearWatch(gen, cancel)

		for {
			select {
			case <-watchCtx.Done():
				return
			case accounts := <-accountsCh:
				s.HandleAccountsChanged(accounts)
			case id := <-chainCh:
				s.HandleChainChanged(uint64(id))
			case err := <-accountsSub.Err():
				s.logger.Warn("Wallet notification stream closed", zap.String("event", eventAccountsChanged), zap.Error(err))
				return
			case err := <-chainSub.Err():
				s.logger.Warn("Wallet notification stream closed", zap.String("event", eventChainChanged), zap.Error(err))
				return
			}
		}
	}()

	s.logger.Info("Watching wallet notifications")
	return nil
}

// clearWatch forgets the loop of generation gen so a later Watch can
// subscribe again after the stream closed.
func (s *Session) clearWatch(gen uint64, cancel context.CancelFunc) {
	s.watchMu.Lock()
	if s.watchGen == gen {
		s.watchCancel = nil
	}
	s.watchMu.Unlock()
	cancel()
}

// StopWatching stops the notification loop and waits for it to exit.
func (s *Session) StopWatching() {
	s.watchMu.Lock()
	cancel := s.watchCancel
	s.watchCancel = nil
	s.watchMu.Unlock()

	if cancel != nil {
		cancel()
		s.watchWG.Wait()
	}
}
