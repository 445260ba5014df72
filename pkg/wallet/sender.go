package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
)

const defaultReceiptPollInterval = 2 * time.Second

type sendTxArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value,omitempty"`
}

// SetReceiptPollInterval sets how often WaitMined asks the wallet for a receipt.
func (s *Session) SetReceiptPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// From returns the connected account.
func (s *Session) From() common.Address {
	return s.Snapshot().Account
}

// SendTransaction asks the wallet to sign and broadcast a contract call from the
// connected account. The wallet fills in gas and nonce.
func (s *Session) SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	if s.provider == nil {
		return common.Hash{}, apperrors.DependencyFailureError(ErrNoProviderDetected, "no wallet detected, install a wallet to continue")
	}
	st := s.Snapshot()
	if !st.Connected {
		return common.Hash{}, apperrors.UnAuthorizedError(ErrNotConnected, "connect a wallet first")
	}
	if !st.CorrectNetwork {
		return common.Hash{}, apperrors.LockedError(ErrWrongNetwork, "switch to the expected network first")
	}

	var hash common.Hash
	args := sendTxArgs{From: st.Account, To: to, Data: data}
	if err := s.provider.Request(ctx, &hash, "eth_sendTransaction", args); err != nil {
		if isUserRejection(err) {
			return common.Hash{}, apperrors.ForbiddenError(fmt.Errorf("%w: %v", ErrUserRejected, err), "transaction was rejected in the wallet")
		}
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}

	s.logger.Info("Wallet submitted transaction",
		zap.String("from", st.Account.Hex()),
		zap.String("to", to.Hex()),
		zap.String("tx_hash", hash.Hex()))
	return hash, nil
}

// WaitMined polls the wallet until the transaction has a receipt.
func (s *Session) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if s.provider == nil {
		return nil, apperrors.DependencyFailureError(ErrNoProviderDetected, "no wallet detected, install a wallet to continue")
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		err := s.provider.Request(ctx, &receipt, "eth_getTransactionReceipt", hash)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.logger.Debug("Receipt poll failed", zap.String("tx_hash", hash.Hex()), zap.Error(err))
		}
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
