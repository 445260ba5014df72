// Package evm wraps go-ethereum clients behind the narrow read and write surfaces
// the dashboard needs.
package evm

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReadOnly is returned when a write is attempted on a client without a signer.
var ErrReadOnly = errors.New("client has no signer configured")

// Reader is the read-only chain surface shared by the wallet provider and the
// fallback RPC. *ethclient.Client satisfies it.
type Reader interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Sender submits a contract call and waits for it to be mined.
// SendTransaction returns once the signer accepted the transaction.
type Sender interface {
	From() common.Address
	SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}
