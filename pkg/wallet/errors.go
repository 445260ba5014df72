package wallet

import (
	"errors"

	"github.com/ethereum/go-ethereum/rpc"
)

// EIP-1193 / EIP-3085 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnrecognizedChain = 4902
	codeMethodNotFound    = -32601
)

var (
	ErrNoProviderDetected = errors.New("no wallet provider detected")
	ErrUserRejected       = errors.New("user rejected the request")
	ErrWrongNetwork       = errors.New("wallet is connected to the wrong network")
	ErrNotConnected       = errors.New("wallet is not connected")
	ErrNoAccounts         = errors.New("wallet returned no accounts")
)

// ProviderErrorCode extracts the JSON-RPC error code a wallet returned.
func ProviderErrorCode(err error) (int, bool) {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode(), true
	}
	return 0, false
}

func isUserRejection(err error) bool {
	code, ok := ProviderErrorCode(err)
	return ok && (code == CodeUserRejected || code == CodeUnauthorized)
}

func isUnrecognizedChain(err error) bool {
	code, ok := ProviderErrorCode(err)
	return ok && code == CodeUnrecognizedChain
}

func isMethodNotFound(err error) bool {
	code, ok := ProviderErrorCode(err)
	return ok && code == codeMethodNotFound
}
