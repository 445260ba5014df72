package evm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReverted marks a transaction or call the contract rejected.
var ErrReverted = errors.New("contract reverted")

// RevertReason trims a node error down to its "execution reverted" part, which is
// what users need to see. Other errors are returned verbatim.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if i := strings.Index(s, "execution reverted"); i >= 0 {
		return s[i:]
	}
	return s
}

// IsRevert reports whether err carries an on-chain revert.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrReverted) || strings.Contains(err.Error(), "execution reverted")
}

// WrapRevert converts a node revert into ErrReverted, leaving other errors untouched.
func WrapRevert(err error) error {
	if err == nil || errors.Is(err, ErrReverted) {
		return err
	}
	if strings.Contains(err.Error(), "execution reverted") {
		return fmt.Errorf("%w: %s", ErrReverted, RevertReason(err))
	}
	return err
}

// CheckReceipt returns ErrReverted for a mined transaction with failed status.
func CheckReceipt(receipt *types.Receipt) error {
	if receipt == nil {
		return fmt.Errorf("missing receipt")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: transaction %s failed", ErrReverted, receipt.TxHash.Hex())
	}
	return nil
}
