package contracts

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrUnexpectedShape is returned when a call result does not decode into the
// type the caller asked for.
var ErrUnexpectedShape = errors.New("unexpected contract result shape")

// Caller executes read-only calls.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Contract binds an ABI to a deployed address.
type Contract struct {
	address common.Address
	abi     abi.ABI
}

// NewPresale binds the presale ABI to address.
func NewPresale(address common.Address) *Contract {
	return &Contract{address: address, abi: presaleABI}
}

// NewERC20 binds the ERC-20 ABI to address.
func NewERC20(address common.Address) *Contract {
	return &Contract{address: address, abi: erc20ABI}
}

// Address returns the bound contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// Pack encodes a call to method.
func (c *Contract) Pack(method string, args ...any) ([]byte, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	return data, nil
}

// CallUint256 reads a single uint256 result.
func (c *Contract) CallUint256(ctx context.Context, caller Caller, block *big.Int, method string, args ...any) (*big.Int, error) {
	out, err := c.call(ctx, caller, block, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := out.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %s returned %T, want uint256", ErrUnexpectedShape, method, out)
	}
	return v, nil
}

// CallBool reads a single bool result.
func (c *Contract) CallBool(ctx context.Context, caller Caller, block *big.Int, method string, args ...any) (bool, error) {
	out, err := c.call(ctx, caller, block, method, args...)
	if err != nil {
		return false, err
	}
	v, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s returned %T, want bool", ErrUnexpectedShape, method, out)
	}
	return v, nil
}

// CallAddress reads a single address result.
func (c *Contract) CallAddress(ctx context.Context, caller Caller, block *big.Int, method string, args ...any) (common.Address, error) {
	out, err := c.call(ctx, caller, block, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	v, ok := out.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s returned %T, want address", ErrUnexpectedShape, method, out)
	}
	return v, nil
}

// CallUint8 reads a single uint8 result.
func (c *Contract) CallUint8(ctx context.Context, caller Caller, block *big.Int, method string, args ...any) (uint8, error) {
	out, err := c.call(ctx, caller, block, method, args...)
	if err != nil {
		return 0, err
	}
	v, ok := out.(uint8)
	if !ok {
		return 0, fmt.Errorf("%w: %s returned %T, want uint8", ErrUnexpectedShape, method, out)
	}
	return v, nil
}

func (c *Contract) call(ctx context.Context, caller Caller, block *big.Int, method string, args ...any) (any, error) {
	data, err := c.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	raw, err := caller.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnexpectedShape, method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%w: %s returned %d values", ErrUnexpectedShape, method, len(values))
	}
	return values[0], nil
}
