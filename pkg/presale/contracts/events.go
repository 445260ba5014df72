package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// BuyLog is a decoded Buy(address indexed buyer, uint256 usdcIn, uint256 tokensOut) log.
type BuyLog struct {
	Buyer       common.Address
	USDCIn      *big.Int
	TokensOut   *big.Int
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
}

// BuyTopic is the topic0 of the Buy event.
func BuyTopic() common.Hash {
	return presaleABI.Events[EventBuy].ID
}

// DecodeBuy decodes a raw Buy log. Logs with the wrong topic layout or data
// length are rejected.
func DecodeBuy(l types.Log) (*BuyLog, error) {
	if len(l.Topics) != 2 || l.Topics[0] != BuyTopic() {
		return nil, fmt.Errorf("%w: not a Buy log (%d topics)", ErrUnexpectedShape, len(l.Topics))
	}

	values, err := presaleABI.Unpack(EventBuy, l.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: Buy data: %v", ErrUnexpectedShape, err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("%w: Buy carried %d values", ErrUnexpectedShape, len(values))
	}
	usdcIn, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: Buy usdcIn is %T", ErrUnexpectedShape, values[0])
	}
	tokensOut, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: Buy tokensOut is %T", ErrUnexpectedShape, values[1])
	}

	return &BuyLog{
		Buyer:       common.BytesToAddress(l.Topics[1].Bytes()),
		USDCIn:      usdcIn,
		TokensOut:   tokensOut,
		BlockNumber: l.BlockNumber,
		TxHash:      l.TxHash,
		LogIndex:    l.Index,
	}, nil
}

// EncodeBuy builds the raw log for a Buy event emitted by presale.
func EncodeBuy(presale common.Address, ev BuyLog) (types.Log, error) {
	data, err := presaleABI.Events[EventBuy].Inputs.NonIndexed().Pack(ev.USDCIn, ev.TokensOut)
	if err != nil {
		return types.Log{}, fmt.Errorf("failed to pack Buy data: %w", err)
	}
	return types.Log{
		Address:     presale,
		Topics:      []common.Hash{BuyTopic(), common.BytesToHash(ev.Buyer.Bytes())},
		Data:        data,
		BlockNumber: ev.BlockNumber,
		TxHash:      ev.TxHash,
		Index:       ev.LogIndex,
	}, nil
}
