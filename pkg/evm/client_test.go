package evm

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testChainID = 369

// fakeNode serves the eth_* methods the keyed sender uses.
type fakeNode struct {
	mu            sync.Mutex
	gasPrice      *big.Int
	nonce         uint64
	sent          []*types.Transaction
	receiptPolls  int
	readyAfter    int
	receiptStatus uint64
}

func (n *fakeNode) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(n.gasPrice)
}

func (n *fakeNode) GetTransactionCount(_ common.Address, _ string) hexutil.Uint64 {
	return hexutil.Uint64(n.nonce)
}

func (n *fakeNode) SendRawTransaction(data hexutil.Bytes) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(data); err != nil {
		return common.Hash{}, err
	}
	n.mu.Lock()
	n.sent = append(n.sent, tx)
	n.mu.Unlock()
	return tx.Hash(), nil
}

func (n *fakeNode) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receiptPolls++
	if n.receiptPolls <= n.readyAfter {
		return nil, nil
	}
	return &types.Receipt{
		Status:      n.receiptStatus,
		TxHash:      hash,
		BlockNumber: big.NewInt(100),
		Logs:        []*types.Log{},
	}, nil
}

func newTestClient(t *testing.T, node *fakeNode, opts ...Option) *Client {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", node))
	t.Cleanup(server.Stop)

	c := NewClient(rpc.DialInProc(server), testChainID, zap.NewNop(), opts...)
	t.Cleanup(c.Close)
	return c
}

func TestClient_SendTransaction_SignsWithCappedGasPrice(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	node := &fakeNode{gasPrice: big.NewInt(100), nonce: 7}
	c := newTestClient(t, node,
		WithSigner(key),
		WithGasLimit(210000),
		WithMaxGasPrice(big.NewInt(50)),
	)

	to := common.HexToAddress("0x10fA1126291D5576A2a2fD2Ae5c9125F663f726e")
	hash, err := c.SendTransaction(context.Background(), to, []byte{0xde, 0xad})
	require.NoError(t, err)

	require.Len(t, node.sent, 1)
	tx := node.sent[0]
	require.Equal(t, hash, tx.Hash())
	require.Equal(t, uint64(7), tx.Nonce())
	require.Equal(t, uint64(210000), tx.Gas())
	require.Zero(t, tx.GasPrice().Cmp(big.NewInt(50)))
	require.Equal(t, to, *tx.To())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(testChainID)), tx)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
	require.Equal(t, sender, c.From())
}

func TestClient_SendTransaction_ReadOnly(t *testing.T) {
	c := newTestClient(t, &fakeNode{gasPrice: big.NewInt(1)})

	_, err := c.SendTransaction(context.Background(), common.Address{}, nil)
	require.True(t, errors.Is(err, ErrReadOnly))
}

func TestClient_WaitMined_PollsUntilReceipt(t *testing.T) {
	node := &fakeNode{readyAfter: 2, receiptStatus: types.ReceiptStatusSuccessful}
	c := newTestClient(t, node, WithPollInterval(5*time.Millisecond))

	hash := common.HexToHash("0x01")
	receipt, err := c.WaitMined(context.Background(), hash)
	require.NoError(t, err)
	require.Equal(t, hash, receipt.TxHash)
	require.NoError(t, CheckReceipt(receipt))
	require.Equal(t, 3, node.receiptPolls)
}

func TestClient_WaitMined_ContextCancelled(t *testing.T) {
	node := &fakeNode{readyAfter: 1 << 30}
	c := newTestClient(t, node, WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.WaitMined(ctx, common.HexToHash("0x02"))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCheckReceipt_Failed(t *testing.T) {
	err := CheckReceipt(&types.Receipt{Status: types.ReceiptStatusFailed})
	require.True(t, errors.Is(err, ErrReverted))
	require.True(t, IsRevert(err))
}

func TestRevertReason(t *testing.T) {
	err := errors.New("failed to estimate gas: execution reverted: below min")
	require.Equal(t, "execution reverted: below min", RevertReason(err))

	wrapped := WrapRevert(err)
	require.True(t, errors.Is(wrapped, ErrReverted))
	require.Contains(t, wrapped.Error(), "execution reverted: below min")

	plain := errors.New("connection refused")
	require.Equal(t, "connection refused", RevertReason(plain))
	require.Equal(t, plain, WrapRevert(plain))
	require.False(t, IsRevert(plain))
	require.Empty(t, RevertReason(nil))
}

func TestParseGasPrice(t *testing.T) {
	price, err := ParseGasPrice("")
	require.NoError(t, err)
	require.Nil(t, price)

	price, err = ParseGasPrice("1000000000")
	require.NoError(t, err)
	require.Equal(t, "1000000000", price.String())

	_, err = ParseGasPrice("-1")
	require.Error(t, err)
}

func TestLoadPrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := "0x" + common.Bytes2Hex(crypto.FromECDSA(key))

	loaded, err := LoadPrivateKey(hexKey)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(loaded.PublicKey))

	_, err = LoadPrivateKey("zz")
	require.Error(t, err)
}
