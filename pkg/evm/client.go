package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/config"
)

const defaultPollInterval = 2 * time.Second

// Client is the public-RPC chain client. Without a signer it serves the
// read-only fallback; with one it also submits operator transactions.
type Client struct {
	client  *ethclient.Client
	chainID *big.Int
	logger  *zap.Logger

	privateKey   *ecdsa.PrivateKey
	address      common.Address
	gasLimit     uint64
	maxGasPrice  *big.Int
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithSigner enables transaction submission with the given key.
func WithSigner(key *ecdsa.PrivateKey) Option {
	return func(c *Client) {
		c.privateKey = key
		c.address = crypto.PubkeyToAddress(key.PublicKey)
	}
}

// WithGasLimit fixes the gas limit instead of estimating it per transaction.
func WithGasLimit(limit uint64) Option {
	return func(c *Client) { c.gasLimit = limit }
}

// WithMaxGasPrice caps the suggested gas price.
func WithMaxGasPrice(price *big.Int) Option {
	return func(c *Client) { c.maxGasPrice = price }
}

// WithPollInterval sets how often WaitMined polls for a receipt.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// Dial connects to the RPC endpoint in cfg.
func Dial(ctx context.Context, cfg config.ChainConfig, logger *zap.Logger, opts ...Option) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain RPC: %w", err)
	}

	c := NewClient(rpcClient, cfg.ChainID, logger, opts...)

	fields := []zap.Field{
		zap.Uint64("chain_id", cfg.ChainID),
		zap.String("rpc_url", cfg.RPCURL),
	}
	if c.privateKey != nil {
		fields = append(fields, zap.String("signer", c.address.Hex()))
	}
	logger.Info("Connected to chain RPC", fields...)

	return c, nil
}

// NewClient wraps an existing rpc.Client.
func NewClient(rpcClient *rpc.Client, chainID uint64, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		client:       ethclient.NewClient(rpcClient),
		chainID:      new(big.Int).SetUint64(chainID),
		logger:       logger,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close closes the underlying RPC connection
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// CallContract executes a read-only call at the given block (nil for latest).
func (c *Client) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.client.CallContract(ctx, call, blockNumber)
}

// FilterLogs returns logs matching q.
func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return c.client.FilterLogs(ctx, q)
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.client.BlockNumber(ctx)
}

// BalanceAt returns the native balance of account at blockNumber (nil for latest).
func (c *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return c.client.BalanceAt(ctx, account, blockNumber)
}

// NonceAt returns the transaction count of account at blockNumber (nil for latest).
func (c *Client) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	return c.client.NonceAt(ctx, account, blockNumber)
}

// BlockByNumber returns a full block including transactions.
func (c *Client) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	return c.client.BlockByNumber(ctx, number)
}

// ChainID returns the configured chain id.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// From returns the signer address, or the zero address for a read-only client.
func (c *Client) From() common.Address {
	return c.address
}

// GetTransactor returns signing options with nonce and a capped gas price filled in.
func (c *Client) GetTransactor(ctx context.Context) (*bind.TransactOpts, error) {
	if c.privateKey == nil {
		return nil, ErrReadOnly
	}

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	nonce, err := c.client.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.GasLimit = c.gasLimit

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}
	if c.maxGasPrice != nil && gasPrice.Cmp(c.maxGasPrice) > 0 {
		c.logger.Warn("Suggested gas price exceeds maximum",
			zap.String("suggested", gasPrice.String()),
			zap.String("max", c.maxGasPrice.String()))
		gasPrice = new(big.Int).Set(c.maxGasPrice)
	}
	auth.GasPrice = gasPrice
	auth.Context = ctx

	return auth, nil
}

// SendTransaction signs and broadcasts a call to contract `to`.
func (c *Client) SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	auth, err := c.GetTransactor(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	gasLimit := auth.GasLimit
	if gasLimit == 0 {
		gasLimit, err = c.client.EstimateGas(ctx, ethereum.CallMsg{
			From: c.address,
			To:   &to,
			Data: data,
		})
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", WrapRevert(err))
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    auth.Nonce.Uint64(),
		To:       &to,
		Gas:      gasLimit,
		GasPrice: auth.GasPrice,
		Data:     data,
	})

	signed, err := auth.Signer(auth.From, tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", WrapRevert(err))
	}

	c.logger.Info("Submitted transaction",
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", signed.Nonce()),
		zap.Uint64("gas", gasLimit))

	return signed.Hash(), nil
}

// WaitMined polls for the receipt of hash until it is mined or ctx ends.
func (c *Client) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			c.logger.Debug("Receipt lookup failed", zap.String("tx_hash", hash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// LoadPrivateKey parses a hex-encoded secp256k1 key with or without 0x prefix.
func LoadPrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	return key, nil
}

// ParseGasPrice parses a decimal wei amount. Empty input means no cap.
func ParseGasPrice(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	price, ok := new(big.Int).SetString(s, 10)
	if !ok || price.Sign() <= 0 {
		return nil, fmt.Errorf("invalid gas price %q", s)
	}
	return price, nil
}
