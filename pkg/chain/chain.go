// Package chain describes the network the presale is deployed on.
package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainsafe/presale-dashboard/pkg/config"
)

// Network is the static description of the target chain and its deployed contracts.
type Network struct {
	ChainID        uint64
	Name           string
	RPCURL         string
	ExplorerURL    string
	NativeCurrency config.NativeCurrency

	Presale common.Address
	Token   common.Address
	USDC    common.Address
}

// NewNetwork builds a Network from config.
func NewNetwork(chainCfg config.ChainConfig, contracts config.ContractsConfig) *Network {
	return &Network{
		ChainID:        chainCfg.ChainID,
		Name:           chainCfg.Name,
		RPCURL:         chainCfg.RPCURL,
		ExplorerURL:    strings.TrimRight(chainCfg.ExplorerURL, "/"),
		NativeCurrency: chainCfg.NativeCurrency,
		Presale:        common.HexToAddress(contracts.Presale),
		Token:          common.HexToAddress(contracts.Token),
		USDC:           common.HexToAddress(contracts.USDC),
	}
}

// ChainIDBig returns the chain id as a big.Int, as go-ethereum signers expect.
func (n *Network) ChainIDBig() *big.Int {
	return new(big.Int).SetUint64(n.ChainID)
}

// HexChainID returns the chain id in the 0x-prefixed form wallets use (369 -> "0x171").
func (n *Network) HexChainID() string {
	return hexutil.EncodeUint64(n.ChainID)
}

// AddressURL links an address on the block explorer.
func (n *Network) AddressURL(addr string) string {
	if n.ExplorerURL == "" {
		return ""
	}
	return n.ExplorerURL + "/address/" + addr
}

// TxURL links a transaction on the block explorer.
func (n *Network) TxURL(hash string) string {
	if n.ExplorerURL == "" {
		return ""
	}
	return n.ExplorerURL + "/tx/" + hash
}

// AddChainParams is the wallet_addEthereumChain payload (EIP-3085).
type AddChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    CurrencyParams `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

// CurrencyParams describes the native currency in AddChainParams.
type CurrencyParams struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// SwitchChainParams is the wallet_switchEthereumChain payload (EIP-3326).
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// AddChainParams returns the chain definition a wallet needs to learn this network.
func (n *Network) AddChainParams() AddChainParams {
	params := AddChainParams{
		ChainID:   n.HexChainID(),
		ChainName: n.Name,
		NativeCurrency: CurrencyParams{
			Name:     n.NativeCurrency.Name,
			Symbol:   n.NativeCurrency.Symbol,
			Decimals: n.NativeCurrency.Decimals,
		},
		RPCURLs: []string{n.RPCURL},
	}
	if n.ExplorerURL != "" {
		params.BlockExplorerURLs = []string{n.ExplorerURL}
	}
	return params
}

// SwitchChainParams returns the payload asking a wallet to switch to this network.
func (n *Network) SwitchChainParams() SwitchChainParams {
	return SwitchChainParams{ChainID: n.HexChainID()}
}
