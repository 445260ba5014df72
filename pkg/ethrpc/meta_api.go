package ethrpc

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ClientVersion is reported by web3_clientVersion.
var ClientVersion = "presale-dashboard/1.0.0"

// netAPI answers the net_* requests wallets and explorers send before anything else.
type netAPI struct {
	chainID uint64
}

// Version returns the chain id in decimal.
func (api *netAPI) Version() string {
	return strconv.FormatUint(api.chainID, 10)
}

// Listening is always true; the facade has no peers.
func (api *netAPI) Listening() bool {
	return true
}

type web3API struct{}

func (web3API) ClientVersion() string {
	return ClientVersion
}

func (web3API) Sha3(input hexutil.Bytes) hexutil.Bytes {
	return crypto.Keccak256(input)
}
