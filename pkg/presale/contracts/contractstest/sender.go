package contractstest

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainsafe/presale-dashboard/pkg/presale/contracts"
)

// Sender is a fake signer that applies presale and USDC writes to a Chain.
type Sender struct {
	Chain   *Chain
	Account common.Address

	// FailSend rejects the named method before it reaches the chain.
	FailSend map[string]error
	// Revert mines the named method with a failed status.
	Revert map[string]bool

	mu      sync.Mutex
	methods []string
	status  map[common.Hash]uint64
}

// NewSender returns a Sender acting for account.
func NewSender(chain *Chain, account common.Address) *Sender {
	return &Sender{
		Chain:    chain,
		Account:  account,
		FailSend: make(map[string]error),
		Revert:   make(map[string]bool),
		status:   make(map[common.Hash]uint64),
	}
}

// Methods returns the submitted method names in order.
func (s *Sender) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.methods...)
}

// From implements evm.Sender.
func (s *Sender) From() common.Address {
	return s.Account
}

// SendTransaction decodes the call, records it and applies its effect.
func (s *Sender) SendTransaction(_ context.Context, to common.Address, data []byte) (common.Hash, error) {
	parsed := contracts.PresaleContractABI()
	if to == USDCAddress {
		parsed = contracts.ERC20ContractABI()
	}
	method, err := parsed.MethodById(data[:4])
	if err != nil {
		return common.Hash{}, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return common.Hash{}, err
	}
	if err := s.FailSend[method.Name]; err != nil {
		return common.Hash{}, err
	}

	s.mu.Lock()
	s.methods = append(s.methods, method.Name)
	hash := common.BigToHash(big.NewInt(int64(len(s.methods))))
	reverted := s.Revert[method.Name]
	if reverted {
		s.status[hash] = types.ReceiptStatusFailed
	} else {
		s.status[hash] = types.ReceiptStatusSuccessful
	}
	s.mu.Unlock()

	if reverted {
		return hash, nil
	}

	switch method.Name {
	case contracts.MethodApprove:
		s.Chain.SetAllowance(s.Account, args[1].(*big.Int))
	case contracts.MethodBuy:
		s.Chain.AddPurchase(s.Account, args[0].(*big.Int), s.Chain.Head+1)
	case contracts.MethodFinalize:
		s.Chain.mu.Lock()
		s.Chain.Finalized = true
		s.Chain.Live = false
		s.Chain.mu.Unlock()
	case contracts.MethodSetLive:
		s.Chain.mu.Lock()
		s.Chain.Live = args[0].(bool)
		s.Chain.mu.Unlock()
	case contracts.MethodClaimTokens, contracts.MethodClaimRefund:
	default:
		return common.Hash{}, fmt.Errorf("unsupported method %s", method.Name)
	}
	return hash, nil
}

// WaitMined returns a receipt with the recorded status.
func (s *Sender) WaitMined(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.status[hash]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", hash.Hex())
	}
	return &types.Receipt{Status: status, TxHash: hash, BlockNumber: big.NewInt(int64(s.Chain.Head))}, nil
}
