// Package ethrpc exposes the dashboard's read models as a JSON-RPC 2.0
// service under the presale_ namespace.
package ethrpc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/dashboard"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
)

// Source is the read side of the dashboard. *dashboard.Dashboard implements it.
type Source interface {
	LatestSnapshot() *presale.Snapshot
	Roster() presale.Roster
	Position(address common.Address) presale.UserPosition
	Status() dashboard.Status
}

// Server handles presale JSON-RPC requests
type Server struct {
	network   *chain.Network
	source    Source
	logger    *zap.Logger
	rpcServer *rpc.Server
}

// NewServer creates the JSON-RPC server and registers its namespaces.
func NewServer(network *chain.Network, source Source, logger *zap.Logger) (*Server, error) {
	s := &Server{
		network:   network,
		source:    source,
		logger:    logger,
		rpcServer: rpc.NewServer(),
	}

	if err := s.rpcServer.RegisterName("presale", NewPresaleAPI(s)); err != nil {
		return nil, fmt.Errorf("failed to register presale API: %w", err)
	}
	if err := s.rpcServer.RegisterName("net", &netAPI{chainID: network.ChainID}); err != nil {
		return nil, fmt.Errorf("failed to register net API: %w", err)
	}
	if err := s.rpcServer.RegisterName("web3", web3API{}); err != nil {
		return nil, fmt.Errorf("failed to register web3 API: %w", err)
	}

	logger.Info("Presale JSON-RPC server initialized",
		zap.Uint64("chain_id", network.ChainID),
		zap.String("presale", network.Presale.Hex()))

	return s, nil
}

// ServeHTTP handles HTTP requests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.rpcServer.ServeHTTP(w, r)
}

// Attach returns an in-process client for the server.
func (s *Server) Attach() *rpc.Client {
	return rpc.DialInProc(s.rpcServer)
}

// Stop shuts the server down and closes in-process clients.
func (s *Server) Stop() {
	s.rpcServer.Stop()
}

func (s *Server) snapshot(context.Context) (*presale.Snapshot, error) {
	snap := s.source.LatestSnapshot()
	if snap == nil {
		return nil, errSnapshotUnavailable
	}
	return snap, nil
}
