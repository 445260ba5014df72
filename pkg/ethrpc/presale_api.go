package ethrpc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainsafe/presale-dashboard/pkg/presale"
)

// maxParticipantsPage bounds presale_participants responses.
const maxParticipantsPage = 500

// PresaleAPI implements the presale_* JSON-RPC namespace
type PresaleAPI struct {
	server *Server
}

// NewPresaleAPI creates a new PresaleAPI instance
func NewPresaleAPI(server *Server) *PresaleAPI {
	return &PresaleAPI{server: server}
}

// ChainId returns the chain the presale is deployed on.
func (api *PresaleAPI) ChainId() hexutil.Uint64 {
	return hexutil.Uint64(api.server.network.ChainID)
}

// Snapshot returns the last published sale snapshot.
func (api *PresaleAPI) Snapshot(ctx context.Context) (*RPCSnapshot, error) {
	snap, err := api.server.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return toRPCSnapshot(snap), nil
}

// Participants returns purchases newest first, optionally filtered by a buyer
// address substring and paged.
func (api *PresaleAPI) Participants(query *string, offset, limit *hexutil.Uint) []RPCPurchase {
	roster := api.server.source.Roster()
	if query != nil && *query != "" {
		roster = roster.Search(*query)
	}

	start, size := 0, maxParticipantsPage
	if offset != nil {
		start = int(*offset)
	}
	if limit != nil && *limit > 0 && int(*limit) < size {
		size = int(*limit)
	}
	return toRPCPurchases(roster.Page(start, size))
}

// Position returns address's aggregated purchases.
func (api *PresaleAPI) Position(address common.Address) *RPCPosition {
	pos := api.server.source.Position(address)
	return &RPCPosition{
		Address:             pos.Address,
		TotalContributed:    hexBig(pos.TotalContributed),
		TotalTokensReceived: hexBig(pos.TotalTokensReceived),
		Purchases:           toRPCPurchases(pos.Purchases),
	}
}

// Status returns the sale status text, progress and data freshness.
func (api *PresaleAPI) Status(ctx context.Context) (*RPCStatus, error) {
	snap, err := api.server.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	st := api.server.source.Status()
	return &RPCStatus{
		Status:       presale.Status(snap),
		Progress:     presale.Progress(snap).StringFixed(2),
		Participants: hexutil.Uint(api.server.source.Roster().Participants()),
		Stale:        st.Stale,
		SnapshotAt:   hexutil.Uint64(st.SnapshotAt.Unix()),
		RosterAt:     hexutil.Uint64(st.RosterAt.Unix()),
	}, nil
}
