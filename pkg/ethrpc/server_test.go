package ethrpc

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/dashboard"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type fakeSource struct {
	snapshot *presale.Snapshot
	roster   presale.Roster
	status   dashboard.Status
}

func (f *fakeSource) LatestSnapshot() *presale.Snapshot { return f.snapshot }
func (f *fakeSource) Roster() presale.Roster            { return f.roster }
func (f *fakeSource) Status() dashboard.Status          { return f.status }
func (f *fakeSource) Position(address common.Address) presale.UserPosition {
	return presale.DeriveUserPosition(f.roster, address)
}

func newTestClient(t *testing.T, source Source) *rpc.Client {
	t.Helper()
	network := &chain.Network{ChainID: 369, Name: "PulseChain"}
	srv, err := NewServer(network, source, zap.NewNop())
	require.NoError(t, err)

	client := srv.Attach()
	t.Cleanup(func() {
		client.Close()
		srv.Stop()
	})
	return client
}

func testRoster() presale.Roster {
	return presale.DeriveGlobalRoster([]presale.PurchaseEvent{
		{Buyer: alice, USDCIn: big.NewInt(20_000000), TokensOut: big.NewInt(125), BlockNumber: 10, TxHash: common.HexToHash("0x01")},
		{Buyer: bob, USDCIn: big.NewInt(30_000000), TokensOut: big.NewInt(187), BlockNumber: 12, TxHash: common.HexToHash("0x02")},
		{Buyer: alice, USDCIn: big.NewInt(10_000000), TokensOut: big.NewInt(62), BlockNumber: 15, TxHash: common.HexToHash("0x03")},
	})
}

func testSnapshot() *presale.Snapshot {
	return &presale.Snapshot{
		IsLive:        true,
		IsOngoing:     true,
		SoldTokens:    big.NewInt(25),
		TotalUSDCIn:   big.NewInt(60_000000),
		PresaleTokens: big.NewInt(100),
		HardCapUSDC:   big.NewInt(8000_000000),
		MinUSDC:       big.NewInt(10_000000),
		TokensPerUSDC: big.NewInt(6250),
		USDCDecimals:  6,
		BlockNumber:   15,
		FetchedAt:     time.Unix(1_700_000_000, 0),
		Source:        presale.SourceRPC,
	}
}

func TestPresale_Snapshot(t *testing.T) {
	client := newTestClient(t, &fakeSource{snapshot: testSnapshot()})

	var got RPCSnapshot
	require.NoError(t, client.CallContext(context.Background(), &got, "presale_snapshot"))

	assert.True(t, got.IsLive)
	assert.Equal(t, big.NewInt(60_000000), got.TotalUSDCIn.ToInt())
	assert.Equal(t, hexutil.Uint(6), got.USDCDecimals)
	assert.Equal(t, hexutil.Uint64(15), got.BlockNumber)
	assert.Equal(t, presale.SourceRPC, got.Source)
}

func TestPresale_SnapshotUnavailable(t *testing.T) {
	client := newTestClient(t, &fakeSource{})

	var got RPCSnapshot
	err := client.CallContext(context.Background(), &got, "presale_snapshot")
	require.Error(t, err)

	var rpcErr rpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32000, rpcErr.ErrorCode())
}

func TestPresale_Participants(t *testing.T) {
	client := newTestClient(t, &fakeSource{roster: testRoster()})

	var all []RPCPurchase
	require.NoError(t, client.CallContext(context.Background(), &all, "presale_participants"))
	require.Len(t, all, 3)
	assert.Equal(t, hexutil.Uint64(15), all[0].BlockNumber)
	assert.Equal(t, hexutil.Uint64(10), all[2].BlockNumber)

	var filtered []RPCPurchase
	require.NoError(t, client.CallContext(context.Background(), &filtered, "presale_participants", "B0B"))
	require.Len(t, filtered, 1)
	assert.Equal(t, bob, filtered[0].Buyer)

	var page []RPCPurchase
	require.NoError(t, client.CallContext(context.Background(), &page, "presale_participants", "", hexutil.Uint(1), hexutil.Uint(1)))
	require.Len(t, page, 1)
	assert.Equal(t, hexutil.Uint64(12), page[0].BlockNumber)
}

func TestPresale_Position(t *testing.T) {
	client := newTestClient(t, &fakeSource{roster: testRoster()})

	var pos RPCPosition
	require.NoError(t, client.CallContext(context.Background(), &pos, "presale_position", alice))

	assert.Equal(t, alice, pos.Address)
	assert.Equal(t, big.NewInt(30_000000), pos.TotalContributed.ToInt())
	assert.Equal(t, big.NewInt(187), pos.TotalTokensReceived.ToInt())
	assert.Len(t, pos.Purchases, 2)
}

func TestPresale_Status(t *testing.T) {
	at := time.Unix(1_700_000_100, 0)
	client := newTestClient(t, &fakeSource{
		snapshot: testSnapshot(),
		roster:   testRoster(),
		status:   dashboard.Status{SnapshotAt: at, RosterAt: at, Stale: true},
	})

	var st RPCStatus
	require.NoError(t, client.CallContext(context.Background(), &st, "presale_status"))

	assert.Equal(t, presale.StatusLive, st.Status)
	assert.Equal(t, "25.00", st.Progress)
	assert.Equal(t, hexutil.Uint(2), st.Participants)
	assert.True(t, st.Stale)
	assert.Equal(t, hexutil.Uint64(at.Unix()), st.SnapshotAt)
}

func TestNetAndWeb3(t *testing.T) {
	client := newTestClient(t, &fakeSource{})

	var version string
	require.NoError(t, client.CallContext(context.Background(), &version, "net_version"))
	assert.Equal(t, "369", version)

	var chainID hexutil.Uint64
	require.NoError(t, client.CallContext(context.Background(), &chainID, "presale_chainId"))
	assert.Equal(t, hexutil.Uint64(369), chainID)

	var clientVersion string
	require.NoError(t, client.CallContext(context.Background(), &clientVersion, "web3_clientVersion"))
	assert.Equal(t, ClientVersion, clientVersion)

	var listening bool
	require.NoError(t, client.CallContext(context.Background(), &listening, "net_listening"))
	assert.True(t, listening)

	var digest hexutil.Bytes
	require.NoError(t, client.CallContext(context.Background(), &digest, "web3_sha3", hexutil.Bytes("presale")))
	assert.Equal(t, hexutil.Bytes(crypto.Keccak256([]byte("presale"))), digest)
}
