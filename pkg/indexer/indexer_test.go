package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/presale/contracts/contractstest"
)

type memStore struct {
	mu      sync.Mutex
	cursors map[string]uint64
	events  map[string]presale.PurchaseEvent
	saves   int
	failErr error
}

func newMemStore() *memStore {
	return &memStore{
		cursors: make(map[string]uint64),
		events:  make(map[string]presale.PurchaseEvent),
	}
}

func (m *memStore) GetCursor(_ context.Context, name string) (uint64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cursors[name]
	return v, ok, nil
}

func (m *memStore) SavePurchaseEvents(_ context.Context, name string, events []presale.PurchaseEvent, toBlock uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	for _, e := range events {
		m.events[fmt.Sprintf("%s/%d", e.TxHash.Hex(), e.LogIndex)] = e
	}
	m.cursors[name] = toBlock
	return nil
}

func (m *memStore) ListPurchaseEvents(_ context.Context) ([]presale.PurchaseEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]presale.PurchaseEvent, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func newTestIndexer(chain *contractstest.Chain, store Store, chunk uint64) *Indexer {
	return New(store, chain, Config{
		Presale:    contractstest.PresaleAddress,
		StartBlock: 100,
		ChunkSize:  chunk,
	}, zap.NewNop())
}

func TestSync_IndexesInChunks(t *testing.T) {
	chain := contractstest.NewChain()
	chain.AddPurchase(alice, big.NewInt(20_000000), 150)
	chain.AddPurchase(bob, big.NewInt(30_000000), 420)
	chain.AddPurchase(alice, big.NewInt(10_000000), 900)

	store := newMemStore()
	idx := newTestIndexer(chain, store, 250)

	n, err := idx.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	// 100..1000 in chunks of 250
	assert.Equal(t, 4, store.saves)
	assert.Equal(t, uint64(1000), store.cursors[CursorName])

	events, err := idx.PurchaseEvents(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestSync_ResumesFromCursor(t *testing.T) {
	chain := contractstest.NewChain()
	chain.AddPurchase(alice, big.NewInt(20_000000), 150)

	store := newMemStore()
	idx := newTestIndexer(chain, store, 5000)

	_, err := idx.Sync(context.Background())
	require.NoError(t, err)

	n, err := idx.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, store.saves)

	chain.AddPurchase(bob, big.NewInt(15_000000), 1200)
	n, err = idx.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(1200), store.cursors[CursorName])
}

func TestSync_SkipsBlocksBeforeStart(t *testing.T) {
	chain := contractstest.NewChain()
	chain.AddPurchase(alice, big.NewInt(20_000000), 50)
	chain.AddPurchase(bob, big.NewInt(20_000000), 150)

	store := newMemStore()
	idx := newTestIndexer(chain, store, 5000)

	n, err := idx.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSync_LogFailureKeepsCursor(t *testing.T) {
	chain := contractstest.NewChain()
	chain.AddPurchase(alice, big.NewInt(20_000000), 150)
	chain.Fail["getLogs"] = contractstest.ErrInjected

	store := newMemStore()
	idx := newTestIndexer(chain, store, 5000)

	_, err := idx.Sync(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contractstest.ErrInjected))
	_, found := store.cursors[CursorName]
	assert.False(t, found)
}

func TestSync_StoreFailure(t *testing.T) {
	chain := contractstest.NewChain()
	store := newMemStore()
	store.failErr = errors.New("db down")
	idx := newTestIndexer(chain, store, 5000)

	_, err := idx.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestSync_OnSynced(t *testing.T) {
	chain := contractstest.NewChain()
	store := newMemStore()
	idx := newTestIndexer(chain, store, 5000)

	calls := 0
	idx.OnSynced(func() { calls++ })

	_, err := idx.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, calls)

	chain.AddPurchase(alice, big.NewInt(20_000000), 1001)
	_, err = idx.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestStartStop(t *testing.T) {
	chain := contractstest.NewChain()
	chain.AddPurchase(alice, big.NewInt(20_000000), 150)
	store := newMemStore()
	idx := newTestIndexer(chain, store, 5000)

	idx.Start(time.Hour)
	require.Eventually(t, func() bool {
		_, found, _ := store.GetCursor(context.Background(), CursorName)
		return found
	}, time.Second, 10*time.Millisecond)

	idx.Stop()
	idx.Stop()
}
