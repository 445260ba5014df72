// Package indexer maintains an incremental, persisted index of presale Buy
// events so the roster does not need a full log replay on every refresh.
package indexer

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/internal/metrics"
	"github.com/chainsafe/presale-dashboard/pkg/evm"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
)

// CursorName identifies the purchase index in the cursor table.
const CursorName = "presale_buy_events"

// Store persists indexed events together with the block cursor.
type Store interface {
	GetCursor(ctx context.Context, name string) (lastBlock uint64, found bool, err error)
	// SavePurchaseEvents stores events idempotently and moves the cursor to
	// toBlock in the same transaction.
	SavePurchaseEvents(ctx context.Context, name string, events []presale.PurchaseEvent, toBlock uint64) error
	ListPurchaseEvents(ctx context.Context) ([]presale.PurchaseEvent, error)
}

// Config tunes the indexer.
type Config struct {
	Presale    common.Address
	StartBlock uint64
	ChunkSize  uint64
	Timeout    time.Duration
}

// Indexer copies Buy events from the chain into the store in block chunks.
type Indexer struct {
	store    Store
	chain    evm.Reader
	cfg      Config
	logger   *zap.Logger
	onSynced func()

	syncMu sync.Mutex
	stopCh chan struct{}
	stop   sync.Once
	wg     sync.WaitGroup
}

// New creates an Indexer.
func New(store Store, chain evm.Reader, cfg Config, logger *zap.Logger) *Indexer {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 5000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Indexer{
		store:  store,
		chain:  chain,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// OnSynced registers fn to run after a sync that stored new events.
func (i *Indexer) OnSynced(fn func()) {
	i.onSynced = fn
}

// Sync indexes every block between the cursor and the current head. It
// returns the number of new events seen.
func (i *Indexer) Sync(ctx context.Context) (int, error) {
	i.syncMu.Lock()
	defer i.syncMu.Unlock()

	head, err := i.chain.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read head block: %w", err)
	}

	last, found, err := i.store.GetCursor(ctx, CursorName)
	if err != nil {
		return 0, fmt.Errorf("failed to read index cursor: %w", err)
	}
	from := i.cfg.StartBlock
	if found {
		from = last + 1
	}
	if from > head {
		return 0, nil
	}

	total := 0
	for from <= head {
		to := from + i.cfg.ChunkSize - 1
		if to > head {
			to = head
		}

		events, err := presale.FetchPurchaseEvents(ctx, i.chain, i.cfg.Presale, from, new(big.Int).SetUint64(to), i.logger)
		if err != nil {
			return total, fmt.Errorf("blocks %d-%d: %w", from, to, err)
		}
		if err := i.store.SavePurchaseEvents(ctx, CursorName, events, to); err != nil {
			return total, fmt.Errorf("failed to store blocks %d-%d: %w", from, to, err)
		}

		total += len(events)
		metrics.LastIndexedBlock.Set(float64(to))
		metrics.PurchaseEvents.WithLabelValues("index").Add(float64(len(events)))
		i.logger.Debug("Indexed block range",
			zap.Uint64("from_block", from),
			zap.Uint64("to_block", to),
			zap.Int("events", len(events)))
		from = to + 1
	}

	i.logger.Info("Purchase index synced", zap.Uint64("head", head), zap.Int("new_events", total))
	if total > 0 && i.onSynced != nil {
		i.onSynced()
	}
	return total, nil
}

// PurchaseEvents returns every indexed event.
func (i *Indexer) PurchaseEvents(ctx context.Context) ([]presale.PurchaseEvent, error) {
	return i.store.ListPurchaseEvents(ctx)
}

// Start syncs once immediately and then every interval until Stop.
func (i *Indexer) Start(interval time.Duration) {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		i.logger.Info("Started purchase indexer", zap.Duration("interval", interval))
		i.syncWithTimeout()

		for {
			select {
			case <-ticker.C:
				i.syncWithTimeout()
			case <-i.stopCh:
				i.logger.Info("Stopping purchase indexer")
				return
			}
		}
	}()
}

// Stop stops the periodic sync and waits for it to exit.
func (i *Indexer) Stop() {
	i.stop.Do(func() { close(i.stopCh) })
	i.wg.Wait()
}

// CatchUp returns a callback that syncs the index to the current head and
// then runs next. A refresh scheduled after a write then reads the write's
// own Buy log instead of waiting for the next tick.
func (i *Indexer) CatchUp(next func()) func() {
	return func() {
		i.syncWithTimeout()
		if next != nil {
			next()
		}
	}
}

func (i *Indexer) syncWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), i.cfg.Timeout)
	defer cancel()
	if _, err := i.Sync(ctx); err != nil {
		metrics.ErrorsTotal.WithLabelValues("indexer", "sync").Inc()
		i.logger.Error("Purchase index sync failed", zap.Error(err))
	}
}
