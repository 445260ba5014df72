// Package dashboard keeps the latest sale snapshot and purchase roster and
// refreshes them on a timer or on demand.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/internal/metrics"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/units"
)

// SnapshotFetcher reads a sale snapshot. *presale.Reader implements it.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, account *common.Address) (*presale.Snapshot, error)
}

// EventSource returns the complete purchase history.
type EventSource interface {
	PurchaseEvents(ctx context.Context) ([]presale.PurchaseEvent, error)
}

// AccountFunc returns the account whose figures the snapshot should include.
type AccountFunc func() (common.Address, bool)

// ReplaySource replays every Buy log on each call.
type ReplaySource struct {
	Reader *presale.Reader
}

// PurchaseEvents implements EventSource.
func (s ReplaySource) PurchaseEvents(ctx context.Context) ([]presale.PurchaseEvent, error) {
	return s.Reader.FetchPurchaseEvents(ctx, 0, nil)
}

// Status describes the freshness of the published data.
type Status struct {
	SnapshotAt    time.Time `json:"snapshotAt"`
	RosterAt      time.Time `json:"rosterAt"`
	SnapshotError string    `json:"snapshotError,omitempty"`
	RosterError   string    `json:"rosterError,omitempty"`
	Stale         bool      `json:"stale"`
}

// Dashboard holds the published view-models. A failed refresh keeps the
// previous values.
type Dashboard struct {
	snapshots SnapshotFetcher
	events    EventSource
	account   AccountFunc
	logger    *zap.Logger
	timeout   time.Duration

	mu          sync.RWMutex
	snapshot    *presale.Snapshot
	roster      presale.Roster
	snapshotAt  time.Time
	rosterAt    time.Time
	snapshotErr error
	rosterErr   error

	triggerCh chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a Dashboard. account may be nil.
func New(snapshots SnapshotFetcher, events EventSource, account AccountFunc, timeout time.Duration, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		snapshots: snapshots,
		events:    events,
		account:   account,
		logger:    logger,
		timeout:   timeout,
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// LatestSnapshot returns the last published snapshot or nil.
func (d *Dashboard) LatestSnapshot() *presale.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot
}

// Roster returns the last published roster, newest first.
func (d *Dashboard) Roster() presale.Roster {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.roster
}

// Position derives address's position from the published roster.
func (d *Dashboard) Position(address common.Address) presale.UserPosition {
	return presale.DeriveUserPosition(d.Roster(), address)
}

// Status reports when each part was last published and the last failure.
func (d *Dashboard) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	st := Status{SnapshotAt: d.snapshotAt, RosterAt: d.rosterAt}
	if d.snapshotErr != nil {
		st.SnapshotError = d.snapshotErr.Error()
	}
	if d.rosterErr != nil {
		st.RosterError = d.rosterErr.Error()
	}
	st.Stale = d.snapshotErr != nil || d.rosterErr != nil
	return st
}

// Refresh fetches the snapshot and the purchase history concurrently and
// publishes each part that succeeded.
func (d *Dashboard) Refresh(ctx context.Context) error {
	var (
		wg        sync.WaitGroup
		snap      *presale.Snapshot
		events    []presale.PurchaseEvent
		snapErr   error
		eventsErr error
	)

	var account *common.Address
	if d.account != nil {
		if addr, ok := d.account(); ok {
			account = &addr
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap, snapErr = d.snapshots.FetchSnapshot(ctx, account)
	}()
	go func() {
		defer wg.Done()
		events, eventsErr = d.events.PurchaseEvents(ctx)
	}()
	wg.Wait()

	now := time.Now().UTC()
	d.mu.Lock()
	if snapErr == nil {
		d.snapshot = snap
		d.snapshotAt = now
	}
	d.snapshotErr = snapErr
	if eventsErr == nil {
		d.roster = presale.DeriveGlobalRoster(events)
		d.rosterAt = now
	}
	d.rosterErr = eventsErr
	roster := d.roster
	d.mu.Unlock()

	if snapErr != nil {
		d.logger.Warn("Snapshot refresh failed, keeping previous snapshot", zap.Error(snapErr))
		metrics.ErrorsTotal.WithLabelValues("dashboard", "snapshot").Inc()
		snapErr = fmt.Errorf("snapshot: %w", snapErr)
	} else {
		publishSaleMetrics(snap)
		metrics.LastRefresh.WithLabelValues("snapshot").Set(float64(now.Unix()))
	}
	if eventsErr != nil {
		d.logger.Warn("Purchase history refresh failed, keeping previous roster", zap.Error(eventsErr))
		metrics.ErrorsTotal.WithLabelValues("dashboard", "events").Inc()
		eventsErr = fmt.Errorf("events: %w", eventsErr)
	} else {
		metrics.Participants.Set(float64(roster.Participants()))
		metrics.LastRefresh.WithLabelValues("roster").Set(float64(now.Unix()))
	}

	return errors.Join(snapErr, eventsErr)
}

// Reset drops the published data, for when the chain under the wallet changed,
// and requests a refresh.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	d.snapshot = nil
	d.roster = nil
	d.snapshotAt = time.Time{}
	d.rosterAt = time.Time{}
	d.snapshotErr = nil
	d.rosterErr = nil
	d.mu.Unlock()

	d.logger.Info("Dashboard state reset")
	d.Trigger()
}

// Trigger requests an immediate refresh from the periodic loop. Requests made
// while one is pending are coalesced.
func (d *Dashboard) Trigger() {
	select {
	case d.triggerCh <- struct{}{}:
	default:
	}
}

// StartPeriodicRefresh refreshes once immediately, then every interval and on
// every Trigger, until Stop.
func (d *Dashboard) StartPeriodicRefresh(interval time.Duration) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		d.logger.Info("Started periodic refresh", zap.Duration("interval", interval))
		d.refreshWithTimeout()

		for {
			select {
			case <-ticker.C:
				d.refreshWithTimeout()
			case <-d.triggerCh:
				d.refreshWithTimeout()
			case <-d.stopCh:
				d.logger.Info("Stopping periodic refresh")
				return
			}
		}
	}()
}

// Stop stops the periodic refresh and waits for it to exit.
func (d *Dashboard) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	d.wg.Wait()
}

func (d *Dashboard) refreshWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.Refresh(ctx); err != nil {
		d.logger.Error("Periodic refresh failed", zap.Error(err))
	}
}

func publishSaleMetrics(snap *presale.Snapshot) {
	metrics.SaleTotalUSDCIn.Set(units.ToDecimal(snap.TotalUSDCIn, snap.USDCDecimals).InexactFloat64())
	metrics.SaleSoldTokens.Set(units.ToDecimal(snap.SoldTokens, tokenDecimals).InexactFloat64())
	if snap.IsLive {
		metrics.SaleLive.Set(1)
	} else {
		metrics.SaleLive.Set(0)
	}
}

// Purchased tokens always carry 18 decimals.
const tokenDecimals = 18
