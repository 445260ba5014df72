package store

import (
	"context"
	"errors"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainsafe/presale-dashboard/pkg/indexer"
	"github.com/chainsafe/presale-dashboard/pkg/pgutil"
	mghelper "github.com/chainsafe/presale-dashboard/pkg/pgutil/migrations"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/schedule"
)

var (
	_ indexer.Store  = (*pgStore)(nil)
	_ schedule.Store = (*pgStore)(nil)
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000A11cE")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &PurchaseEventDao{}, &IndexStateDao{}, &SaleScheduleDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed store tests")
}

func purchase(buyer common.Address, usdc int64, block uint64, tx int64, logIndex uint) presale.PurchaseEvent {
	return presale.PurchaseEvent{
		Buyer:       buyer,
		USDCIn:      big.NewInt(usdc),
		TokensOut:   new(big.Int).Mul(big.NewInt(usdc), big.NewInt(6250_000000000000)),
		BlockNumber: block,
		TxHash:      common.BigToHash(big.NewInt(tx)),
		LogIndex:    logIndex,
	}
}

func TestPgStore_PurchaseEvents(t *testing.T) {
	ctx, s := setupStore(t)

	_, found, err := s.GetCursor(ctx, "buys")
	if err != nil {
		t.Fatalf("GetCursor() failed: %v", err)
	}
	if found {
		t.Fatal("expected no cursor before the first save")
	}

	first := []presale.PurchaseEvent{
		purchase(alice, 20_000000, 100, 1, 0),
		purchase(bob, 30_000000, 100, 1, 1),
	}
	if err := s.SavePurchaseEvents(ctx, "buys", first, 150); err != nil {
		t.Fatalf("SavePurchaseEvents() failed: %v", err)
	}

	// Re-saving an overlapping range must not duplicate rows.
	second := []presale.PurchaseEvent{
		purchase(bob, 30_000000, 100, 1, 1),
		purchase(alice, 10_000000, 200, 2, 0),
	}
	if err := s.SavePurchaseEvents(ctx, "buys", second, 250); err != nil {
		t.Fatalf("SavePurchaseEvents() failed: %v", err)
	}

	last, found, err := s.GetCursor(ctx, "buys")
	if err != nil || !found {
		t.Fatalf("GetCursor() = %d, %v, %v", last, found, err)
	}
	if last != 250 {
		t.Fatalf("expected cursor 250, got %d", last)
	}

	all, err := s.ListPurchaseEvents(ctx)
	if err != nil {
		t.Fatalf("ListPurchaseEvents() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].BlockNumber != 200 || all[1].LogIndex != 1 || all[2].LogIndex != 0 {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[0].TokensOut.Cmp(second[1].TokensOut) != 0 {
		t.Fatalf("tokens_out round trip mismatch: got %s want %s", all[0].TokensOut, second[1].TokensOut)
	}
}

func TestPgStore_EmptyBatchAdvancesCursor(t *testing.T) {
	ctx, s := setupStore(t)

	if err := s.SavePurchaseEvents(ctx, "buys", nil, 42); err != nil {
		t.Fatalf("SavePurchaseEvents() failed: %v", err)
	}
	last, found, err := s.GetCursor(ctx, "buys")
	if err != nil || !found || last != 42 {
		t.Fatalf("GetCursor() = %d, %v, %v", last, found, err)
	}
}

func TestPgStore_Schedule(t *testing.T) {
	ctx, s := setupStore(t)

	_, err := s.GetSchedule(ctx)
	if !errors.Is(err, schedule.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	start := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	want := &schedule.Schedule{
		StartsAt:  start,
		EndsAt:    start.Add(72 * time.Hour),
		UpdatedBy: alice,
		UpdatedAt: start.Add(-time.Hour),
	}
	if err := s.SaveSchedule(ctx, want); err != nil {
		t.Fatalf("SaveSchedule() failed: %v", err)
	}

	want.EndsAt = start.Add(96 * time.Hour)
	want.UpdatedBy = bob
	if err := s.SaveSchedule(ctx, want); err != nil {
		t.Fatalf("SaveSchedule() update failed: %v", err)
	}

	got, err := s.GetSchedule(ctx)
	if err != nil {
		t.Fatalf("GetSchedule() failed: %v", err)
	}
	if !got.StartsAt.Equal(want.StartsAt) || !got.EndsAt.Equal(want.EndsAt) {
		t.Fatalf("window mismatch: got %s..%s", got.StartsAt, got.EndsAt)
	}
	if got.UpdatedBy != bob {
		t.Fatalf("expected updated_by %s, got %s", bob.Hex(), got.UpdatedBy.Hex())
	}

	var rows int
	rows, err = s.db.NewSelect().Model((*SaleScheduleDao)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single schedule row, got %d", rows)
	}
}
