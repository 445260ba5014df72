package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/schedule"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the dashboard store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) GetCursor(ctx context.Context, name string) (uint64, bool, error) {
	dao := new(IndexStateDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get cursor %s: %w", name, err)
	}
	return dao.LastBlock, true, nil
}

// SavePurchaseEvents inserts events, ignoring logs already stored, and moves
// the cursor in the same transaction.
func (s *pgStore) SavePurchaseEvents(ctx context.Context, name string, events []presale.PurchaseEvent, toBlock uint64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(events) > 0 {
			daos := make([]*PurchaseEventDao, 0, len(events))
			for _, e := range events {
				daos = append(daos, toPurchaseEventDao(e))
			}
			if _, err := tx.NewInsert().
				Model(&daos).
				On("CONFLICT (tx_hash, log_index) DO NOTHING").
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert purchase events: %w", err)
			}
		}

		cursor := &IndexStateDao{Name: name, LastBlock: toBlock, UpdatedAt: time.Now().UTC()}
		if _, err := tx.NewInsert().
			Model(cursor).
			On("CONFLICT (name) DO UPDATE").
			Set("last_block = EXCLUDED.last_block").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to advance cursor %s: %w", name, err)
		}
		return nil
	})
}

func (s *pgStore) ListPurchaseEvents(ctx context.Context) ([]presale.PurchaseEvent, error) {
	var daos []*PurchaseEventDao
	query := s.db.NewSelect().
		Model(&daos).
		Order("block_number DESC", "log_index DESC")
	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list purchase events: %w", err)
	}

	events := make([]presale.PurchaseEvent, 0, len(daos))
	for _, dao := range daos {
		e, err := fromPurchaseEventDao(dao)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *pgStore) GetSchedule(ctx context.Context) (*schedule.Schedule, error) {
	dao := new(SaleScheduleDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", scheduleRowID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sale schedule: %w", err)
	}
	return fromSaleScheduleDao(dao), nil
}

func (s *pgStore) SaveSchedule(ctx context.Context, sched *schedule.Schedule) error {
	_, err := s.db.NewInsert().
		Model(toSaleScheduleDao(sched)).
		On("CONFLICT (id) DO UPDATE").
		Set("starts_at = EXCLUDED.starts_at").
		Set("ends_at = EXCLUDED.ends_at").
		Set("updated_by = EXCLUDED.updated_by").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save sale schedule: %w", err)
	}
	return nil
}
