package dashboarddb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/chainsafe/presale-dashboard/pkg/pgutil/migrations"
	"github.com/chainsafe/presale-dashboard/pkg/store"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating purchase_events table...")
		if err := mghelper.CreateSchema(ctx, db, &store.PurchaseEventDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &store.PurchaseEventDao{}, "buyer", "block_number")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping purchase_events table...")
		return mghelper.DropTables(ctx, db, &store.PurchaseEventDao{})
	})
}
