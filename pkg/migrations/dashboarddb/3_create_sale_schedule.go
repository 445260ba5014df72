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
		log.Println("creating sale_schedule table...")
		if err := mghelper.CreateSchema(ctx, db, &store.SaleScheduleDao{}); err != nil {
			return err
		}
		// single row table
		_, err := db.ExecContext(ctx,
			"ALTER TABLE sale_schedule ADD CONSTRAINT sale_schedule_singleton CHECK (id = 1)")
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping sale_schedule table...")
		return mghelper.DropTables(ctx, db, &store.SaleScheduleDao{})
	})
}
