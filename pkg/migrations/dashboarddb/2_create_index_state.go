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
		log.Println("creating index_state table...")
		return mghelper.CreateSchema(ctx, db, &store.IndexStateDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping index_state table...")
		return mghelper.DropTables(ctx, db, &store.IndexStateDao{})
	})
}
