package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/config"
	"github.com/chainsafe/presale-dashboard/pkg/migrations/dashboarddb"
	"github.com/chainsafe/presale-dashboard/pkg/pgutil"
	mghelper "github.com/chainsafe/presale-dashboard/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}
	if !cfg.Database.Enabled {
		log.Fatalf("database.enabled is false in %s", *cfgPath)
	}

	db, err := pgutil.ConnectDB(context.Background(), &cfg.Database, zap.NewNop())
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for dashboard database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, dashboarddb.Migrations)

	if err := mghelper.RunMigrations(migrator, flag.Args()...); err != nil {
		mghelper.Exitf(err.Error())
	}
}
