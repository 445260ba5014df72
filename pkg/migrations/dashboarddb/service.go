// Package dashboarddb holds the migrations for the dashboard database
package dashboarddb

import "github.com/uptrace/bun/migrate"

// Migrations is the collection of all migrations for the dashboard database
var Migrations = migrate.NewMigrations()
