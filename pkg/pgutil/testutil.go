package pgutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/config"
)

const (
	testImage    = "postgres:15-alpine"
	testDatabase = "presale_test"
	testUser     = "presale"
	testPassword = "presale"
)

// SetupTestDB starts a throwaway PostgreSQL container and connects to it.
// The returned func closes the connection and removes the container.
func SetupTestDB(t *testing.T) (*bun.DB, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, testImage,
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUser),
		postgres.WithPassword(testPassword),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	terminate := func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	cfg, err := containerConfig(ctx, container)
	if err != nil {
		terminate()
		t.Fatalf("failed to resolve container address: %v", err)
	}

	// The server may still be finishing its restart after the init scripts.
	var db *bun.DB
	for attempt := 0; ; attempt++ {
		db, err = ConnectDB(ctx, cfg, zap.NewNop())
		if err == nil {
			break
		}
		if attempt == 8 {
			terminate()
			t.Fatalf("failed to connect to test database: %v", err)
		}
		time.Sleep(time.Duration(100<<attempt) * time.Millisecond)
	}

	return db, func() {
		_ = db.Close()
		terminate()
	}
}

func containerConfig(ctx context.Context, c *postgres.PostgresContainer) (*config.DatabaseConfig, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		return nil, err
	}
	return &config.DatabaseConfig{
		Enabled:  true,
		Host:     host,
		Port:     port.Int(),
		User:     testUser,
		Password: testPassword,
		Database: testDatabase,
		SSLMode:  "disable",
	}, nil
}

// AssertTableExists fails t unless table exists in the public schema.
func AssertTableExists(t *testing.T, db *bun.DB, table string) {
	t.Helper()
	if !tableExists(t, db, table) {
		t.Errorf("table %s does not exist", table)
	}
}

// AssertTableNotExists fails t if table exists in the public schema.
func AssertTableNotExists(t *testing.T, db *bun.DB, table string) {
	t.Helper()
	if tableExists(t, db, table) {
		t.Errorf("table %s should not exist", table)
	}
}

// AssertIndexExists fails t unless index exists in the public schema.
func AssertIndexExists(t *testing.T, db *bun.DB, index string) {
	t.Helper()
	var exists bool
	err := db.NewSelect().
		ColumnExpr("EXISTS (SELECT 1 FROM pg_indexes WHERE schemaname = 'public' AND indexname = ?)", index).
		Scan(context.Background(), &exists)
	if err != nil {
		t.Fatalf("failed to look up index %s: %v", index, err)
	}
	if !exists {
		t.Errorf("index %s does not exist", index)
	}
}

// AssertRowCount fails t unless table holds exactly expected rows.
func AssertRowCount(t *testing.T, db *bun.DB, table string, expected int) {
	t.Helper()
	var count int
	err := db.NewSelect().
		TableExpr("?", bun.Ident(table)).
		ColumnExpr("COUNT(*)").
		Scan(context.Background(), &count)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("table %s: expected %d rows, got %d", table, expected, count)
	}
}

func tableExists(t *testing.T, db *bun.DB, table string) bool {
	t.Helper()
	var exists bool
	err := db.NewSelect().
		ColumnExpr("EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?)", table).
		Scan(context.Background(), &exists)
	if err != nil {
		t.Fatalf("failed to look up table %s: %v", table, err)
	}
	return exists
}
