// Package pgutil opens bun connections to PostgreSQL and provides the
// container-backed database used by store and migration tests.
package pgutil

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/config"
)

const (
	dialTimeout  = 5 * time.Second
	maxOpenConns = 10
)

// ConnectDB opens a bun connection to cfg and pings it before returning.
func ConnectDB(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*bun.DB, error) {
	opts := []pgdriver.Option{
		pgdriver.WithNetwork("tcp"),
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Database),
		pgdriver.WithApplicationName("presale-dashboard"),
		pgdriver.WithDialTimeout(dialTimeout),
	}
	switch cfg.SSLMode {
	case "", "disable":
		opts = append(opts, pgdriver.WithInsecure(true))
	case "require":
		opts = append(opts, pgdriver.WithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
	default:
		opts = append(opts, pgdriver.WithTLSConfig(&tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Database, err)
	}

	logger.Info("Connected to database",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.String("ssl_mode", cfg.SSLMode))
	return db, nil
}
