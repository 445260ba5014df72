package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	require.Equal(t, uint64(369), cfg.Chain.ChainID)
	require.Equal(t, "https://rpc.pulsechain.com", cfg.Chain.RPCURL)
	require.Equal(t, "PLS", cfg.Chain.NativeCurrency.Symbol)
	require.Equal(t, "0x10fA1126291D5576A2a2fD2Ae5c9125F663f726e", cfg.Contracts.Presale)
	require.Equal(t, uint8(6), cfg.Presale.USDCDecimals)
	require.Equal(t, 30*time.Second, cfg.Presale.RefreshInterval)
	require.Equal(t, 8080, cfg.Server.Port)
	require.False(t, cfg.Database.Enabled)
	require.True(t, cfg.Monitoring.Enabled)
	require.Equal(t, uint64(1000), cfg.Sacrifice.BlockStep)
}

func TestParse_OverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("TEST_DASHBOARD_DB_PASSWORD", "s3cret")

	raw := []byte(`
server:
  port: 9000
chain:
  chain_id: 943
  rpc_url: https://rpc.v4.testnet.pulsechain.com
database:
  enabled: true
  user: dashboard
  password: ${TEST_DASHBOARD_DB_PASSWORD}
presale:
  refresh_interval: 5s
logging:
  format: console
`)
	cfg, err := Parse(raw)
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, uint64(943), cfg.Chain.ChainID)
	require.Equal(t, "s3cret", cfg.Database.Password)
	require.Equal(t, 5*time.Second, cfg.Presale.RefreshInterval)
	require.Equal(t, "console", cfg.Logging.Format)
	require.Equal(t,
		"host=localhost port=5432 user=dashboard password=s3cret dbname=presale_dashboard sslmode=disable",
		cfg.Database.GetConnectionString(),
	)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "bad presale address", raw: "contracts:\n  presale: not-an-address\n"},
		{name: "bad log level", raw: "logging:\n  level: loud\n"},
		{name: "indexer without database", raw: "indexer:\n  enabled: true\n"},
		{name: "admin without secret", raw: "database:\n  enabled: true\nadmin:\n  allow_list: [\"0x0000000000000000000000000000000000000001\"]\n"},
		{name: "malformed yaml", raw: "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.Error(t, err)
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8181\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8181, cfg.Server.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewLogger(LoggingConfig{Level: "loud"})
	require.Error(t, err)
}

func TestLoad_ExampleConfig(t *testing.T) {
	t.Setenv("PRESALE_ADMIN_JWT_SECRET", "example-secret")

	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	require.Equal(t, uint64(369), cfg.Chain.ChainID)
	require.Equal(t, "example-secret", cfg.Admin.JWTSecret)
	require.Equal(t, 10*time.Minute, cfg.Wallet.ActionTimeout)
	require.False(t, cfg.Database.Enabled)
}
