package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the dashboard configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Chain      ChainConfig      `yaml:"chain"`
	Contracts  ContractsConfig  `yaml:"contracts"`
	Presale    PresaleConfig    `yaml:"presale"`
	Wallet     WalletConfig     `yaml:"wallet"`
	Database   DatabaseConfig   `yaml:"database"`
	Indexer    IndexerConfig    `yaml:"indexer"`
	Admin      AdminConfig      `yaml:"admin"`
	Sacrifice  SacrificeConfig  `yaml:"sacrifice"`
	Operator   OperatorConfig   `yaml:"operator"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"60s"`
}

// ChainConfig describes the network the presale is deployed on
type ChainConfig struct {
	ChainID        uint64         `yaml:"chain_id" default:"369" validate:"required"`
	Name           string         `yaml:"name" default:"PulseChain"`
	RPCURL         string         `yaml:"rpc_url" default:"https://rpc.pulsechain.com" validate:"required,url"`
	ExplorerURL    string         `yaml:"explorer_url" default:"https://scan.pulsechain.com" validate:"omitempty,url"`
	NativeCurrency NativeCurrency `yaml:"native_currency"`
	RequestTimeout time.Duration  `yaml:"request_timeout" default:"20s"`
}

// NativeCurrency is the chain's gas token as announced to wallets
type NativeCurrency struct {
	Name     string `yaml:"name" default:"Pulse"`
	Symbol   string `yaml:"symbol" default:"PLS"`
	Decimals uint8  `yaml:"decimals" default:"18"`
}

// ContractsConfig holds deployed contract addresses
type ContractsConfig struct {
	Presale string `yaml:"presale" default:"0x10fA1126291D5576A2a2fD2Ae5c9125F663f726e" validate:"required,eth_addr"`
	Token   string `yaml:"token" default:"0xD6c9B6Ba58c29Db06f1ab375Cb820f166C41e77D" validate:"required,eth_addr"`
	USDC    string `yaml:"usdc" default:"0x15D38573d2feeb82e7ad5187aB8c1D52810B1f07" validate:"required,eth_addr"`
}

// PresaleConfig contains sale display and refresh settings
type PresaleConfig struct {
	TokenName       string        `yaml:"token_name" default:"ProveX 2.0"`
	TokenSymbol     string        `yaml:"token_symbol" default:"PROVEX"`
	TokenDecimals   uint8         `yaml:"token_decimals" default:"18"`
	USDCDecimals    uint8         `yaml:"usdc_decimals" default:"6"`
	RefreshInterval time.Duration `yaml:"refresh_interval" default:"30s"`
	RefreshTimeout  time.Duration `yaml:"refresh_timeout" default:"45s"`
	// StartBlock bounds full-range event replay. Zero means genesis.
	StartBlock uint64 `yaml:"start_block"`
}

// WalletConfig points at an EIP-1193 wallet reachable over JSON-RPC.
// An empty URL means no wallet is available and reads use the fallback RPC.
type WalletConfig struct {
	URL                 string        `yaml:"url" validate:"omitempty,url"`
	ReceiptPollInterval time.Duration `yaml:"receipt_poll_interval" default:"2s"`
	// ActionTimeout bounds one orchestrated action including confirmations.
	ActionTimeout time.Duration `yaml:"action_timeout" default:"10m"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" default:"localhost" validate:"required_if=Enabled true"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"presale_dashboard"`
	SSLMode  string `yaml:"ssl_mode" default:"disable" validate:"oneof=disable require verify-ca verify-full"`
}

// IndexerConfig controls the incremental purchase index
type IndexerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval" default:"15s"`
	ChunkSize   uint64        `yaml:"chunk_size" default:"5000" validate:"min=1"`
	SyncTimeout time.Duration `yaml:"sync_timeout" default:"2m"`
}

// AdminConfig holds the admin allow-list and session settings
type AdminConfig struct {
	AllowList   []string      `yaml:"allow_list" validate:"dive,eth_addr"`
	JWTSecret   string        `yaml:"jwt_secret"`
	SessionTTL  time.Duration `yaml:"session_ttl" default:"1h"`
	LoginWindow time.Duration `yaml:"login_window" default:"5m"`
}

// SacrificeConfig configures the sacrifice address tracker
type SacrificeConfig struct {
	Address        string `yaml:"address" validate:"omitempty,eth_addr"`
	LookbackBlocks uint64 `yaml:"lookback_blocks" default:"50000"`
	BlockStep      uint64 `yaml:"block_step" default:"1000" validate:"min=1"`
	MaxTransfers   int    `yaml:"max_transfers" default:"20" validate:"min=1"`
}

// OperatorConfig holds the keyed signer used by presalectl
type OperatorConfig struct {
	PrivateKeyEnv string `yaml:"private_key_env" default:"PRESALE_OPERATOR_KEY"`
	GasLimit      uint64 `yaml:"gas_limit" default:"300000"`
	MaxGasPrice   string `yaml:"max_gas_price"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// Load reads the YAML file at configPath, expands ${VAR} references from the
// environment, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes raw YAML into a validated Config.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))
	if strings.TrimSpace(expanded) != "" {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if cfg.Indexer.Enabled && !cfg.Database.Enabled {
		return fmt.Errorf("indexer.enabled requires database.enabled")
	}
	if len(cfg.Admin.AllowList) > 0 && cfg.Database.Enabled && cfg.Admin.JWTSecret == "" {
		return fmt.Errorf("admin.jwt_secret is required when admin.allow_list is set")
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
