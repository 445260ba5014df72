// Package dashboard implements app.Runner for the presale dashboard process.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/presale-dashboard/pkg/app/http"
	"github.com/chainsafe/presale-dashboard/pkg/auth"
	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/config"
	"github.com/chainsafe/presale-dashboard/pkg/dashboard"
	"github.com/chainsafe/presale-dashboard/pkg/dashboard/actions"
	"github.com/chainsafe/presale-dashboard/pkg/dashboard/service"
	"github.com/chainsafe/presale-dashboard/pkg/ethrpc"
	"github.com/chainsafe/presale-dashboard/pkg/evm"
	"github.com/chainsafe/presale-dashboard/pkg/indexer"
	"github.com/chainsafe/presale-dashboard/pkg/orchestrator"
	"github.com/chainsafe/presale-dashboard/pkg/pgutil"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/sacrifice"
	"github.com/chainsafe/presale-dashboard/pkg/schedule"
	"github.com/chainsafe/presale-dashboard/pkg/store"
	"github.com/chainsafe/presale-dashboard/pkg/wallet"
)

// Server holds cfg to init the dashboard process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new dashboard server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("dashboard config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting presale dashboard",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Uint64("chain_id", cfg.Chain.ChainID),
		zap.String("presale", cfg.Contracts.Presale),
	)

	network := chain.NewNetwork(cfg.Chain, cfg.Contracts)

	fallback, err := evm.Dial(ctx, cfg.Chain, logger)
	if err != nil {
		return err
	}
	defer fallback.Close()

	session, err := s.openWallet(ctx, network, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	reader := presale.NewReader(presale.Config{
		Presale:      network.Presale,
		USDC:         network.USDC,
		USDCDecimals: cfg.Presale.USDCDecimals,
		StartBlock:   cfg.Presale.StartBlock,
	}, fallback, session, logger)

	if err := reader.CheckUSDCDecimals(ctx); err != nil {
		logger.Warn("USDC decimals check failed", zap.Error(err))
	}

	var (
		db     *bun.DB
		idx    *indexer.Indexer
		events dashboard.EventSource = dashboard.ReplaySource{Reader: reader}
	)
	if cfg.Database.Enabled {
		db, err = pgutil.ConnectDB(ctx, &cfg.Database, logger)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if cfg.Indexer.Enabled {
			idx = indexer.New(store.NewStore(db), fallback, indexer.Config{
				Presale:    network.Presale,
				StartBlock: cfg.Presale.StartBlock,
				ChunkSize:  cfg.Indexer.ChunkSize,
				Timeout:    cfg.Indexer.SyncTimeout,
			}, logger)
			events = idx
		}
	}

	dash := dashboard.New(reader, events, walletAccount(session), cfg.Presale.RefreshTimeout, logger)

	session.OnReload(dash.Reset)
	session.OnAccountChange(func(wallet.State) { dash.Trigger() })
	if idx != nil {
		idx.OnSynced(dash.Trigger)
	}

	stopBackground := s.startBackground(dash, idx, logger)
	// Explicit call after ServeAndWait keeps shutdown ordering; the defer is a fallback.
	defer stopBackground()

	deps, err := s.buildDeps(db, fallback, logger)
	if err != nil {
		return err
	}

	svc := service.NewLog(service.NewService(network, dash, service.Config{
		TokenSymbol:   cfg.Presale.TokenSymbol,
		TokenDecimals: cfg.Presale.TokenDecimals,
		USDCDecimals:  cfg.Presale.USDCDecimals,
	}, deps, logger), logger)

	rpcSrv, err := ethrpc.NewServer(network, dash, logger)
	if err != nil {
		return fmt.Errorf("create presale json-rpc server: %w", err)
	}
	defer rpcSrv.Stop()

	// After a write the index catches up first, so the refresh carries the new Buy.
	onWrite := dash.Trigger
	if idx != nil {
		onWrite = idx.CatchUp(dash.Trigger)
	}

	var orch *orchestrator.Orchestrator
	if session.HasProvider() {
		orch = orchestrator.New(network.Presale, network.USDC, session, reader, dash, logger,
			orchestrator.WithWriteGate(session),
			orchestrator.WithOnSuccess(onWrite),
			orchestrator.WithObserver(func(p orchestrator.Progress) {
				logger.Info("Presale action progress",
					zap.String("action", string(p.Action)),
					zap.String("state", string(p.State)),
					zap.String("phase", string(p.Phase)),
					zap.String("tx_hash", p.Tx.TxHash.Hex()))
			}),
		)
	}

	router := s.setupRouter(dash, svc, rpcSrv, session, orch, reader, logger)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	stopBackground()

	return err
}

// openWallet returns the wallet session. Without a configured wallet the
// session has no provider and every read goes through the fallback RPC.
func (s *Server) openWallet(ctx context.Context, network *chain.Network, logger *zap.Logger) (*wallet.Session, error) {
	if s.cfg.Wallet.URL == "" {
		logger.Info("No wallet configured, using public RPC for reads")
		return wallet.NewSession(nil, network, logger), nil
	}

	provider, err := wallet.DialProvider(ctx, s.cfg.Wallet.URL)
	if err != nil {
		return nil, fmt.Errorf("connect wallet: %w", err)
	}

	session := wallet.NewSession(provider, network, logger)
	session.SetReceiptPollInterval(s.cfg.Wallet.ReceiptPollInterval)

	if err := session.Restore(ctx); err != nil {
		logger.Warn("Failed to restore wallet session", zap.Error(err))
	}
	if err := session.Watch(ctx); err != nil {
		logger.Warn("Wallet notifications unavailable", zap.Error(err))
	}

	logger.Info("Wallet provider attached", zap.String("url", s.cfg.Wallet.URL))
	return session, nil
}

func walletAccount(session *wallet.Session) dashboard.AccountFunc {
	return func() (common.Address, bool) {
		st := session.Snapshot()
		if !st.Connected {
			return common.Address{}, false
		}
		return st.Account, true
	}
}

func (s *Server) startBackground(dash *dashboard.Dashboard, idx *indexer.Indexer, logger *zap.Logger) func() {
	if idx != nil {
		logger.Info("Starting purchase indexer", zap.Duration("interval", s.cfg.Indexer.Interval))
		idx.Start(s.cfg.Indexer.Interval)
	}

	logger.Info("Starting periodic refresh", zap.Duration("interval", s.cfg.Presale.RefreshInterval))
	dash.StartPeriodicRefresh(s.cfg.Presale.RefreshInterval)

	return func() {
		dash.Stop()
		if idx != nil {
			idx.Stop()
		}
	}
}

// buildDeps wires the optional endpoints. A feature whose prerequisites are
// missing stays nil and its endpoints answer 404.
func (s *Server) buildDeps(db *bun.DB, fallback *evm.Client, logger *zap.Logger) (service.Deps, error) {
	cfg := s.cfg
	var deps service.Deps

	if cfg.Sacrifice.Address != "" {
		deps.Sacrifice = sacrifice.NewTracker(fallback, sacrifice.Config{
			Address:        common.HexToAddress(cfg.Sacrifice.Address),
			ChainID:        fallback.ChainID(),
			LookbackBlocks: cfg.Sacrifice.LookbackBlocks,
			BlockStep:      cfg.Sacrifice.BlockStep,
			MaxTransfers:   cfg.Sacrifice.MaxTransfers,
		}, logger)
		logger.Info("Sacrifice tracker enabled", zap.String("address", cfg.Sacrifice.Address))
	}

	if db == nil {
		return deps, nil
	}

	deps.Schedule = schedule.NewService(store.NewStore(db), logger)

	if len(cfg.Admin.AllowList) == 0 {
		logger.Info("Admin allow-list empty, admin login disabled")
		return deps, nil
	}

	allow, err := auth.NewAllowList(cfg.Admin.AllowList)
	if err != nil {
		return deps, fmt.Errorf("admin allow-list: %w", err)
	}
	issuer, err := auth.NewSessionIssuer(cfg.Admin.JWTSecret, cfg.Admin.SessionTTL)
	if err != nil {
		return deps, fmt.Errorf("admin sessions: %w", err)
	}
	deps.Admin = auth.NewAdmin(allow, issuer, cfg.Admin.LoginWindow)
	logger.Info("Admin login enabled", zap.Int("admins", len(allow)))

	return deps, nil
}

func (s *Server) setupRouter(
	dash *dashboard.Dashboard,
	svc service.Service,
	rpcSrv http.Handler,
	session *wallet.Session,
	orch *orchestrator.Orchestrator,
	balances actions.Balances,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	timeout := middleware.Timeout(s.cfg.Server.RequestTimeout)

	r.With(timeout).Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Ready once the first snapshot is published.
	r.With(timeout).Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if dash.LatestSnapshot() == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("LOADING"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.With(timeout).Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(timeout)
			service.RegisterRoutes(r, svc, logger)
		})
		// Wallet-bound routes exist only when a wallet provider is attached.
		// They run up to the action timeout and set their own write deadline.
		if orch != nil {
			actions.RegisterRoutes(r, session, orch, balances, actions.Config{
				USDCDecimals:  s.cfg.Presale.USDCDecimals,
				ActionTimeout: s.cfg.Wallet.ActionTimeout,
			}, logger)
		}
	})

	r.With(timeout).Mount("/rpc", rpcSrv)
	logger.Info("Presale JSON-RPC endpoint enabled", zap.String("path", "/rpc"))

	return r
}
