// Command presalectl drives presale transactions with an operator key and
// prints sale state from the public RPC.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/chain"
	"github.com/chainsafe/presale-dashboard/pkg/config"
	"github.com/chainsafe/presale-dashboard/pkg/evm"
	"github.com/chainsafe/presale-dashboard/pkg/orchestrator"
	"github.com/chainsafe/presale-dashboard/pkg/presale"
	"github.com/chainsafe/presale-dashboard/pkg/units"
)

const usage = `Usage: presalectl [-config path] [-timeout d] <command> [args]

Commands:
  snapshot             print the current sale state
  position [address]   print purchases of address (default: operator)
  buy <usdc>           approve if needed, then buy for the given USDC amount
  claim                claim purchased tokens after a successful sale
  refund               claim a refund after a failed sale
  finalize             finalize the sale
  set-live <bool>      open or pause the sale
`

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall deadline for the command")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, cfg, logger, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, cmd string, args []string) error {
	network := chain.NewNetwork(cfg.Chain, cfg.Contracts)

	writes := cmd != "snapshot" && cmd != "position"
	opts, err := signerOptions(cfg.Operator, writes)
	if err != nil {
		return err
	}

	client, err := evm.Dial(ctx, cfg.Chain, logger, opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	reader := presale.NewReader(presale.Config{
		Presale:      network.Presale,
		USDC:         network.USDC,
		USDCDecimals: cfg.Presale.USDCDecimals,
		StartBlock:   cfg.Presale.StartBlock,
	}, client, nil, logger)

	c := &cli{cfg: cfg, network: network, client: client, reader: reader, logger: logger}

	switch cmd {
	case "snapshot":
		return c.snapshot(ctx)
	case "position":
		return c.position(ctx, args)
	case "buy", "claim", "refund", "finalize", "set-live":
		return c.transact(ctx, cmd, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func signerOptions(op config.OperatorConfig, required bool) ([]evm.Option, error) {
	hexKey := os.Getenv(op.PrivateKeyEnv)
	if hexKey == "" {
		if required {
			return nil, fmt.Errorf("operator key not set: env=%s", op.PrivateKeyEnv)
		}
		return nil, nil
	}

	key, err := evm.LoadPrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	maxGasPrice, err := evm.ParseGasPrice(op.MaxGasPrice)
	if err != nil {
		return nil, err
	}

	return []evm.Option{
		evm.WithSigner(key),
		evm.WithGasLimit(op.GasLimit),
		evm.WithMaxGasPrice(maxGasPrice),
	}, nil
}

type cli struct {
	cfg     *config.Config
	network *chain.Network
	client  *evm.Client
	reader  *presale.Reader
	logger  *zap.Logger
}

func (c *cli) account() *common.Address {
	from := c.client.From()
	if from == (common.Address{}) {
		return nil
	}
	return &from
}

func (c *cli) snapshot(ctx context.Context) error {
	snap, err := c.reader.FetchSnapshot(ctx, c.account())
	if err != nil {
		return err
	}

	usdc := c.cfg.Presale.USDCDecimals
	tok := c.cfg.Presale.TokenDecimals
	out := map[string]any{
		"status":          presale.Status(snap),
		"block":           snap.BlockNumber,
		"totalUsdcIn":     units.FormatUnits(snap.TotalUSDCIn, usdc),
		"hardCapUsdc":     units.FormatUnits(snap.HardCapUSDC, usdc),
		"minUsdc":         units.FormatUnits(snap.MinUSDC, usdc),
		"soldTokens":      units.FormatUnits(snap.SoldTokens, tok),
		"presaleTokens":   units.FormatUnits(snap.PresaleTokens, tok),
		"progress":        presale.Progress(snap).StringFixed(2),
		"hardCapProgress": presale.HardCapProgress(snap).StringFixed(2),
	}
	if snap.Account != nil {
		out["account"] = map[string]any{
			"address":         snap.Account.Address.Hex(),
			"contribution":    units.FormatUnits(snap.Account.Contribution, usdc),
			"purchasedTokens": units.FormatUnits(snap.Account.PurchasedTokens, tok),
		}
	}
	return printJSON(out)
}

func (c *cli) position(ctx context.Context, args []string) error {
	var addr common.Address
	switch {
	case len(args) > 0:
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("invalid address %q", args[0])
		}
		addr = common.HexToAddress(args[0])
	case c.account() != nil:
		addr = *c.account()
	default:
		return errors.New("address required without an operator key")
	}

	events, err := c.reader.FetchPurchaseEvents(ctx, c.cfg.Presale.StartBlock, nil)
	if err != nil {
		return err
	}
	pos := presale.DeriveUserPosition(events, addr)

	purchases := make([]map[string]any, 0, len(pos.Purchases))
	for _, p := range pos.Purchases {
		purchases = append(purchases, map[string]any{
			"txHash":    p.TxHash.Hex(),
			"block":     p.BlockNumber,
			"usdcIn":    units.FormatUnits(p.USDCIn, c.cfg.Presale.USDCDecimals),
			"tokensOut": units.FormatUnits(p.TokensOut, c.cfg.Presale.TokenDecimals),
		})
	}
	return printJSON(map[string]any{
		"address":             pos.Address.Hex(),
		"totalContributed":    units.FormatUnits(pos.TotalContributed, c.cfg.Presale.USDCDecimals),
		"totalTokensReceived": units.FormatUnits(pos.TotalTokensReceived, c.cfg.Presale.TokenDecimals),
		"purchases":           purchases,
	})
}

func (c *cli) transact(ctx context.Context, cmd string, args []string) error {
	snaps := &snapshotHolder{reader: c.reader, account: c.client.From()}
	if err := snaps.refresh(ctx); err != nil {
		return fmt.Errorf("read sale state: %w", err)
	}

	orch := orchestrator.New(
		c.network.Presale,
		c.network.USDC,
		c.client,
		c.reader,
		snaps,
		c.logger,
		orchestrator.WithObserver(func(p orchestrator.Progress) {
			c.logger.Info("Transaction progress",
				zap.String("action", string(p.Action)),
				zap.String("state", string(p.State)),
				zap.String("phase", string(p.Phase)),
				zap.String("tx_hash", p.Tx.TxHash.Hex()))
		}),
	)

	var (
		res *orchestrator.Result
		err error
	)
	switch cmd {
	case "buy":
		if len(args) != 1 {
			return errors.New("usage: buy <usdc>")
		}
		amount, perr := units.ParseUnits(args[0], c.cfg.Presale.USDCDecimals)
		if perr != nil {
			return perr
		}
		res, err = orch.Buy(ctx, amount)
	case "claim":
		res, err = orch.ClaimTokens(ctx)
	case "refund":
		res, err = orch.ClaimRefund(ctx)
	case "finalize":
		res, err = orch.Finalize(ctx)
	case "set-live":
		if len(args) != 1 {
			return errors.New("usage: set-live <true|false>")
		}
		live, perr := strconv.ParseBool(args[0])
		if perr != nil {
			return fmt.Errorf("invalid flag %q: %w", args[0], perr)
		}
		res, err = orch.SetLive(ctx, live)
	}
	if res != nil {
		if perr := printJSON(res); perr != nil {
			return perr
		}
	}
	return err
}

// snapshotHolder serves the last snapshot read for the operator account.
type snapshotHolder struct {
	reader  *presale.Reader
	account common.Address

	mu   sync.RWMutex
	snap *presale.Snapshot
}

func (h *snapshotHolder) refresh(ctx context.Context) error {
	snap, err := h.reader.FetchSnapshot(ctx, &h.account)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()
	return nil
}

func (h *snapshotHolder) LatestSnapshot() *presale.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
