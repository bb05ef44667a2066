// Command ethconnect connects to an Ethereum node, binds a contract API to the
// network it finds and prints the resulting session as JSON.
//
// Usage:
//
//	go run ./cmd/ethconnect/ [flags]
//
// Examples:
//
//	# Local node on the default ports
//	go run ./cmd/ethconnect/
//
//	# Load endpoints, contracts and API from a config file
//	go run ./cmd/ethconnect/ --config ethconnect.toml
//
//	# Fall back to a hosted node and keep refreshing, serving metrics
//	go run ./cmd/ethconnect/ --fallback-http https://eth9000.example --refresh 15s --metrics-addr :9100
//
// Flags given on the command line override values from the config file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"ethconnect/config"
	"ethconnect/connect"
	"ethconnect/ethclient"
)

const (
	ConfigFlag       = "config"
	HTTPFlag         = "http"
	WSFlag           = "ws"
	IPCFlag          = "ipc"
	FallbackHTTPFlag = "fallback-http"
	FallbackWSFlag   = "fallback-ws"
	NoFallbackFlag   = "no-fallback"
	FromFlag         = "from"
	VerbosityFlag    = "verbosity"
	MetricsAddrFlag  = "metrics-addr"
	RefreshFlag      = "refresh"
	TimeoutFlag      = "timeout"
)

func main() {
	if err := newApp(run).Run(os.Args); err != nil {
		log.Crit("ethconnect failed", "err", err)
	}
}

func newApp(action cli.ActionFunc) *cli.App {
	return &cli.App{
		Name:  "ethconnect",
		Usage: "Connect to an Ethereum node and print the bound session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    ConfigFlag,
				Aliases: []string{"c"},
				Usage:   "Config file (.toml, .yaml or .json)",
			},
			&cli.StringFlag{
				Name:  HTTPFlag,
				Usage: "Local HTTP endpoint",
				Value: config.DefaultHTTP,
			},
			&cli.StringFlag{
				Name:  WSFlag,
				Usage: "WebSocket endpoint",
				Value: config.DefaultWS,
			},
			&cli.StringFlag{
				Name:  IPCFlag,
				Usage: "IPC socket path",
			},
			&cli.StringSliceFlag{
				Name:  FallbackHTTPFlag,
				Usage: "Hosted HTTP endpoint used when the local node is unreachable (repeatable)",
			},
			&cli.StringFlag{
				Name:  FallbackWSFlag,
				Usage: "Hosted WebSocket endpoint used on fallback",
			},
			&cli.BoolFlag{
				Name:  NoFallbackFlag,
				Usage: "Never fall back to hosted endpoints",
			},
			&cli.StringFlag{
				Name:  FromFlag,
				Usage: "Sender address stamped on every method",
			},
			&cli.IntFlag{
				Name:  VerbosityFlag,
				Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
				Value: 3,
			},
			&cli.StringFlag{
				Name:  MetricsAddrFlag,
				Usage: "Serve Prometheus metrics on this address",
			},
			&cli.DurationFlag{
				Name:  RefreshFlag,
				Usage: "Re-sync network ID, coinbase and gas price at this interval (0 disables)",
			},
			&cli.DurationFlag{
				Name:  TimeoutFlag,
				Usage: "Timeout for the initial connection",
				Value: 30 * time.Second,
			},
		},
		Action: action,
	}
}

func run(cCtx *cli.Context) error {
	lvl, err := logLevel(cCtx.Int(VerbosityFlag))
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
	logger := log.Root()

	opts, err := loadOptions(cCtx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := cCtx.String(MetricsAddrFlag); addr != "" {
		srv := &http.Server{Addr: addr, Handler: promhttp.Handler()}
		go func() {
			logger.Info("Serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
		defer srv.Close()
	}

	client := ethclient.New()
	defer client.Close()
	session := new(connect.Session)
	connector := connect.New(client, session, connect.WithLogger(logger))

	connectCtx, cancel := context.WithTimeout(ctx, cCtx.Duration(TimeoutFlag))
	_, err = connector.Connect(connectCtx, opts)
	cancel()
	if err != nil {
		return err
	}
	if err := printSession(session); err != nil {
		return err
	}

	interval := cCtx.Duration(RefreshFlag)
	if interval <= 0 {
		return nil
	}
	return refresh(ctx, connector.Synchronizer(), session, interval, logger)
}

// logLevel maps a verbosity the way geth's --verbosity flag does.
func logLevel(verbosity int) (slog.Level, error) {
	if verbosity < 0 || verbosity > 5 {
		return 0, fmt.Errorf("invalid verbosity %d, want 0-5", verbosity)
	}
	return log.FromLegacyLevel(verbosity), nil
}

// loadOptions reads the config file, if any, and applies the flags set on
// the command line on top of it.
func loadOptions(cCtx *cli.Context) (connect.Options, error) {
	opts := config.Default()
	if path := cCtx.String(ConfigFlag); path != "" {
		var err error
		if opts, err = config.Load(path); err != nil {
			return connect.Options{}, err
		}
	}
	if cCtx.IsSet(HTTPFlag) {
		opts.HTTP = cCtx.String(HTTPFlag)
	}
	if cCtx.IsSet(WSFlag) {
		opts.WS = cCtx.String(WSFlag)
	}
	if cCtx.IsSet(IPCFlag) {
		opts.IPC = cCtx.String(IPCFlag)
	}
	if cCtx.IsSet(FallbackHTTPFlag) {
		opts.FallbackHTTP = cCtx.StringSlice(FallbackHTTPFlag)
	}
	if cCtx.IsSet(FallbackWSFlag) {
		opts.FallbackWS = cCtx.String(FallbackWSFlag)
	}
	if cCtx.IsSet(NoFallbackFlag) {
		opts.NoFallback = cCtx.Bool(NoFallbackFlag)
	}
	if cCtx.IsSet(FromFlag) {
		opts.From = cCtx.String(FromFlag)
	}
	return opts, opts.Validate()
}

// refresh re-syncs the chain values until ctx is cancelled. A failed sync is
// logged and retried on the next tick.
func refresh(ctx context.Context, sync *connect.Synchronizer, session *connect.Session, interval time.Duration, logger log.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			prevNetwork := session.NetworkID
			if err := sync.SyncNetworkID(ctx); err != nil {
				logger.Warn("Failed to refresh network ID", "err", err)
				continue
			}
			if session.NetworkID != prevNetwork {
				logger.Info("Network changed, rebinding contracts", "from", prevNetwork, "to", session.NetworkID)
				session.SelectActiveContracts()
				session.BindFunctions()
				session.BindEvents()
			}
			if err := sync.SyncCoinbase(ctx); err != nil && !errors.Is(err, connect.ErrCoinbaseNotFound) {
				logger.Warn("Failed to refresh coinbase", "err", err)
			}
			if err := sync.SyncGasPrice(ctx); err != nil {
				logger.Warn("Failed to refresh gas price", "err", err)
			}
			if err := printSession(session); err != nil {
				return err
			}
		}
	}
}

func printSession(session *connect.Session) error {
	out, err := json.MarshalIndent(session.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
