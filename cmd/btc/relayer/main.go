package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	applog "github.com/goodnatureofminers/btcbridge7000-backend/internal/log"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/metrics"
	observed "github.com/goodnatureofminers/btcbridge7000-backend/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/relayer"
)

type config struct {
	Log applog.Config `group:"log"`

	Network       model.Network `long:"network" env:"BTC_RELAYER_NETWORK" description:"bitcoin network" required:"true"`
	RPCURL        string        `long:"rpc-url" env:"BTC_RELAYER_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string        `long:"rpc-user" env:"BTC_RELAYER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"BTC_RELAYER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	ZMQAddr       string        `long:"zmq-addr" env:"BTC_RELAYER_ZMQ_ADDR" description:"bitcoind zmqpubhashblock address"`
	BridgeURL     string        `long:"bridge-url" env:"BTC_RELAYER_BRIDGE_URL" description:"bridge API base URL" default:"http://127.0.0.1:8080"`
	BridgeTimeout time.Duration `long:"bridge-timeout" env:"BTC_RELAYER_BRIDGE_TIMEOUT" description:"timeout of bridge API requests" default:"30s"`
	MetricsAddr   string        `long:"metrics-addr" env:"BTC_RELAYER_METRICS_ADDR" description:"address for metrics server" default:":2113"`

	WorkerCount       int    `long:"worker-count" env:"BTC_RELAYER_WORKER_COUNT" description:"parallel block fetches" default:"8"`
	MaxHeadersPerPoll int    `long:"max-headers-per-poll" env:"BTC_RELAYER_MAX_HEADERS_PER_POLL" description:"headers submitted per poll" default:"2000"`
	MaxBlocksPerPoll  int    `long:"max-blocks-per-poll" env:"BTC_RELAYER_MAX_BLOCKS_PER_POLL" description:"blocks scanned per poll" default:"50"`
	MaxReorgDepth     uint32 `long:"max-reorg-depth" env:"BTC_RELAYER_MAX_REORG_DEPTH" description:"how far back to look for the fork point" default:"144"`
	StartHeight       uint32 `long:"start-height" env:"BTC_RELAYER_START_HEIGHT" description:"first block scanned for transactions, 0 follows the bridge's confirmed height"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if root, err := applog.New(cfg.Log); err != nil {
		logger.Warn("falling back to development logger", zap.Error(err))
	} else {
		logger = root
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("btc relayer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	network := cfg.Network.Normalize()
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init btc rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()
	rpc := observed.NewObservedClient(rpcClient, metrics.NewBitcoind(network))

	bridge, err := relayer.NewHTTPBridge(cfg.BridgeURL, cfg.BridgeTimeout)
	if err != nil {
		return fmt.Errorf("init bridge client: %w", err)
	}

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("start block signal: %w", err)
	}

	svc, err := relayer.NewService(
		rpc,
		bridge,
		metrics.NewRelayer(network),
		relayer.Config{
			Network:           network,
			WorkerCount:       cfg.WorkerCount,
			MaxHeadersPerPoll: cfg.MaxHeadersPerPoll,
			MaxBlocksPerPoll:  cfg.MaxBlocksPerPoll,
			MaxReorgDepth:     cfg.MaxReorgDepth,
			StartHeight:       cfg.StartHeight,
		},
		logger,
		blockSignal,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
