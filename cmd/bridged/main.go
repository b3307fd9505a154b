package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/header"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/repository/bbolt"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/repository/clickhouse"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/service"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/trustee"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/withdrawal"
	bridgecfg "github.com/goodnatureofminers/btcbridge7000-backend/internal/config"
	applog "github.com/goodnatureofminers/btcbridge7000-backend/internal/log"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/metrics"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/transport"
)

type config struct {
	Log applog.Config `group:"log"`

	Network     model.Network `long:"network" env:"BRIDGED_NETWORK" description:"bitcoin network" required:"true"`
	ParamsFile  string        `long:"params-file" env:"BRIDGED_PARAMS_FILE" description:"TOML file overriding the network defaults"`
	DBPath      string        `long:"db-path" env:"BRIDGED_DB_PATH" description:"bbolt state file" default:"bridge.db"`
	DBTimeout   time.Duration `long:"db-timeout" env:"BRIDGED_DB_TIMEOUT" description:"wait for the state file lock" default:"5s"`
	HTTPAddr    string        `long:"http-addr" env:"BRIDGED_HTTP_ADDR" description:"address of the bridge API" default:":8080"`
	AdminToken  string        `long:"admin-token" env:"BRIDGED_ADMIN_TOKEN" description:"bearer token of the admin routes, empty disables them"`
	MetricsAddr string        `long:"metrics-addr" env:"BRIDGED_METRICS_ADDR" description:"address for metrics server" default:":2112"`

	ClickhouseDSN      string        `long:"clickhouse-dsn" env:"BRIDGED_CLICKHOUSE_DSN" description:"ClickHouse DSN of the event log, empty disables it"`
	EventFlushSize     int           `long:"event-flush-size" env:"BRIDGED_EVENT_FLUSH_SIZE" description:"events per insert" default:"500"`
	EventFlushInterval time.Duration `long:"event-flush-interval" env:"BRIDGED_EVENT_FLUSH_INTERVAL" description:"max delay before queued events are inserted" default:"2s"`
	EventRPS           int           `long:"event-rps" env:"BRIDGED_EVENT_RPS" description:"max event inserts per second" default:"10"`
	EventAttempts      uint          `long:"event-attempts" env:"BRIDGED_EVENT_ATTEMPTS" description:"inserts of one event batch before it is dropped" default:"3"`
	EventRetryDelay    time.Duration `long:"event-retry-delay" env:"BRIDGED_EVENT_RETRY_DELAY" description:"delay between event insert attempts" default:"500ms"`

	WatchdogSchedule string        `long:"watchdog-schedule" env:"BRIDGED_WATCHDOG_SCHEDULE" description:"cron schedule of the watchdogs (with seconds)" default:"0 * * * * *"`
	HeaderMaxAge     time.Duration `long:"header-max-age" env:"BRIDGED_HEADER_MAX_AGE" description:"alert when the best header is older" default:"2h"`
	ProposalMaxAge   time.Duration `long:"proposal-max-age" env:"BRIDGED_PROPOSAL_MAX_AGE" description:"alert when a withdrawal proposal is older" default:"6h"`
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
		logger.Fatal("bridged failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	network := cfg.Network.Normalize()
	params, err := bridgecfg.LoadParams(cfg.ParamsFile, network)
	if err != nil {
		return fmt.Errorf("load params: %w", err)
	}

	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	store, err := bbolt.Open(bbolt.Options{Path: cfg.DBPath, Timeout: cfg.DBTimeout}, metrics.NewBoltRepository(network))
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close state failed", zap.Error(err))
		}
	}()
	book := bbolt.NewBook(store)

	chain, err := header.NewChain(store, params, metrics.NewHeaderChain(network), logger)
	if err != nil {
		return fmt.Errorf("init header chain: %w", err)
	}
	manager, err := trustee.NewManager(store, book, params, logger)
	if err != nil {
		return fmt.Errorf("init trustee manager: %w", err)
	}
	engine, err := withdrawal.NewEngine(store, manager, book, chain, params, logger)
	if err != nil {
		return fmt.Errorf("init withdrawal engine: %w", err)
	}

	var (
		sink   service.EventSink
		events transport.EventReader
	)
	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init event log: %w", err)
		}
		defer func() {
			_ = repo.Close()
		}()
		if err := repo.Ping(ctx); err != nil {
			return fmt.Errorf("ping event log: %w", err)
		}
		writer, err := clickhouse.NewEventWriter(repo, clickhouse.EventWriterConfig{
			FlushSize:     cfg.EventFlushSize,
			FlushInterval: cfg.EventFlushInterval,
			RPS:           cfg.EventRPS,
			Attempts:      cfg.EventAttempts,
			RetryDelay:    cfg.EventRetryDelay,
		}, logger)
		if err != nil {
			return fmt.Errorf("init event writer: %w", err)
		}
		writer.Start(ctx)
		defer func() {
			writer.Stop()
			if dropped := writer.Dropped(); dropped > 0 {
				logger.Warn("events lost to failed inserts", zap.Uint64("dropped", dropped))
			}
		}()
		sink, events = writer, repo
	} else {
		logger.Warn("event log disabled, events are dropped")
	}

	bridge, err := service.New(network, store, chain, manager, engine, book, sink, metrics.NewBridge(network), logger)
	if err != nil {
		return fmt.Errorf("init bridge: %w", err)
	}
	if err := bridge.Init(ctx); err != nil {
		return fmt.Errorf("init bridge state: %w", err)
	}

	stopWatchdogs, err := startWatchdogs(ctx, bridge, cfg.WatchdogSchedule, cfg.HeaderMaxAge, cfg.ProposalMaxAge, logger)
	if err != nil {
		return err
	}
	defer stopWatchdogs()

	handler, err := transport.NewHandler(bridge, events, network, cfg.AdminToken, logger)
	if err != nil {
		return fmt.Errorf("init http handler: %w", err)
	}
	if cfg.AdminToken == "" {
		logger.Warn("admin token not set, admin routes disabled")
	}
	return serveAPI(ctx, cfg.HTTPAddr, handler.Routes(), logger)
}

func serveAPI(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting bridge api", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	logger.Info("bridge api stopped")
	return nil
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
