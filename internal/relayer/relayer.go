// Package relayer feeds the bridge with Bitcoin headers and the
// transactions that touch trustee addresses, read from a bitcoind node.
package relayer

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/clock"
)

// Config tunes the relayer loop. Zero values fall back to defaults.
type Config struct {
	Network           model.Network
	WorkerCount       int
	MaxHeadersPerPoll int
	MaxBlocksPerPoll  int
	MaxReorgDepth     uint32
	// StartHeight is the first block scanned for transactions. Zero starts
	// right above the bridge's confirmed height at the first poll.
	StartHeight uint32
}

// Service runs the relay loop.
type Service struct {
	rpc               RPCClient
	bridge            BridgeClient
	metrics           Metrics
	params            *chaincfg.Params
	logger            *zap.Logger
	sleep             func(context.Context, time.Duration) error
	sleepDuration     time.Duration
	longSleepDuration time.Duration
	blockSignal       <-chan struct{}
	rpcAttempts       uint
	rpcDelay          time.Duration

	workerCount       int
	maxHeadersPerPoll int
	maxBlocksPerPoll  int
	maxReorgDepth     uint32

	nextTxHeight uint32
	tracked      *trackedOutputs
}

// NewService builds a relayer Service. blockSignal may be nil.
func NewService(
	rpc RPCClient,
	bridge BridgeClient,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
	blockSignal <-chan struct{},
) (*Service, error) {
	if rpc == nil {
		return nil, errors.New("rpc client is required")
	}
	if bridge == nil {
		return nil, errors.New("bridge client is required")
	}
	if metrics == nil {
		return nil, errors.New("relayer metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	params, err := model.ChainParams(cfg.Network)
	if err != nil {
		return nil, err
	}

	s := &Service{
		rpc:               rpc,
		bridge:            bridge,
		metrics:           metrics,
		params:            params,
		logger:            logger.Named("relayer").With(zap.String("network", string(cfg.Network.Normalize()))),
		sleep:             pause,
		sleepDuration:     sleepDuration,
		longSleepDuration: longSleepDuration,
		blockSignal:       blockSignal,
		rpcAttempts:       rpcAttempts,
		rpcDelay:          rpcDelay,
		workerCount:       orDefault(cfg.WorkerCount, defaultWorkerCount),
		maxHeadersPerPoll: orDefault(cfg.MaxHeadersPerPoll, defaultMaxHeadersPerPoll),
		maxBlocksPerPoll:  orDefault(cfg.MaxBlocksPerPoll, defaultMaxBlocksPerPoll),
		maxReorgDepth:     cfg.MaxReorgDepth,
		nextTxHeight:      cfg.StartHeight,
		tracked:           newTrackedOutputs(),
	}
	if s.maxReorgDepth == 0 {
		s.maxReorgDepth = defaultMaxReorgDepth
	}
	return s, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Run polls until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.run(ctx); err != nil {
			s.logger.Warn("relay iteration failed, backing off", zap.Error(err), zap.Duration("sleep", s.sleepDuration))
			if sleepErr := s.wait(ctx, s.sleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (s *Service) run(ctx context.Context) (err error) {
	started := time.Now()
	var relayed int
	defer func() {
		s.metrics.ObservePoll(err, relayed, started)
	}()

	status, headers, err := s.syncHeaders(ctx)
	if err != nil {
		return err
	}
	relayed, err = s.syncTransactions(ctx, status)
	if err != nil {
		return err
	}

	if headers == 0 && relayed == 0 {
		s.logger.Debug("bridge is up to date; sleeping", zap.Duration("sleep", s.longSleepDuration))
		return s.wait(ctx, s.longSleepDuration)
	}
	return s.wait(ctx, s.sleepDuration)
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if s.blockSignal == nil {
		return s.sleep(ctx, d)
	}
	wake, err := clock.Pause(ctx, d, s.blockSignal)
	if wake == clock.NewBlock {
		s.logger.Debug("poll interval cut short", zap.Stringer("wake", wake))
	}
	return err
}

func pause(ctx context.Context, d time.Duration) error {
	_, err := clock.Pause(ctx, d, nil)
	return err
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}
