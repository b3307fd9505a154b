package relayer

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/transport"
	"github.com/goodnatureofminers/btcbridge7000-backend/pkg/safe"
	"github.com/goodnatureofminers/btcbridge7000-backend/pkg/workerpool"
)

// syncHeaders submits the node's headers above the last header both sides
// agree on, in height order. It returns the bridge chain status after the
// submissions and the number of headers sent.
func (s *Service) syncHeaders(ctx context.Context) (*transport.ChainStatus, int, error) {
	count, err := withRetryData(ctx, s, "get block count", s.rpc.GetBlockCount)
	if err != nil {
		return nil, 0, err
	}
	s.metrics.SetNodeHeight(count)
	tip, err := safe.Uint32(count)
	if err != nil {
		return nil, 0, fmt.Errorf("node height: %w", err)
	}

	status, err := s.bridge.Chain(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load bridge chain: %w", err)
	}
	fork, err := s.forkPoint(ctx, status.Best.Height, tip)
	if err != nil {
		return nil, 0, err
	}
	if fork >= tip {
		return status, 0, nil
	}

	last := tip
	if limit := fork + uint32(s.maxHeadersPerPoll); limit < last {
		last = limit
	}
	raws, err := s.fetchHeaders(ctx, fork+1, last)
	if err != nil {
		return nil, 0, err
	}

	for i, raw := range raws {
		resp, err := s.bridge.SubmitHeader(ctx, raw)
		s.metrics.ObserveSubmit("header", err)
		if err != nil {
			return nil, i, fmt.Errorf("submit header %d: %w", fork+1+uint32(i), err)
		}
		status.Best = resp.Best
		status.Confirmed = resp.Confirmed
		if resp.Reorg {
			s.logger.Warn("bridge reorganized", zap.Uint32("height", resp.Height), zap.String("hash", resp.Hash))
		}
	}

	s.logger.Info("headers relayed",
		zap.String("count", humanize.Comma(int64(len(raws)))),
		zap.Uint32("best", status.Best.Height),
		zap.Uint32("node", tip))
	return status, len(raws), nil
}

// forkPoint walks down from the lower of the two tips until it finds a node
// header the bridge already knows.
func (s *Service) forkPoint(ctx context.Context, best, tip uint32) (uint32, error) {
	h := min(best, tip)
	floor := uint32(0)
	if h > s.maxReorgDepth {
		floor = h - s.maxReorgDepth
	}
	for {
		hash, err := s.blockHash(ctx, h)
		if err != nil {
			return 0, err
		}
		known, err := s.bridge.HeaderStatus(ctx, *hash)
		if err != nil {
			return 0, fmt.Errorf("header status %s: %w", hash, err)
		}
		if known != nil {
			if h < best {
				s.logger.Info("node diverges from bridge", zap.Uint32("fork", h), zap.Uint32("bridge_best", best))
			}
			return h, nil
		}
		if h == floor {
			return 0, fmt.Errorf("no header shared with the bridge between heights %d and %d", floor, min(best, tip))
		}
		h--
	}
}

func (s *Service) fetchHeaders(ctx context.Context, from, to uint32) ([][]byte, error) {
	raws, err := workerpool.Heights(ctx, s.workerCount, from, to, func(ctx context.Context, height uint32) ([]byte, error) {
		hash, err := s.blockHash(ctx, height)
		if err != nil {
			return nil, err
		}
		header, err := withRetryData(ctx, s, "get block header", func() (*wire.BlockHeader, error) {
			return s.rpc.GetBlockHeader(hash)
		})
		if err != nil {
			return nil, err
		}
		raw, err := model.SerializeHeader(header)
		if err != nil {
			return nil, fmt.Errorf("serialize header %d: %w", height, err)
		}
		return raw, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch headers %d..%d: %w", from, to, err)
	}
	return raws, nil
}

func (s *Service) blockHash(ctx context.Context, height uint32) (*chainhash.Hash, error) {
	return withRetryData(ctx, s, "get block hash", func() (*chainhash.Hash, error) {
		return s.rpc.GetBlockHash(int64(height))
	})
}

// withRetryData retries a node call with a fixed delay.
func withRetryData[T any](ctx context.Context, s *Service, op string, fn func() (T, error)) (T, error) {
	out, err := retry.DoWithData(fn,
		retry.Context(ctx),
		retry.Attempts(s.rpcAttempts),
		retry.Delay(s.rpcDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("node call failed",
				zap.String("operation", op),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", s.rpcAttempts),
				zap.Error(err))
		}),
	)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
