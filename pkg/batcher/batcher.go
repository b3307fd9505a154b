// Package batcher groups queued items into rate-limited batch writes.
package batcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const finalFlushTimeout = 10 * time.Second

// ErrStopped is returned by Add once Stop was called.
var ErrStopped = errors.New("batcher stopped")

// Config tunes batch size, cadence and retries.
type Config struct {
	// FlushSize is the batch size that triggers an immediate write.
	FlushSize int
	// FlushInterval bounds how long an item waits in a partial batch.
	FlushInterval time.Duration
	// RPS limits batch writes per second.
	RPS int
	// Attempts bounds the writes of one batch. Zero means a single attempt.
	Attempts   uint
	RetryDelay time.Duration
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.FlushSize <= 0 {
		return errors.New("flush size must be positive")
	}
	if c.FlushInterval <= 0 {
		return errors.New("flush interval must be positive")
	}
	if c.RPS <= 0 {
		return errors.New("rps must be positive")
	}
	if c.RetryDelay < 0 {
		return errors.New("retry delay must not be negative")
	}
	return nil
}

// Batcher buffers items and writes them by size or interval. A batch whose
// writes all fail is dropped and counted.
type Batcher[T any] struct {
	write   func(context.Context, []T) error
	cfg     Config
	items   chan T
	limiter ratelimit.Limiter
	logger  *zap.Logger
	dropped atomic.Uint64

	wg       sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}
}

// New constructs a Batcher writing batches with write.
func New[T any](cfg Config, write func(context.Context, []T) error, logger *zap.Logger) (*Batcher[T], error) {
	if write == nil {
		return nil, errors.New("write func is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batcher[T]{
		write:   write,
		cfg:     cfg,
		items:   make(chan T, cfg.FlushSize*2),
		limiter: ratelimit.New(cfg.RPS),
		logger:  logger,
		stop:    make(chan struct{}),
	}, nil
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop writes what is queued and stops the flushing loop. It is safe to call
// more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	b.wg.Wait()
}

// Add queues an item. It blocks while the queue is full.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.items <- item:
		return nil
	}
}

// Dropped returns the number of items lost to failed writes.
func (b *Batcher[T]) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.FlushInterval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.FlushSize)
	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}
		b.flush(ctx, buf)
		buf = make([]T, 0, b.cfg.FlushSize)
	}

	for {
		select {
		case <-ctx.Done():
			b.shutdown(ctx, &buf, flush)
			return

		case <-b.stop:
			b.shutdown(ctx, &buf, flush)
			return

		case item := <-b.items:
			buf = append(buf, item)
			if len(buf) >= b.cfg.FlushSize {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}

// shutdown writes the items still queued, detached from ctx cancellation.
func (b *Batcher[T]) shutdown(ctx context.Context, buf *[]T, flush func(context.Context)) {
	final, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalFlushTimeout)
	defer cancel()

	for {
		select {
		case item := <-b.items:
			*buf = append(*buf, item)
			if len(*buf) >= b.cfg.FlushSize {
				flush(final)
			}
		default:
			flush(final)
			return
		}
	}
}

func (b *Batcher[T]) flush(ctx context.Context, batch []T) {
	b.limiter.Take()
	err := retry.Do(
		func() error { return b.write(ctx, batch) },
		retry.Context(ctx),
		retry.Attempts(max(b.cfg.Attempts, 1)),
		retry.Delay(b.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			b.logger.Warn("batch write failed, retrying", zap.Uint("attempt", n+1), zap.Int("size", len(batch)), zap.Error(err))
		}),
	)
	if err != nil {
		b.dropped.Add(uint64(len(batch)))
		b.logger.Error("batch dropped", zap.Int("size", len(batch)), zap.Error(err))
		return
	}
	b.logger.Debug("batch flushed", zap.Int("size", len(batch)))
}
