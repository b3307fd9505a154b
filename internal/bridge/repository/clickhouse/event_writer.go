package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/pkg/batcher"
)

// EventWriterConfig tunes the event batches.
type EventWriterConfig struct {
	FlushSize     int
	FlushInterval time.Duration
	RPS           int
	// Attempts bounds the inserts of one batch before it is dropped.
	Attempts   uint
	RetryDelay time.Duration
}

// EventWriter queues bridge events and writes them to the event log in
// batches.
type EventWriter struct {
	batcher *batcher.Batcher[model.Event]
	logger  *zap.Logger
}

func NewEventWriter(inserter EventInserter, cfg EventWriterConfig, logger *zap.Logger) (*EventWriter, error) {
	if inserter == nil {
		return nil, errors.New("event inserter is required")
	}
	logger = logger.Named("event_writer")
	b, err := batcher.New(batcher.Config{
		FlushSize:     cfg.FlushSize,
		FlushInterval: cfg.FlushInterval,
		RPS:           cfg.RPS,
		Attempts:      cfg.Attempts,
		RetryDelay:    cfg.RetryDelay,
	}, inserter.InsertEvents, logger)
	if err != nil {
		return nil, fmt.Errorf("init event batcher: %w", err)
	}
	return &EventWriter{batcher: b, logger: logger}, nil
}

// Start runs the flush loop until ctx is done or Stop is called.
func (w *EventWriter) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

// Stop flushes queued events and stops the flush loop.
func (w *EventWriter) Stop() {
	w.batcher.Stop()
}

// Emit queues events. It blocks while the queue is full.
func (w *EventWriter) Emit(ctx context.Context, events ...model.Event) error {
	for i, ev := range events {
		if err := w.batcher.Add(ctx, ev); err != nil {
			w.logger.Warn("events dropped", zap.Int("dropped", len(events)-i), zap.Error(err))
			return err
		}
	}
	return nil
}

// Dropped returns the number of events lost to failed inserts.
func (w *EventWriter) Dropped() uint64 {
	return w.batcher.Dropped()
}
