// Package service is the entry point of the bridge core. Every call that
// mutates state is serialized per external chain.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// Bridge wires the header chain, the trustee sessions and the withdrawal
// engine of one Bitcoin network.
type Bridge struct {
	network     model.Network
	chainParams *chaincfg.Params
	repo        Repository
	chain       HeaderChain
	trustees    Trustees
	withdrawals Withdrawals
	ledger      Ledger
	events      EventSink
	metrics     Metrics
	logger      *zap.Logger
	locks       map[model.Chain]*sync.Mutex
	now         func() time.Time
}

// New builds a Bridge from its components.
func New(
	network model.Network,
	repo Repository,
	chain HeaderChain,
	trustees Trustees,
	withdrawals Withdrawals,
	ledger Ledger,
	events EventSink,
	metrics Metrics,
	logger *zap.Logger,
) (*Bridge, error) {
	if repo == nil {
		return nil, errors.New("bridge repository is required")
	}
	if chain == nil {
		return nil, errors.New("header chain is required")
	}
	if trustees == nil {
		return nil, errors.New("trustee manager is required")
	}
	if withdrawals == nil {
		return nil, errors.New("withdrawal engine is required")
	}
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if metrics == nil {
		return nil, errors.New("bridge metrics is required")
	}
	if events == nil {
		events = discardEvents{}
	}
	chainParams, err := model.ChainParams(network)
	if err != nil {
		return nil, err
	}
	return &Bridge{
		network:     network,
		chainParams: chainParams,
		repo:        repo,
		chain:       chain,
		trustees:    trustees,
		withdrawals: withdrawals,
		ledger:      ledger,
		events:      events,
		metrics:     metrics,
		logger:      logger.Named("bridge").With(zap.String("network", string(network))),
		locks:       map[model.Chain]*sync.Mutex{model.Bitcoin: {}},
		now:         time.Now,
	}, nil
}

// Init prepares the header chain and restores parameters changed at runtime.
func (b *Bridge) Init(ctx context.Context) error {
	defer b.lock(model.Bitcoin)()

	if err := b.chain.Init(ctx); err != nil {
		return fmt.Errorf("init header chain: %w", err)
	}
	stored, err := b.repo.BridgeParams(ctx)
	switch {
	case errors.Is(err, model.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load bridge params: %w", err)
	default:
		if stored.Confirmations != b.withdrawals.Params().Confirmations {
			if _, err := b.chain.SetConfirmations(ctx, stored.Confirmations); err != nil {
				return fmt.Errorf("restore confirmations: %w", err)
			}
		}
		b.withdrawals.SetParams(*stored)
		b.logger.Info("restored bridge params", zap.Any("params", *stored))
	}
	b.refreshWithdrawalGauges(ctx)
	return nil
}

func (b *Bridge) lock(chain model.Chain) func() {
	mu := b.locks[chain]
	mu.Lock()
	return mu.Unlock
}

func (b *Bridge) observe(operation string, err *error, started time.Time) {
	b.metrics.ObserveOperation(operation, *err, started)
}

func (b *Bridge) event(t model.EventType) model.Event {
	return model.Event{Type: t, Network: b.network, At: b.now().UTC()}
}

// apply runs fn in one store transaction and emits its events once the
// transaction commits. A failing fn leaves the store untouched.
func (b *Bridge) apply(ctx context.Context, fn func(ctx context.Context) ([]model.Event, error)) error {
	var events []model.Event
	err := b.repo.Atomic(ctx, func(ctx context.Context) error {
		var err error
		events, err = fn(ctx)
		return err
	})
	if err != nil {
		return err
	}
	b.emit(ctx, events...)
	return nil
}

// emit hands events to the sink. The event log is not part of bridge
// state, so a failing sink only logs.
func (b *Bridge) emit(ctx context.Context, events ...model.Event) {
	if len(events) == 0 {
		return
	}
	if err := b.events.Emit(ctx, events...); err != nil {
		b.logger.Warn("emit events failed", zap.Int("events", len(events)), zap.Error(err))
	}
}

// alert raises an operator alert for the error.
func (b *Bridge) alert(ctx context.Context, kind string, err error, fields ...zap.Field) {
	b.metrics.ObserveAlert(kind)
	b.logger.Error("bridge alert", append(fields, zap.String("kind", kind), zap.Error(err))...)
	ev := b.event(model.EventAlert)
	ev.Detail = fmt.Sprintf("%s: %v", kind, err)
	b.emit(ctx, ev)
}

func (b *Bridge) refreshWithdrawalGauges(ctx context.Context) {
	counts, err := b.withdrawals.StateCounts(ctx)
	if err != nil {
		b.logger.Warn("count withdrawal states failed", zap.Error(err))
		return
	}
	b.metrics.SetWithdrawalStates(counts)
}

type discardEvents struct{}

func (discardEvents) Emit(context.Context, ...model.Event) error { return nil }
