// Package withdrawal turns withdrawal requests into multisig transactions
// and follows them to confirmation.
package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
)

// Engine owns the withdrawal record table and the open proposal of one
// chain. Callers serialize access.
type Engine struct {
	repo        Repository
	trustees    Trustees
	ledger      Ledger
	headers     Headers
	chain       model.Chain
	chainParams *chaincfg.Params
	params      atomic.Pointer[model.BridgeParams]
	logger      *zap.Logger
	now         func() time.Time
}

// NewEngine builds an Engine.
func NewEngine(
	repo Repository,
	trustees Trustees,
	ledger Ledger,
	headers Headers,
	params model.Params,
	logger *zap.Logger,
) (*Engine, error) {
	if repo == nil {
		return nil, errors.New("withdrawal repository is required")
	}
	if trustees == nil {
		return nil, errors.New("trustee manager is required")
	}
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if headers == nil {
		return nil, errors.New("header chain is required")
	}
	chainParams, err := model.ChainParams(params.Network)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		repo:        repo,
		trustees:    trustees,
		ledger:      ledger,
		headers:     headers,
		chain:       model.Bitcoin,
		chainParams: chainParams,
		logger:      logger.Named("withdrawal").With(zap.String("network", string(params.Network))),
		now:         time.Now,
	}
	e.SetParams(params.Bridge)
	return e, nil
}

// SetParams swaps the bridge parameters used for new requests and proposals.
func (e *Engine) SetParams(p model.BridgeParams) {
	e.params.Store(&p)
}

// Params returns the bridge parameters in use.
func (e *Engine) Params() model.BridgeParams {
	return *e.params.Load()
}

// Request validates a withdrawal, stores it as Applying and locks the
// amount in the ledger. A failed lock cancels the stored record.
func (e *Engine) Request(ctx context.Context, requester model.AccountID, destination string, amount uint64) (*model.WithdrawalRecord, error) {
	if requester.IsZero() {
		return nil, fmt.Errorf("%w: empty requester", model.ErrInvalidAddress)
	}
	addr, err := script.DecodeAddress(destination, e.chainParams)
	if err != nil {
		return nil, err
	}
	destination = addr.EncodeAddress()
	current, err := e.trustees.Current(ctx)
	if err != nil && !errors.Is(err, model.ErrNoTrusteeSession) {
		return nil, fmt.Errorf("load trustee session: %w", err)
	}
	if current != nil && current.Pair().Contains(destination) {
		return nil, fmt.Errorf("%w: %s is a trustee address", model.ErrInvalidAddress, destination)
	}
	if minimal := e.Params().MinWithdrawal(); amount < minimal {
		return nil, fmt.Errorf("%w: %d < %d", model.ErrWithdrawalTooSmall, amount, minimal)
	}

	now := e.now().UTC()
	rec := &model.WithdrawalRecord{
		Requester:   requester,
		Destination: destination,
		Amount:      amount,
		State:       model.WithdrawalApplying,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := e.repo.CreateWithdrawal(ctx, rec); err != nil {
		return nil, fmt.Errorf("store withdrawal: %w", err)
	}

	if err := e.ledger.Lock(ctx, rec.ID, requester, amount); err != nil {
		if cancelErr := e.cancel(ctx, rec); cancelErr != nil {
			e.logger.Error("cancel withdrawal after failed lock", zap.Uint64("id", rec.ID), zap.Error(cancelErr))
		}
		return nil, fmt.Errorf("lock withdrawal amount: %w", err)
	}

	e.logger.Info("withdrawal requested",
		zap.Uint64("id", rec.ID),
		zap.String("destination", destination),
		zap.Uint64("amount", amount))
	return rec, nil
}

// RemovePending cancels an Applying record and releases its locked amount.
func (e *Engine) RemovePending(ctx context.Context, id uint64) (*model.WithdrawalRecord, error) {
	rec, err := e.record(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.State != model.WithdrawalApplying {
		return nil, fmt.Errorf("%w: withdrawal %d is %s", model.ErrNoPendingWithdrawal, id, rec.State)
	}
	if err := e.ledger.Release(ctx, id); err != nil {
		return nil, fmt.Errorf("release withdrawal %d: %w", id, err)
	}
	if err := e.cancel(ctx, rec); err != nil {
		return nil, err
	}
	e.logger.Warn("pending withdrawal removed", zap.Uint64("id", id))
	return rec, nil
}

func (e *Engine) cancel(ctx context.Context, rec *model.WithdrawalRecord) error {
	if err := advance(rec, model.WithdrawalCancelled, e.now()); err != nil {
		return err
	}
	if err := e.repo.ArchiveWithdrawal(ctx, rec); err != nil {
		return fmt.Errorf("archive withdrawal %d: %w", rec.ID, err)
	}
	return nil
}

// Withdrawal returns a live record.
func (e *Engine) Withdrawal(ctx context.Context, id uint64) (*model.WithdrawalRecord, error) {
	return e.record(ctx, id)
}

// Withdrawals lists live records in id order.
func (e *Engine) Withdrawals(ctx context.Context) ([]*model.WithdrawalRecord, error) {
	recs, err := e.repo.Withdrawals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return recs, nil
}

// StateCounts counts live records per state.
func (e *Engine) StateCounts(ctx context.Context) (map[model.WithdrawalState]int, error) {
	recs, err := e.Withdrawals(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.WithdrawalState]int)
	for _, r := range recs {
		counts[r.State]++
	}
	return counts, nil
}

func (e *Engine) record(ctx context.Context, id uint64) (*model.WithdrawalRecord, error) {
	rec, err := e.repo.Withdrawal(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", model.ErrNoWithdrawalRecord, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load withdrawal %d: %w", id, err)
	}
	return rec, nil
}

func (e *Engine) records(ctx context.Context, ids []uint64) ([]*model.WithdrawalRecord, error) {
	recs := make([]*model.WithdrawalRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := e.record(ctx, id)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// advance moves a record one step, refusing moves the state machine does
// not allow.
func advance(rec *model.WithdrawalRecord, to model.WithdrawalState, now time.Time) error {
	if !model.CanTransition(rec.State, to) {
		return fmt.Errorf("%w: withdrawal %d from %s to %s", model.ErrInvalidStateTransition, rec.ID, rec.State, to)
	}
	rec.State = to
	rec.UpdatedAt = now.UTC()
	return nil
}

func advanceAll(recs []*model.WithdrawalRecord, now time.Time, path ...model.WithdrawalState) error {
	for _, rec := range recs {
		for _, to := range path {
			if err := advance(rec, to, now); err != nil {
				return err
			}
		}
	}
	return nil
}
