package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// deposit applies a confirmed deposit. The coins reached the hot address
// whatever the outcome, so the UTXO set is always updated.
func (b *Bridge) deposit(ctx context.Context, tx *wire.MsgTx, info *model.DepositInfo, height uint32, hot string) (model.TxResult, []model.Event, error) {
	txid := tx.TxHash()
	logger := b.logger.With(zap.Stringer("txid", txid), zap.String("input", info.InputAddress))

	if err := b.withdrawals.TrackTx(ctx, tx, hot); err != nil {
		return model.TxFailure, nil, err
	}

	if minimal := b.withdrawals.Params().MinDeposit; info.Amount < minimal {
		logger.Warn("deposit below minimum", zap.Uint64("amount", info.Amount), zap.Uint64("min", minimal))
		return model.TxFailure, nil, nil
	}

	if info.Binding != nil {
		events, err := b.credit(ctx, *info.Binding, info.InputAddress, info.Amount, txid, height)
		if err != nil {
			return model.TxFailure, nil, err
		}
		if info.InputAddress == "" {
			return model.TxSuccess, events, nil
		}
		if err := b.repo.PutBinding(ctx, info.InputAddress, *info.Binding); err != nil {
			return model.TxFailure, nil, fmt.Errorf("store binding: %w", err)
		}
		released, err := b.releasePending(ctx, info.InputAddress, info.Binding.Account)
		if err != nil {
			return model.TxFailure, nil, err
		}
		return model.TxSuccess, append(events, released...), nil
	}

	if info.InputAddress == "" {
		logger.Warn("unbound deposit from a non-standard input")
		return model.TxFailure, nil, nil
	}
	binding, err := b.repo.Binding(ctx, info.InputAddress)
	if err == nil {
		events, err := b.credit(ctx, *binding, info.InputAddress, info.Amount, txid, height)
		if err != nil {
			return model.TxFailure, nil, err
		}
		return model.TxSuccess, events, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.TxFailure, nil, fmt.Errorf("load binding: %w", err)
	}

	pending := model.PendingDeposit{TxID: txid, Amount: info.Amount, Height: height}
	if err := b.repo.AddPendingDeposit(ctx, info.InputAddress, pending); err != nil {
		return model.TxFailure, nil, fmt.Errorf("store pending deposit: %w", err)
	}
	logger.Info("deposit without account binding kept pending", zap.Uint64("amount", info.Amount))
	ev := b.event(model.EventUnclaimedDeposit)
	ev.TxID = txid.String()
	ev.Address = info.InputAddress
	ev.Amount = info.Amount
	ev.Height = height
	return model.TxSuccess, []model.Event{ev}, nil
}

func (b *Bridge) credit(ctx context.Context, binding model.AccountBinding, address string, amount uint64, txid chainhash.Hash, height uint32) ([]model.Event, error) {
	if err := b.ledger.Credit(ctx, binding.Account, amount, txid); err != nil {
		return nil, fmt.Errorf("credit %s: %w", binding.Account, err)
	}
	b.logger.Info("deposit credited",
		zap.Stringer("txid", txid),
		zap.Stringer("account", binding.Account),
		zap.Uint64("amount", amount))
	ev := b.event(model.EventDeposited)
	ev.TxID = txid.String()
	ev.Account = binding.Account.String()
	ev.Address = address
	ev.Amount = amount
	ev.Height = height
	ev.Detail = binding.Referral
	return []model.Event{ev}, nil
}

// releasePending credits every pending deposit of the address to account.
func (b *Bridge) releasePending(ctx context.Context, address string, account model.AccountID) ([]model.Event, error) {
	pending, err := b.repo.PendingDeposits(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("load pending deposits: %w", err)
	}
	if len(pending) == 0 {
		return nil, nil
	}
	var events []model.Event
	for _, d := range pending {
		credited, err := b.credit(ctx, model.AccountBinding{Account: account}, address, d.Amount, d.TxID, d.Height)
		if err != nil {
			return nil, err
		}
		events = append(events, credited...)
	}
	if err := b.repo.DeletePendingDeposits(ctx, address); err != nil {
		return nil, fmt.Errorf("delete pending deposits: %w", err)
	}
	return events, nil
}

// RemovePendingDeposit drops the pending deposits of an address. With an
// account they are credited to it first.
func (b *Bridge) RemovePendingDeposit(ctx context.Context, address string, account *model.AccountID) (out []model.PendingDeposit, err error) {
	defer b.observe("remove_pending_deposit", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	var pending []model.PendingDeposit
	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		pending, err = b.repo.PendingDeposits(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("load pending deposits: %w", err)
		}
		if len(pending) == 0 {
			return nil, fmt.Errorf("%w: %s", model.ErrNoPendingDeposit, address)
		}

		var events []model.Event
		if account != nil {
			if events, err = b.releasePending(ctx, address, *account); err != nil {
				return nil, err
			}
		} else if err = b.repo.DeletePendingDeposits(ctx, address); err != nil {
			return nil, fmt.Errorf("delete pending deposits: %w", err)
		}

		for _, d := range pending {
			ev := b.event(model.EventPendingDepositRemoved)
			ev.TxID = d.TxID.String()
			ev.Address = address
			ev.Amount = d.Amount
			if account != nil {
				ev.Account = account.String()
			}
			events = append(events, ev)
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	b.logger.Warn("pending deposits removed", zap.String("address", address), zap.Int("deposits", len(pending)), zap.Bool("credited", account != nil))
	return pending, nil
}

// PendingDeposits lists the unattributed deposits of an address.
func (b *Bridge) PendingDeposits(ctx context.Context, address string) ([]model.PendingDeposit, error) {
	return b.repo.PendingDeposits(ctx, address)
}
