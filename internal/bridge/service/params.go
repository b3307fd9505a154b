package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// Params returns the bridge parameters in force.
func (b *Bridge) Params() model.BridgeParams {
	return b.withdrawals.Params()
}

// SetConfirmations changes the confirmation depth. Withdrawals that became
// final under the new depth are settled right away.
func (b *Bridge) SetConfirmations(ctx context.Context, confirmations uint32) (err error) {
	defer b.observe("set_confirmations", &err, time.Now())
	if confirmations == 0 {
		return errors.New("confirmations must be positive")
	}
	defer b.lock(model.Bitcoin)()

	previous := b.withdrawals.Params()
	params := previous
	params.Confirmations = confirmations
	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		confirmed, err := b.chain.SetConfirmations(ctx, confirmations)
		if err != nil {
			return nil, fmt.Errorf("set confirmations: %w", err)
		}
		if err := b.repo.PutBridgeParams(ctx, params); err != nil {
			return nil, fmt.Errorf("store bridge params: %w", err)
		}
		best, err := b.chain.Best(ctx)
		if err != nil {
			return nil, fmt.Errorf("load best header: %w", err)
		}
		done, err := b.withdrawals.AdvanceConfirmations(ctx, best.Index(), confirmed)
		if err != nil {
			return nil, fmt.Errorf("advance confirmations: %w", err)
		}
		return b.withdrawnEvents(done), nil
	})
	if err != nil {
		if _, restoreErr := b.chain.SetConfirmations(ctx, previous.Confirmations); restoreErr != nil {
			b.logger.Error("restore confirmation depth failed", zap.Uint32("confirmations", previous.Confirmations), zap.Error(restoreErr))
		}
		return err
	}
	b.paramsChanged(params)
	b.refreshWithdrawalGauges(ctx)
	return nil
}

// SetWithdrawalFee changes the per-withdrawal fee.
func (b *Bridge) SetWithdrawalFee(ctx context.Context, fee uint64) (err error) {
	defer b.observe("set_withdrawal_fee", &err, time.Now())
	defer b.lock(model.Bitcoin)()
	return b.updateParams(ctx, func(p *model.BridgeParams) { p.WithdrawalFee = fee })
}

// SetFeeRate changes the network fee rate in satoshi per vbyte.
func (b *Bridge) SetFeeRate(ctx context.Context, rate uint64) (err error) {
	defer b.observe("set_fee_rate", &err, time.Now())
	if rate == 0 {
		return errors.New("fee rate must be positive")
	}
	defer b.lock(model.Bitcoin)()
	return b.updateParams(ctx, func(p *model.BridgeParams) { p.FeeRate = rate })
}

// SetDepositLimit changes the minimum creditable deposit.
func (b *Bridge) SetDepositLimit(ctx context.Context, minDeposit uint64) (err error) {
	defer b.observe("set_deposit_limit", &err, time.Now())
	defer b.lock(model.Bitcoin)()
	return b.updateParams(ctx, func(p *model.BridgeParams) { p.MinDeposit = minDeposit })
}

func (b *Bridge) updateParams(ctx context.Context, change func(p *model.BridgeParams)) error {
	params := b.withdrawals.Params()
	change(&params)
	if err := b.repo.PutBridgeParams(ctx, params); err != nil {
		return fmt.Errorf("store bridge params: %w", err)
	}
	b.paramsChanged(params)
	return nil
}

// paramsChanged installs committed parameters.
func (b *Bridge) paramsChanged(params model.BridgeParams) {
	b.withdrawals.SetParams(params)
	b.logger.Info("bridge params changed", zap.Any("params", params))
}
