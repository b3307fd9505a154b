package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// CheckTransition flags a trustee transition that outlived its window.
func (b *Bridge) CheckTransition(ctx context.Context, now time.Time) (err error) {
	defer b.observe("check_transition", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	status, err := b.trustees.CheckTransition(ctx, now)
	if errors.Is(err, model.ErrTransitionStalled) {
		b.metrics.SetTransitionStalled(true)
		var fields []zap.Field
		if status != nil {
			fields = append(fields, zap.Uint32("from", status.From), zap.Uint32("to", status.To))
		}
		b.alert(ctx, "transition_stalled", err, fields...)
		return err
	}
	if err != nil {
		return err
	}
	b.metrics.SetTransitionStalled(false)
	return nil
}

// CheckHeaderStall alerts when the best chain has not moved for maxAge.
func (b *Bridge) CheckHeaderStall(ctx context.Context, now time.Time, maxAge time.Duration) (err error) {
	defer b.observe("check_header_stall", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	last, err := b.repo.LastHeaderAt(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load last header time: %w", err)
	}
	if idle := now.Sub(last); idle > maxAge {
		err = fmt.Errorf("%w: no new best header for %s", model.ErrHeaderStall, idle.Truncate(time.Second))
		b.alert(ctx, "header_stall", err, zap.Time("last_header_at", last))
		return err
	}
	return nil
}

// CheckStuckProposals alerts on a proposal collecting signatures for
// longer than maxAge. The proposal is left untouched.
func (b *Bridge) CheckStuckProposals(ctx context.Context, now time.Time, maxAge time.Duration) (err error) {
	defer b.observe("check_stuck_proposals", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	p, err := b.withdrawals.StuckProposal(ctx, now, maxAge)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	err = fmt.Errorf("%w: created %s, %d votes for %d withdrawals", model.ErrStuckProposal, p.CreatedAt.Format(time.RFC3339), len(p.Votes), len(p.WithdrawalIDs))
	b.alert(ctx, "stuck_proposal", err, zap.Uint32("session", p.Session))
	return err
}
