package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/withdrawal"
)

// RequestWithdrawal opens a withdrawal record and locks its amount.
func (b *Bridge) RequestWithdrawal(ctx context.Context, requester model.AccountID, destination string, amount uint64) (rec *model.WithdrawalRecord, err error) {
	defer b.observe("request_withdrawal", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if rec, err = b.withdrawals.Request(ctx, requester, destination, amount); err != nil {
			return nil, err
		}
		ev := b.event(model.EventWithdrawalRequested)
		ev.WithdrawalID = rec.ID
		ev.Account = requester.String()
		ev.Address = rec.Destination
		ev.Amount = amount
		return []model.Event{ev}, nil
	})
	if err != nil {
		return nil, err
	}
	b.refreshWithdrawalGauges(ctx)
	return rec, nil
}

// RemovePending cancels an Applying withdrawal.
func (b *Bridge) RemovePending(ctx context.Context, id uint64) (rec *model.WithdrawalRecord, err error) {
	defer b.observe("remove_pending", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if rec, err = b.withdrawals.RemovePending(ctx, id); err != nil {
			return nil, err
		}
		ev := b.event(model.EventWithdrawalCancelled)
		ev.WithdrawalID = rec.ID
		ev.Account = rec.Requester.String()
		ev.Amount = rec.Amount
		return []model.Event{ev}, nil
	})
	if err != nil {
		return nil, err
	}
	b.refreshWithdrawalGauges(ctx)
	return rec, nil
}

// CreateProposal packs pending withdrawals into a new proposal.
func (b *Bridge) CreateProposal(ctx context.Context, proposer model.AccountID) (p *model.WithdrawalProposal, err error) {
	defer b.observe("create_proposal", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if p, err = b.withdrawals.CreateProposal(ctx, proposer); err != nil {
			return nil, err
		}
		ev := b.event(model.EventWithdrawalProposalCreated)
		ev.Account = proposer.String()
		ev.Session = p.Session
		ev.TxID = p.Tx.TxHash().String()
		ev.Detail = fmt.Sprint(p.WithdrawalIDs)
		return []model.Event{ev}, nil
	})
	if err != nil {
		return nil, err
	}
	b.refreshWithdrawalGauges(ctx)
	return p, nil
}

// SignProposal adds a trustee's signatures to the open proposal.
func (b *Bridge) SignProposal(ctx context.Context, trustee model.AccountID, sigs [][]byte) (res *withdrawal.VoteResult, err error) {
	defer b.observe("sign_proposal", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if res, err = b.withdrawals.Sign(ctx, trustee, sigs); err != nil {
			return nil, err
		}
		return b.voteEvents(trustee, res, true), nil
	})
	if err != nil {
		return nil, err
	}
	if res.Finished {
		b.refreshWithdrawalGauges(ctx)
	}
	return res, nil
}

// RejectProposal records a trustee's veto on the open proposal.
func (b *Bridge) RejectProposal(ctx context.Context, trustee model.AccountID) (res *withdrawal.VoteResult, err error) {
	defer b.observe("reject_proposal", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if res, err = b.withdrawals.Reject(ctx, trustee); err != nil {
			return nil, err
		}
		return b.voteEvents(trustee, res, false), nil
	})
	if err != nil {
		return nil, err
	}
	if res.Dropped {
		b.refreshWithdrawalGauges(ctx)
	}
	return res, nil
}

func (b *Bridge) voteEvents(trustee model.AccountID, res *withdrawal.VoteResult, approve bool) []model.Event {
	voted := b.event(model.EventWithdrawalProposalVoted)
	voted.Account = trustee.String()
	voted.Session = res.Proposal.Session
	voted.Detail = fmt.Sprintf("approve=%t approvals=%d rejections=%d threshold=%d", approve, res.Approvals, res.Rejections, res.Threshold)
	events := []model.Event{voted}
	switch {
	case res.Finished:
		ev := b.event(model.EventWithdrawalProposalFinished)
		ev.Session = res.Proposal.Session
		ev.TxID = res.Proposal.Tx.TxHash().String()
		events = append(events, ev)
	case res.Dropped:
		ev := b.event(model.EventWithdrawalProposalDropped)
		ev.Session = res.Proposal.Session
		ev.Detail = fmt.Sprint(res.Proposal.WithdrawalIDs)
		events = append(events, ev)
	}
	return events
}

// MarkBroadcast notes that the finished proposal transaction was sent.
func (b *Bridge) MarkBroadcast(ctx context.Context, txid chainhash.Hash) (recs []*model.WithdrawalRecord, err error) {
	defer b.observe("mark_broadcast", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		recs, err = b.withdrawals.MarkBroadcast(ctx, txid)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	b.refreshWithdrawalGauges(ctx)
	return recs, nil
}

// RemoveProposal drops the open proposal.
func (b *Bridge) RemoveProposal(ctx context.Context) (recs []*model.WithdrawalRecord, err error) {
	defer b.observe("remove_proposal", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if recs, err = b.withdrawals.RemoveProposal(ctx); err != nil {
			return nil, err
		}
		ev := b.event(model.EventWithdrawalProposalDropped)
		ev.Detail = "removed by operator"
		return []model.Event{ev}, nil
	})
	if err != nil {
		return nil, err
	}
	b.refreshWithdrawalGauges(ctx)
	return recs, nil
}

// ForceReplaceProposalTx swaps the open proposal transaction for raw.
func (b *Bridge) ForceReplaceProposalTx(ctx context.Context, raw []byte) (p *model.WithdrawalProposal, err error) {
	defer b.observe("force_replace_proposal", &err, time.Now())
	tx := new(wire.MsgTx)
	if err = tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedTx, err)
	}

	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if p, err = b.withdrawals.ForceReplaceProposalTx(ctx, tx); err != nil {
			return nil, err
		}
		ev := b.event(model.EventWithdrawalProposalCreated)
		ev.Session = p.Session
		ev.TxID = tx.TxHash().String()
		ev.Detail = "replaced by operator"
		return []model.Event{ev}, nil
	})
	if err != nil {
		return nil, err
	}
	b.refreshWithdrawalGauges(ctx)
	b.logger.Warn("proposal transaction replaced", zap.Stringer("txid", tx.TxHash()))
	return p, nil
}

// Proposal returns the open proposal, nil when there is none.
func (b *Bridge) Proposal(ctx context.Context) (*model.WithdrawalProposal, error) {
	defer b.lock(model.Bitcoin)()
	return b.withdrawals.Proposal(ctx)
}

// Withdrawal returns a live withdrawal record.
func (b *Bridge) Withdrawal(ctx context.Context, id uint64) (*model.WithdrawalRecord, error) {
	defer b.lock(model.Bitcoin)()
	return b.withdrawals.Withdrawal(ctx, id)
}

// Withdrawals lists live withdrawal records.
func (b *Bridge) Withdrawals(ctx context.Context) ([]*model.WithdrawalRecord, error) {
	defer b.lock(model.Bitcoin)()
	return b.withdrawals.Withdrawals(ctx)
}
