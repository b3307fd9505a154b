package service

import (
	"context"
	"time"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/trustee"
)

// SetTrusteeIntention registers a candidate's keys.
func (b *Bridge) SetTrusteeIntention(ctx context.Context, account model.AccountID, props model.TrusteeIntentionProps) (err error) {
	defer b.observe("set_trustee_intention", &err, time.Now())
	defer b.lock(model.Bitcoin)()
	return b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		return nil, b.trustees.SetIntention(ctx, account, props)
	})
}

// Elect runs a stake-ranked election.
func (b *Bridge) Elect(ctx context.Context) (session *model.TrusteeSessionInfo, err error) {
	defer b.observe("elect", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if session, err = b.trustees.Elect(ctx); err != nil {
			return nil, err
		}
		return []model.Event{b.sessionChanged(session)}, nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ForceElect installs an explicit committee.
func (b *Bridge) ForceElect(ctx context.Context, accounts []model.AccountID) (session *model.TrusteeSessionInfo, err error) {
	defer b.observe("force_elect", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if session, err = b.trustees.ForceElect(ctx, accounts); err != nil {
			return nil, err
		}
		return []model.Event{b.sessionChanged(session)}, nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (b *Bridge) sessionChanged(session *model.TrusteeSessionInfo) model.Event {
	ev := b.event(model.EventTrusteeSessionChanged)
	ev.Session = session.Number
	ev.Address = session.Hot.Address
	ev.Detail = session.Cold.Address
	return ev
}

// SetPenalty moves an account in or out of the penalty set.
func (b *Bridge) SetPenalty(ctx context.Context, account model.AccountID, in bool) (err error) {
	defer b.observe("set_penalty", &err, time.Now())
	defer b.lock(model.Bitcoin)()
	return b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		return nil, b.trustees.SetPenalty(ctx, account, in)
	})
}

// ResolveStall closes a stalled trustee transition.
func (b *Bridge) ResolveStall(ctx context.Context) (status *model.TransitionStatus, err error) {
	defer b.observe("resolve_stall", &err, time.Now())
	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		if status, err = b.trustees.ResolveStall(ctx); err != nil {
			return nil, err
		}
		ev := b.event(model.EventTrusteeTransitionCompleted)
		ev.Session = status.To
		ev.Detail = "resolved by operator"
		return []model.Event{ev}, nil
	})
	if err != nil {
		return nil, err
	}
	b.metrics.SetTransitionStalled(false)
	return status, nil
}

// ConsumeSignatureRecords returns and resets the signature counters of a
// session.
func (b *Bridge) ConsumeSignatureRecords(ctx context.Context, number uint32) (records []trustee.SignatureRecord, err error) {
	defer b.observe("consume_signature_records", &err, time.Now())
	defer b.lock(model.Bitcoin)()
	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		records, err = b.trustees.ConsumeSignatureRecords(ctx, number)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CurrentSession returns the latest trustee session.
func (b *Bridge) CurrentSession(ctx context.Context) (*model.TrusteeSessionInfo, error) {
	defer b.lock(model.Bitcoin)()
	return b.trustees.Current(ctx)
}

// PreviousSession returns the session before the current one, nil for the
// first session.
func (b *Bridge) PreviousSession(ctx context.Context) (*model.TrusteeSessionInfo, error) {
	defer b.lock(model.Bitcoin)()
	return b.trustees.Previous(ctx)
}

// Session returns a trustee session by number.
func (b *Bridge) Session(ctx context.Context, number uint32) (*model.TrusteeSessionInfo, error) {
	defer b.lock(model.Bitcoin)()
	return b.trustees.Session(ctx, number)
}

// Transition returns the last trustee transition, nil before the first.
func (b *Bridge) Transition(ctx context.Context) (*model.TransitionStatus, error) {
	defer b.lock(model.Bitcoin)()
	return b.trustees.Transition(ctx)
}
