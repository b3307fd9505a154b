package withdrawal

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
)

type plan struct {
	records []*model.WithdrawalRecord
	inputs  []model.UTXO
	outputs []*wire.TxOut
	fee     uint64
	size    int
}

// Proposal returns the open proposal, nil when there is none.
func (e *Engine) Proposal(ctx context.Context) (*model.WithdrawalProposal, error) {
	p, err := e.repo.Proposal(ctx, e.chain)
	if err != nil {
		return nil, fmt.Errorf("load proposal: %w", err)
	}
	return p, nil
}

func (e *Engine) openProposal(ctx context.Context) (*model.WithdrawalProposal, error) {
	p, err := e.Proposal(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrNoProposal
	}
	return p, nil
}

// CreateProposal packs Applying records into an unsigned transaction
// spending hot UTXOs of the current session.
func (e *Engine) CreateProposal(ctx context.Context, proposer model.AccountID) (*model.WithdrawalProposal, error) {
	current, err := e.trustees.Current(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := current.Member(proposer); !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrNotTrustee, proposer)
	}
	transition, err := e.trustees.Transition(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transition: %w", err)
	}
	if transition.Active() {
		return nil, fmt.Errorf("%w: session %d to %d", model.ErrTransitionInProgress, transition.From, transition.To)
	}
	existing, err := e.Proposal(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrProposalExists
	}

	params := e.Params()
	all, err := e.Withdrawals(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*model.WithdrawalRecord, 0, len(all))
	for _, rec := range all {
		if rec.State != model.WithdrawalApplying {
			continue
		}
		if rec.Amount < params.WithdrawalFee+model.DustLimit {
			e.logger.Warn("withdrawal no longer covers the fee, skipping",
				zap.Uint64("id", rec.ID),
				zap.Uint64("amount", rec.Amount),
				zap.Uint64("fee", params.WithdrawalFee))
			continue
		}
		pending = append(pending, rec)
	}
	if len(pending) == 0 {
		return nil, model.ErrNoPendingWithdrawal
	}

	utxos, err := e.repo.UTXOs(ctx, current.Hot.Address)
	if err != nil {
		return nil, fmt.Errorf("load hot utxos: %w", err)
	}
	hotScript, err := script.PayToAddress(current.Hot.Address, e.chainParams)
	if err != nil {
		return nil, err
	}
	inputSize := multisigInputSize(int(current.Threshold), len(current.Hot.RedeemScript))

	packed, err := e.pack(pending, utxos, hotScript, inputSize, params)
	if err != nil {
		return nil, err
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	for _, in := range packed.inputs {
		op := in.OutPoint
		tx.AddTxIn(wire.NewTxIn(&op, nil, nil))
	}
	for _, out := range packed.outputs {
		tx.AddTxOut(out)
	}

	now := e.now()
	if err := advanceAll(packed.records, now, model.WithdrawalSigning); err != nil {
		return nil, err
	}
	ids := make([]uint64, len(packed.records))
	for i, rec := range packed.records {
		ids[i] = rec.ID
	}
	proposal := &model.WithdrawalProposal{
		Session:       current.Number,
		Proposer:      proposer,
		SigState:      model.SigUnfinished,
		WithdrawalIDs: ids,
		Tx:            tx,
		Inputs:        packed.inputs,
		CreatedAt:     now.UTC(),
	}
	if err := e.repo.PutWithdrawals(ctx, packed.records...); err != nil {
		return nil, fmt.Errorf("store withdrawals: %w", err)
	}
	if err := e.repo.PutProposal(ctx, e.chain, proposal); err != nil {
		return nil, fmt.Errorf("store proposal: %w", err)
	}

	e.logger.Info("withdrawal proposal created",
		zap.Stringer("proposer", proposer),
		zap.Uint32("session", current.Number),
		zap.Uint64s("withdrawals", ids),
		zap.Int("inputs", len(packed.inputs)),
		zap.Int("size", packed.size),
		zap.Uint64("fee", packed.fee))
	return proposal, nil
}

// pack takes the longest id-ordered prefix of records that fits the count,
// size and fee limits.
func (e *Engine) pack(recs []*model.WithdrawalRecord, utxos []model.UTXO, hotScript []byte, inputSize int, params model.BridgeParams) (*plan, error) {
	sorted := make([]model.UTXO, len(utxos))
	copy(sorted, utxos)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value > sorted[j].Value
		}
		if c := bytes.Compare(sorted[i].OutPoint.Hash[:], sorted[j].OutPoint.Hash[:]); c != 0 {
			return c < 0
		}
		return sorted[i].OutPoint.Index < sorted[j].OutPoint.Index
	})

	var best *plan
	for n := 1; n <= len(recs) && n <= int(params.MaxWithdrawalCount); n++ {
		p, err := e.buildPlan(recs[:n], sorted, hotScript, inputSize, params)
		if err != nil {
			if best == nil {
				return nil, err
			}
			break
		}
		best = p
	}
	return best, nil
}

func (e *Engine) buildPlan(recs []*model.WithdrawalRecord, utxos []model.UTXO, hotScript []byte, inputSize int, params model.BridgeParams) (*plan, error) {
	p := &plan{records: recs}
	scripts := make([][]byte, 0, len(recs)+1)
	var payout uint64
	for _, rec := range recs {
		pkScript, err := script.PayToAddress(rec.Destination, e.chainParams)
		if err != nil {
			return nil, fmt.Errorf("withdrawal %d: %w", rec.ID, err)
		}
		value := rec.Amount - params.WithdrawalFee
		p.outputs = append(p.outputs, wire.NewTxOut(int64(value), pkScript))
		scripts = append(scripts, pkScript)
		payout += value
	}
	scripts = append(scripts, hotScript)

	var funded uint64
	for _, u := range utxos {
		p.inputs = append(p.inputs, u)
		funded += u.Value
		p.size = estimateSize(len(p.inputs), inputSize, scripts)
		p.fee = uint64(p.size) * params.FeeRate
		if funded >= payout+p.fee {
			break
		}
	}
	if len(p.inputs) == 0 || funded < payout+p.fee {
		return nil, fmt.Errorf("%w: need %d, hot address holds %d", model.ErrInsufficientFunds, payout+p.fee, funded)
	}
	if params.MaxTxSize > 0 && p.size > int(params.MaxTxSize) {
		return nil, fmt.Errorf("%w: estimated size %d exceeds %d", model.ErrInsufficientFunds, p.size, params.MaxTxSize)
	}
	if budget := uint64(len(recs)) * params.WithdrawalFee; p.fee > budget {
		return nil, fmt.Errorf("%w: network fee %d exceeds withdrawal fees %d", model.ErrInsufficientFunds, p.fee, budget)
	}

	change := funded - payout - p.fee
	if change > model.DustLimit {
		p.outputs = append(p.outputs, wire.NewTxOut(int64(change), hotScript))
	} else {
		p.fee += change
	}
	return p, nil
}

// RemoveProposal drops the open proposal and returns its records to
// Applying. A proposal whose transaction was already broadcast cannot be
// removed.
func (e *Engine) RemoveProposal(ctx context.Context) ([]*model.WithdrawalRecord, error) {
	p, err := e.openProposal(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := e.records(ctx, p.WithdrawalIDs)
	if err != nil {
		return nil, err
	}
	if err := advanceAll(recs, e.now(), model.WithdrawalApplying); err != nil {
		return nil, err
	}
	if err := e.repo.PutWithdrawals(ctx, recs...); err != nil {
		return nil, fmt.Errorf("store withdrawals: %w", err)
	}
	if err := e.repo.DeleteProposal(ctx, e.chain); err != nil {
		return nil, fmt.Errorf("delete proposal: %w", err)
	}
	e.logger.Warn("withdrawal proposal removed", zap.Uint64s("withdrawals", p.WithdrawalIDs))
	return recs, nil
}

// ForceReplaceProposalTx swaps the proposal transaction for one paying the
// same withdrawals, typically with a different fee. Collected signatures
// are dropped.
func (e *Engine) ForceReplaceProposalTx(ctx context.Context, tx *wire.MsgTx) (*model.WithdrawalProposal, error) {
	p, err := e.openProposal(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := e.records(ctx, p.WithdrawalIDs)
	if err != nil {
		return nil, err
	}
	session, err := e.trustees.Session(ctx, p.Session)
	if err != nil {
		return nil, err
	}
	hotScript, err := script.PayToAddress(session.Hot.Address, e.chainParams)
	if err != nil {
		return nil, err
	}
	if len(tx.TxIn) == 0 || len(tx.TxOut) == 0 {
		return nil, fmt.Errorf("%w: replacement has no inputs or outputs", model.ErrMalformedTx)
	}

	utxos, err := e.repo.UTXOs(ctx, session.Hot.Address)
	if err != nil {
		return nil, fmt.Errorf("load hot utxos: %w", err)
	}
	available := make(map[wire.OutPoint]model.UTXO, len(utxos))
	for _, u := range utxos {
		available[u.OutPoint] = u
	}
	inputs := make([]model.UTXO, 0, len(tx.TxIn))
	var funded uint64
	for i, in := range tx.TxIn {
		u, ok := available[in.PreviousOutPoint]
		if !ok {
			return nil, fmt.Errorf("%w: input %d does not spend a hot utxo", model.ErrMismatchedTx, i)
		}
		delete(available, in.PreviousOutPoint)
		inputs = append(inputs, u)
		funded += u.Value
	}

	if err := samePayouts(p.Tx, tx, hotScript); err != nil {
		return nil, err
	}
	var spent uint64
	for _, out := range tx.TxOut {
		if out.Value < 0 {
			return nil, fmt.Errorf("%w: negative output", model.ErrMalformedTx)
		}
		spent += uint64(out.Value)
	}
	if spent > funded {
		return nil, fmt.Errorf("%w: outputs %d exceed inputs %d", model.ErrInsufficientFunds, spent, funded)
	}

	now := e.now()
	if err := advanceAll(recs, now, model.WithdrawalApplying, model.WithdrawalSigning); err != nil {
		return nil, err
	}

	unsigned := tx.Copy()
	for _, in := range unsigned.TxIn {
		in.SignatureScript = nil
		in.Witness = nil
	}
	p.Tx = unsigned
	p.Inputs = inputs
	p.Votes = nil
	p.SigState = model.SigUnfinished
	p.CreatedAt = now.UTC()

	if err := e.repo.PutWithdrawals(ctx, recs...); err != nil {
		return nil, fmt.Errorf("store withdrawals: %w", err)
	}
	if err := e.repo.PutProposal(ctx, e.chain, p); err != nil {
		return nil, fmt.Errorf("store proposal: %w", err)
	}
	e.logger.Warn("withdrawal proposal transaction replaced",
		zap.Stringer("txid", unsigned.TxHash()),
		zap.Uint64s("withdrawals", p.WithdrawalIDs))
	return p, nil
}

// samePayouts checks that both transactions pay the same non-change
// outputs, in any order.
func samePayouts(want, got *wire.MsgTx, hotScript []byte) error {
	expected := make(map[string]int)
	for _, out := range want.TxOut {
		if bytes.Equal(out.PkScript, hotScript) {
			continue
		}
		expected[payoutKey(out)]++
	}
	for _, out := range got.TxOut {
		if bytes.Equal(out.PkScript, hotScript) {
			continue
		}
		key := payoutKey(out)
		if expected[key] == 0 {
			return fmt.Errorf("%w: unexpected output paying %x", model.ErrMismatchedTx, out.PkScript)
		}
		expected[key]--
	}
	for _, n := range expected {
		if n != 0 {
			return fmt.Errorf("%w: replacement drops a withdrawal output", model.ErrMismatchedTx)
		}
	}
	return nil
}

func payoutKey(out *wire.TxOut) string {
	return fmt.Sprintf("%x:%d", out.PkScript, out.Value)
}

// StuckProposal returns the open proposal when it has been collecting
// signatures for longer than maxAge, nil otherwise.
func (e *Engine) StuckProposal(ctx context.Context, now time.Time, maxAge time.Duration) (*model.WithdrawalProposal, error) {
	p, err := e.Proposal(ctx)
	if err != nil || p == nil {
		return nil, err
	}
	if p.SigState != model.SigUnfinished || now.Sub(p.CreatedAt) <= maxAge {
		return nil, nil
	}
	return p, nil
}
