package withdrawal

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
)

// VoteResult is the proposal state after a trustee vote.
type VoteResult struct {
	Proposal   *model.WithdrawalProposal
	Approvals  uint32
	Rejections uint32
	Threshold  uint32
	Total      uint32
	// Finished is set when this vote completed the signatures.
	Finished bool
	// Dropped is set when this vote rejected the proposal for good.
	Dropped bool
	// Records are the withdrawal records moved by the vote.
	Records []*model.WithdrawalRecord
}

// voter resolves the session of the open proposal and checks that the
// account may still vote on it.
func (e *Engine) voter(ctx context.Context, trustee model.AccountID) (*model.WithdrawalProposal, *model.TrusteeSessionInfo, int, error) {
	p, err := e.openProposal(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	if p.SigState == model.SigFinished {
		return nil, nil, 0, fmt.Errorf("%w: proposal already finished", model.ErrInvalidStateTransition)
	}
	session, err := e.trustees.Session(ctx, p.Session)
	if err != nil {
		return nil, nil, 0, err
	}
	idx, ok := session.Member(trustee)
	if !ok {
		return nil, nil, 0, fmt.Errorf("%w: %s in session %d", model.ErrNotTrustee, trustee, session.Number)
	}
	if _, voted := p.Vote(trustee); voted {
		return nil, nil, 0, fmt.Errorf("%w: %s", model.ErrDuplicateVote, trustee)
	}
	return p, session, idx, nil
}

// Sign adds one trustee's signatures, one per input. Reaching the
// threshold assembles the scriptSigs and finishes the proposal.
func (e *Engine) Sign(ctx context.Context, trustee model.AccountID, sigs [][]byte) (*VoteResult, error) {
	p, session, idx, err := e.voter(ctx, trustee)
	if err != nil {
		return nil, err
	}
	if len(sigs) != len(p.Tx.TxIn) {
		return nil, fmt.Errorf("%w: got %d signatures for %d inputs", model.ErrInvalidSignCount, len(sigs), len(p.Tx.TxIn))
	}
	pubkey := session.Trustees[idx].HotPubKey
	for i, sig := range sigs {
		if err := script.VerifySignature(p.Tx, i, session.Hot.RedeemScript, sig, pubkey); err != nil {
			e.logger.Warn("rejected withdrawal signature", zap.Stringer("trustee", trustee), zap.Error(err))
			return nil, err
		}
	}

	stored := make([][]byte, len(sigs))
	for i, sig := range sigs {
		stored[i] = append([]byte(nil), sig...)
	}
	p.Votes = append(p.Votes, model.TrusteeVote{Account: trustee, Approve: true, Signatures: stored})
	res := e.result(p, session)

	if res.Approvals >= session.Threshold {
		recs, err := e.records(ctx, p.WithdrawalIDs)
		if err != nil {
			return nil, err
		}
		signed, err := e.assemble(p, session)
		if err != nil {
			return nil, err
		}
		if err := advanceAll(recs, e.now(), model.WithdrawalBroadcasting); err != nil {
			return nil, err
		}
		p.Tx = signed
		p.SigState = model.SigFinished
		res.Finished = true
		res.Records = recs
		if err := e.repo.PutWithdrawals(ctx, recs...); err != nil {
			return nil, fmt.Errorf("store withdrawals: %w", err)
		}
	}
	if err := e.repo.PutProposal(ctx, e.chain, p); err != nil {
		return nil, fmt.Errorf("store proposal: %w", err)
	}
	if err := e.trustees.RecordSignature(ctx, session.Number, trustee); err != nil {
		return nil, fmt.Errorf("record signature: %w", err)
	}

	if res.Finished {
		e.logger.Info("withdrawal proposal finished",
			zap.Stringer("txid", p.Tx.TxHash()),
			zap.Uint32("approvals", res.Approvals),
			zap.Uint64s("withdrawals", p.WithdrawalIDs))
	} else {
		e.logger.Info("withdrawal proposal signed",
			zap.Stringer("trustee", trustee),
			zap.Uint32("approvals", res.Approvals),
			zap.Uint32("threshold", res.Threshold))
	}
	return res, nil
}

// assemble builds the signed transaction from the approving votes, taking
// signatures in redeem script key order, and runs the script interpreter
// over it.
func (e *Engine) assemble(p *model.WithdrawalProposal, session *model.TrusteeSessionInfo) (*wire.MsgTx, error) {
	redeem := session.Hot.RedeemScript
	required, keys, err := script.ParseMultisigRedeemScript(redeem)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string][][]byte, len(p.Votes))
	for _, v := range p.Votes {
		if !v.Approve {
			continue
		}
		idx, ok := session.Member(v.Account)
		if !ok {
			continue
		}
		byKey[string(session.Trustees[idx].HotPubKey)] = v.Signatures
	}

	signed := p.Tx.Copy()
	prevOuts := make([]*wire.TxOut, len(signed.TxIn))
	for i, in := range signed.TxIn {
		ordered := make([][]byte, 0, required)
		for _, key := range keys {
			sigs, ok := byKey[string(key)]
			if !ok {
				continue
			}
			ordered = append(ordered, sigs[i])
			if len(ordered) == required {
				break
			}
		}
		if len(ordered) < required {
			return nil, fmt.Errorf("%w: input %d has %d of %d signatures", model.ErrInvalidSignCount, i, len(ordered), required)
		}
		scriptSig, err := script.MultisigScriptSig(ordered, redeem)
		if err != nil {
			return nil, fmt.Errorf("build scriptSig: %w", err)
		}
		in.SignatureScript = scriptSig

		if i >= len(p.Inputs) {
			return nil, fmt.Errorf("%w: missing prevout of input %d", model.ErrMismatchedTx, i)
		}
		pkScript, err := script.PayToAddress(p.Inputs[i].Address, e.chainParams)
		if err != nil {
			return nil, err
		}
		prevOuts[i] = wire.NewTxOut(int64(p.Inputs[i].Value), pkScript)
	}
	if err := script.VerifyInputs(signed, prevOuts); err != nil {
		return nil, err
	}
	return signed, nil
}

// Reject records a no vote. Once enough trustees rejected that the
// threshold can no longer be met, the proposal is dropped and its records
// return to Applying.
func (e *Engine) Reject(ctx context.Context, trustee model.AccountID) (*VoteResult, error) {
	p, session, _, err := e.voter(ctx, trustee)
	if err != nil {
		return nil, err
	}
	p.Votes = append(p.Votes, model.TrusteeVote{Account: trustee})
	res := e.result(p, session)

	if res.Rejections >= session.Total()-session.Threshold+1 {
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
		res.Dropped = true
		res.Records = recs
		e.logger.Warn("withdrawal proposal rejected by trustees",
			zap.Uint32("rejections", res.Rejections),
			zap.Uint64s("withdrawals", p.WithdrawalIDs))
		return res, nil
	}

	if err := e.repo.PutProposal(ctx, e.chain, p); err != nil {
		return nil, fmt.Errorf("store proposal: %w", err)
	}
	e.logger.Info("withdrawal proposal rejected", zap.Stringer("trustee", trustee), zap.Uint32("rejections", res.Rejections))
	return res, nil
}

func (e *Engine) result(p *model.WithdrawalProposal, session *model.TrusteeSessionInfo) *VoteResult {
	return &VoteResult{
		Proposal:   p,
		Approvals:  p.Approvals(),
		Rejections: p.Rejections(),
		Threshold:  session.Threshold,
		Total:      session.Total(),
	}
}
