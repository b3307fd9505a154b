package withdrawal

import (
	"bytes"
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
)

// MarkBroadcast records that the finished proposal transaction was handed
// to the Bitcoin network.
func (e *Engine) MarkBroadcast(ctx context.Context, txid chainhash.Hash) ([]*model.WithdrawalRecord, error) {
	p, err := e.openProposal(ctx)
	if err != nil {
		return nil, err
	}
	if p.SigState != model.SigFinished {
		return nil, model.ErrProposalNotFinished
	}
	if hash := p.Tx.TxHash(); hash != txid {
		return nil, fmt.Errorf("%w: proposal tx is %s, got %s", model.ErrMismatchedTx, hash, txid)
	}
	recs, err := e.records(ctx, p.WithdrawalIDs)
	if err != nil {
		return nil, err
	}
	moved := make([]*model.WithdrawalRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.State == model.WithdrawalProcessing {
			continue
		}
		if err := advance(rec, model.WithdrawalProcessing, e.now()); err != nil {
			return nil, err
		}
		rec.TxID = txid
		moved = append(moved, rec)
	}
	if len(moved) == 0 {
		return nil, nil
	}
	if err := e.repo.PutWithdrawals(ctx, moved...); err != nil {
		return nil, fmt.Errorf("store withdrawals: %w", err)
	}
	e.logger.Info("withdrawal transaction broadcast", zap.Stringer("txid", txid), zap.Uint64s("withdrawals", p.WithdrawalIDs))
	return moved, nil
}

// ObserveWithdrawalTx closes the open proposal with its transaction seen
// in a block. Records move to Confirming and the hot UTXO set is updated.
func (e *Engine) ObserveWithdrawalTx(ctx context.Context, tx *wire.MsgTx, block model.HeaderIndex, required uint32) ([]*model.WithdrawalRecord, error) {
	p, err := e.Proposal(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: no open proposal for %s", model.ErrMismatchedTx, tx.TxHash())
	}
	if p.SigState != model.SigFinished {
		return nil, fmt.Errorf("%w: proposal not finished for %s", model.ErrMismatchedTx, tx.TxHash())
	}
	if err := ensureIdentical(p.Tx, tx); err != nil {
		return nil, err
	}
	recs, err := e.records(ctx, p.WithdrawalIDs)
	if err != nil {
		return nil, err
	}

	txid := tx.TxHash()
	now := e.now()
	for _, rec := range recs {
		if rec.State == model.WithdrawalBroadcasting {
			if err := advance(rec, model.WithdrawalProcessing, now); err != nil {
				return nil, err
			}
		}
		if err := advance(rec, model.WithdrawalConfirming, now); err != nil {
			return nil, err
		}
		rec.TxID = txid
		rec.BlockHash = block.Hash
		rec.BlockHeight = block.Height
		rec.Seen = 0
		rec.Required = required
	}

	session, err := e.trustees.Session(ctx, p.Session)
	if err != nil {
		return nil, err
	}
	if err := e.repo.PutWithdrawals(ctx, recs...); err != nil {
		return nil, fmt.Errorf("store withdrawals: %w", err)
	}
	if err := e.TrackTx(ctx, tx, session.Hot.Address); err != nil {
		return nil, err
	}
	if err := e.repo.DeleteProposal(ctx, e.chain); err != nil {
		return nil, fmt.Errorf("delete proposal: %w", err)
	}

	e.logger.Info("withdrawal transaction observed",
		zap.Stringer("txid", txid),
		zap.Uint32("height", block.Height),
		zap.Uint64s("withdrawals", p.WithdrawalIDs))
	return recs, nil
}

// ensureIdentical compares two transactions ignoring scriptSigs and
// witnesses.
func ensureIdentical(want, got *wire.MsgTx) error {
	if want.Version != got.Version || want.LockTime != got.LockTime {
		return fmt.Errorf("%w: version or lock time differ", model.ErrMismatchedTx)
	}
	if len(want.TxIn) != len(got.TxIn) || len(want.TxOut) != len(got.TxOut) {
		return fmt.Errorf("%w: input or output count differs", model.ErrMismatchedTx)
	}
	for i := range want.TxIn {
		if want.TxIn[i].PreviousOutPoint != got.TxIn[i].PreviousOutPoint || want.TxIn[i].Sequence != got.TxIn[i].Sequence {
			return fmt.Errorf("%w: input %d differs", model.ErrMismatchedTx, i)
		}
	}
	for i := range want.TxOut {
		if want.TxOut[i].Value != got.TxOut[i].Value || !bytes.Equal(want.TxOut[i].PkScript, got.TxOut[i].PkScript) {
			return fmt.Errorf("%w: output %d differs", model.ErrMismatchedTx, i)
		}
	}
	return nil
}

// Reanchor points Confirming records of txid at the block the transaction
// was seen in again after its previous block left the main chain.
func (e *Engine) Reanchor(ctx context.Context, txid chainhash.Hash, block model.HeaderIndex) ([]*model.WithdrawalRecord, error) {
	recs, err := e.Withdrawals(ctx)
	if err != nil {
		return nil, err
	}
	var moved []*model.WithdrawalRecord
	for _, rec := range recs {
		if rec.State != model.WithdrawalConfirming || rec.TxID != txid || rec.BlockHash == block.Hash {
			continue
		}
		if err := advance(rec, model.WithdrawalConfirming, e.now()); err != nil {
			return nil, err
		}
		rec.BlockHash = block.Hash
		rec.BlockHeight = block.Height
		rec.Seen = 0
		moved = append(moved, rec)
	}
	if len(moved) == 0 {
		return nil, nil
	}
	if err := e.repo.PutWithdrawals(ctx, moved...); err != nil {
		return nil, fmt.Errorf("store withdrawals: %w", err)
	}
	e.logger.Info("withdrawal records moved to new block",
		zap.Stringer("txid", txid),
		zap.Stringer("block", block.Hash),
		zap.Uint32("height", block.Height),
		zap.Int("withdrawals", len(moved)))
	return moved, nil
}

// AdvanceConfirmations refreshes Confirming records against the chain
// pointers. Records buried at or below the confirmed header on the main
// chain are debited in the ledger and archived; those are returned.
func (e *Engine) AdvanceConfirmations(ctx context.Context, best model.HeaderIndex, confirmed *model.HeaderIndex) ([]*model.WithdrawalRecord, error) {
	recs, err := e.Withdrawals(ctx)
	if err != nil {
		return nil, err
	}
	var done []*model.WithdrawalRecord
	for _, rec := range recs {
		if rec.State != model.WithdrawalConfirming {
			continue
		}
		onMain, err := e.headers.IsMainChain(ctx, rec.BlockHash)
		if err != nil {
			return done, fmt.Errorf("check block %s: %w", rec.BlockHash, err)
		}
		if !onMain {
			if rec.Seen != 0 {
				rec.Seen = 0
				if err := e.repo.PutWithdrawals(ctx, rec); err != nil {
					return done, fmt.Errorf("store withdrawal %d: %w", rec.ID, err)
				}
			}
			e.logger.Warn("withdrawal block left the main chain",
				zap.Uint64("id", rec.ID),
				zap.Stringer("block", rec.BlockHash))
			continue
		}

		var seen uint32
		if best.Height >= rec.BlockHeight {
			seen = best.Height - rec.BlockHeight
		}
		if confirmed == nil || rec.BlockHeight > confirmed.Height {
			if seen == rec.Seen {
				continue
			}
			if err := advance(rec, model.WithdrawalConfirming, e.now()); err != nil {
				return done, err
			}
			rec.Seen = seen
			if err := e.repo.PutWithdrawals(ctx, rec); err != nil {
				return done, fmt.Errorf("store withdrawal %d: %w", rec.ID, err)
			}
			continue
		}

		if err := advance(rec, model.WithdrawalConfirmed, e.now()); err != nil {
			return done, err
		}
		rec.Seen = seen
		if err := e.ledger.DebitConfirmed(ctx, rec.ID); err != nil {
			return done, fmt.Errorf("debit withdrawal %d: %w", rec.ID, err)
		}
		if err := e.repo.ArchiveWithdrawal(ctx, rec); err != nil {
			return done, fmt.Errorf("archive withdrawal %d: %w", rec.ID, err)
		}
		e.logger.Info("withdrawal confirmed",
			zap.Uint64("id", rec.ID),
			zap.Stringer("txid", rec.TxID),
			zap.Uint32("height", rec.BlockHeight))
		done = append(done, rec)
	}
	return done, nil
}

// TrackTx updates the UTXO set of the hot address: every spent outpoint
// is dropped and outputs paying the hot address are added.
func (e *Engine) TrackTx(ctx context.Context, tx *wire.MsgTx, hot string) error {
	spent := make([]wire.OutPoint, 0, len(tx.TxIn))
	for _, in := range tx.TxIn {
		spent = append(spent, in.PreviousOutPoint)
	}
	txid := tx.TxHash()
	var created []model.UTXO
	for i, out := range tx.TxOut {
		address, ok := script.Destination(out.PkScript, e.chainParams)
		if !ok || address != hot || out.Value <= 0 {
			continue
		}
		created = append(created, model.UTXO{
			OutPoint: wire.OutPoint{Hash: txid, Index: uint32(i)},
			Value:    uint64(out.Value),
			Address:  hot,
		})
	}
	if err := e.repo.ApplyUTXOs(ctx, spent, created); err != nil {
		return fmt.Errorf("apply utxos: %w", err)
	}
	return nil
}
