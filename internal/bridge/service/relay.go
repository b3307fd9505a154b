package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/classifier"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/header"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/merkle"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// TxOutcome is the result of a relayed transaction.
type TxOutcome struct {
	TxID      chainhash.Hash
	Type      model.BtcTxType
	Result    model.TxResult
	Duplicate bool
}

// HeaderOutcome is the result of a relayed header.
type HeaderOutcome struct {
	*header.SubmitResult
	// Withdrawn lists withdrawals that reached finality with this header.
	Withdrawn []*model.WithdrawalRecord
}

// SubmitHeader adds a header to the chain and moves withdrawal
// confirmations along with the best chain. Both happen in one store
// transaction.
func (b *Bridge) SubmitHeader(ctx context.Context, raw []byte) (out *HeaderOutcome, err error) {
	defer b.observe("submit_header", &err, time.Now())
	if _, err = header.DecodeHeader(raw); err != nil {
		return nil, err
	}

	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		res, err := b.chain.Submit(ctx, raw)
		if err != nil {
			return nil, err
		}
		out = &HeaderOutcome{SubmitResult: res}
		if res.Duplicate {
			return nil, nil
		}

		ev := b.event(model.EventHeaderInserted)
		ev.Height = res.Height
		ev.BlockHash = res.Hash.String()
		switch {
		case res.Reorg:
			ev.Detail = "reorg"
		case !res.BestChanged:
			ev.Detail = "stale"
		}
		if !res.BestChanged {
			return []model.Event{ev}, nil
		}

		if err := b.repo.SetLastHeaderAt(ctx, b.now()); err != nil {
			return nil, fmt.Errorf("store last header time: %w", err)
		}
		done, err := b.withdrawals.AdvanceConfirmations(ctx, res.Best, res.Confirmed)
		if err != nil {
			return nil, fmt.Errorf("advance confirmations: %w", err)
		}
		out.Withdrawn = done
		return append([]model.Event{ev}, b.withdrawnEvents(done)...), nil
	})
	if err != nil {
		return nil, err
	}
	if out.BestChanged {
		b.refreshWithdrawalGauges(ctx)
	}
	return out, nil
}

type relayInput struct {
	tx     *wire.MsgTx
	prevTx *wire.MsgTx
	block  *wire.MsgMerkleBlock
}

func decodeRelayTx(rt model.RelayTx) (*relayInput, error) {
	in := &relayInput{tx: new(wire.MsgTx)}
	if err := in.tx.Deserialize(bytes.NewReader(rt.Tx)); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedTx, err)
	}
	if len(rt.PrevTx) > 0 {
		in.prevTx = new(wire.MsgTx)
		if err := in.prevTx.Deserialize(bytes.NewReader(rt.PrevTx)); err != nil {
			return nil, fmt.Errorf("%w: previous tx: %v", model.ErrMalformedTx, err)
		}
	}
	block, err := merkle.DecodeMerkleBlock(rt.Proof)
	if err != nil {
		return nil, err
	}
	if hash := block.Header.BlockHash(); hash != rt.BlockHash {
		return nil, fmt.Errorf("%w: proof header %s, block %s", model.ErrBadMerkleProof, hash, rt.BlockHash)
	}
	in.block = block
	return in, nil
}

// SubmitTransaction verifies a relayed transaction against the header
// chain, classifies it and applies its effects in one store transaction.
// The block must be at or below the confirmed header. Replaying a
// processed txid is a no-op unless its block left the main chain.
func (b *Bridge) SubmitTransaction(ctx context.Context, rt model.RelayTx) (out *TxOutcome, err error) {
	defer b.observe("submit_tx", &err, time.Now())
	in, err := decodeRelayTx(rt)
	if err != nil {
		return nil, err
	}

	defer b.lock(model.Bitcoin)()

	err = b.apply(ctx, func(ctx context.Context) ([]model.Event, error) {
		var events []model.Event
		out, events, err = b.submitTransaction(ctx, rt, in)
		return events, err
	})
	if err != nil {
		return nil, err
	}
	if out.Type == model.TxWithdrawal {
		b.refreshWithdrawalGauges(ctx)
	}
	return out, nil
}

func (b *Bridge) submitTransaction(ctx context.Context, rt model.RelayTx, in *relayInput) (*TxOutcome, []model.Event, error) {
	txid := in.tx.TxHash()
	logger := b.logger.With(zap.Stringer("txid", txid), zap.Stringer("block", rt.BlockHash))

	stored, err := b.repo.TxState(ctx, txid)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, nil, fmt.Errorf("load tx state: %w", err)
	}
	if stored != nil {
		moved, err := b.movedFrom(ctx, stored, rt.BlockHash)
		if err != nil {
			return nil, nil, err
		}
		if !moved {
			return &TxOutcome{TxID: txid, Type: stored.Type, Result: stored.Result, Duplicate: true}, nil, nil
		}
	}

	block, err := b.confirmedBlock(ctx, rt.BlockHash)
	if err != nil {
		return nil, nil, err
	}
	if stored != nil {
		return b.reanchor(ctx, in, block, *stored)
	}

	current, err := b.trustees.Current(ctx)
	if err != nil {
		return nil, nil, err
	}
	cctx := classifier.Context{Params: b.chainParams, Current: current.Pair()}
	previous, err := b.trustees.Previous(ctx)
	if err != nil {
		return nil, nil, err
	}
	if previous != nil {
		pair := previous.Pair()
		cctx.Previous = &pair
	}
	transition, err := b.trustees.Transition(ctx)
	if err != nil {
		return nil, nil, err
	}
	cctx.TransitionActive = transition.Active()

	meta, err := classifier.Classify(classifier.Input{
		Tx:         in.tx,
		PrevTx:     in.prevTx,
		Proof:      merkle.FromMerkleBlock(in.block),
		MerkleRoot: block.Header.MerkleRoot,
		Context:    cctx,
	})
	if errors.Is(err, model.ErrAmbiguousTx) {
		b.alert(ctx, "ambiguous_tx", err, zap.Stringer("txid", txid))
	}
	if err != nil {
		return nil, nil, err
	}

	blockIdx := block.Index()
	state := model.TxState{Type: meta.Type, Result: model.TxSuccess, Block: blockIdx}
	var events []model.Event
	switch meta.Type {
	case model.TxDeposit:
		state.Result, events, err = b.deposit(ctx, in.tx, meta.Deposit, block.Height, current.Hot.Address)
		if err != nil {
			return nil, nil, err
		}
	case model.TxWithdrawal:
		events, err = b.observeWithdrawal(ctx, in.tx, blockIdx)
		if errors.Is(err, model.ErrMismatchedTx) {
			b.alert(ctx, "mismatched_withdrawal", err, zap.Stringer("txid", txid))
		}
		if err != nil {
			return nil, nil, err
		}
	case model.TxHotAndCold:
		if err := b.withdrawals.TrackTx(ctx, in.tx, current.Hot.Address); err != nil {
			return nil, nil, err
		}
	case model.TxTrusteeTransition:
		if err := b.withdrawals.TrackTx(ctx, in.tx, current.Hot.Address); err != nil {
			return nil, nil, err
		}
		status, err := b.trustees.CompleteTransition(ctx)
		if err != nil {
			return nil, nil, err
		}
		if cctx.TransitionActive && status != nil {
			ev := b.event(model.EventTrusteeTransitionCompleted)
			ev.Session = status.To
			ev.TxID = txid.String()
			events = append(events, ev)
		}
	}

	if err := b.repo.PutTxState(ctx, txid, state); err != nil {
		return nil, nil, fmt.Errorf("store tx state: %w", err)
	}
	events = append(events, b.processedEvent(txid, blockIdx, state, ""))

	logger.Info("relayed transaction processed",
		zap.Stringer("type", meta.Type),
		zap.Stringer("result", state.Result),
		zap.Uint32("height", block.Height))
	return &TxOutcome{TxID: txid, Type: meta.Type, Result: state.Result}, events, nil
}

// confirmedBlock loads the header a transaction is proven against. It must
// be on the main chain at or below the confirmed header.
func (b *Bridge) confirmedBlock(ctx context.Context, hash chainhash.Hash) (*model.HeaderInfo, error) {
	block, err := b.chain.Header(ctx, hash)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownBlock, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("load header: %w", err)
	}
	onMain, err := b.chain.IsMainChain(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("check main chain: %w", err)
	}
	if !onMain {
		return nil, fmt.Errorf("%w: %s", model.ErrNotMainChain, hash)
	}
	confirmed, err := b.chain.Confirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("load confirmed header: %w", err)
	}
	if confirmed == nil || block.Height > confirmed.Height {
		return nil, fmt.Errorf("%w: block height %d", model.ErrUnconfirmedTx, block.Height)
	}
	return block, nil
}

// movedFrom reports whether a processed transaction is relayed under
// another block while the block it was processed under left the main chain.
func (b *Bridge) movedFrom(ctx context.Context, stored *model.TxState, hash chainhash.Hash) (bool, error) {
	if stored.Block.Hash == hash || stored.Block.Hash == (chainhash.Hash{}) {
		return false, nil
	}
	onMain, err := b.chain.IsMainChain(ctx, stored.Block.Hash)
	if err != nil {
		return false, fmt.Errorf("check main chain: %w", err)
	}
	return !onMain, nil
}

// reanchor moves a processed transaction to the main-chain block it was
// relayed under again. Its effects were applied once and are not repeated;
// withdrawal records waiting for confirmations follow the new block.
func (b *Bridge) reanchor(ctx context.Context, in *relayInput, block *model.HeaderInfo, state model.TxState) (*TxOutcome, []model.Event, error) {
	txid := in.tx.TxHash()
	if _, err := merkle.Prove(merkle.FromMerkleBlock(in.block), block.Header.MerkleRoot, txid); err != nil {
		return nil, nil, err
	}
	old := state.Block
	state.Block = block.Index()
	if state.Type == model.TxWithdrawal {
		recs, err := b.withdrawals.Reanchor(ctx, txid, state.Block)
		if err != nil {
			return nil, nil, err
		}
		done, err := b.advanceConfirmations(ctx)
		if err != nil {
			return nil, nil, err
		}
		b.logger.Warn("withdrawal transaction re-anchored",
			zap.Stringer("txid", txid),
			zap.Int("withdrawals", len(recs)),
			zap.Int("confirmed", len(done)))
		events := append(b.withdrawnEvents(done), b.processedEvent(txid, state.Block, state, "reanchored"))
		if err := b.repo.PutTxState(ctx, txid, state); err != nil {
			return nil, nil, fmt.Errorf("store tx state: %w", err)
		}
		return &TxOutcome{TxID: txid, Type: state.Type, Result: state.Result, Duplicate: true}, events, nil
	}
	if err := b.repo.PutTxState(ctx, txid, state); err != nil {
		return nil, nil, fmt.Errorf("store tx state: %w", err)
	}
	b.logger.Warn("transaction re-anchored",
		zap.Stringer("txid", txid),
		zap.Stringer("old_block", old.Hash),
		zap.Stringer("block", state.Block.Hash))
	return &TxOutcome{TxID: txid, Type: state.Type, Result: state.Result, Duplicate: true},
		[]model.Event{b.processedEvent(txid, state.Block, state, "reanchored")}, nil
}

func (b *Bridge) processedEvent(txid chainhash.Hash, block model.HeaderIndex, state model.TxState, note string) model.Event {
	ev := b.event(model.EventTxProcessed)
	ev.TxID = txid.String()
	ev.BlockHash = block.Hash.String()
	ev.Height = block.Height
	ev.Detail = fmt.Sprintf("%s/%s", state.Type, state.Result)
	if note != "" {
		ev.Detail += " " + note
	}
	return ev
}

func (b *Bridge) observeWithdrawal(ctx context.Context, tx *wire.MsgTx, block model.HeaderIndex) ([]model.Event, error) {
	required := b.withdrawals.Params().Confirmations
	recs, err := b.withdrawals.ObserveWithdrawalTx(ctx, tx, block, required)
	if err != nil {
		return nil, err
	}
	ev := b.event(model.EventWithdrawalProposalCompleted)
	ev.TxID = tx.TxHash().String()
	ev.BlockHash = block.Hash.String()
	ev.Height = block.Height
	ev.Detail = fmt.Sprintf("%d withdrawals", len(recs))
	events := []model.Event{ev}

	done, err := b.advanceConfirmations(ctx)
	if err != nil {
		return nil, err
	}
	return append(events, b.withdrawnEvents(done)...), nil
}

// advanceConfirmations settles withdrawal records against the current best
// and confirmed headers.
func (b *Bridge) advanceConfirmations(ctx context.Context) ([]*model.WithdrawalRecord, error) {
	best, err := b.chain.Best(ctx)
	if err != nil {
		return nil, fmt.Errorf("load best header: %w", err)
	}
	var confirmed *model.HeaderIndex
	if info, err := b.chain.Confirmed(ctx); err != nil {
		return nil, fmt.Errorf("load confirmed header: %w", err)
	} else if info != nil {
		idx := info.Index()
		confirmed = &idx
	}
	done, err := b.withdrawals.AdvanceConfirmations(ctx, best.Index(), confirmed)
	if err != nil {
		return nil, fmt.Errorf("advance confirmations: %w", err)
	}
	return done, nil
}

func (b *Bridge) withdrawnEvents(recs []*model.WithdrawalRecord) []model.Event {
	events := make([]model.Event, 0, len(recs))
	for _, rec := range recs {
		ev := b.event(model.EventWithdrawn)
		ev.WithdrawalID = rec.ID
		ev.Account = rec.Requester.String()
		ev.Address = rec.Destination
		ev.Amount = rec.Amount
		ev.TxID = rec.TxID.String()
		ev.BlockHash = rec.BlockHash.String()
		ev.Height = rec.BlockHeight
		events = append(events, ev)
	}
	return events
}
