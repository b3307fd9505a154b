package service

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// ChainStatus is the SPV view of the Bitcoin chain.
type ChainStatus struct {
	Best      model.HeaderIndex
	Confirmed *model.HeaderIndex
}

// Chain returns the best and confirmed headers.
func (b *Bridge) Chain(ctx context.Context) (*ChainStatus, error) {
	defer b.lock(model.Bitcoin)()

	best, err := b.chain.Best(ctx)
	if err != nil {
		return nil, err
	}
	status := &ChainStatus{Best: best.Index()}
	confirmed, err := b.chain.Confirmed(ctx)
	if err != nil {
		return nil, err
	}
	if confirmed != nil {
		idx := confirmed.Index()
		status.Confirmed = &idx
	}
	return status, nil
}

// TxState returns the stored outcome of a relayed transaction.
func (b *Bridge) TxState(ctx context.Context, txid chainhash.Hash) (*model.TxState, error) {
	defer b.lock(model.Bitcoin)()
	return b.repo.TxState(ctx, txid)
}

// HeaderStatus returns a stored header and whether it is on the best chain.
func (b *Bridge) HeaderStatus(ctx context.Context, hash chainhash.Hash) (*model.HeaderInfo, bool, error) {
	defer b.lock(model.Bitcoin)()

	info, err := b.chain.Header(ctx, hash)
	if err != nil {
		return nil, false, err
	}
	onMain, err := b.chain.IsMainChain(ctx, hash)
	if err != nil {
		return nil, false, err
	}
	return info, onMain, nil
}
