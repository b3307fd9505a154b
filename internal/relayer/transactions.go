package relayer

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bloom"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/merkle"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/transport"
	"github.com/goodnatureofminers/btcbridge7000-backend/pkg/workerpool"
)

// syncTransactions scans confirmed blocks above the cursor and relays the
// transactions touching trustee addresses. It returns the number of blocks
// scanned.
func (s *Service) syncTransactions(ctx context.Context, status *transport.ChainStatus) (int, error) {
	if status.Confirmed == nil {
		return 0, nil
	}
	confirmed := status.Confirmed.Height
	if s.nextTxHeight == 0 {
		s.nextTxHeight = confirmed + 1
		s.logger.Info("starting transaction scan above confirmed height", zap.Uint32("height", s.nextTxHeight))
	}
	if s.nextTxHeight > confirmed {
		return 0, nil
	}
	from := s.nextTxHeight
	to := confirmed
	if limit := from + uint32(s.maxBlocksPerPoll) - 1; limit < to {
		to = limit
	}

	trustees, err := s.bridge.Trustees(ctx)
	if err != nil {
		return 0, fmt.Errorf("load trustees: %w", err)
	}
	watch, err := newWatchSet(trustees, s.params)
	if err != nil {
		return 0, err
	}
	if watch.empty() {
		s.logger.Debug("no trustee session yet; skipping transaction scan")
		return 0, nil
	}

	blocks, err := s.fetchBlocks(ctx, from, to)
	if err != nil {
		return 0, err
	}
	var relayed int
	for i, block := range blocks {
		height := from + uint32(i)
		n, err := s.relayBlock(ctx, watch, height, block)
		if err != nil {
			return i, err
		}
		relayed += n
		s.nextTxHeight = height + 1
	}

	s.logger.Info("blocks scanned",
		zap.String("blocks", humanize.Comma(int64(len(blocks)))),
		zap.Int("relayed_txs", relayed),
		zap.Uint32("from", from),
		zap.Uint32("to", to))
	return len(blocks), nil
}

func (s *Service) fetchBlocks(ctx context.Context, from, to uint32) ([]*btcutil.Block, error) {
	blocks, err := workerpool.Heights(ctx, s.workerCount, from, to, func(ctx context.Context, height uint32) (*btcutil.Block, error) {
		hash, err := s.blockHash(ctx, height)
		if err != nil {
			return nil, err
		}
		msg, err := withRetryData(ctx, s, "get block", func() (*wire.MsgBlock, error) {
			return s.rpc.GetBlock(hash)
		})
		if err != nil {
			return nil, err
		}
		return btcutil.NewBlock(msg), nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch blocks %d..%d: %w", from, to, err)
	}
	return blocks, nil
}

// relayBlock submits the matching transactions of one block. Transactions
// the bridge rejects are logged and skipped.
func (s *Service) relayBlock(ctx context.Context, watch *watchSet, height uint32, block *btcutil.Block) (int, error) {
	blockHash := block.Hash()
	var relayed int
	for _, tx := range block.Transactions() {
		msg := tx.MsgTx()
		if !s.tracked.matches(watch, msg) {
			continue
		}

		req, err := s.relayRequest(ctx, block, tx)
		if err != nil {
			return relayed, err
		}
		logger := s.logger.With(zap.Stringer("txid", tx.Hash()), zap.Uint32("height", height), zap.Stringer("block", blockHash))

		out, err := s.bridge.SubmitTransaction(ctx, req)
		s.metrics.ObserveSubmit("tx", err)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Rejected() {
			logger.Warn("bridge rejected transaction", zap.String("category", apiErr.Category), zap.String("reason", apiErr.Message))
			s.tracked.update(watch, msg)
			continue
		}
		if err != nil {
			return relayed, fmt.Errorf("submit tx %s: %w", tx.Hash(), err)
		}
		s.tracked.update(watch, msg)
		relayed++
		logger.Info("transaction relayed",
			zap.String("type", out.Type),
			zap.String("result", out.Result),
			zap.Bool("duplicate", out.Duplicate))
	}
	return relayed, nil
}

func (s *Service) relayRequest(ctx context.Context, block *btcutil.Block, tx *btcutil.Tx) (transport.RelayTxRequest, error) {
	proof, err := merkleProof(block, tx.Hash())
	if err != nil {
		return transport.RelayTxRequest{}, err
	}
	raw, err := serialize(tx.MsgTx())
	if err != nil {
		return transport.RelayTxRequest{}, err
	}
	req := transport.RelayTxRequest{
		Tx:        hexString(raw),
		BlockHash: block.Hash().String(),
		Proof:     hexString(proof),
	}

	if blockchain.IsCoinBaseTx(tx.MsgTx()) {
		return req, nil
	}
	prevHash := tx.MsgTx().TxIn[0].PreviousOutPoint.Hash
	prev, err := withRetryData(ctx, s, "get raw transaction", func() (*btcutil.Tx, error) {
		return s.rpc.GetRawTransaction(&prevHash)
	})
	if err != nil {
		// Without the previous transaction the bridge can still classify
		// transactions that carry an account binding.
		s.logger.Warn("previous transaction unavailable", zap.Stringer("txid", tx.Hash()), zap.Error(err))
		return req, nil
	}
	rawPrev, err := serialize(prev.MsgTx())
	if err != nil {
		return transport.RelayTxRequest{}, err
	}
	req.PrevTx = hexString(rawPrev)
	return req, nil
}

// merkleProof builds a merkleblock proving txid against the block header.
func merkleProof(block *btcutil.Block, txid *chainhash.Hash) ([]byte, error) {
	filter := bloom.NewFilter(1, 0, 0.000001, wire.BloomUpdateNone)
	filter.AddHash(txid)
	mb, _ := bloom.NewMerkleBlock(block, filter)
	raw, err := merkle.EncodeMerkleBlock(mb)
	if err != nil {
		return nil, fmt.Errorf("encode merkle proof %s: %w", txid, err)
	}
	return raw, nil
}

func serialize(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("serialize tx: %w", err)
	}
	return buf.Bytes(), nil
}
