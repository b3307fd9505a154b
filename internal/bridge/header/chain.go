// Package header keeps the SPV view of the Bitcoin header chain.
package header

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"go.uber.org/zap"
)

const (
	outcomeAccepted  = "accepted"
	outcomeStale     = "stale"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
)

// SubmitResult describes what a header submission changed.
type SubmitResult struct {
	Hash        chainhash.Hash
	Height      uint32
	Duplicate   bool
	BestChanged bool
	Reorg       bool
	Best        model.HeaderIndex
	Confirmed   *model.HeaderIndex
}

// Chain validates headers and tracks the best and confirmed pointers.
type Chain struct {
	repo          Repository
	metrics       Metrics
	logger        *zap.Logger
	consensus     model.ConsensusParams
	powLimit      *big.Int
	genesis       model.Genesis
	confirmations atomic.Uint32
	now           func() time.Time
}

// NewChain builds a Chain over the repository.
func NewChain(repo Repository, params model.Params, metrics Metrics, logger *zap.Logger) (*Chain, error) {
	if repo == nil {
		return nil, errors.New("header repository is required")
	}
	if metrics == nil {
		return nil, errors.New("header metrics is required")
	}
	if params.Bridge.Confirmations == 0 {
		return nil, errors.New("confirmations must be positive")
	}
	c := &Chain{
		repo:      repo,
		metrics:   metrics,
		logger:    logger.Named("header").With(zap.String("network", string(params.Network))),
		consensus: params.Consensus,
		powLimit:  blockchain.CompactToBig(params.Consensus.PowLimitBits),
		genesis:   params.Genesis,
		now:       time.Now,
	}
	c.confirmations.Store(params.Bridge.Confirmations)
	return c, nil
}

// Init stores the genesis header on first start. Later starts only check
// the stored genesis matches.
func (c *Chain) Init(ctx context.Context) error {
	hash := c.genesis.Header.BlockHash()
	if _, err := c.repo.BestIndex(ctx); err == nil {
		stored, err := c.repo.Header(ctx, hash)
		if err != nil {
			return fmt.Errorf("load genesis %s: %w", hash, err)
		}
		if stored.Height != c.genesis.Height {
			return fmt.Errorf("stored genesis height %d, configured %d", stored.Height, c.genesis.Height)
		}
		return c.refreshGauges(ctx)
	} else if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("load best index: %w", err)
	}

	info := &model.HeaderInfo{
		Header: c.genesis.Header,
		Height: c.genesis.Height,
		Work:   blockchain.CalcWork(c.genesis.Header.Bits),
	}
	if err := c.repo.PutHeader(ctx, info); err != nil {
		return fmt.Errorf("store genesis: %w", err)
	}
	if err := c.repo.SetMainChain(ctx, hash, true); err != nil {
		return fmt.Errorf("mark genesis: %w", err)
	}
	if err := c.repo.SetBestIndex(ctx, info.Index()); err != nil {
		return fmt.Errorf("set best to genesis: %w", err)
	}
	if err := c.repo.SetConfirmedIndex(ctx, nil); err != nil {
		return fmt.Errorf("reset confirmed: %w", err)
	}
	c.logger.Info("header chain initialised", zap.Stringer("genesis", hash), zap.Uint32("height", info.Height))
	return c.refreshGauges(ctx)
}

// DecodeHeader parses an 80-byte serialized header.
func DecodeHeader(raw []byte) (*wire.BlockHeader, error) {
	if len(raw) != wire.MaxBlockHeaderPayload {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", model.ErrMalformedHeader, wire.MaxBlockHeaderPayload, len(raw))
	}
	var h wire.BlockHeader
	if err := h.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedHeader, err)
	}
	return &h, nil
}

// Submit decodes and submits a raw header.
func (c *Chain) Submit(ctx context.Context, raw []byte) (*SubmitResult, error) {
	h, err := DecodeHeader(raw)
	if err != nil {
		c.metrics.ObserveSubmit(outcomeRejected, err, time.Now())
		return nil, err
	}
	return c.SubmitHeader(ctx, h)
}

// SubmitHeader validates a header, stores it and applies fork choice.
func (c *Chain) SubmitHeader(ctx context.Context, h *wire.BlockHeader) (res *SubmitResult, err error) {
	started := time.Now()
	outcome := outcomeRejected
	defer func() {
		c.metrics.ObserveSubmit(outcome, err, started)
	}()

	hash := h.BlockHash()
	if existing, err := c.repo.Header(ctx, hash); err == nil {
		outcome = outcomeDuplicate
		return &SubmitResult{Hash: hash, Height: existing.Height, Duplicate: true}, nil
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("lookup header %s: %w", hash, err)
	}

	prev, err := c.repo.Header(ctx, h.PrevBlock)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownParent, h.PrevBlock)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup parent %s: %w", h.PrevBlock, err)
	}
	height := prev.Height + 1

	confirmed, err := c.repo.ConfirmedIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load confirmed index: %w", err)
	}
	if confirmed != nil && height <= confirmed.Height {
		return nil, fmt.Errorf("%w: height %d at or below confirmed height %d", model.ErrAncientFork, height, confirmed.Height)
	}

	if err := CheckProofOfWork(h, c.powLimit); err != nil {
		return nil, err
	}
	if err := CheckTimestamp(h, c.now(), c.consensus.BlockMaxFuture); err != nil {
		return nil, err
	}
	if err := c.checkDifficulty(ctx, h, prev, height); err != nil {
		return nil, err
	}

	info := &model.HeaderInfo{
		Header: *h,
		Height: height,
		Work:   new(big.Int).Add(prev.Work, blockchain.CalcWork(h.Bits)),
	}
	if err := c.repo.PutHeader(ctx, info); err != nil {
		return nil, fmt.Errorf("store header %s: %w", hash, err)
	}

	res = &SubmitResult{Hash: hash, Height: height}
	bestIdx, err := c.repo.BestIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load best index: %w", err)
	}
	best, err := c.repo.Header(ctx, bestIdx.Hash)
	if err != nil {
		return nil, fmt.Errorf("load best header: %w", err)
	}

	if info.Work.Cmp(best.Work) <= 0 {
		outcome = outcomeStale
		res.Best = bestIdx
		res.Confirmed = confirmed
		c.logger.Debug("stored stale header", zap.Stringer("hash", hash), zap.Uint32("height", height))
		return res, nil
	}

	reorg, err := c.switchBest(ctx, info, best)
	if err != nil {
		return nil, err
	}
	newConfirmed, err := c.updateConfirmed(ctx, info)
	if err != nil {
		return nil, err
	}

	outcome = outcomeAccepted
	res.BestChanged = true
	res.Reorg = reorg
	res.Best = info.Index()
	res.Confirmed = newConfirmed

	c.metrics.SetBestHeight(height)
	if newConfirmed != nil {
		c.metrics.SetConfirmedHeight(newConfirmed.Height)
	}
	if reorg {
		c.logger.Warn("best chain reorganised",
			zap.Stringer("old_best", bestIdx.Hash),
			zap.Uint32("old_height", bestIdx.Height),
			zap.Stringer("new_best", hash),
			zap.Uint32("new_height", height))
	}
	return res, nil
}

func (c *Chain) checkDifficulty(ctx context.Context, h *wire.BlockHeader, prev *model.HeaderInfo, height uint32) error {
	if !c.consensus.CheckRetarget {
		return nil
	}
	interval := c.consensus.RetargetInterval()
	if height%interval != 0 {
		if h.Bits != prev.Header.Bits {
			return fmt.Errorf("%w: bits %08x, want %08x", model.ErrInvalidProofOfWork, h.Bits, prev.Header.Bits)
		}
		return nil
	}

	// A period starting before genesis is measured from genesis.
	first := prev
	for i := uint32(0); i < interval-1 && first.Height > c.genesis.Height; i++ {
		parent, err := c.repo.Header(ctx, first.Header.PrevBlock)
		if err != nil {
			return fmt.Errorf("walk retarget period: %w", err)
		}
		first = parent
	}

	timespan := prev.Header.Timestamp.Sub(first.Header.Timestamp)
	want := NextRequiredBits(prev.Header.Bits, timespan, c.consensus)
	if h.Bits != want {
		return fmt.Errorf("%w: retarget bits %08x, want %08x", model.ErrInvalidProofOfWork, h.Bits, want)
	}
	return nil
}

// switchBest moves the best pointer to tip and re-marks the main chain.
// It reports whether blocks of the previous best branch were disconnected.
func (c *Chain) switchBest(ctx context.Context, tip, oldBest *model.HeaderInfo) (bool, error) {
	var branch []chainhash.Hash
	cur := tip
	for {
		main, err := c.repo.IsMainChain(ctx, cur.Hash())
		if err != nil {
			return false, fmt.Errorf("check main chain: %w", err)
		}
		if main {
			break
		}
		branch = append(branch, cur.Hash())
		parent, err := c.repo.Header(ctx, cur.Header.PrevBlock)
		if err != nil {
			return false, fmt.Errorf("walk new branch: %w", err)
		}
		cur = parent
	}
	fork := cur

	reorg := false
	old := oldBest
	for old.Height > fork.Height {
		reorg = true
		if err := c.repo.SetMainChain(ctx, old.Hash(), false); err != nil {
			return false, fmt.Errorf("unmark %s: %w", old.Hash(), err)
		}
		parent, err := c.repo.Header(ctx, old.Header.PrevBlock)
		if err != nil {
			return false, fmt.Errorf("walk old branch: %w", err)
		}
		old = parent
	}
	for _, hash := range branch {
		if err := c.repo.SetMainChain(ctx, hash, true); err != nil {
			return false, fmt.Errorf("mark %s: %w", hash, err)
		}
	}
	if err := c.repo.SetBestIndex(ctx, tip.Index()); err != nil {
		return false, fmt.Errorf("set best index: %w", err)
	}
	return reorg, nil
}

// updateConfirmed points confirmed at the ancestor of best that has
// `confirmations` blocks on top of it.
func (c *Chain) updateConfirmed(ctx context.Context, best *model.HeaderInfo) (*model.HeaderIndex, error) {
	confirmations := c.confirmations.Load()
	if best.Height < c.genesis.Height+confirmations {
		if err := c.repo.SetConfirmedIndex(ctx, nil); err != nil {
			return nil, fmt.Errorf("reset confirmed index: %w", err)
		}
		return nil, nil
	}
	target := best.Height - confirmations
	cur := best
	for cur.Height > target {
		parent, err := c.repo.Header(ctx, cur.Header.PrevBlock)
		if err != nil {
			return nil, fmt.Errorf("walk to confirmed: %w", err)
		}
		cur = parent
	}
	idx := cur.Index()
	if err := c.repo.SetConfirmedIndex(ctx, &idx); err != nil {
		return nil, fmt.Errorf("set confirmed index: %w", err)
	}
	return &idx, nil
}

// SetConfirmations changes the confirmation depth and recomputes confirmed.
func (c *Chain) SetConfirmations(ctx context.Context, confirmations uint32) (*model.HeaderIndex, error) {
	if confirmations == 0 {
		return nil, errors.New("confirmations must be positive")
	}
	c.confirmations.Store(confirmations)
	best, err := c.Best(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := c.updateConfirmed(ctx, best)
	if err != nil {
		return nil, err
	}
	c.logger.Info("confirmation depth changed", zap.Uint32("confirmations", confirmations))
	return idx, c.refreshGauges(ctx)
}

// ConfirmationDepth returns the configured confirmation depth.
func (c *Chain) ConfirmationDepth() uint32 {
	return c.confirmations.Load()
}

// Best returns the tip of the best chain.
func (c *Chain) Best(ctx context.Context) (*model.HeaderInfo, error) {
	idx, err := c.repo.BestIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load best index: %w", err)
	}
	return c.repo.Header(ctx, idx.Hash)
}

// Confirmed returns the confirmed header, or nil while the chain is too short.
func (c *Chain) Confirmed(ctx context.Context) (*model.HeaderInfo, error) {
	idx, err := c.repo.ConfirmedIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load confirmed index: %w", err)
	}
	if idx == nil {
		return nil, nil
	}
	return c.repo.Header(ctx, idx.Hash)
}

// Header looks up an accepted header.
func (c *Chain) Header(ctx context.Context, hash chainhash.Hash) (*model.HeaderInfo, error) {
	return c.repo.Header(ctx, hash)
}

// IsMainChain reports whether the header is on the best chain.
func (c *Chain) IsMainChain(ctx context.Context, hash chainhash.Hash) (bool, error) {
	return c.repo.IsMainChain(ctx, hash)
}

// HashesAtHeight lists every accepted header at the height, forks included.
func (c *Chain) HashesAtHeight(ctx context.Context, height uint32) ([]chainhash.Hash, error) {
	return c.repo.HashesAtHeight(ctx, height)
}

// Confirmations counts best-chain blocks built on top of height.
func (c *Chain) Confirmations(ctx context.Context, height uint32) (uint32, error) {
	best, err := c.repo.BestIndex(ctx)
	if err != nil {
		return 0, fmt.Errorf("load best index: %w", err)
	}
	if height > best.Height {
		return 0, nil
	}
	return best.Height - height, nil
}

func (c *Chain) refreshGauges(ctx context.Context) error {
	best, err := c.repo.BestIndex(ctx)
	if err != nil {
		return fmt.Errorf("load best index: %w", err)
	}
	c.metrics.SetBestHeight(best.Height)
	confirmed, err := c.repo.ConfirmedIndex(ctx)
	if err != nil {
		return fmt.Errorf("load confirmed index: %w", err)
	}
	if confirmed != nil {
		c.metrics.SetConfirmedHeight(confirmed.Height)
	}
	return nil
}
