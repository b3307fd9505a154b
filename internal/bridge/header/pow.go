package header

import (
	"fmt"
	"math/big"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// CheckProofOfWork validates the declared target against the limit and the
// header hash against the target.
func CheckProofOfWork(h *wire.BlockHeader, powLimit *big.Int) error {
	target := blockchain.CompactToBig(h.Bits)
	if target.Sign() <= 0 {
		return fmt.Errorf("%w: target of bits %08x is not positive", model.ErrInvalidProofOfWork, h.Bits)
	}
	if target.Cmp(powLimit) > 0 {
		return fmt.Errorf("%w: target of bits %08x above limit", model.ErrInvalidProofOfWork, h.Bits)
	}
	hash := h.BlockHash()
	if blockchain.HashToBig(&hash).Cmp(target) > 0 {
		return fmt.Errorf("%w: hash %s above target", model.ErrInvalidProofOfWork, hash)
	}
	return nil
}

// NextRequiredBits computes the bits of the first block of a new retarget
// period from the bits of the last block and the period's timespan.
func NextRequiredBits(lastBits uint32, actualTimespan time.Duration, params model.ConsensusParams) uint32 {
	target := int64(params.TargetTimespan / time.Second)
	minTimespan := target / params.RetargetAdjustmentFactor
	maxTimespan := target * params.RetargetAdjustmentFactor

	timespan := int64(actualTimespan / time.Second)
	if timespan < minTimespan {
		timespan = minTimespan
	} else if timespan > maxTimespan {
		timespan = maxTimespan
	}

	next := blockchain.CompactToBig(lastBits)
	next.Mul(next, big.NewInt(timespan))
	next.Div(next, big.NewInt(target))

	powLimit := blockchain.CompactToBig(params.PowLimitBits)
	if next.Cmp(powLimit) > 0 {
		next = powLimit
	}
	return blockchain.BigToCompact(next)
}

// CheckTimestamp rejects headers too far ahead of now.
func CheckTimestamp(h *wire.BlockHeader, now time.Time, maxFuture time.Duration) error {
	if h.Timestamp.After(now.Add(maxFuture)) {
		return fmt.Errorf("%w: %s", model.ErrFuturisticTimestamp, h.Timestamp.UTC().Format(time.RFC3339))
	}
	return nil
}
