package model

import (
	"bytes"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/wire"
)

const (
	defaultBlockMaxFuture   = 2 * time.Hour
	defaultTransitionWindow = 7 * 24 * time.Hour
	defaultProposalMaxAge   = 24 * time.Hour

	// DustLimit is the smallest output value the bridge will create.
	DustLimit uint64 = 546
)

// ConsensusParams are the header validation rules of a network.
type ConsensusParams struct {
	PowLimitBits             uint32
	TargetTimespan           time.Duration
	TargetSpacing            time.Duration
	RetargetAdjustmentFactor int64
	BlockMaxFuture           time.Duration
	// CheckRetarget enables the difficulty transition check. Test networks
	// allow minimum-difficulty blocks, so only mainnet enforces it.
	CheckRetarget bool
}

// RetargetInterval is the number of blocks between difficulty adjustments.
func (p ConsensusParams) RetargetInterval() uint32 {
	if p.TargetSpacing <= 0 {
		return 0
	}
	return uint32(p.TargetTimespan / p.TargetSpacing)
}

// BridgeParams are the operator-tunable bridge parameters.
type BridgeParams struct {
	Confirmations      uint32 `cbor:"1,keyasint" toml:"confirmations"`
	MinDeposit         uint64 `cbor:"2,keyasint" toml:"min_deposit"`
	WithdrawalFee      uint64 `cbor:"3,keyasint" toml:"withdrawal_fee"`
	FeeRate            uint64 `cbor:"4,keyasint" toml:"fee_rate"`
	MaxWithdrawalCount uint32 `cbor:"5,keyasint" toml:"max_withdrawal_count"`
	MaxTxSize          uint32 `cbor:"6,keyasint" toml:"max_tx_size"`
}

// MinWithdrawal is the smallest amount a withdrawal request may carry.
func (p BridgeParams) MinWithdrawal() uint64 {
	minimal := p.WithdrawalFee * 3 / 2
	if minimal < p.WithdrawalFee+DustLimit {
		minimal = p.WithdrawalFee + DustLimit
	}
	return minimal
}

// TrusteeConfig bounds committee size and rotation timing.
type TrusteeConfig struct {
	MinCount         uint32
	MaxCount         uint32
	TransitionWindow time.Duration
	ProposalMaxAge   time.Duration
}

// Genesis is the header the light client starts from.
type Genesis struct {
	Header wire.BlockHeader
	Height uint32
}

// Params bundles every parameter set of one bridge instance.
type Params struct {
	Network       Network
	AccountPrefix uint8
	Consensus     ConsensusParams
	Bridge        BridgeParams
	Trustee       TrusteeConfig
	Genesis       Genesis
}

// DefaultParams returns built-in parameters for the network, starting the
// header chain at the network's genesis block.
func DefaultParams(network Network) (Params, error) {
	network = network.Normalize()
	chainParams, err := ChainParams(network)
	if err != nil {
		return Params{}, err
	}

	confirmations := uint32(4)
	if network == Mainnet {
		confirmations = 6
	}

	return Params{
		Network:       network,
		AccountPrefix: 44,
		Consensus: ConsensusParams{
			PowLimitBits:             chainParams.PowLimitBits,
			TargetTimespan:           chainParams.TargetTimespan,
			TargetSpacing:            chainParams.TargetTimePerBlock,
			RetargetAdjustmentFactor: chainParams.RetargetAdjustmentFactor,
			BlockMaxFuture:           defaultBlockMaxFuture,
			CheckRetarget:            network == Mainnet,
		},
		Bridge: BridgeParams{
			Confirmations:      confirmations,
			MinDeposit:         100_000,
			WithdrawalFee:      50_000,
			FeeRate:            10,
			MaxWithdrawalCount: 100,
			MaxTxSize:          100_000,
		},
		Trustee: TrusteeConfig{
			MinCount:         3,
			MaxCount:         15,
			TransitionWindow: defaultTransitionWindow,
			ProposalMaxAge:   defaultProposalMaxAge,
		},
		Genesis: Genesis{
			Header: chainParams.GenesisBlock.Header,
			Height: 0,
		},
	}, nil
}

// Validate checks parameter consistency.
func (p Params) Validate() error {
	if p.Bridge.Confirmations == 0 {
		return fmt.Errorf("confirmations must be positive")
	}
	if p.Consensus.RetargetInterval() == 0 {
		return fmt.Errorf("retarget interval must be positive")
	}
	if p.Consensus.RetargetAdjustmentFactor <= 0 {
		return fmt.Errorf("retarget adjustment factor must be positive")
	}
	if p.Trustee.MinCount == 0 || p.Trustee.MinCount > p.Trustee.MaxCount {
		return fmt.Errorf("invalid trustee count bounds [%d, %d]", p.Trustee.MinCount, p.Trustee.MaxCount)
	}
	if p.Trustee.MaxCount > 15 {
		return fmt.Errorf("trustee max count %d exceeds multisig limit", p.Trustee.MaxCount)
	}
	if p.Bridge.MaxWithdrawalCount == 0 {
		return fmt.Errorf("max withdrawal count must be positive")
	}
	return nil
}

// SerializeHeader returns the 80-byte wire encoding of a header.
func SerializeHeader(h *wire.BlockHeader) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(wire.MaxBlockHeaderPayload)
	if err := h.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
