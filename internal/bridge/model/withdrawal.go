package model

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// WithdrawalState is the lifecycle position of a withdrawal record.
type WithdrawalState uint8

const (
	WithdrawalApplying WithdrawalState = iota
	WithdrawalSigning
	WithdrawalBroadcasting
	WithdrawalProcessing
	WithdrawalConfirming
	WithdrawalConfirmed
	WithdrawalCancelled
	WithdrawalUnknown
)

func (s WithdrawalState) String() string {
	switch s {
	case WithdrawalApplying:
		return "applying"
	case WithdrawalSigning:
		return "signing"
	case WithdrawalBroadcasting:
		return "broadcasting"
	case WithdrawalProcessing:
		return "processing"
	case WithdrawalConfirming:
		return "confirming"
	case WithdrawalConfirmed:
		return "confirmed"
	case WithdrawalCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s WithdrawalState) Terminal() bool {
	return s == WithdrawalConfirmed || s == WithdrawalCancelled || s == WithdrawalUnknown
}

// CanTransition reports whether a record may move from one state to another.
// Forward moves are one step at a time; Confirming may repeat to update the
// confirmation count. Moving back to Applying is reserved for proposal
// removal before the transaction left the bridge.
func CanTransition(from, to WithdrawalState) bool {
	switch from {
	case WithdrawalApplying:
		return to == WithdrawalSigning || to == WithdrawalCancelled
	case WithdrawalSigning:
		return to == WithdrawalBroadcasting || to == WithdrawalApplying
	case WithdrawalBroadcasting:
		return to == WithdrawalProcessing || to == WithdrawalApplying
	case WithdrawalProcessing:
		return to == WithdrawalConfirming || to == WithdrawalUnknown
	case WithdrawalConfirming:
		return to == WithdrawalConfirming || to == WithdrawalConfirmed
	default:
		return false
	}
}

// WithdrawalRecord is a user request to withdraw to a Bitcoin address.
type WithdrawalRecord struct {
	ID          uint64
	Requester   AccountID
	Destination string
	Amount      uint64
	State       WithdrawalState
	// Seen and Required are meaningful in the Confirming state.
	Seen        uint32
	Required    uint32
	TxID        chainhash.Hash
	BlockHash   chainhash.Hash
	BlockHeight uint32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SigState tells whether a proposal collected enough signatures.
type SigState uint8

const (
	SigUnfinished SigState = iota
	SigFinished
)

func (s SigState) String() string {
	if s == SigFinished {
		return "finished"
	}
	return "unfinished"
}

// TrusteeVote is one trustee's answer to a proposal. Signatures holds one
// signature per input and is empty for a rejection.
type TrusteeVote struct {
	Account    AccountID
	Approve    bool
	Signatures [][]byte
}

// WithdrawalProposal is the in-flight transaction paying out a batch of
// withdrawal records.
type WithdrawalProposal struct {
	Session       uint32
	Proposer      AccountID
	SigState      SigState
	WithdrawalIDs []uint64
	Tx            *wire.MsgTx
	// Inputs are the spent hot UTXOs, in input order.
	Inputs    []UTXO
	Votes     []TrusteeVote
	CreatedAt time.Time
}

// Vote returns the vote of the account if it voted.
func (p *WithdrawalProposal) Vote(account AccountID) (TrusteeVote, bool) {
	for _, v := range p.Votes {
		if v.Account == account {
			return v, true
		}
	}
	return TrusteeVote{}, false
}

// Rejections counts negative votes.
func (p *WithdrawalProposal) Rejections() uint32 {
	var n uint32
	for _, v := range p.Votes {
		if !v.Approve {
			n++
		}
	}
	return n
}

// Approvals counts signing votes.
func (p *WithdrawalProposal) Approvals() uint32 {
	var n uint32
	for _, v := range p.Votes {
		if v.Approve {
			n++
		}
	}
	return n
}
