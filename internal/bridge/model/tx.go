package model

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// BtcTxType is the classification of a relayed transaction.
type BtcTxType uint8

const (
	TxIrrelevance BtcTxType = iota
	TxDeposit
	TxWithdrawal
	TxHotAndCold
	TxTrusteeTransition
)

func (t BtcTxType) String() string {
	switch t {
	case TxIrrelevance:
		return "irrelevance"
	case TxDeposit:
		return "deposit"
	case TxWithdrawal:
		return "withdrawal"
	case TxHotAndCold:
		return "hot_and_cold"
	case TxTrusteeTransition:
		return "trustee_transition"
	default:
		return "unknown"
	}
}

// DepositInfo is the payload of a deposit classification.
type DepositInfo struct {
	// Amount is the total value paid to the hot address, in satoshi.
	Amount uint64
	// InputAddress is the address spent by the first input, empty when the
	// previous transaction was not relayed.
	InputAddress string
	Binding      *AccountBinding
}

// BtcTxMeta is the closed tagged result of classification. Deposit is set
// only when Type is TxDeposit.
type BtcTxMeta struct {
	Type    BtcTxType
	Deposit *DepositInfo
}

// DepositMeta builds a deposit classification.
func DepositMeta(info DepositInfo) BtcTxMeta {
	return BtcTxMeta{Type: TxDeposit, Deposit: &info}
}

// Meta builds a payload-free classification.
func Meta(t BtcTxType) BtcTxMeta {
	return BtcTxMeta{Type: t}
}

// TxResult is the outcome of applying a classified transaction.
type TxResult uint8

const (
	TxSuccess TxResult = iota
	TxFailure
)

func (r TxResult) String() string {
	if r == TxSuccess {
		return "success"
	}
	return "failure"
}

// TxState is stored per processed txid to make relays idempotent.
type TxState struct {
	Type   BtcTxType
	Result TxResult
	// Block is the header the transaction was processed under.
	Block HeaderIndex
}

// RelayTx is a transaction submitted by a relayer.
type RelayTx struct {
	Tx        []byte
	BlockHash chainhash.Hash
	// Proof is a Bitcoin serialized merkleblock message.
	Proof  []byte
	PrevTx []byte
}

// UTXO is an unspent output controlled by a trustee address.
type UTXO struct {
	OutPoint wire.OutPoint
	Value    uint64
	Address  string
}

// PendingDeposit is a deposit that could not be attributed to an account yet.
type PendingDeposit struct {
	TxID   chainhash.Hash
	Amount uint64
	Height uint32
}
