// Package classifier decides what a relayed Bitcoin transaction means to
// the bridge.
package classifier

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/merkle"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
)

// Context is the trustee state a transaction is classified against.
type Context struct {
	Params           *chaincfg.Params
	Current          model.TrusteePair
	Previous         *model.TrusteePair
	TransitionActive bool
}

// Input is one relayed transaction with its inclusion proof.
type Input struct {
	Tx         *wire.MsgTx
	PrevTx     *wire.MsgTx
	Proof      merkle.PartialTree
	MerkleRoot chainhash.Hash
	Context    Context
}

type output struct {
	address  string
	value    uint64
	nullData bool
}

// Classify verifies the inclusion proof and returns the transaction type.
// A failed proof is an error, never an irrelevant transaction. Deposits win
// over every other pattern; any other double match is ErrAmbiguousTx.
func Classify(in Input) (model.BtcTxMeta, error) {
	if in.Tx == nil || len(in.Tx.TxIn) == 0 {
		return model.BtcTxMeta{}, fmt.Errorf("%w: transaction has no inputs", model.ErrMalformedTx)
	}
	txid := in.Tx.TxHash()
	if _, err := merkle.Prove(in.Proof, in.MerkleRoot, txid); err != nil {
		return model.BtcTxMeta{}, err
	}

	ctx := in.Context
	outputs := make([]output, len(in.Tx.TxOut))
	for i, out := range in.Tx.TxOut {
		addr, _ := script.Destination(out.PkScript, ctx.Params)
		outputs[i] = output{address: addr, value: uint64(out.Value), nullData: script.IsNullData(out.PkScript)}
	}

	inputAddr, err := inputAddress(in.Tx, in.PrevTx, ctx.Params)
	if err != nil {
		return model.BtcTxMeta{}, err
	}

	if meta, ok, err := detectDeposit(in.Tx, outputs, inputAddr, in.PrevTx != nil, ctx); err != nil || ok {
		return meta, err
	}
	if inputAddr == "" {
		return model.Meta(model.TxIrrelevance), nil
	}

	var matches []model.BtcTxType
	fromCurrent := ctx.Current.Contains(inputAddr)
	if fromCurrent {
		if allPay(outputs, ctx.Current) {
			matches = append(matches, model.TxHotAndCold)
		} else {
			matches = append(matches, model.TxWithdrawal)
		}
	}
	if ctx.TransitionActive && ctx.Previous != nil && !ctx.Previous.SameAs(ctx.Current) &&
		ctx.Previous.Contains(inputAddr) && allPay(outputs, ctx.Current) {
		matches = append(matches, model.TxTrusteeTransition)
	}

	switch len(matches) {
	case 0:
		return model.Meta(model.TxIrrelevance), nil
	case 1:
		return model.Meta(matches[0]), nil
	default:
		return model.BtcTxMeta{}, fmt.Errorf("%w: tx %s matches %v", model.ErrAmbiguousTx, txid, matches)
	}
}

func detectDeposit(tx *wire.MsgTx, outputs []output, inputAddr string, havePrev bool, ctx Context) (model.BtcTxMeta, bool, error) {
	hot := ctx.Current.Hot.Address
	var amount uint64
	for _, out := range outputs {
		if out.address != "" && out.address == hot {
			amount += out.value
		}
	}
	if amount == 0 {
		return model.BtcTxMeta{}, false, nil
	}

	binding := firstBinding(tx)
	if binding == nil {
		if !havePrev {
			return model.BtcTxMeta{}, false, fmt.Errorf("%w: deposit candidate %s has no account binding", model.ErrPrevTxRequired, tx.TxHash())
		}
		if isTrustee(inputAddr, ctx) {
			return model.BtcTxMeta{}, false, nil
		}
	}

	return model.DepositMeta(model.DepositInfo{
		Amount:       amount,
		InputAddress: inputAddr,
		Binding:      binding,
	}), true, nil
}

func firstBinding(tx *wire.MsgTx) *model.AccountBinding {
	for _, out := range tx.TxOut {
		if binding, ok := script.ExtractAccountBinding(out.PkScript); ok {
			return binding
		}
	}
	return nil
}

func isTrustee(addr string, ctx Context) bool {
	if ctx.Current.Contains(addr) {
		return true
	}
	return ctx.Previous != nil && ctx.Previous.Contains(addr)
}

func allPay(outputs []output, pair model.TrusteePair) bool {
	paid := false
	for _, out := range outputs {
		if out.nullData {
			continue
		}
		if !pair.Contains(out.address) {
			return false
		}
		paid = true
	}
	return paid
}

// inputAddress resolves the address spent by the first input. It is empty
// when the previous transaction was not supplied or pays a non-standard
// script.
func inputAddress(tx, prev *wire.MsgTx, params *chaincfg.Params) (string, error) {
	if prev == nil {
		return "", nil
	}
	outpoint := tx.TxIn[0].PreviousOutPoint
	if prevHash := prev.TxHash(); prevHash != outpoint.Hash {
		return "", fmt.Errorf("%w: got %s, input spends %s", model.ErrMismatchedPrevTx, prevHash, outpoint.Hash)
	}
	if int(outpoint.Index) >= len(prev.TxOut) {
		return "", fmt.Errorf("%w: output %d out of range", model.ErrMismatchedPrevTx, outpoint.Index)
	}
	addr, _ := script.Destination(prev.TxOut[outpoint.Index].PkScript, params)
	return addr, nil
}
