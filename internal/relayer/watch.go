package relayer

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/transport"
)

// watchSet holds the output scripts and redeem scripts of the trustee
// addresses of the current and previous sessions.
type watchSet struct {
	pkScripts map[string]struct{}
	redeem    map[string]struct{}
}

func newWatchSet(resp *transport.TrusteesResponse, params *chaincfg.Params) (*watchSet, error) {
	w := &watchSet{pkScripts: map[string]struct{}{}, redeem: map[string]struct{}{}}
	for _, session := range []*transport.Session{resp.Current, resp.Previous} {
		if session == nil {
			continue
		}
		for _, addr := range []transport.MultisigAddress{session.Hot, session.Cold} {
			pkScript, err := script.PayToAddress(addr.Address, params)
			if err != nil {
				return nil, fmt.Errorf("session %d address: %w", session.Number, err)
			}
			w.pkScripts[string(pkScript)] = struct{}{}
			redeem, err := hex.DecodeString(addr.RedeemScript)
			if err != nil {
				return nil, fmt.Errorf("session %d redeem script: %w", session.Number, err)
			}
			if len(redeem) > 0 {
				w.redeem[string(redeem)] = struct{}{}
			}
		}
	}
	return w, nil
}

func (w *watchSet) empty() bool {
	return len(w.pkScripts) == 0
}

func (w *watchSet) paysTo(out *wire.TxOut) bool {
	_, ok := w.pkScripts[string(out.PkScript)]
	return ok
}

// spends reports whether the input redeems a trustee multisig, by the last
// push of its signature script or witness.
func (w *watchSet) spends(in *wire.TxIn) bool {
	if n := len(in.Witness); n > 0 {
		if _, ok := w.redeem[string(in.Witness[n-1])]; ok {
			return true
		}
	}
	pushes, err := txscript.PushedData(in.SignatureScript)
	if err != nil || len(pushes) == 0 {
		return false
	}
	_, ok := w.redeem[string(pushes[len(pushes)-1])]
	return ok
}

// trackedOutputs remembers trustee outputs seen by this relayer so spends
// are matched even when the redeem script is not recognizable.
type trackedOutputs struct {
	outpoints map[wire.OutPoint]struct{}
}

func newTrackedOutputs() *trackedOutputs {
	return &trackedOutputs{outpoints: map[wire.OutPoint]struct{}{}}
}

// matches reports whether tx pays to or spends from the trustees.
func (t *trackedOutputs) matches(w *watchSet, tx *wire.MsgTx) bool {
	for _, out := range tx.TxOut {
		if w.paysTo(out) {
			return true
		}
	}
	for _, in := range tx.TxIn {
		if _, ok := t.outpoints[in.PreviousOutPoint]; ok {
			return true
		}
		if w.spends(in) {
			return true
		}
	}
	return false
}

func (t *trackedOutputs) update(w *watchSet, tx *wire.MsgTx) {
	for _, in := range tx.TxIn {
		delete(t.outpoints, in.PreviousOutPoint)
	}
	txid := tx.TxHash()
	for i, out := range tx.TxOut {
		if w.paysTo(out) {
			t.outpoints[wire.OutPoint{Hash: txid, Index: uint32(i)}] = struct{}{}
		}
	}
}
