package script

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// MaxMultisigKeys is the standard limit of keys in a CHECKMULTISIG script.
const MaxMultisigKeys = 15

// ValidatePubKey checks a key is compressed and on the curve.
func ValidatePubKey(key []byte) error {
	if len(key) != btcec.PubKeyBytesLenCompressed {
		return fmt.Errorf("%w: expected %d bytes, got %d", model.ErrInvalidPubKey, btcec.PubKeyBytesLenCompressed, len(key))
	}
	if key[0] != 0x02 && key[0] != 0x03 {
		return fmt.Errorf("%w: not a compressed key", model.ErrInvalidPubKey)
	}
	if _, err := btcec.ParsePubKey(key); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidPubKey, err)
	}
	return nil
}

// SortPubKeys returns a lexicographically sorted copy of the keys.
func SortPubKeys(pubkeys [][]byte) [][]byte {
	sorted := make([][]byte, len(pubkeys))
	copy(sorted, pubkeys)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}

// MultisigRedeemScript builds `m <sorted keys> n OP_CHECKMULTISIG`.
func MultisigRedeemScript(pubkeys [][]byte, m int) ([]byte, error) {
	n := len(pubkeys)
	if n == 0 || n > MaxMultisigKeys || m < 1 || m > n {
		return nil, fmt.Errorf("%w: %d of %d", model.ErrBadRedeemScript, m, n)
	}
	sorted := SortPubKeys(pubkeys)
	builder := txscript.NewScriptBuilder().AddInt64(int64(m))
	for i, key := range sorted {
		if err := ValidatePubKey(key); err != nil {
			return nil, err
		}
		if i > 0 && bytes.Equal(sorted[i-1], key) {
			return nil, model.ErrDuplicatedKeys
		}
		builder.AddData(key)
	}
	builder.AddInt64(int64(n)).AddOp(txscript.OP_CHECKMULTISIG)
	redeem, err := builder.Script()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrBadRedeemScript, err)
	}
	return redeem, nil
}

// ParseMultisigRedeemScript returns the threshold and keys of a multisig
// redeem script.
func ParseMultisigRedeemScript(redeem []byte) (int, [][]byte, error) {
	ops, err := Parse(redeem, StandardFlags)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", model.ErrBadRedeemScript, err)
	}
	if len(ops) < 4 || ops[len(ops)-1].Opcode != txscript.OP_CHECKMULTISIG {
		return 0, nil, model.ErrBadRedeemScript
	}
	m, ok := smallInt(ops[0].Opcode)
	if !ok || m == 0 {
		return 0, nil, model.ErrBadRedeemScript
	}
	n, ok := smallInt(ops[len(ops)-2].Opcode)
	if !ok || n != len(ops)-3 || m > n {
		return 0, nil, model.ErrBadRedeemScript
	}
	keys := make([][]byte, 0, n)
	for _, op := range ops[1 : len(ops)-2] {
		if err := ValidatePubKey(op.Data); err != nil {
			return 0, nil, fmt.Errorf("%w: %v", model.ErrBadRedeemScript, err)
		}
		keys = append(keys, op.Data)
	}
	return m, keys, nil
}

// ScriptHashAddress wraps a redeem script into a P2SH address.
func ScriptHashAddress(redeem []byte, params *chaincfg.Params) (string, error) {
	addr, err := btcutil.NewAddressScriptHash(redeem, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrBadRedeemScript, err)
	}
	return addr.EncodeAddress(), nil
}

// MultisigAddress builds the P2SH multisig address of the keys.
func MultisigAddress(pubkeys [][]byte, m int, params *chaincfg.Params) (model.MultisigAddress, error) {
	redeem, err := MultisigRedeemScript(pubkeys, m)
	if err != nil {
		return model.MultisigAddress{}, err
	}
	address, err := ScriptHashAddress(redeem, params)
	if err != nil {
		return model.MultisigAddress{}, err
	}
	return model.MultisigAddress{Address: address, RedeemScript: redeem}, nil
}

// SignatureHash computes the legacy SIGHASH_ALL digest of a P2SH input.
func SignatureHash(tx *wire.MsgTx, idx int, redeem []byte) ([]byte, error) {
	return txscript.CalcSignatureHash(redeem, txscript.SigHashAll, tx, idx)
}

// SignInput produces a DER signature with the SIGHASH_ALL byte appended.
func SignInput(tx *wire.MsgTx, idx int, redeem []byte, key *btcec.PrivateKey) ([]byte, error) {
	return txscript.RawTxInSignature(tx, idx, redeem, txscript.SigHashAll, key)
}

// VerifySignature checks a DER+hashtype signature of input idx against the
// public key. Only canonical low-S signatures are accepted.
func VerifySignature(tx *wire.MsgTx, idx int, redeem, sig, pubkey []byte) error {
	if len(sig) < 2 || txscript.SigHashType(sig[len(sig)-1]) != txscript.SigHashAll {
		return fmt.Errorf("%w: input %d: unsupported hash type", model.ErrVerifySignFailed, idx)
	}
	der := sig[:len(sig)-1]
	parsed, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return fmt.Errorf("%w: input %d: %v", model.ErrVerifySignFailed, idx, err)
	}
	// Serialize emits strict DER with a low S. Anything else fails the
	// standard script flags once the scriptSig is assembled.
	if !bytes.Equal(parsed.Serialize(), der) {
		return fmt.Errorf("%w: input %d: signature is not canonical", model.ErrVerifySignFailed, idx)
	}
	key, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidPubKey, err)
	}
	hash, err := SignatureHash(tx, idx, redeem)
	if err != nil {
		return fmt.Errorf("%w: input %d: %v", model.ErrVerifySignFailed, idx, err)
	}
	if !parsed.Verify(hash, key) {
		return fmt.Errorf("%w: input %d", model.ErrVerifySignFailed, idx)
	}
	return nil
}

// MultisigScriptSig assembles `OP_0 <sigs> <redeem>`. Signatures must
// already be ordered like the keys in the redeem script.
func MultisigScriptSig(sigs [][]byte, redeem []byte) ([]byte, error) {
	builder := txscript.NewScriptBuilder().AddOp(txscript.OP_0)
	for _, sig := range sigs {
		builder.AddData(sig)
	}
	builder.AddData(redeem)
	return builder.Script()
}

// VerifyInputs runs the script interpreter over every input of a fully
// signed transaction.
func VerifyInputs(tx *wire.MsgTx, prevOuts []*wire.TxOut) error {
	if len(prevOuts) != len(tx.TxIn) {
		return fmt.Errorf("%w: %d prevouts for %d inputs", model.ErrInvalidSignCount, len(prevOuts), len(tx.TxIn))
	}
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, in := range tx.TxIn {
		fetcher.AddPrevOut(in.PreviousOutPoint, prevOuts[i])
	}
	hashCache := txscript.NewTxSigHashes(tx, fetcher)
	for i, prev := range prevOuts {
		engine, err := txscript.NewEngine(prev.PkScript, tx, i, txscript.StandardVerifyFlags, nil, hashCache, prev.Value, fetcher)
		if err != nil {
			return fmt.Errorf("%w: input %d: %v", model.ErrVerifySignFailed, i, err)
		}
		if err := engine.Execute(); err != nil {
			return fmt.Errorf("%w: input %d: %v", model.ErrVerifySignFailed, i, err)
		}
	}
	return nil
}
