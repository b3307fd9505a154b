package withdrawal

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	// version and lock time
	txFixedSize = 4 + 4
	// previous outpoint and sequence
	txInFixedSize = 32 + 4 + 4
	// DER signature with the sighash byte
	maxSignatureSize = 73
)

func pushSize(n int) int {
	switch {
	case n < txscript.OP_PUSHDATA1:
		return 1 + n
	case n <= 0xff:
		return 2 + n
	default:
		return 3 + n
	}
}

// multisigInputSize is the worst case size of a P2SH multisig input signed
// by threshold keys.
func multisigInputSize(threshold, redeemLen int) int {
	scriptSig := 1 + threshold*pushSize(maxSignatureSize) + pushSize(redeemLen)
	return txInFixedSize + wire.VarIntSerializeSize(uint64(scriptSig)) + scriptSig
}

func outputSize(pkScript []byte) int {
	return 8 + wire.VarIntSerializeSize(uint64(len(pkScript))) + len(pkScript)
}

func estimateSize(inputs, inputSize int, outputs [][]byte) int {
	size := txFixedSize + wire.VarIntSerializeSize(uint64(inputs)) + wire.VarIntSerializeSize(uint64(len(outputs)))
	size += inputs * inputSize
	for _, pkScript := range outputs {
		size += outputSize(pkScript)
	}
	return size
}
