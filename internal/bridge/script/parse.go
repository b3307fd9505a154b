// Package script decodes and builds the Bitcoin scripts the bridge deals with.
package script

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// Flags restrict which opcodes Parse accepts.
type Flags uint8

const (
	// DisallowDisabled rejects opcodes disabled by consensus and the always
	// illegal OP_VERIF/OP_VERNOTIF.
	DisallowDisabled Flags = 1 << iota
	// DisallowReserved rejects reserved and undefined opcodes.
	DisallowReserved

	StandardFlags = DisallowDisabled | DisallowReserved
)

// Op is a single parsed opcode with its pushed operand, if any.
type Op struct {
	Opcode byte
	Data   []byte
}

// Parse splits a script into opcodes.
func Parse(script []byte, flags Flags) ([]Op, error) {
	ops := make([]Op, 0, 8)
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		if flags&DisallowDisabled != 0 && isDisabled(op) {
			return nil, fmt.Errorf("%w: disabled opcode 0x%02x at offset %d", model.ErrMalformedScript, op, tokenizer.ByteIndex())
		}
		if flags&DisallowReserved != 0 && isReserved(op) {
			return nil, fmt.Errorf("%w: reserved opcode 0x%02x at offset %d", model.ErrMalformedScript, op, tokenizer.ByteIndex())
		}
		ops = append(ops, Op{Opcode: op, Data: tokenizer.Data()})
	}
	if err := tokenizer.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedScript, err)
	}
	return ops, nil
}

func isDisabled(op byte) bool {
	switch op {
	case txscript.OP_CAT, txscript.OP_SUBSTR, txscript.OP_LEFT, txscript.OP_RIGHT,
		txscript.OP_INVERT, txscript.OP_AND, txscript.OP_OR, txscript.OP_XOR,
		txscript.OP_2MUL, txscript.OP_2DIV, txscript.OP_MUL, txscript.OP_DIV,
		txscript.OP_MOD, txscript.OP_LSHIFT, txscript.OP_RSHIFT,
		txscript.OP_VERIF, txscript.OP_VERNOTIF:
		return true
	}
	return false
}

func isReserved(op byte) bool {
	switch op {
	case txscript.OP_RESERVED, txscript.OP_VER, txscript.OP_RESERVED1, txscript.OP_RESERVED2:
		return true
	}
	return op > txscript.OP_CHECKSIGADD
}

// smallInt decodes OP_0 and OP_1..OP_16.
func smallInt(op byte) (int, bool) {
	if op == txscript.OP_0 {
		return 0, true
	}
	if op >= txscript.OP_1 && op <= txscript.OP_16 {
		return int(op-txscript.OP_1) + 1, true
	}
	return 0, false
}
