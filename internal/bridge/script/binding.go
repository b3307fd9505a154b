package script

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"golang.org/x/crypto/blake2b"
)

const (
	accountPayloadLen = 1 + 32 + 2
	maxReferralLen    = 32
	maxAccountPrefix  = 63
)

var checksumPrefix = []byte("SS58PRE")

// ExtractOpReturn returns the data of an `OP_RETURN <push>` output. Only a
// direct push or OP_PUSHDATA1 is accepted and nothing may follow it.
func ExtractOpReturn(pkScript []byte) ([]byte, bool) {
	if len(pkScript) < 2 || pkScript[0] != txscript.OP_RETURN {
		return nil, false
	}
	tokenizer := txscript.MakeScriptTokenizer(0, pkScript[1:])
	if !tokenizer.Next() {
		return nil, false
	}
	op := tokenizer.Opcode()
	if (op < txscript.OP_DATA_1 || op > txscript.OP_DATA_75) && op != txscript.OP_PUSHDATA1 {
		return nil, false
	}
	data := tokenizer.Data()
	if tokenizer.Next() || tokenizer.Err() != nil {
		return nil, false
	}
	return data, true
}

// ExtractAccountBinding decodes the `account[@referral]` payload of an
// OP_RETURN output.
func ExtractAccountBinding(pkScript []byte) (*model.AccountBinding, bool) {
	data, ok := ExtractOpReturn(pkScript)
	if !ok {
		return nil, false
	}
	return ParseAccountBinding(data)
}

// ParseAccountBinding decodes `account[@referral]`.
func ParseAccountBinding(data []byte) (*model.AccountBinding, bool) {
	parts := bytes.Split(data, []byte{'@'})
	if len(parts) > 2 {
		return nil, false
	}
	account, _, ok := DecodeAccount(string(parts[0]))
	if !ok {
		return nil, false
	}
	binding := &model.AccountBinding{Account: account}
	if len(parts) == 2 {
		referral := parts[1]
		if len(referral) == 0 || len(referral) > maxReferralLen {
			return nil, false
		}
		for _, c := range referral {
			if c < 0x21 || c > 0x7e {
				return nil, false
			}
		}
		binding.Referral = string(referral)
	}
	return binding, true
}

// DecodeAccount decodes a checksummed base58 account and returns it with
// its network prefix.
func DecodeAccount(s string) (model.AccountID, uint8, bool) {
	var id model.AccountID
	if s == "" {
		return id, 0, false
	}
	raw := base58.Decode(s)
	if len(raw) != accountPayloadLen || raw[0] > maxAccountPrefix {
		return id, 0, false
	}
	if !bytes.Equal(accountChecksum(raw[:33]), raw[33:]) {
		return id, 0, false
	}
	copy(id[:], raw[1:33])
	return id, raw[0], true
}

// EncodeAccount is the inverse of DecodeAccount.
func EncodeAccount(prefix uint8, id model.AccountID) string {
	payload := make([]byte, 0, accountPayloadLen)
	payload = append(payload, prefix)
	payload = append(payload, id[:]...)
	payload = append(payload, accountChecksum(payload)...)
	return base58.Encode(payload)
}

func accountChecksum(payload []byte) []byte {
	buf := make([]byte, 0, len(checksumPrefix)+len(payload))
	buf = append(buf, checksumPrefix...)
	buf = append(buf, payload...)
	sum := blake2b.Sum512(buf)
	return sum[:2]
}
