package model

import (
	"encoding/hex"
	"fmt"
)

// AccountID identifies an account of the hosting ledger.
type AccountID [32]byte

func (a AccountID) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the account is unset.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// ParseAccountID decodes a hex encoded account id.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decode account id: %w", err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("account id must be %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// MarshalText encodes the account as hex.
func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a hex account.
func (a *AccountID) UnmarshalText(text []byte) error {
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// AccountBinding is the ledger account (and optional referral) a deposit
// names in its OP_RETURN output.
type AccountBinding struct {
	Account  AccountID
	Referral string
}
