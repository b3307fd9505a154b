package model

import (
	"time"
)

// TrusteeIntentionProps is the key material a candidate submits before an
// election.
type TrusteeIntentionProps struct {
	About      string
	HotPubKey  []byte
	ColdPubKey []byte
}

// TrusteeInfo is a committee member of one session.
type TrusteeInfo struct {
	Account    AccountID
	HotPubKey  []byte
	ColdPubKey []byte
	// SigCount counts partial signatures contributed during the session.
	SigCount uint64
}

// MultisigAddress is a P2SH address with the redeem script behind it.
type MultisigAddress struct {
	Address      string
	RedeemScript []byte
}

// TrusteePair is the hot and cold address of one session.
type TrusteePair struct {
	Hot  MultisigAddress
	Cold MultisigAddress
}

// Contains reports whether the address is the hot or the cold one.
func (p TrusteePair) Contains(address string) bool {
	return address != "" && (address == p.Hot.Address || address == p.Cold.Address)
}

// SameAs reports whether both pairs resolve to the same addresses.
func (p TrusteePair) SameAs(o TrusteePair) bool {
	return p.Hot.Address == o.Hot.Address && p.Cold.Address == o.Cold.Address
}

// TrusteeSessionInfo is one committee tenure.
type TrusteeSessionInfo struct {
	Number    uint32
	Trustees  []TrusteeInfo
	Threshold uint32
	Hot       MultisigAddress
	Cold      MultisigAddress
	CreatedAt time.Time
}

// Pair returns the session addresses.
func (s *TrusteeSessionInfo) Pair() TrusteePair {
	return TrusteePair{Hot: s.Hot, Cold: s.Cold}
}

// Total is the committee size.
func (s *TrusteeSessionInfo) Total() uint32 {
	return uint32(len(s.Trustees))
}

// Member returns the index of the account in the committee.
func (s *TrusteeSessionInfo) Member(account AccountID) (int, bool) {
	for i, t := range s.Trustees {
		if t.Account == account {
			return i, true
		}
	}
	return -1, false
}

// TransitionStatus tracks the move of funds from one session to the next.
type TransitionStatus struct {
	From      uint32
	To        uint32
	StartedAt time.Time
	Deadline  time.Time
	Stalled   bool
	Completed bool
}

// Active reports whether old-session funds are still expected to move.
func (t *TransitionStatus) Active() bool {
	return t != nil && !t.Completed
}

// Candidate is an account eligible for trustee election.
type Candidate struct {
	Account AccountID
	Stake   uint64
}
