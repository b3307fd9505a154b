package model

import (
	"time"
)

// EventType names a bridge event.
type EventType string

const (
	EventHeaderInserted              EventType = "header_inserted"
	EventTxProcessed                 EventType = "tx_processed"
	EventDeposited                   EventType = "deposited"
	EventUnclaimedDeposit            EventType = "unclaimed_deposit"
	EventPendingDepositRemoved       EventType = "pending_deposit_removed"
	EventWithdrawalRequested         EventType = "withdrawal_requested"
	EventWithdrawalCancelled         EventType = "withdrawal_cancelled"
	EventWithdrawalProposalCreated   EventType = "withdrawal_proposal_created"
	EventWithdrawalProposalVoted     EventType = "withdrawal_proposal_voted"
	EventWithdrawalProposalDropped   EventType = "withdrawal_proposal_dropped"
	EventWithdrawalProposalFinished  EventType = "withdrawal_proposal_finished"
	EventWithdrawalProposalCompleted EventType = "withdrawal_proposal_completed"
	EventWithdrawn                   EventType = "withdrawn"
	EventTrusteeSessionChanged       EventType = "trustee_session_changed"
	EventTrusteeTransitionCompleted  EventType = "trustee_transition_completed"
	EventAlert                       EventType = "alert"
)

// Event is a flat record of something the bridge did. Fields that do not
// apply to the event type stay zero.
type Event struct {
	Type         EventType
	Network      Network
	Height       uint32
	BlockHash    string
	TxID         string
	Account      string
	Address      string
	WithdrawalID uint64
	Amount       uint64
	Session      uint32
	Detail       string
	At           time.Time
}
