package model

import (
	"errors"
)

// ErrorCategory groups bridge errors by how callers should react.
type ErrorCategory string

const (
	CategoryMalformed   ErrorCategory = "malformed_input"
	CategoryProtocol    ErrorCategory = "protocol_violation"
	CategoryConsistency ErrorCategory = "consistency_hazard"
	CategoryFatal       ErrorCategory = "fatal"
	CategoryUnknown     ErrorCategory = "unknown"
)

// Error is a categorized bridge error. Values are compared by identity, so
// wrapped instances match with errors.Is.
type Error struct {
	category ErrorCategory
	msg      string
}

func newError(category ErrorCategory, msg string) *Error {
	return &Error{category: category, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.category
}

// Malformed input.
var (
	ErrMalformedScript  = newError(CategoryMalformed, "malformed script")
	ErrMalformedHeader  = newError(CategoryMalformed, "malformed header")
	ErrMalformedTx      = newError(CategoryMalformed, "malformed transaction")
	ErrMalformedProof   = newError(CategoryMalformed, "malformed merkle proof")
	ErrInvalidAddress   = newError(CategoryMalformed, "invalid address")
	ErrInvalidPubKey    = newError(CategoryMalformed, "invalid public key")
	ErrBadRedeemScript  = newError(CategoryMalformed, "bad redeem script")
	ErrInvalidSignCount = newError(CategoryMalformed, "invalid signature count")
	ErrPrevTxRequired   = newError(CategoryMalformed, "previous transaction required")
	ErrMismatchedPrevTx = newError(CategoryMalformed, "previous transaction does not match input")
	ErrInvalidIntention = newError(CategoryMalformed, "invalid trustee intention")
)

// Protocol violations.
var (
	ErrUnknownParent          = newError(CategoryProtocol, "unknown parent header")
	ErrInvalidProofOfWork     = newError(CategoryProtocol, "invalid proof of work")
	ErrFuturisticTimestamp    = newError(CategoryProtocol, "header timestamp too far in the future")
	ErrAncientFork            = newError(CategoryProtocol, "fork at or below confirmed height")
	ErrBadMerkleProof         = newError(CategoryProtocol, "bad merkle proof")
	ErrUnknownBlock           = newError(CategoryProtocol, "unknown block")
	ErrNotMainChain           = newError(CategoryProtocol, "block is not on the main chain")
	ErrUnconfirmedTx          = newError(CategoryProtocol, "transaction not confirmed")
	ErrVerifySignFailed       = newError(CategoryProtocol, "signature verification failed")
	ErrNotTrustee             = newError(CategoryProtocol, "not a trustee")
	ErrDuplicateVote          = newError(CategoryProtocol, "duplicate vote")
	ErrDuplicatedKeys         = newError(CategoryProtocol, "duplicated trustee keys")
	ErrInvalidTrusteeCount    = newError(CategoryProtocol, "invalid trustee count")
	ErrWithdrawalTooSmall     = newError(CategoryProtocol, "withdrawal amount below minimum")
	ErrNoProposal             = newError(CategoryProtocol, "no withdrawal proposal")
	ErrProposalExists         = newError(CategoryProtocol, "withdrawal proposal already exists")
	ErrProposalNotFinished    = newError(CategoryProtocol, "withdrawal proposal not finished")
	ErrNoWithdrawalRecord     = newError(CategoryProtocol, "no withdrawal record")
	ErrNoPendingWithdrawal    = newError(CategoryProtocol, "no pending withdrawal")
	ErrInvalidStateTransition = newError(CategoryProtocol, "invalid withdrawal state transition")
	ErrInsufficientFunds      = newError(CategoryProtocol, "insufficient trustee funds")
	ErrTransitionInProgress   = newError(CategoryProtocol, "trustee transition in progress")
	ErrNoTrusteeSession       = newError(CategoryProtocol, "no trustee session")
	ErrNoPendingDeposit       = newError(CategoryProtocol, "no pending deposit")
)

// Consistency hazards.
var (
	ErrMismatchedTx = newError(CategoryConsistency, "transaction does not match proposal")
	ErrAmbiguousTx  = newError(CategoryConsistency, "transaction matches more than one pattern")
)

// Fatal or operational conditions.
var (
	ErrTransitionStalled = newError(CategoryFatal, "trustee transition stalled")
	ErrHeaderStall       = newError(CategoryFatal, "header chain stalled")
	ErrStuckProposal     = newError(CategoryFatal, "withdrawal proposal stuck")
)

// ErrNotFound is returned by repositories for missing keys.
var ErrNotFound = errors.New("not found")

// Category maps an error to its category.
func Category(err error) ErrorCategory {
	var be *Error
	if errors.As(err, &be) {
		return be.category
	}
	return CategoryUnknown
}
