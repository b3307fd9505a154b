package transport

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/service"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/trustee"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/withdrawal"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Bridge interface {
		SubmitHeader(ctx context.Context, raw []byte) (*service.HeaderOutcome, error)
		SubmitTransaction(ctx context.Context, rt model.RelayTx) (*service.TxOutcome, error)
		Chain(ctx context.Context) (*service.ChainStatus, error)
		HeaderStatus(ctx context.Context, hash chainhash.Hash) (*model.HeaderInfo, bool, error)
		TxState(ctx context.Context, txid chainhash.Hash) (*model.TxState, error)
		Params() model.BridgeParams

		RequestWithdrawal(ctx context.Context, requester model.AccountID, destination string, amount uint64) (*model.WithdrawalRecord, error)
		Withdrawal(ctx context.Context, id uint64) (*model.WithdrawalRecord, error)
		Withdrawals(ctx context.Context) ([]*model.WithdrawalRecord, error)
		PendingDeposits(ctx context.Context, address string) ([]model.PendingDeposit, error)

		Proposal(ctx context.Context) (*model.WithdrawalProposal, error)
		CreateProposal(ctx context.Context, proposer model.AccountID) (*model.WithdrawalProposal, error)
		SignProposal(ctx context.Context, trustee model.AccountID, sigs [][]byte) (*withdrawal.VoteResult, error)
		RejectProposal(ctx context.Context, trustee model.AccountID) (*withdrawal.VoteResult, error)
		MarkBroadcast(ctx context.Context, txid chainhash.Hash) ([]*model.WithdrawalRecord, error)

		CurrentSession(ctx context.Context) (*model.TrusteeSessionInfo, error)
		PreviousSession(ctx context.Context) (*model.TrusteeSessionInfo, error)
		Session(ctx context.Context, number uint32) (*model.TrusteeSessionInfo, error)
		Transition(ctx context.Context) (*model.TransitionStatus, error)
		SetTrusteeIntention(ctx context.Context, account model.AccountID, props model.TrusteeIntentionProps) error

		Elect(ctx context.Context) (*model.TrusteeSessionInfo, error)
		ForceElect(ctx context.Context, accounts []model.AccountID) (*model.TrusteeSessionInfo, error)
		SetPenalty(ctx context.Context, account model.AccountID, in bool) error
		ResolveStall(ctx context.Context) (*model.TransitionStatus, error)
		ConsumeSignatureRecords(ctx context.Context, number uint32) ([]trustee.SignatureRecord, error)
		RemovePending(ctx context.Context, id uint64) (*model.WithdrawalRecord, error)
		RemovePendingDeposit(ctx context.Context, address string, account *model.AccountID) ([]model.PendingDeposit, error)
		RemoveProposal(ctx context.Context) ([]*model.WithdrawalRecord, error)
		ForceReplaceProposalTx(ctx context.Context, raw []byte) (*model.WithdrawalProposal, error)
		SetConfirmations(ctx context.Context, confirmations uint32) error
		SetWithdrawalFee(ctx context.Context, fee uint64) error
		SetFeeRate(ctx context.Context, rate uint64) error
		SetDepositLimit(ctx context.Context, minDeposit uint64) error
	}
	EventReader interface {
		RecentEvents(ctx context.Context, network model.Network, eventType model.EventType, limit int) ([]model.Event, error)
	}
)
