package service

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/header"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/trustee"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/withdrawal"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		Atomic(ctx context.Context, fn func(ctx context.Context) error) error
		TxState(ctx context.Context, txid chainhash.Hash) (*model.TxState, error)
		PutTxState(ctx context.Context, txid chainhash.Hash, state model.TxState) error
		Binding(ctx context.Context, address string) (*model.AccountBinding, error)
		PutBinding(ctx context.Context, address string, binding model.AccountBinding) error
		PendingDeposits(ctx context.Context, address string) ([]model.PendingDeposit, error)
		AddPendingDeposit(ctx context.Context, address string, deposit model.PendingDeposit) error
		DeletePendingDeposits(ctx context.Context, address string) error
		BridgeParams(ctx context.Context) (*model.BridgeParams, error)
		PutBridgeParams(ctx context.Context, params model.BridgeParams) error
		LastHeaderAt(ctx context.Context) (time.Time, error)
		SetLastHeaderAt(ctx context.Context, at time.Time) error
	}
	HeaderChain interface {
		Init(ctx context.Context) error
		Submit(ctx context.Context, raw []byte) (*header.SubmitResult, error)
		SetConfirmations(ctx context.Context, confirmations uint32) (*model.HeaderIndex, error)
		Best(ctx context.Context) (*model.HeaderInfo, error)
		Confirmed(ctx context.Context) (*model.HeaderInfo, error)
		Header(ctx context.Context, hash chainhash.Hash) (*model.HeaderInfo, error)
		IsMainChain(ctx context.Context, hash chainhash.Hash) (bool, error)
	}
	Trustees interface {
		SetIntention(ctx context.Context, account model.AccountID, props model.TrusteeIntentionProps) error
		Elect(ctx context.Context) (*model.TrusteeSessionInfo, error)
		ForceElect(ctx context.Context, accounts []model.AccountID) (*model.TrusteeSessionInfo, error)
		CompleteTransition(ctx context.Context) (*model.TransitionStatus, error)
		CheckTransition(ctx context.Context, now time.Time) (*model.TransitionStatus, error)
		ResolveStall(ctx context.Context) (*model.TransitionStatus, error)
		ConsumeSignatureRecords(ctx context.Context, number uint32) ([]trustee.SignatureRecord, error)
		SetPenalty(ctx context.Context, account model.AccountID, in bool) error
		Current(ctx context.Context) (*model.TrusteeSessionInfo, error)
		Previous(ctx context.Context) (*model.TrusteeSessionInfo, error)
		Session(ctx context.Context, number uint32) (*model.TrusteeSessionInfo, error)
		Transition(ctx context.Context) (*model.TransitionStatus, error)
	}
	Withdrawals interface {
		Params() model.BridgeParams
		SetParams(p model.BridgeParams)
		Request(ctx context.Context, requester model.AccountID, destination string, amount uint64) (*model.WithdrawalRecord, error)
		RemovePending(ctx context.Context, id uint64) (*model.WithdrawalRecord, error)
		Withdrawal(ctx context.Context, id uint64) (*model.WithdrawalRecord, error)
		Withdrawals(ctx context.Context) ([]*model.WithdrawalRecord, error)
		StateCounts(ctx context.Context) (map[model.WithdrawalState]int, error)
		Proposal(ctx context.Context) (*model.WithdrawalProposal, error)
		CreateProposal(ctx context.Context, proposer model.AccountID) (*model.WithdrawalProposal, error)
		Sign(ctx context.Context, trustee model.AccountID, sigs [][]byte) (*withdrawal.VoteResult, error)
		Reject(ctx context.Context, trustee model.AccountID) (*withdrawal.VoteResult, error)
		RemoveProposal(ctx context.Context) ([]*model.WithdrawalRecord, error)
		ForceReplaceProposalTx(ctx context.Context, tx *wire.MsgTx) (*model.WithdrawalProposal, error)
		StuckProposal(ctx context.Context, now time.Time, maxAge time.Duration) (*model.WithdrawalProposal, error)
		MarkBroadcast(ctx context.Context, txid chainhash.Hash) ([]*model.WithdrawalRecord, error)
		ObserveWithdrawalTx(ctx context.Context, tx *wire.MsgTx, block model.HeaderIndex, required uint32) ([]*model.WithdrawalRecord, error)
		Reanchor(ctx context.Context, txid chainhash.Hash, block model.HeaderIndex) ([]*model.WithdrawalRecord, error)
		AdvanceConfirmations(ctx context.Context, best model.HeaderIndex, confirmed *model.HeaderIndex) ([]*model.WithdrawalRecord, error)
		TrackTx(ctx context.Context, tx *wire.MsgTx, hot string) error
	}
	Ledger interface {
		Credit(ctx context.Context, account model.AccountID, amount uint64, txid chainhash.Hash) error
	}
	EventSink interface {
		Emit(ctx context.Context, events ...model.Event) error
	}
	Metrics interface {
		ObserveOperation(operation string, err error, started time.Time)
		SetWithdrawalStates(counts map[model.WithdrawalState]int)
		SetTransitionStalled(stalled bool)
		ObserveAlert(kind string)
	}
)
