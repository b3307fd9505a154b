package withdrawal

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		CreateWithdrawal(ctx context.Context, rec *model.WithdrawalRecord) (uint64, error)
		Withdrawal(ctx context.Context, id uint64) (*model.WithdrawalRecord, error)
		PutWithdrawals(ctx context.Context, recs ...*model.WithdrawalRecord) error
		Withdrawals(ctx context.Context) ([]*model.WithdrawalRecord, error)
		ArchiveWithdrawal(ctx context.Context, rec *model.WithdrawalRecord) error
		Proposal(ctx context.Context, chain model.Chain) (*model.WithdrawalProposal, error)
		PutProposal(ctx context.Context, chain model.Chain, p *model.WithdrawalProposal) error
		DeleteProposal(ctx context.Context, chain model.Chain) error
		UTXOs(ctx context.Context, address string) ([]model.UTXO, error)
		ApplyUTXOs(ctx context.Context, spent []wire.OutPoint, created []model.UTXO) error
	}
	Trustees interface {
		Current(ctx context.Context) (*model.TrusteeSessionInfo, error)
		Session(ctx context.Context, number uint32) (*model.TrusteeSessionInfo, error)
		Transition(ctx context.Context) (*model.TransitionStatus, error)
		RecordSignature(ctx context.Context, number uint32, account model.AccountID) error
	}
	Ledger interface {
		Lock(ctx context.Context, withdrawalID uint64, account model.AccountID, amount uint64) error
		DebitConfirmed(ctx context.Context, withdrawalID uint64) error
		Release(ctx context.Context, withdrawalID uint64) error
	}
	Headers interface {
		IsMainChain(ctx context.Context, hash chainhash.Hash) (bool, error)
	}
)
