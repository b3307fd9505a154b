package trustee

import (
	"context"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		Intention(ctx context.Context, account model.AccountID) (*model.TrusteeIntentionProps, error)
		PutIntention(ctx context.Context, account model.AccountID, props model.TrusteeIntentionProps) error
		Session(ctx context.Context, number uint32) (*model.TrusteeSessionInfo, error)
		LatestSession(ctx context.Context) (*model.TrusteeSessionInfo, error)
		PutSession(ctx context.Context, session *model.TrusteeSessionInfo) error
		Penalized(ctx context.Context, account model.AccountID) (bool, error)
		SetPenalized(ctx context.Context, account model.AccountID, in bool) error
		Transition(ctx context.Context) (*model.TransitionStatus, error)
		PutTransition(ctx context.Context, status *model.TransitionStatus) error
	}
	CandidateSource interface {
		Candidates(ctx context.Context) ([]model.Candidate, error)
	}
)
