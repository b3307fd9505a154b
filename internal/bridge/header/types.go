package header

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		Header(ctx context.Context, hash chainhash.Hash) (*model.HeaderInfo, error)
		PutHeader(ctx context.Context, info *model.HeaderInfo) error
		HashesAtHeight(ctx context.Context, height uint32) ([]chainhash.Hash, error)
		IsMainChain(ctx context.Context, hash chainhash.Hash) (bool, error)
		SetMainChain(ctx context.Context, hash chainhash.Hash, main bool) error
		BestIndex(ctx context.Context) (model.HeaderIndex, error)
		SetBestIndex(ctx context.Context, idx model.HeaderIndex) error
		ConfirmedIndex(ctx context.Context) (*model.HeaderIndex, error)
		SetConfirmedIndex(ctx context.Context, idx *model.HeaderIndex) error
	}
	Metrics interface {
		ObserveSubmit(outcome string, err error, started time.Time)
		SetBestHeight(height uint32)
		SetConfirmedHeight(height uint32)
	}
)
