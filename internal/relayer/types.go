package relayer

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/transport"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPCClient interface {
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockHeader(blockHash *chainhash.Hash) (*wire.BlockHeader, error)
		GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
		GetRawTransaction(txHash *chainhash.Hash) (*btcutil.Tx, error)
	}
	BridgeClient interface {
		Chain(ctx context.Context) (*transport.ChainStatus, error)
		// HeaderStatus returns nil when the bridge does not know the header.
		HeaderStatus(ctx context.Context, hash chainhash.Hash) (*transport.HeaderStatus, error)
		Trustees(ctx context.Context) (*transport.TrusteesResponse, error)
		SubmitHeader(ctx context.Context, raw []byte) (*transport.HeaderResponse, error)
		SubmitTransaction(ctx context.Context, req transport.RelayTxRequest) (*transport.TxOutcome, error)
	}
	Metrics interface {
		ObservePoll(err error, blocks int, started time.Time)
		ObserveSubmit(kind string, err error)
		SetNodeHeight(height int64)
	}
)
