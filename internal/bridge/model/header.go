package model

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// HeaderInfo is an accepted header with its position and cumulative work.
type HeaderInfo struct {
	Header wire.BlockHeader
	Height uint32
	Work   *big.Int
}

// Hash returns the block hash of the header.
func (h *HeaderInfo) Hash() chainhash.Hash {
	return h.Header.BlockHash()
}

// Index returns the (hash, height) pointer of the header.
func (h *HeaderInfo) Index() HeaderIndex {
	return HeaderIndex{Hash: h.Hash(), Height: h.Height}
}

// HeaderIndex points at a header in the chain.
type HeaderIndex struct {
	Hash   chainhash.Hash
	Height uint32
}
