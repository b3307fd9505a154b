// Package merkle verifies and builds Bitcoin partial merkle trees.
package merkle

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// maxTransactions bounds the leaf count of a block (max block weight over
// the minimum transaction weight).
const maxTransactions = 4_000_000 / 240

// PartialTree is a pruned merkle tree proving a subset of a block's txids.
type PartialTree struct {
	Total  uint32
	Hashes []chainhash.Hash
	Flags  []byte
}

// Result is the outcome of walking a partial tree.
type Result struct {
	Root    chainhash.Hash
	Matched []chainhash.Hash
}

// FromMerkleBlock extracts the partial tree of a merkleblock message.
func FromMerkleBlock(mb *wire.MsgMerkleBlock) PartialTree {
	hashes := make([]chainhash.Hash, len(mb.Hashes))
	for i, h := range mb.Hashes {
		hashes[i] = *h
	}
	return PartialTree{
		Total:  mb.Transactions,
		Hashes: hashes,
		Flags:  append([]byte(nil), mb.Flags...),
	}
}

// DecodeMerkleBlock parses a Bitcoin serialized merkleblock message.
func DecodeMerkleBlock(raw []byte) (*wire.MsgMerkleBlock, error) {
	var mb wire.MsgMerkleBlock
	if err := mb.BtcDecode(bytes.NewReader(raw), wire.ProtocolVersion, wire.LatestEncoding); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrMalformedProof, err)
	}
	return &mb, nil
}

// EncodeMerkleBlock serializes a merkleblock message.
func EncodeMerkleBlock(mb *wire.MsgMerkleBlock) ([]byte, error) {
	var buf bytes.Buffer
	if err := mb.BtcEncode(&buf, wire.ProtocolVersion, wire.LatestEncoding); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Verify walks the tree and checks it commits to expectedRoot.
func Verify(tree PartialTree, expectedRoot chainhash.Hash) (Result, error) {
	if tree.Total == 0 {
		return Result{}, fmt.Errorf("%w: no transactions", model.ErrBadMerkleProof)
	}
	if tree.Total > maxTransactions {
		return Result{}, fmt.Errorf("%w: %d transactions exceed block bound", model.ErrBadMerkleProof, tree.Total)
	}
	if uint32(len(tree.Hashes)) > tree.Total {
		return Result{}, fmt.Errorf("%w: more hashes than transactions", model.ErrBadMerkleProof)
	}
	if len(tree.Flags)*8 < len(tree.Hashes) {
		return Result{}, fmt.Errorf("%w: fewer flag bits than hashes", model.ErrBadMerkleProof)
	}

	e := extractor{tree: tree}
	root := e.traverse(treeHeight(tree.Total), 0)
	if e.err != nil {
		return Result{}, e.err
	}
	if (e.bitsUsed+7)/8 != len(tree.Flags) {
		return Result{}, fmt.Errorf("%w: unused flag bytes", model.ErrBadMerkleProof)
	}
	for i := e.bitsUsed; i < len(tree.Flags)*8; i++ {
		if flagBit(tree.Flags, i) {
			return Result{}, fmt.Errorf("%w: non-zero padding bits", model.ErrBadMerkleProof)
		}
	}
	if e.hashUsed != len(tree.Hashes) {
		return Result{}, fmt.Errorf("%w: unused hashes", model.ErrBadMerkleProof)
	}
	if root != expectedRoot {
		return Result{}, fmt.Errorf("%w: root %s, want %s", model.ErrBadMerkleProof, root, expectedRoot)
	}
	return Result{Root: root, Matched: e.matched}, nil
}

// Prove verifies the tree and checks txid is one of its matched leaves.
func Prove(tree PartialTree, expectedRoot, txid chainhash.Hash) (Result, error) {
	res, err := Verify(tree, expectedRoot)
	if err != nil {
		return Result{}, err
	}
	for _, h := range res.Matched {
		if h == txid {
			return res, nil
		}
	}
	return Result{}, fmt.Errorf("%w: %s not matched", model.ErrBadMerkleProof, txid)
}

type extractor struct {
	tree     PartialTree
	bitsUsed int
	hashUsed int
	matched  []chainhash.Hash
	err      error
}

func (e *extractor) traverse(height, pos uint32) chainhash.Hash {
	if e.err != nil {
		return chainhash.Hash{}
	}
	if e.bitsUsed >= len(e.tree.Flags)*8 {
		e.err = fmt.Errorf("%w: flag bits exhausted", model.ErrBadMerkleProof)
		return chainhash.Hash{}
	}
	parentOfMatch := flagBit(e.tree.Flags, e.bitsUsed)
	e.bitsUsed++

	if height == 0 || !parentOfMatch {
		if e.hashUsed >= len(e.tree.Hashes) {
			e.err = fmt.Errorf("%w: hashes exhausted", model.ErrBadMerkleProof)
			return chainhash.Hash{}
		}
		h := e.tree.Hashes[e.hashUsed]
		e.hashUsed++
		if height == 0 && parentOfMatch {
			e.matched = append(e.matched, h)
		}
		return h
	}

	left := e.traverse(height-1, pos*2)
	right := left
	if pos*2+1 < treeWidth(e.tree.Total, height-1) {
		right = e.traverse(height-1, pos*2+1)
		// Identical siblings let a shorter tree pose as a longer one.
		if e.err == nil && right == left {
			e.err = fmt.Errorf("%w: duplicate sibling hash", model.ErrBadMerkleProof)
		}
	}
	return hashBranches(left, right)
}

// Build creates the partial tree proving the matched txids.
func Build(txids []chainhash.Hash, match []bool) PartialTree {
	total := uint32(len(txids))
	b := builder{txids: txids, match: match, total: total}
	if total > 0 {
		b.traverse(treeHeight(total), 0)
	}

	flags := make([]byte, (len(b.bits)+7)/8)
	for i, bit := range b.bits {
		if bit {
			flags[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return PartialTree{Total: total, Hashes: b.hashes, Flags: flags}
}

// Root computes the merkle root of a full txid list.
func Root(txids []chainhash.Hash) chainhash.Hash {
	if len(txids) == 0 {
		return chainhash.Hash{}
	}
	b := builder{txids: txids, total: uint32(len(txids))}
	return b.hash(treeHeight(b.total), 0)
}

type builder struct {
	txids  []chainhash.Hash
	match  []bool
	total  uint32
	bits   []bool
	hashes []chainhash.Hash
}

func (b *builder) hash(height, pos uint32) chainhash.Hash {
	if height == 0 {
		return b.txids[pos]
	}
	left := b.hash(height-1, pos*2)
	right := left
	if pos*2+1 < treeWidth(b.total, height-1) {
		right = b.hash(height-1, pos*2+1)
	}
	return hashBranches(left, right)
}

func (b *builder) traverse(height, pos uint32) {
	parentOfMatch := false
	for p := pos << height; p < (pos+1)<<height && p < b.total; p++ {
		if int(p) < len(b.match) && b.match[p] {
			parentOfMatch = true
			break
		}
	}
	b.bits = append(b.bits, parentOfMatch)
	if height == 0 || !parentOfMatch {
		b.hashes = append(b.hashes, b.hash(height, pos))
		return
	}
	b.traverse(height-1, pos*2)
	if pos*2+1 < treeWidth(b.total, height-1) {
		b.traverse(height-1, pos*2+1)
	}
}

func treeWidth(total, height uint32) uint32 {
	return (total + (1 << height) - 1) >> height
}

func treeHeight(total uint32) uint32 {
	var height uint32
	for treeWidth(total, height) > 1 {
		height++
	}
	return height
}

func flagBit(flags []byte, i int) bool {
	return flags[i/8]&(1<<(uint(i)%8)) != 0
}

func hashBranches(left, right chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	return chainhash.DoubleHashH(buf[:])
}
