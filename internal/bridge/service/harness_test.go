package service

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/header"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/merkle"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	bboltrepo "github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/repository/bbolt"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/trustee"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/withdrawal"
)

type storeMetrics struct{}

func (storeMetrics) Observe(string, error, time.Time) {}

type chainMetrics struct{}

func (chainMetrics) ObserveSubmit(string, error, time.Time) {}
func (chainMetrics) SetBestHeight(uint32)                  {}
func (chainMetrics) SetConfirmedHeight(uint32)             {}

type noCandidates struct{}

func (noCandidates) Candidates(context.Context) ([]model.Candidate, error) { return nil, nil }

// recordingSink keeps emitted events in memory.
type recordingSink struct {
	mu     sync.Mutex
	events []model.Event
}

func (s *recordingSink) Emit(_ context.Context, events ...model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *recordingSink) count(t model.EventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

var regtest = &chaincfg.RegressionNetParams

func privKey(seed byte) *btcec.PrivateKey {
	var b [32]byte
	b[0] = 0x21
	b[31] = seed
	key, _ := btcec.PrivKeyFromBytes(b[:])
	return key
}

func userAddress(t *testing.T, seed byte) string {
	t.Helper()
	pub := privKey(150 + seed).PubKey().SerializeCompressed()
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub), regtest)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func payTo(t *testing.T, addr string, value int64) *wire.TxOut {
	t.Helper()
	pkScript, err := script.PayToAddress(addr, regtest)
	require.NoError(t, err)
	return wire.NewTxOut(value, pkScript)
}

func bindingOut(t *testing.T, account model.AccountID) *wire.TxOut {
	t.Helper()
	pkScript, err := txscript.NullDataScript([]byte(script.EncodeAccount(44, account)))
	require.NoError(t, err)
	return wire.NewTxOut(0, pkScript)
}

func serializeTx(t *testing.T, tx *wire.MsgTx) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return buf.Bytes()
}

// harness runs a Bridge over real components and a regtest header chain
// mined on the fly.
type harness struct {
	t        *testing.T
	bridge   *Bridge
	store    *bboltrepo.Store
	book     *bboltrepo.Book
	sink     *recordingSink
	session  *model.TrusteeSessionInfo
	accounts []model.AccountID
	keys     map[model.AccountID]*btcec.PrivateKey
	tip      wire.BlockHeader
	blocks   map[chainhash.Hash][]chainhash.Hash
	salt     byte
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().ObserveOperation(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().SetWithdrawalStates(gomock.Any()).AnyTimes()
	metrics.EXPECT().SetTransitionStalled(gomock.Any()).AnyTimes()
	metrics.EXPECT().ObserveAlert(gomock.Any()).AnyTimes()

	store, err := bboltrepo.Open(bboltrepo.Options{Path: filepath.Join(t.TempDir(), "bridge.db")}, storeMetrics{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	book := bboltrepo.NewBook(store)

	params, err := model.DefaultParams(model.Regtest)
	require.NoError(t, err)

	chain, err := header.NewChain(store, params, chainMetrics{}, zap.NewNop())
	require.NoError(t, err)
	manager, err := trustee.NewManager(store, noCandidates{}, params, zap.NewNop())
	require.NoError(t, err)
	engine, err := withdrawal.NewEngine(store, manager, book, chain, params, zap.NewNop())
	require.NoError(t, err)

	sink := &recordingSink{}
	bridge, err := New(params.Network, store, chain, manager, engine, book, sink, metrics, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, bridge.Init(ctx))

	h := &harness{
		t:      t,
		bridge: bridge,
		store:  store,
		book:   book,
		sink:   sink,
		keys:   map[model.AccountID]*btcec.PrivateKey{},
		tip:    params.Genesis.Header,
		blocks: map[chainhash.Hash][]chainhash.Hash{},
	}
	for seed := byte(1); seed <= 4; seed++ {
		account := model.AccountID{0x70, seed}
		hot := privKey(seed)
		require.NoError(t, bridge.SetTrusteeIntention(ctx, account, model.TrusteeIntentionProps{
			About:      "trustee node",
			HotPubKey:  hot.PubKey().SerializeCompressed(),
			ColdPubKey: privKey(seed + 40).PubKey().SerializeCompressed(),
		}))
		h.keys[account] = hot
		h.accounts = append(h.accounts, account)
	}
	h.session, err = bridge.ForceElect(ctx, h.accounts)
	require.NoError(t, err)
	require.Equal(t, uint32(3), h.session.Threshold)
	return h
}

// mine extends the tip with a block holding txs after a placeholder
// coinbase and submits its header.
func (h *harness) mine(txs ...*wire.MsgTx) *HeaderOutcome {
	h.t.Helper()
	h.salt++
	txids := []chainhash.Hash{{0xc0, h.salt}}
	for _, tx := range txs {
		txids = append(txids, tx.TxHash())
	}
	next := wire.BlockHeader{
		Version:    4,
		PrevBlock:  h.tip.BlockHash(),
		MerkleRoot: merkle.Root(txids),
		Timestamp:  h.tip.Timestamp.Add(10 * time.Minute),
		Bits:       h.tip.Bits,
	}
	target := blockchain.CompactToBig(next.Bits)
	for nonce := uint32(0); ; nonce++ {
		next.Nonce = nonce
		hash := next.BlockHash()
		if blockchain.HashToBig(&hash).Cmp(target) <= 0 {
			break
		}
	}
	raw, err := model.SerializeHeader(&next)
	require.NoError(h.t, err)
	out, err := h.bridge.SubmitHeader(context.Background(), raw)
	require.NoError(h.t, err)
	h.tip = next
	h.blocks[next.BlockHash()] = txids
	return out
}

func (h *harness) mineEmpty(n int) *HeaderOutcome {
	h.t.Helper()
	var out *HeaderOutcome
	for i := 0; i < n; i++ {
		out = h.mine()
	}
	return out
}

// relayTx builds the relay payload of tx mined in block.
func (h *harness) relayTx(block wire.BlockHeader, tx, prev *wire.MsgTx) model.RelayTx {
	h.t.Helper()
	txids := h.blocks[block.BlockHash()]
	require.NotEmpty(h.t, txids, "block not mined by harness")
	match := make([]bool, len(txids))
	txid := tx.TxHash()
	for i, id := range txids {
		match[i] = id == txid
	}
	tree := merkle.Build(txids, match)
	mb := wire.MsgMerkleBlock{Header: block, Transactions: tree.Total, Flags: tree.Flags}
	for i := range tree.Hashes {
		require.NoError(h.t, mb.AddTxHash(&tree.Hashes[i]))
	}
	proof, err := merkle.EncodeMerkleBlock(&mb)
	require.NoError(h.t, err)

	rt := model.RelayTx{Tx: serializeTx(h.t, tx), BlockHash: block.BlockHash(), Proof: proof}
	if prev != nil {
		rt.PrevTx = serializeTx(h.t, prev)
	}
	return rt
}

// depositTx pays amount to the hot address from a fresh outpoint, naming
// account when it is set.
func (h *harness) depositTx(account *model.AccountID, amount int64, from *wire.MsgTx) *wire.MsgTx {
	h.t.Helper()
	tx := wire.NewMsgTx(wire.TxVersion)
	prevHash := chainhash.Hash{0xd0, h.salt}
	if from != nil {
		prevHash = from.TxHash()
	}
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0), nil, nil))
	tx.AddTxOut(payTo(h.t, h.session.Hot.Address, amount))
	if account != nil {
		tx.AddTxOut(bindingOut(h.t, *account))
	}
	return tx
}

// fundingTx is a previous transaction paying a user address.
func (h *harness) fundingTx(addr string, seed byte) *wire.MsgTx {
	h.t.Helper()
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{0xfe, seed}, 0), nil, nil))
	tx.AddTxOut(payTo(h.t, addr, 500_000_000))
	return tx
}

// confirmDeposit mines tx, buries it under the confirmation depth and
// relays it.
func (h *harness) confirmDeposit(tx, prev *wire.MsgTx) *TxOutcome {
	h.t.Helper()
	h.mine(tx)
	block := h.tip
	h.mineEmpty(int(h.bridge.Params().Confirmations))
	out, err := h.bridge.SubmitTransaction(context.Background(), h.relayTx(block, tx, prev))
	require.NoError(h.t, err)
	return out
}

func (h *harness) signatures(p *model.WithdrawalProposal, account model.AccountID) [][]byte {
	h.t.Helper()
	sigs := make([][]byte, len(p.Tx.TxIn))
	for i := range p.Tx.TxIn {
		sig, err := script.SignInput(p.Tx, i, h.session.Hot.RedeemScript, h.keys[account])
		require.NoError(h.t, err)
		sigs[i] = sig
	}
	return sigs
}

func (h *harness) balance(account model.AccountID) bboltrepo.Balance {
	h.t.Helper()
	bal, err := h.book.Balance(context.Background(), account)
	require.NoError(h.t, err)
	return bal
}
