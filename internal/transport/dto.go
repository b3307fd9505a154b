package transport

import (
	"bytes"
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/service"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/trustee"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/withdrawal"
)

// Binary payloads travel hex encoded; hashes use the usual reversed hex.

type HeaderRequest struct {
	Header string `json:"header"`
}

type RelayTxRequest struct {
	Tx        string `json:"tx"`
	BlockHash string `json:"block_hash"`
	Proof     string `json:"proof"`
	PrevTx    string `json:"prev_tx,omitempty"`
}

type HeaderIndex struct {
	Hash   string `json:"hash"`
	Height uint32 `json:"height"`
}

type HeaderResponse struct {
	Hash        string        `json:"hash"`
	Height      uint32        `json:"height"`
	Duplicate   bool          `json:"duplicate"`
	BestChanged bool          `json:"best_changed"`
	Reorg       bool          `json:"reorg"`
	Best        HeaderIndex   `json:"best"`
	Confirmed   *HeaderIndex  `json:"confirmed,omitempty"`
	Withdrawn   []*Withdrawal `json:"withdrawn,omitempty"`
}

type HeaderStatus struct {
	Hash      string `json:"hash"`
	Height    uint32 `json:"height"`
	MainChain bool   `json:"main_chain"`
	Header    string `json:"header"`
}

type TxOutcome struct {
	TxID      string `json:"txid"`
	Type      string `json:"type"`
	Result    string `json:"result"`
	Duplicate bool   `json:"duplicate"`
}

type ChainStatus struct {
	Best      HeaderIndex  `json:"best"`
	Confirmed *HeaderIndex `json:"confirmed,omitempty"`
}

type TxState struct {
	Type   string `json:"type"`
	Result string `json:"result"`
}

type WithdrawalRequest struct {
	Requester   model.AccountID `json:"requester"`
	Destination string          `json:"destination"`
	Amount      uint64          `json:"amount"`
}

type Withdrawal struct {
	ID          uint64    `json:"id"`
	Requester   string    `json:"requester"`
	Destination string    `json:"destination"`
	Amount      uint64    `json:"amount"`
	State       string    `json:"state"`
	Seen        uint32    `json:"seen,omitempty"`
	Required    uint32    `json:"required,omitempty"`
	TxID        string    `json:"txid,omitempty"`
	BlockHash   string    `json:"block_hash,omitempty"`
	BlockHeight uint32    `json:"block_height,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PendingDeposit struct {
	TxID   string `json:"txid"`
	Amount uint64 `json:"amount"`
	Height uint32 `json:"height"`
}

type UTXO struct {
	TxID    string `json:"txid"`
	Index   uint32 `json:"index"`
	Value   uint64 `json:"value"`
	Address string `json:"address"`
}

type Vote struct {
	Account    string `json:"account"`
	Approve    bool   `json:"approve"`
	Signatures int    `json:"signatures"`
}

type Proposal struct {
	Session       uint32    `json:"session"`
	Proposer      string    `json:"proposer"`
	SigState      string    `json:"sig_state"`
	WithdrawalIDs []uint64  `json:"withdrawal_ids"`
	TxID          string    `json:"txid"`
	Tx            string    `json:"tx"`
	Inputs        []UTXO    `json:"inputs"`
	Votes         []Vote    `json:"votes"`
	CreatedAt     time.Time `json:"created_at"`
}

type ProposerRequest struct {
	Proposer model.AccountID `json:"proposer"`
}

type SignRequest struct {
	Trustee    model.AccountID `json:"trustee"`
	Signatures []string        `json:"signatures"`
}

type RejectRequest struct {
	Trustee model.AccountID `json:"trustee"`
}

type BroadcastRequest struct {
	TxID string `json:"txid"`
}

type VoteResult struct {
	Proposal   *Proposal     `json:"proposal"`
	Approvals  uint32        `json:"approvals"`
	Rejections uint32        `json:"rejections"`
	Threshold  uint32        `json:"threshold"`
	Total      uint32        `json:"total"`
	Finished   bool          `json:"finished"`
	Dropped    bool          `json:"dropped"`
	Records    []*Withdrawal `json:"records,omitempty"`
}

type MultisigAddress struct {
	Address      string `json:"address"`
	RedeemScript string `json:"redeem_script"`
}

type Trustee struct {
	Account    string `json:"account"`
	HotPubKey  string `json:"hot_pubkey"`
	ColdPubKey string `json:"cold_pubkey"`
	SigCount   uint64 `json:"sig_count"`
}

type Session struct {
	Number    uint32          `json:"number"`
	Threshold uint32          `json:"threshold"`
	Hot       MultisigAddress `json:"hot"`
	Cold      MultisigAddress `json:"cold"`
	Trustees  []Trustee       `json:"trustees"`
	CreatedAt time.Time       `json:"created_at"`
}

type Transition struct {
	From      uint32    `json:"from"`
	To        uint32    `json:"to"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
	Stalled   bool      `json:"stalled"`
	Completed bool      `json:"completed"`
}

type TrusteesResponse struct {
	Current    *Session    `json:"current,omitempty"`
	Previous   *Session    `json:"previous,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
}

type IntentionRequest struct {
	Account    model.AccountID `json:"account"`
	About      string          `json:"about"`
	HotPubKey  string          `json:"hot_pubkey"`
	ColdPubKey string          `json:"cold_pubkey"`
}

type ForceElectRequest struct {
	Accounts []model.AccountID `json:"accounts"`
}

type PenaltyRequest struct {
	Account model.AccountID `json:"account"`
	In      bool            `json:"in"`
}

type RemovePendingDepositRequest struct {
	Address string           `json:"address"`
	Account *model.AccountID `json:"account,omitempty"`
}

type ReplaceTxRequest struct {
	Tx string `json:"tx"`
}

type SignatureRecord struct {
	Account string `json:"account"`
	Count   uint64 `json:"count"`
}

type Params struct {
	Confirmations      uint32 `json:"confirmations"`
	MinDeposit         uint64 `json:"min_deposit"`
	WithdrawalFee      uint64 `json:"withdrawal_fee"`
	FeeRate            uint64 `json:"fee_rate"`
	MaxWithdrawalCount uint32 `json:"max_withdrawal_count"`
	MaxTxSize          uint32 `json:"max_tx_size"`
	MinWithdrawal      uint64 `json:"min_withdrawal"`
}

// ParamsUpdate changes only the fields that are set.
type ParamsUpdate struct {
	Confirmations *uint32 `json:"confirmations,omitempty"`
	MinDeposit    *uint64 `json:"min_deposit,omitempty"`
	WithdrawalFee *uint64 `json:"withdrawal_fee,omitempty"`
	FeeRate       *uint64 `json:"fee_rate,omitempty"`
}

type Event struct {
	Type         string    `json:"type"`
	Network      string    `json:"network"`
	Height       uint32    `json:"height,omitempty"`
	BlockHash    string    `json:"block_hash,omitempty"`
	TxID         string    `json:"txid,omitempty"`
	Account      string    `json:"account,omitempty"`
	Address      string    `json:"address,omitempty"`
	WithdrawalID uint64    `json:"withdrawal_id,omitempty"`
	Amount       uint64    `json:"amount,omitempty"`
	Session      uint32    `json:"session,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	At           time.Time `json:"at"`
}

type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

func headerIndexDTO(idx model.HeaderIndex) HeaderIndex {
	return HeaderIndex{Hash: idx.Hash.String(), Height: idx.Height}
}

func optionalHeaderIndexDTO(idx *model.HeaderIndex) *HeaderIndex {
	if idx == nil {
		return nil
	}
	out := headerIndexDTO(*idx)
	return &out
}

func headerResponseDTO(out *service.HeaderOutcome) *HeaderResponse {
	return &HeaderResponse{
		Hash:        out.Hash.String(),
		Height:      out.Height,
		Duplicate:   out.Duplicate,
		BestChanged: out.BestChanged,
		Reorg:       out.Reorg,
		Best:        headerIndexDTO(out.Best),
		Confirmed:   optionalHeaderIndexDTO(out.Confirmed),
		Withdrawn:   withdrawalsDTO(out.Withdrawn),
	}
}

func txOutcomeDTO(out *service.TxOutcome) *TxOutcome {
	return &TxOutcome{
		TxID:      out.TxID.String(),
		Type:      out.Type.String(),
		Result:    out.Result.String(),
		Duplicate: out.Duplicate,
	}
}

func withdrawalDTO(rec *model.WithdrawalRecord) *Withdrawal {
	out := &Withdrawal{
		ID:          rec.ID,
		Requester:   rec.Requester.String(),
		Destination: rec.Destination,
		Amount:      rec.Amount,
		State:       rec.State.String(),
		Seen:        rec.Seen,
		Required:    rec.Required,
		BlockHeight: rec.BlockHeight,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.TxID != (chainhash.Hash{}) {
		out.TxID = rec.TxID.String()
	}
	if rec.BlockHash != (chainhash.Hash{}) {
		out.BlockHash = rec.BlockHash.String()
	}
	return out
}

func withdrawalsDTO(recs []*model.WithdrawalRecord) []*Withdrawal {
	if len(recs) == 0 {
		return nil
	}
	out := make([]*Withdrawal, 0, len(recs))
	for _, rec := range recs {
		out = append(out, withdrawalDTO(rec))
	}
	return out
}

func proposalDTO(p *model.WithdrawalProposal) (*Proposal, error) {
	raw, err := serializeTx(p.Tx)
	if err != nil {
		return nil, err
	}
	out := &Proposal{
		Session:       p.Session,
		Proposer:      p.Proposer.String(),
		SigState:      p.SigState.String(),
		WithdrawalIDs: p.WithdrawalIDs,
		TxID:          p.Tx.TxHash().String(),
		Tx:            hex.EncodeToString(raw),
		Inputs:        make([]UTXO, 0, len(p.Inputs)),
		Votes:         make([]Vote, 0, len(p.Votes)),
		CreatedAt:     p.CreatedAt,
	}
	for _, in := range p.Inputs {
		out.Inputs = append(out.Inputs, UTXO{
			TxID:    in.OutPoint.Hash.String(),
			Index:   in.OutPoint.Index,
			Value:   in.Value,
			Address: in.Address,
		})
	}
	for _, v := range p.Votes {
		out.Votes = append(out.Votes, Vote{Account: v.Account.String(), Approve: v.Approve, Signatures: len(v.Signatures)})
	}
	return out, nil
}

func voteResultDTO(res *withdrawal.VoteResult) (*VoteResult, error) {
	p, err := proposalDTO(res.Proposal)
	if err != nil {
		return nil, err
	}
	return &VoteResult{
		Proposal:   p,
		Approvals:  res.Approvals,
		Rejections: res.Rejections,
		Threshold:  res.Threshold,
		Total:      res.Total,
		Finished:   res.Finished,
		Dropped:    res.Dropped,
		Records:    withdrawalsDTO(res.Records),
	}, nil
}

func sessionDTO(s *model.TrusteeSessionInfo) *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		Number:    s.Number,
		Threshold: s.Threshold,
		Hot:       MultisigAddress{Address: s.Hot.Address, RedeemScript: hex.EncodeToString(s.Hot.RedeemScript)},
		Cold:      MultisigAddress{Address: s.Cold.Address, RedeemScript: hex.EncodeToString(s.Cold.RedeemScript)},
		Trustees:  make([]Trustee, 0, len(s.Trustees)),
		CreatedAt: s.CreatedAt,
	}
	for _, t := range s.Trustees {
		out.Trustees = append(out.Trustees, Trustee{
			Account:    t.Account.String(),
			HotPubKey:  hex.EncodeToString(t.HotPubKey),
			ColdPubKey: hex.EncodeToString(t.ColdPubKey),
			SigCount:   t.SigCount,
		})
	}
	return out
}

func transitionDTO(t *model.TransitionStatus) *Transition {
	if t == nil {
		return nil
	}
	return &Transition{
		From:      t.From,
		To:        t.To,
		StartedAt: t.StartedAt,
		Deadline:  t.Deadline,
		Stalled:   t.Stalled,
		Completed: t.Completed,
	}
}

func signatureRecordsDTO(records []trustee.SignatureRecord) []SignatureRecord {
	out := make([]SignatureRecord, 0, len(records))
	for _, r := range records {
		out = append(out, SignatureRecord{Account: r.Account.String(), Count: r.Count})
	}
	return out
}

func paramsDTO(p model.BridgeParams) *Params {
	return &Params{
		Confirmations:      p.Confirmations,
		MinDeposit:         p.MinDeposit,
		WithdrawalFee:      p.WithdrawalFee,
		FeeRate:            p.FeeRate,
		MaxWithdrawalCount: p.MaxWithdrawalCount,
		MaxTxSize:          p.MaxTxSize,
		MinWithdrawal:      p.MinWithdrawal(),
	}
}

func pendingDepositsDTO(deposits []model.PendingDeposit) []PendingDeposit {
	out := make([]PendingDeposit, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, PendingDeposit{TxID: d.TxID.String(), Amount: d.Amount, Height: d.Height})
	}
	return out
}

func eventDTO(ev model.Event) Event {
	return Event{
		Type:         string(ev.Type),
		Network:      string(ev.Network),
		Height:       ev.Height,
		BlockHash:    ev.BlockHash,
		TxID:         ev.TxID,
		Account:      ev.Account,
		Address:      ev.Address,
		WithdrawalID: ev.WithdrawalID,
		Amount:       ev.Amount,
		Session:      ev.Session,
		Detail:       ev.Detail,
		At:           ev.At,
	}
}

func serializeTx(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
