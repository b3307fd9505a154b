package bbolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	bolt "go.etcd.io/bbolt"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

type withdrawalRecord struct {
	ID          uint64 `cbor:"1,keyasint"`
	Requester   []byte `cbor:"2,keyasint"`
	Destination string `cbor:"3,keyasint"`
	Amount      uint64 `cbor:"4,keyasint"`
	State       uint8  `cbor:"5,keyasint"`
	Seen        uint32 `cbor:"6,keyasint"`
	Required    uint32 `cbor:"7,keyasint"`
	TxID        []byte `cbor:"8,keyasint"`
	BlockHash   []byte `cbor:"9,keyasint"`
	BlockHeight uint32 `cbor:"10,keyasint"`
	CreatedAt   int64  `cbor:"11,keyasint"`
	UpdatedAt   int64  `cbor:"12,keyasint"`
}

type utxoRecord struct {
	Value   uint64 `cbor:"1,keyasint"`
	Address string `cbor:"2,keyasint"`
}

type voteRecord struct {
	Account    []byte   `cbor:"1,keyasint"`
	Approve    bool     `cbor:"2,keyasint"`
	Signatures [][]byte `cbor:"3,keyasint"`
}

type inputRecord struct {
	TxID    []byte `cbor:"1,keyasint"`
	Index   uint32 `cbor:"2,keyasint"`
	Value   uint64 `cbor:"3,keyasint"`
	Address string `cbor:"4,keyasint"`
}

type proposalRecord struct {
	Session       uint32        `cbor:"1,keyasint"`
	Proposer      []byte        `cbor:"2,keyasint"`
	SigState      uint8         `cbor:"3,keyasint"`
	WithdrawalIDs []uint64      `cbor:"4,keyasint"`
	Tx            []byte        `cbor:"5,keyasint"`
	Inputs        []inputRecord `cbor:"6,keyasint"`
	Votes         []voteRecord  `cbor:"7,keyasint"`
	CreatedAt     int64         `cbor:"8,keyasint"`
}

func toWithdrawalRecord(r *model.WithdrawalRecord) withdrawalRecord {
	return withdrawalRecord{
		ID:          r.ID,
		Requester:   append([]byte(nil), r.Requester[:]...),
		Destination: r.Destination,
		Amount:      r.Amount,
		State:       uint8(r.State),
		Seen:        r.Seen,
		Required:    r.Required,
		TxID:        append([]byte(nil), r.TxID[:]...),
		BlockHash:   append([]byte(nil), r.BlockHash[:]...),
		BlockHeight: r.BlockHeight,
		CreatedAt:   r.CreatedAt.UnixNano(),
		UpdatedAt:   r.UpdatedAt.UnixNano(),
	}
}

func (r withdrawalRecord) record() *model.WithdrawalRecord {
	out := &model.WithdrawalRecord{
		ID:          r.ID,
		Destination: r.Destination,
		Amount:      r.Amount,
		State:       model.WithdrawalState(r.State),
		Seen:        r.Seen,
		Required:    r.Required,
		BlockHeight: r.BlockHeight,
		CreatedAt:   time.Unix(0, r.CreatedAt).UTC(),
		UpdatedAt:   time.Unix(0, r.UpdatedAt).UTC(),
	}
	copy(out.Requester[:], r.Requester)
	copy(out.TxID[:], r.TxID)
	copy(out.BlockHash[:], r.BlockHash)
	return out
}

// CreateWithdrawal assigns the next withdrawal id and stores the record.
func (s *Store) CreateWithdrawal(ctx context.Context, rec *model.WithdrawalRecord) (uint64, error) {
	var id uint64
	err := s.update(ctx, "create_withdrawal", func(tx *bolt.Tx) error {
		seq, err := tx.Bucket(bucketWithdrawals).NextSequence()
		if err != nil {
			return fmt.Errorf("next withdrawal id: %w", err)
		}
		id = seq
		stored := *rec
		stored.ID = id
		return putValue(tx, bucketWithdrawals, uint64Key(id), toWithdrawalRecord(&stored))
	})
	if err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

// Withdrawal loads a live withdrawal record.
func (s *Store) Withdrawal(ctx context.Context, id uint64) (*model.WithdrawalRecord, error) {
	return s.withdrawal(ctx, "withdrawal", bucketWithdrawals, id)
}

// ArchivedWithdrawal loads a confirmed or cancelled withdrawal record.
func (s *Store) ArchivedWithdrawal(ctx context.Context, id uint64) (*model.WithdrawalRecord, error) {
	return s.withdrawal(ctx, "archived_withdrawal", bucketArchive, id)
}

func (s *Store) withdrawal(ctx context.Context, operation string, bucket []byte, id uint64) (*model.WithdrawalRecord, error) {
	var out *model.WithdrawalRecord
	err := s.view(ctx, operation, func(tx *bolt.Tx) error {
		var rec withdrawalRecord
		if err := getValue(tx, bucket, uint64Key(id), &rec); err != nil {
			return err
		}
		out = rec.record()
		return nil
	})
	return out, err
}

// PutWithdrawals updates live withdrawal records in one transaction.
func (s *Store) PutWithdrawals(ctx context.Context, recs ...*model.WithdrawalRecord) error {
	return s.update(ctx, "put_withdrawals", func(tx *bolt.Tx) error {
		for _, r := range recs {
			if err := putValue(tx, bucketWithdrawals, uint64Key(r.ID), toWithdrawalRecord(r)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Withdrawals lists live withdrawal records in id order.
func (s *Store) Withdrawals(ctx context.Context) ([]*model.WithdrawalRecord, error) {
	var out []*model.WithdrawalRecord
	err := s.view(ctx, "withdrawals", func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWithdrawals).ForEach(func(k, v []byte) error {
			var rec withdrawalRecord
			if err := decodeValue(bucketWithdrawals, k, v, &rec); err != nil {
				return err
			}
			out = append(out, rec.record())
			return nil
		})
	})
	return out, err
}

// ArchiveWithdrawal moves a terminal record out of the live set.
func (s *Store) ArchiveWithdrawal(ctx context.Context, rec *model.WithdrawalRecord) error {
	return s.update(ctx, "archive_withdrawal", func(tx *bolt.Tx) error {
		key := uint64Key(rec.ID)
		if err := tx.Bucket(bucketWithdrawals).Delete(key); err != nil {
			return err
		}
		return putValue(tx, bucketArchive, key, toWithdrawalRecord(rec))
	})
}

// Proposal returns the open withdrawal proposal of the chain, nil when none.
func (s *Store) Proposal(ctx context.Context, chain model.Chain) (*model.WithdrawalProposal, error) {
	var out *model.WithdrawalProposal
	err := s.view(ctx, "proposal", func(tx *bolt.Tx) error {
		var rec proposalRecord
		if err := getValue(tx, bucketProposals, []byte(chain), &rec); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return err
		}
		var err error
		out, err = rec.proposal()
		return err
	})
	return out, err
}

// PutProposal replaces the open proposal of the chain.
func (s *Store) PutProposal(ctx context.Context, chain model.Chain, p *model.WithdrawalProposal) error {
	rec, err := toProposalRecord(p)
	if err != nil {
		return err
	}
	return s.update(ctx, "put_proposal", func(tx *bolt.Tx) error {
		return putValue(tx, bucketProposals, []byte(chain), rec)
	})
}

// DeleteProposal drops the open proposal of the chain.
func (s *Store) DeleteProposal(ctx context.Context, chain model.Chain) error {
	return s.update(ctx, "delete_proposal", func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProposals).Delete([]byte(chain))
	})
}

func toProposalRecord(p *model.WithdrawalProposal) (proposalRecord, error) {
	var buf bytes.Buffer
	if err := p.Tx.Serialize(&buf); err != nil {
		return proposalRecord{}, fmt.Errorf("serialize proposal tx: %w", err)
	}
	rec := proposalRecord{
		Session:       p.Session,
		Proposer:      append([]byte(nil), p.Proposer[:]...),
		SigState:      uint8(p.SigState),
		WithdrawalIDs: p.WithdrawalIDs,
		Tx:            buf.Bytes(),
		CreatedAt:     p.CreatedAt.UnixNano(),
	}
	for _, in := range p.Inputs {
		rec.Inputs = append(rec.Inputs, inputRecord{
			TxID:    append([]byte(nil), in.OutPoint.Hash[:]...),
			Index:   in.OutPoint.Index,
			Value:   in.Value,
			Address: in.Address,
		})
	}
	for _, v := range p.Votes {
		rec.Votes = append(rec.Votes, voteRecord{
			Account:    append([]byte(nil), v.Account[:]...),
			Approve:    v.Approve,
			Signatures: v.Signatures,
		})
	}
	return rec, nil
}

func (r proposalRecord) proposal() (*model.WithdrawalProposal, error) {
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(r.Tx)); err != nil {
		return nil, fmt.Errorf("decode proposal tx: %w", err)
	}
	p := &model.WithdrawalProposal{
		Session:       r.Session,
		SigState:      model.SigState(r.SigState),
		WithdrawalIDs: r.WithdrawalIDs,
		Tx:            tx,
		CreatedAt:     time.Unix(0, r.CreatedAt).UTC(),
	}
	copy(p.Proposer[:], r.Proposer)
	for _, in := range r.Inputs {
		u := model.UTXO{Value: in.Value, Address: in.Address}
		copy(u.OutPoint.Hash[:], in.TxID)
		u.OutPoint.Index = in.Index
		p.Inputs = append(p.Inputs, u)
	}
	for _, v := range r.Votes {
		vote := model.TrusteeVote{Approve: v.Approve, Signatures: v.Signatures}
		copy(vote.Account[:], v.Account)
		p.Votes = append(p.Votes, vote)
	}
	return p, nil
}

func outpointKey(op wire.OutPoint) []byte {
	key := make([]byte, chainhash.HashSize+4)
	copy(key, op.Hash[:])
	binary.BigEndian.PutUint32(key[chainhash.HashSize:], op.Index)
	return key
}

// UTXOs lists the tracked outputs paying the address.
func (s *Store) UTXOs(ctx context.Context, address string) ([]model.UTXO, error) {
	var out []model.UTXO
	err := s.view(ctx, "utxos", func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUTXOs).ForEach(func(k, v []byte) error {
			var rec utxoRecord
			if err := decodeValue(bucketUTXOs, k, v, &rec); err != nil {
				return err
			}
			if rec.Address != address {
				return nil
			}
			u := model.UTXO{Value: rec.Value, Address: rec.Address}
			copy(u.OutPoint.Hash[:], k[:chainhash.HashSize])
			u.OutPoint.Index = binary.BigEndian.Uint32(k[chainhash.HashSize:])
			out = append(out, u)
			return nil
		})
	})
	return out, err
}

// ApplyUTXOs removes spent outputs and adds created ones in one transaction.
func (s *Store) ApplyUTXOs(ctx context.Context, spent []wire.OutPoint, created []model.UTXO) error {
	return s.update(ctx, "apply_utxos", func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUTXOs)
		for _, op := range spent {
			if err := b.Delete(outpointKey(op)); err != nil {
				return err
			}
		}
		for _, u := range created {
			if err := putValue(tx, bucketUTXOs, outpointKey(u.OutPoint), utxoRecord{Value: u.Value, Address: u.Address}); err != nil {
				return err
			}
		}
		return nil
	})
}
