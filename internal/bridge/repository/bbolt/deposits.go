package bbolt

import (
	"context"
	"errors"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	bolt "go.etcd.io/bbolt"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

type txStateRecord struct {
	Type        uint8  `cbor:"1,keyasint"`
	Result      uint8  `cbor:"2,keyasint"`
	BlockHash   []byte `cbor:"3,keyasint"`
	BlockHeight uint32 `cbor:"4,keyasint"`
}

type bindingRecord struct {
	Account  []byte `cbor:"1,keyasint"`
	Referral string `cbor:"2,keyasint"`
}

type pendingDepositRecord struct {
	TxID   []byte `cbor:"1,keyasint"`
	Amount uint64 `cbor:"2,keyasint"`
	Height uint32 `cbor:"3,keyasint"`
}

// TxState returns the stored outcome of a processed txid.
func (s *Store) TxState(ctx context.Context, txid chainhash.Hash) (*model.TxState, error) {
	var out *model.TxState
	err := s.view(ctx, "tx_state", func(tx *bolt.Tx) error {
		var rec txStateRecord
		if err := getValue(tx, bucketTxStates, txid[:], &rec); err != nil {
			return err
		}
		out = &model.TxState{
			Type:   model.BtcTxType(rec.Type),
			Result: model.TxResult(rec.Result),
			Block:  model.HeaderIndex{Height: rec.BlockHeight},
		}
		copy(out.Block.Hash[:], rec.BlockHash)
		return nil
	})
	return out, err
}

// PutTxState records the outcome of a processed txid.
func (s *Store) PutTxState(ctx context.Context, txid chainhash.Hash, state model.TxState) error {
	return s.update(ctx, "put_tx_state", func(tx *bolt.Tx) error {
		return putValue(tx, bucketTxStates, txid[:], txStateRecord{
			Type:        uint8(state.Type),
			Result:      uint8(state.Result),
			BlockHash:   append([]byte(nil), state.Block.Hash[:]...),
			BlockHeight: state.Block.Height,
		})
	})
}

// Binding returns the account a Bitcoin address deposited for before.
func (s *Store) Binding(ctx context.Context, address string) (*model.AccountBinding, error) {
	var out *model.AccountBinding
	err := s.view(ctx, "binding", func(tx *bolt.Tx) error {
		var rec bindingRecord
		if err := getValue(tx, bucketBindings, []byte(address), &rec); err != nil {
			return err
		}
		out = &model.AccountBinding{Referral: rec.Referral}
		copy(out.Account[:], rec.Account)
		return nil
	})
	return out, err
}

// PutBinding links a Bitcoin address to an account.
func (s *Store) PutBinding(ctx context.Context, address string, binding model.AccountBinding) error {
	return s.update(ctx, "put_binding", func(tx *bolt.Tx) error {
		return putValue(tx, bucketBindings, []byte(address), bindingRecord{
			Account:  append([]byte(nil), binding.Account[:]...),
			Referral: binding.Referral,
		})
	})
}

// PendingDeposits lists unattributed deposits made from the address.
func (s *Store) PendingDeposits(ctx context.Context, address string) ([]model.PendingDeposit, error) {
	var out []model.PendingDeposit
	err := s.view(ctx, "pending_deposits", func(tx *bolt.Tx) error {
		var recs []pendingDepositRecord
		if err := getValue(tx, bucketPendingDeposits, []byte(address), &recs); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return err
		}
		for _, r := range recs {
			d := model.PendingDeposit{Amount: r.Amount, Height: r.Height}
			copy(d.TxID[:], r.TxID)
			out = append(out, d)
		}
		return nil
	})
	return out, err
}

// AddPendingDeposit appends an unattributed deposit under its input address.
func (s *Store) AddPendingDeposit(ctx context.Context, address string, deposit model.PendingDeposit) error {
	return s.update(ctx, "add_pending_deposit", func(tx *bolt.Tx) error {
		var recs []pendingDepositRecord
		if err := getValue(tx, bucketPendingDeposits, []byte(address), &recs); err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		recs = append(recs, pendingDepositRecord{
			TxID:   append([]byte(nil), deposit.TxID[:]...),
			Amount: deposit.Amount,
			Height: deposit.Height,
		})
		return putValue(tx, bucketPendingDeposits, []byte(address), recs)
	})
}

// DeletePendingDeposits drops every pending deposit of the address.
func (s *Store) DeletePendingDeposits(ctx context.Context, address string) error {
	return s.update(ctx, "delete_pending_deposits", func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPendingDeposits).Delete([]byte(address))
	})
}

// BridgeParams returns parameters changed at runtime, model.ErrNotFound
// when the configured ones were never overridden.
func (s *Store) BridgeParams(ctx context.Context) (*model.BridgeParams, error) {
	var out model.BridgeParams
	err := s.view(ctx, "bridge_params", func(tx *bolt.Tx) error {
		return getValue(tx, bucketMeta, keyParams, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PutBridgeParams persists runtime parameters.
func (s *Store) PutBridgeParams(ctx context.Context, params model.BridgeParams) error {
	return s.update(ctx, "put_bridge_params", func(tx *bolt.Tx) error {
		return putValue(tx, bucketMeta, keyParams, params)
	})
}

// LastHeaderAt returns when the best chain last moved.
func (s *Store) LastHeaderAt(ctx context.Context) (time.Time, error) {
	var nanos int64
	err := s.view(ctx, "last_header_at", func(tx *bolt.Tx) error {
		return getValue(tx, bucketMeta, keyLastHeaderAt, &nanos)
	})
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}

// SetLastHeaderAt records when the best chain moved.
func (s *Store) SetLastHeaderAt(ctx context.Context, at time.Time) error {
	return s.update(ctx, "set_last_header_at", func(tx *bolt.Tx) error {
		return putValue(tx, bucketMeta, keyLastHeaderAt, at.UnixNano())
	})
}
