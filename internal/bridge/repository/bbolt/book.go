package bbolt

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	bolt "go.etcd.io/bbolt"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

// ErrInsufficientBalance is returned when a lock exceeds the free balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

type balanceRecord struct {
	Free   uint64 `cbor:"1,keyasint"`
	Locked uint64 `cbor:"2,keyasint"`
}

type lockRecord struct {
	Account []byte `cbor:"1,keyasint"`
	Amount  uint64 `cbor:"2,keyasint"`
}

// Balance is the bridged coin held by an account.
type Balance struct {
	Free   uint64
	Locked uint64
}

// Book is a minimal account book standing in for the hosting ledger. It
// shares the store file.
type Book struct {
	store *Store
}

// NewBook returns the account book kept in the store.
func NewBook(store *Store) *Book {
	return &Book{store: store}
}

// Credit mints amount to the account once per deposit txid.
func (b *Book) Credit(ctx context.Context, account model.AccountID, amount uint64, txid chainhash.Hash) error {
	return b.store.update(ctx, "book_credit", func(tx *bolt.Tx) error {
		credits := tx.Bucket(bucketCredits)
		if credits.Get(txid[:]) != nil {
			return nil
		}
		bal, err := loadBalance(tx, account)
		if err != nil {
			return err
		}
		bal.Free += amount
		if err := putValue(tx, bucketBalances, account[:], bal); err != nil {
			return err
		}
		return credits.Put(txid[:], account[:])
	})
}

// Lock moves amount from free to locked for a withdrawal.
func (b *Book) Lock(ctx context.Context, withdrawalID uint64, account model.AccountID, amount uint64) error {
	return b.store.update(ctx, "book_lock", func(tx *bolt.Tx) error {
		key := uint64Key(withdrawalID)
		if tx.Bucket(bucketLocks).Get(key) != nil {
			return fmt.Errorf("withdrawal %d already locked", withdrawalID)
		}
		bal, err := loadBalance(tx, account)
		if err != nil {
			return err
		}
		if bal.Free < amount {
			return fmt.Errorf("%w: free %d, requested %d", ErrInsufficientBalance, bal.Free, amount)
		}
		bal.Free -= amount
		bal.Locked += amount
		if err := putValue(tx, bucketBalances, account[:], bal); err != nil {
			return err
		}
		return putValue(tx, bucketLocks, key, lockRecord{Account: append([]byte(nil), account[:]...), Amount: amount})
	})
}

// DebitConfirmed burns the locked amount of a confirmed withdrawal.
func (b *Book) DebitConfirmed(ctx context.Context, withdrawalID uint64) error {
	return b.settle(ctx, "book_debit", withdrawalID, false)
}

// Release returns the locked amount of a cancelled withdrawal.
func (b *Book) Release(ctx context.Context, withdrawalID uint64) error {
	return b.settle(ctx, "book_release", withdrawalID, true)
}

func (b *Book) settle(ctx context.Context, operation string, withdrawalID uint64, refund bool) error {
	return b.store.update(ctx, operation, func(tx *bolt.Tx) error {
		key := uint64Key(withdrawalID)
		var lock lockRecord
		if err := getValue(tx, bucketLocks, key, &lock); err != nil {
			return fmt.Errorf("lock of withdrawal %d: %w", withdrawalID, err)
		}
		var account model.AccountID
		copy(account[:], lock.Account)
		bal, err := loadBalance(tx, account)
		if err != nil {
			return err
		}
		bal.Locked -= lock.Amount
		if refund {
			bal.Free += lock.Amount
		}
		if err := putValue(tx, bucketBalances, account[:], bal); err != nil {
			return err
		}
		return tx.Bucket(bucketLocks).Delete(key)
	})
}

// Balance returns the account balance.
func (b *Book) Balance(ctx context.Context, account model.AccountID) (Balance, error) {
	var out Balance
	err := b.store.view(ctx, "book_balance", func(tx *bolt.Tx) error {
		bal, err := loadBalance(tx, account)
		if err != nil {
			return err
		}
		out = Balance{Free: bal.Free, Locked: bal.Locked}
		return nil
	})
	return out, err
}

func loadBalance(tx *bolt.Tx, account model.AccountID) (balanceRecord, error) {
	var bal balanceRecord
	if err := getValue(tx, bucketBalances, account[:], &bal); err != nil && !errors.Is(err, model.ErrNotFound) {
		return bal, err
	}
	return bal, nil
}

// Candidates lists every account with a registered trustee intention,
// staked with its total balance.
func (b *Book) Candidates(ctx context.Context) ([]model.Candidate, error) {
	var out []model.Candidate
	err := b.store.view(ctx, "book_candidates", func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIntentions).ForEach(func(k, _ []byte) error {
			var account model.AccountID
			if len(k) != len(account) {
				return fmt.Errorf("intention key of %d bytes", len(k))
			}
			copy(account[:], k)
			bal, err := loadBalance(tx, account)
			if err != nil {
				return err
			}
			out = append(out, model.Candidate{Account: account, Stake: bal.Free + bal.Locked})
			return nil
		})
	})
	return out, err
}
