// Package bbolt persists bridge state in a single bbolt file.
package bbolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

var (
	bucketHeaders         = []byte("headers")
	bucketHeights         = []byte("heights")
	bucketMainChain       = []byte("main_chain")
	bucketMeta            = []byte("meta")
	bucketTxStates        = []byte("tx_states")
	bucketSessions        = []byte("sessions")
	bucketIntentions      = []byte("intentions")
	bucketPenalty         = []byte("penalty")
	bucketTransition      = []byte("transition")
	bucketWithdrawals     = []byte("withdrawals")
	bucketArchive         = []byte("withdrawals_archive")
	bucketProposals       = []byte("proposals")
	bucketUTXOs           = []byte("utxos")
	bucketBindings        = []byte("bindings")
	bucketPendingDeposits = []byte("pending_deposits")
	bucketBalances        = []byte("balances")
	bucketLocks           = []byte("locks")
	bucketCredits         = []byte("credits")

	allBuckets = [][]byte{
		bucketHeaders, bucketHeights, bucketMainChain, bucketMeta, bucketTxStates,
		bucketSessions, bucketIntentions, bucketPenalty, bucketTransition,
		bucketWithdrawals, bucketArchive, bucketProposals, bucketUTXOs,
		bucketBindings, bucketPendingDeposits, bucketBalances, bucketLocks, bucketCredits,
	}

	keyBest          = []byte("best")
	keyConfirmed     = []byte("confirmed")
	keyParams        = []byte("params")
	keyLastHeaderAt  = []byte("last_header_at")
	keyTransition    = []byte("current")
)

// Options are the options for the bbolt store.
type Options struct {
	// Path of the DB file.
	// Optional ("bridge.db" by default).
	Path string
	// Timeout waits for the file lock held by another process.
	Timeout time.Duration
}

// DefaultOptions is an Options object with default values.
var DefaultOptions = Options{
	Path:    "bridge.db",
	Timeout: time.Second,
}

// Store keeps headers, trustee sessions, withdrawals and deposit
// bookkeeping of one bridge instance.
//
// bbolt takes an exclusive lock on the file, so a Store cannot be shared
// by several processes.
type Store struct {
	db      *bolt.DB
	metrics Metrics
}

// Open opens or creates the store file and its buckets.
func Open(options Options, metrics Metrics) (*Store, error) {
	if metrics == nil {
		return nil, errors.New("store metrics is required")
	}
	if options.Path == "" {
		options.Path = DefaultOptions.Path
	}
	if options.Timeout == 0 {
		options.Timeout = DefaultOptions.Timeout
	}

	db, err := bolt.Open(options.Path, 0o600, &bolt.Options{Timeout: options.Timeout})
	if err != nil {
		return nil, fmt.Errorf("open bbolt %s: %w", options.Path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, metrics: metrics}, nil
}

// Close releases the file lock. All open transactions finish first.
func (s *Store) Close() error {
	return s.db.Close()
}

type txKey struct{}

// Atomic runs fn inside one read-write transaction. Store calls made with
// the context passed to fn join it, so either all of their writes commit
// or none does. A nested Atomic joins the outer transaction.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*bolt.Tx); ok {
		return fn(ctx)
	}
	started := time.Now()
	defer func() {
		s.metrics.Observe("atomic", err, started)
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) view(ctx context.Context, operation string, fn func(tx *bolt.Tx) error) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(operation, ignoreNotFound(err), started)
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx, ok := ctx.Value(txKey{}).(*bolt.Tx); ok {
		return fn(tx)
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, operation string, fn func(tx *bolt.Tx) error) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(operation, err, started)
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx, ok := ctx.Value(txKey{}).(*bolt.Tx); ok {
		return fn(tx)
	}
	return s.db.Update(fn)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	return err
}

func getValue(tx *bolt.Tx, bucket, key []byte, v any) error {
	data := tx.Bucket(bucket).Get(key)
	if data == nil {
		return model.ErrNotFound
	}
	return decodeValue(bucket, key, data, v)
}

func putValue(tx *bolt.Tx, bucket, key []byte, v any) error {
	data, err := cbor.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%x: %w", string(bucket), key, err)
	}
	return tx.Bucket(bucket).Put(key, data)
}

func uint32Key(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func uint64Key(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

func decodeValue(bucket, key, data []byte, v any) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s/%x: %w", string(bucket), key, err)
	}
	return nil
}
