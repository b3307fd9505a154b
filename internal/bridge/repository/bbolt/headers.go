package bbolt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	bolt "go.etcd.io/bbolt"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

type headerRecord struct {
	Raw    []byte `cbor:"1,keyasint"`
	Height uint32 `cbor:"2,keyasint"`
	Work   []byte `cbor:"3,keyasint"`
}

type indexRecord struct {
	Hash   []byte `cbor:"1,keyasint"`
	Height uint32 `cbor:"2,keyasint"`
}

func toIndexRecord(idx model.HeaderIndex) indexRecord {
	return indexRecord{Hash: idx.Hash[:], Height: idx.Height}
}

func (r indexRecord) index() (model.HeaderIndex, error) {
	hash, err := chainhash.NewHash(r.Hash)
	if err != nil {
		return model.HeaderIndex{}, fmt.Errorf("decode index hash: %w", err)
	}
	return model.HeaderIndex{Hash: *hash, Height: r.Height}, nil
}

// Header loads an accepted header by hash.
func (s *Store) Header(ctx context.Context, hash chainhash.Hash) (*model.HeaderInfo, error) {
	var info *model.HeaderInfo
	err := s.view(ctx, "header", func(tx *bolt.Tx) error {
		var rec headerRecord
		if err := getValue(tx, bucketHeaders, hash[:], &rec); err != nil {
			return err
		}
		var h wire.BlockHeader
		if err := h.Deserialize(bytes.NewReader(rec.Raw)); err != nil {
			return fmt.Errorf("decode header %s: %w", hash, err)
		}
		info = &model.HeaderInfo{Header: h, Height: rec.Height, Work: new(big.Int).SetBytes(rec.Work)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// PutHeader stores a header and indexes it by height.
func (s *Store) PutHeader(ctx context.Context, info *model.HeaderInfo) error {
	raw, err := model.SerializeHeader(&info.Header)
	if err != nil {
		return fmt.Errorf("serialize header: %w", err)
	}
	hash := info.Hash()
	return s.update(ctx, "put_header", func(tx *bolt.Tx) error {
		rec := headerRecord{Raw: raw, Height: info.Height, Work: info.Work.Bytes()}
		if err := putValue(tx, bucketHeaders, hash[:], rec); err != nil {
			return err
		}

		var hashes [][]byte
		key := uint32Key(info.Height)
		if err := getValue(tx, bucketHeights, key, &hashes); err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		for _, h := range hashes {
			if bytes.Equal(h, hash[:]) {
				return nil
			}
		}
		hashes = append(hashes, hash[:])
		return putValue(tx, bucketHeights, key, hashes)
	})
}

// HashesAtHeight lists every stored header hash at the height.
func (s *Store) HashesAtHeight(ctx context.Context, height uint32) ([]chainhash.Hash, error) {
	var out []chainhash.Hash
	err := s.view(ctx, "hashes_at_height", func(tx *bolt.Tx) error {
		var hashes [][]byte
		if err := getValue(tx, bucketHeights, uint32Key(height), &hashes); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return err
		}
		for _, h := range hashes {
			hash, err := chainhash.NewHash(h)
			if err != nil {
				return fmt.Errorf("decode height index: %w", err)
			}
			out = append(out, *hash)
		}
		return nil
	})
	return out, err
}

// IsMainChain reports whether the header carries the main chain marker.
func (s *Store) IsMainChain(ctx context.Context, hash chainhash.Hash) (bool, error) {
	var main bool
	err := s.view(ctx, "is_main_chain", func(tx *bolt.Tx) error {
		main = tx.Bucket(bucketMainChain).Get(hash[:]) != nil
		return nil
	})
	return main, err
}

// SetMainChain sets or clears the main chain marker.
func (s *Store) SetMainChain(ctx context.Context, hash chainhash.Hash, main bool) error {
	return s.update(ctx, "set_main_chain", func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMainChain)
		if main {
			return b.Put(hash[:], []byte{1})
		}
		return b.Delete(hash[:])
	})
}

// BestIndex returns the best chain tip, or model.ErrNotFound before init.
func (s *Store) BestIndex(ctx context.Context) (model.HeaderIndex, error) {
	var idx model.HeaderIndex
	err := s.view(ctx, "best_index", func(tx *bolt.Tx) error {
		var rec indexRecord
		if err := getValue(tx, bucketMeta, keyBest, &rec); err != nil {
			return err
		}
		var err error
		idx, err = rec.index()
		return err
	})
	return idx, err
}

// SetBestIndex moves the best chain tip.
func (s *Store) SetBestIndex(ctx context.Context, idx model.HeaderIndex) error {
	return s.update(ctx, "set_best_index", func(tx *bolt.Tx) error {
		return putValue(tx, bucketMeta, keyBest, toIndexRecord(idx))
	})
}

// ConfirmedIndex returns the confirmed header, nil when unset.
func (s *Store) ConfirmedIndex(ctx context.Context) (*model.HeaderIndex, error) {
	var idx *model.HeaderIndex
	err := s.view(ctx, "confirmed_index", func(tx *bolt.Tx) error {
		var rec indexRecord
		if err := getValue(tx, bucketMeta, keyConfirmed, &rec); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return err
		}
		v, err := rec.index()
		if err != nil {
			return err
		}
		idx = &v
		return nil
	})
	return idx, err
}

// SetConfirmedIndex moves or clears the confirmed pointer.
func (s *Store) SetConfirmedIndex(ctx context.Context, idx *model.HeaderIndex) error {
	return s.update(ctx, "set_confirmed_index", func(tx *bolt.Tx) error {
		if idx == nil {
			return tx.Bucket(bucketMeta).Delete(keyConfirmed)
		}
		return putValue(tx, bucketMeta, keyConfirmed, toIndexRecord(*idx))
	})
}
