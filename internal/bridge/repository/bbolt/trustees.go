package bbolt

import (
	"context"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
)

type intentionRecord struct {
	About      string `cbor:"1,keyasint"`
	HotPubKey  []byte `cbor:"2,keyasint"`
	ColdPubKey []byte `cbor:"3,keyasint"`
}

type trusteeRecord struct {
	Account    []byte `cbor:"1,keyasint"`
	HotPubKey  []byte `cbor:"2,keyasint"`
	ColdPubKey []byte `cbor:"3,keyasint"`
	SigCount   uint64 `cbor:"4,keyasint"`
}

type multisigRecord struct {
	Address      string `cbor:"1,keyasint"`
	RedeemScript []byte `cbor:"2,keyasint"`
}

type sessionRecord struct {
	Number    uint32          `cbor:"1,keyasint"`
	Trustees  []trusteeRecord `cbor:"2,keyasint"`
	Threshold uint32          `cbor:"3,keyasint"`
	Hot       multisigRecord  `cbor:"4,keyasint"`
	Cold      multisigRecord  `cbor:"5,keyasint"`
	CreatedAt int64           `cbor:"6,keyasint"`
}

type transitionRecord struct {
	From      uint32 `cbor:"1,keyasint"`
	To        uint32 `cbor:"2,keyasint"`
	StartedAt int64  `cbor:"3,keyasint"`
	Deadline  int64  `cbor:"4,keyasint"`
	Stalled   bool   `cbor:"5,keyasint"`
	Completed bool   `cbor:"6,keyasint"`
}

func toSessionRecord(s *model.TrusteeSessionInfo) sessionRecord {
	rec := sessionRecord{
		Number:    s.Number,
		Threshold: s.Threshold,
		Hot:       multisigRecord{Address: s.Hot.Address, RedeemScript: s.Hot.RedeemScript},
		Cold:      multisigRecord{Address: s.Cold.Address, RedeemScript: s.Cold.RedeemScript},
		CreatedAt: s.CreatedAt.UnixNano(),
	}
	for _, t := range s.Trustees {
		rec.Trustees = append(rec.Trustees, trusteeRecord{
			Account:    append([]byte(nil), t.Account[:]...),
			HotPubKey:  t.HotPubKey,
			ColdPubKey: t.ColdPubKey,
			SigCount:   t.SigCount,
		})
	}
	return rec
}

func (r sessionRecord) session() *model.TrusteeSessionInfo {
	s := &model.TrusteeSessionInfo{
		Number:    r.Number,
		Threshold: r.Threshold,
		Hot:       model.MultisigAddress{Address: r.Hot.Address, RedeemScript: r.Hot.RedeemScript},
		Cold:      model.MultisigAddress{Address: r.Cold.Address, RedeemScript: r.Cold.RedeemScript},
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}
	for _, t := range r.Trustees {
		info := model.TrusteeInfo{HotPubKey: t.HotPubKey, ColdPubKey: t.ColdPubKey, SigCount: t.SigCount}
		copy(info.Account[:], t.Account)
		s.Trustees = append(s.Trustees, info)
	}
	return s
}

// Intention loads the key material registered by an account.
func (s *Store) Intention(ctx context.Context, account model.AccountID) (*model.TrusteeIntentionProps, error) {
	var props *model.TrusteeIntentionProps
	err := s.view(ctx, "intention", func(tx *bolt.Tx) error {
		var rec intentionRecord
		if err := getValue(tx, bucketIntentions, account[:], &rec); err != nil {
			return err
		}
		props = &model.TrusteeIntentionProps{About: rec.About, HotPubKey: rec.HotPubKey, ColdPubKey: rec.ColdPubKey}
		return nil
	})
	return props, err
}

// PutIntention replaces the key material of an account.
func (s *Store) PutIntention(ctx context.Context, account model.AccountID, props model.TrusteeIntentionProps) error {
	return s.update(ctx, "put_intention", func(tx *bolt.Tx) error {
		return putValue(tx, bucketIntentions, account[:], intentionRecord{
			About:      props.About,
			HotPubKey:  props.HotPubKey,
			ColdPubKey: props.ColdPubKey,
		})
	})
}

// Session loads a trustee session by number.
func (s *Store) Session(ctx context.Context, number uint32) (*model.TrusteeSessionInfo, error) {
	var session *model.TrusteeSessionInfo
	err := s.view(ctx, "session", func(tx *bolt.Tx) error {
		var rec sessionRecord
		if err := getValue(tx, bucketSessions, uint32Key(number), &rec); err != nil {
			return err
		}
		session = rec.session()
		return nil
	})
	return session, err
}

// LatestSession returns the session with the highest number.
func (s *Store) LatestSession(ctx context.Context) (*model.TrusteeSessionInfo, error) {
	var session *model.TrusteeSessionInfo
	err := s.view(ctx, "latest_session", func(tx *bolt.Tx) error {
		k, _ := tx.Bucket(bucketSessions).Cursor().Last()
		if k == nil {
			return model.ErrNotFound
		}
		var rec sessionRecord
		if err := getValue(tx, bucketSessions, k, &rec); err != nil {
			return err
		}
		session = rec.session()
		return nil
	})
	return session, err
}

// PutSession stores a session under its number.
func (s *Store) PutSession(ctx context.Context, session *model.TrusteeSessionInfo) error {
	return s.update(ctx, "put_session", func(tx *bolt.Tx) error {
		return putValue(tx, bucketSessions, uint32Key(session.Number), toSessionRecord(session))
	})
}

// Penalized reports whether the account is excluded from elections.
func (s *Store) Penalized(ctx context.Context, account model.AccountID) (bool, error) {
	var in bool
	err := s.view(ctx, "penalized", func(tx *bolt.Tx) error {
		in = tx.Bucket(bucketPenalty).Get(account[:]) != nil
		return nil
	})
	return in, err
}

// SetPenalized adds or removes the account from the penalty set.
func (s *Store) SetPenalized(ctx context.Context, account model.AccountID, in bool) error {
	return s.update(ctx, "set_penalized", func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPenalty)
		if in {
			return b.Put(account[:], []byte{1})
		}
		return b.Delete(account[:])
	})
}

// Transition returns the last session transition, nil when none happened.
func (s *Store) Transition(ctx context.Context) (*model.TransitionStatus, error) {
	var status *model.TransitionStatus
	err := s.view(ctx, "transition", func(tx *bolt.Tx) error {
		var rec transitionRecord
		if err := getValue(tx, bucketTransition, keyTransition, &rec); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return err
		}
		status = &model.TransitionStatus{
			From:      rec.From,
			To:        rec.To,
			StartedAt: time.Unix(0, rec.StartedAt).UTC(),
			Deadline:  time.Unix(0, rec.Deadline).UTC(),
			Stalled:   rec.Stalled,
			Completed: rec.Completed,
		}
		return nil
	})
	return status, err
}

// PutTransition replaces the transition record.
func (s *Store) PutTransition(ctx context.Context, status *model.TransitionStatus) error {
	return s.update(ctx, "put_transition", func(tx *bolt.Tx) error {
		return putValue(tx, bucketTransition, keyTransition, transitionRecord{
			From:      status.From,
			To:        status.To,
			StartedAt: status.StartedAt.UnixNano(),
			Deadline:  status.Deadline.UnixNano(),
			Stalled:   status.Stalled,
			Completed: status.Completed,
		})
	})
}
