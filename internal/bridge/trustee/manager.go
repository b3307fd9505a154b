// Package trustee elects trustee committees and tracks their sessions.
package trustee

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/model"
	"github.com/goodnatureofminers/btcbridge7000-backend/internal/bridge/script"
	"github.com/goodnatureofminers/btcbridge7000-backend/pkg/safe"
)

const maxAboutLen = 128

// SignatureRecord is the number of partial signatures a trustee
// contributed during a session.
type SignatureRecord struct {
	Account model.AccountID
	Count   uint64
}

// Manager owns the trustee session table.
type Manager struct {
	repo        Repository
	candidates  CandidateSource
	config      model.TrusteeConfig
	chainParams *chaincfg.Params
	logger      *zap.Logger
	now         func() time.Time
}

// NewManager builds a Manager.
func NewManager(repo Repository, candidates CandidateSource, params model.Params, logger *zap.Logger) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("trustee repository is required")
	}
	if candidates == nil {
		return nil, errors.New("candidate source is required")
	}
	chainParams, err := model.ChainParams(params.Network)
	if err != nil {
		return nil, err
	}
	return &Manager{
		repo:        repo,
		candidates:  candidates,
		config:      params.Trustee,
		chainParams: chainParams,
		logger:      logger.Named("trustee").With(zap.String("network", string(params.Network))),
		now:         time.Now,
	}, nil
}

// Threshold is the number of cosigners required out of n: strictly more
// than two thirds, rounded up.
func Threshold(n uint32) uint32 {
	return (2*n + 2) / 3
}

// GenerateMultisig derives the P2SH multisig address of the keys.
func GenerateMultisig(pubkeys [][]byte, threshold uint32, params *chaincfg.Params) (model.MultisigAddress, error) {
	return script.MultisigAddress(pubkeys, int(threshold), params)
}

// SetIntention registers the key material of a candidate.
func (m *Manager) SetIntention(ctx context.Context, account model.AccountID, props model.TrusteeIntentionProps) error {
	if account.IsZero() {
		return fmt.Errorf("%w: empty account", model.ErrInvalidIntention)
	}
	if props.About == "" || len(props.About) > maxAboutLen {
		return fmt.Errorf("%w: about must be 1..%d bytes", model.ErrInvalidIntention, maxAboutLen)
	}
	if err := script.ValidatePubKey(props.HotPubKey); err != nil {
		return fmt.Errorf("%w: hot key: %v", model.ErrInvalidIntention, err)
	}
	if err := script.ValidatePubKey(props.ColdPubKey); err != nil {
		return fmt.Errorf("%w: cold key: %v", model.ErrInvalidIntention, err)
	}
	if err := m.repo.PutIntention(ctx, account, props); err != nil {
		return fmt.Errorf("store intention: %w", err)
	}
	m.logger.Info("trustee intention set", zap.Stringer("account", account))
	return nil
}

// Elect ranks eligible candidates by stake and starts a new session with
// the top ones. Ties are broken by account bytes so every node derives the
// same multisig addresses.
func (m *Manager) Elect(ctx context.Context) (*model.TrusteeSessionInfo, error) {
	candidates, err := m.candidates.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	eligible := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		penalized, err := m.repo.Penalized(ctx, c.Account)
		if err != nil {
			return nil, fmt.Errorf("check penalty: %w", err)
		}
		if penalized {
			continue
		}
		if _, err := m.repo.Intention(ctx, c.Account); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("load intention: %w", err)
		}
		eligible = append(eligible, c)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Stake != eligible[j].Stake {
			return eligible[i].Stake > eligible[j].Stake
		}
		return bytes.Compare(eligible[i].Account[:], eligible[j].Account[:]) < 0
	})
	if uint32(len(eligible)) > m.config.MaxCount {
		eligible = eligible[:m.config.MaxCount]
	}

	accounts := make([]model.AccountID, len(eligible))
	for i, c := range eligible {
		accounts[i] = c.Account
	}
	return m.startSession(ctx, accounts)
}

// ForceElect starts a session with an explicit trustee list.
func (m *Manager) ForceElect(ctx context.Context, accounts []model.AccountID) (*model.TrusteeSessionInfo, error) {
	return m.startSession(ctx, accounts)
}

// Build derives session info for the accounts without storing it.
func (m *Manager) Build(ctx context.Context, accounts []model.AccountID) (*model.TrusteeSessionInfo, error) {
	n, err := safe.Uint32(len(accounts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidTrusteeCount, err)
	}
	if n < m.config.MinCount || n > m.config.MaxCount {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", model.ErrInvalidTrusteeCount, n, m.config.MinCount, m.config.MaxCount)
	}
	seen := make(map[model.AccountID]struct{}, n)
	trustees := make([]model.TrusteeInfo, 0, n)
	hotKeys := make([][]byte, 0, n)
	coldKeys := make([][]byte, 0, n)
	for _, account := range accounts {
		if _, dup := seen[account]; dup {
			return nil, fmt.Errorf("%w: account %s listed twice", model.ErrDuplicatedKeys, account)
		}
		seen[account] = struct{}{}
		props, err := m.repo.Intention(ctx, account)
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s has no intention", model.ErrInvalidIntention, account)
		}
		if err != nil {
			return nil, fmt.Errorf("load intention: %w", err)
		}
		trustees = append(trustees, model.TrusteeInfo{Account: account, HotPubKey: props.HotPubKey, ColdPubKey: props.ColdPubKey})
		hotKeys = append(hotKeys, props.HotPubKey)
		coldKeys = append(coldKeys, props.ColdPubKey)
	}

	threshold := Threshold(n)
	hot, err := GenerateMultisig(hotKeys, threshold, m.chainParams)
	if err != nil {
		return nil, fmt.Errorf("hot multisig: %w", err)
	}
	cold, err := GenerateMultisig(coldKeys, threshold, m.chainParams)
	if err != nil {
		return nil, fmt.Errorf("cold multisig: %w", err)
	}
	return &model.TrusteeSessionInfo{
		Trustees:  trustees,
		Threshold: threshold,
		Hot:       hot,
		Cold:      cold,
	}, nil
}

func (m *Manager) startSession(ctx context.Context, accounts []model.AccountID) (*model.TrusteeSessionInfo, error) {
	transition, err := m.repo.Transition(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transition: %w", err)
	}
	if transition.Active() {
		return nil, fmt.Errorf("%w: session %d to %d", model.ErrTransitionInProgress, transition.From, transition.To)
	}

	session, err := m.Build(ctx, accounts)
	if err != nil {
		return nil, err
	}

	previous, err := m.repo.LatestSession(ctx)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("load latest session: %w", err)
	}
	now := m.now().UTC()
	session.CreatedAt = now
	if previous != nil {
		session.Number = previous.Number + 1
	}

	if err := m.repo.PutSession(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if previous != nil {
		status := &model.TransitionStatus{
			From:      previous.Number,
			To:        session.Number,
			StartedAt: now,
			Deadline:  now.Add(m.config.TransitionWindow),
		}
		if previous.Pair().SameAs(session.Pair()) {
			status.Completed = true
		}
		if err := m.repo.PutTransition(ctx, status); err != nil {
			return nil, fmt.Errorf("store transition: %w", err)
		}
	}

	m.logger.Info("trustee session started",
		zap.Uint32("session", session.Number),
		zap.Uint32("trustees", session.Total()),
		zap.Uint32("threshold", session.Threshold),
		zap.String("hot", session.Hot.Address),
		zap.String("cold", session.Cold.Address))
	return session, nil
}

// CompleteTransition closes the open transition once old-session funds
// moved to the new addresses.
func (m *Manager) CompleteTransition(ctx context.Context) (*model.TransitionStatus, error) {
	status, err := m.repo.Transition(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transition: %w", err)
	}
	if !status.Active() {
		return status, nil
	}
	status.Completed = true
	if err := m.repo.PutTransition(ctx, status); err != nil {
		return nil, fmt.Errorf("store transition: %w", err)
	}
	m.logger.Info("trustee transition completed", zap.Uint32("from", status.From), zap.Uint32("to", status.To))
	return status, nil
}

// CheckTransition marks an open transition stalled once its deadline
// passed. A stalled transition keeps returning ErrTransitionStalled until
// an operator resolves it.
func (m *Manager) CheckTransition(ctx context.Context, now time.Time) (*model.TransitionStatus, error) {
	status, err := m.repo.Transition(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transition: %w", err)
	}
	if !status.Active() {
		return status, nil
	}
	if !status.Stalled && !now.After(status.Deadline) {
		return status, nil
	}
	if !status.Stalled {
		status.Stalled = true
		if err := m.repo.PutTransition(ctx, status); err != nil {
			return nil, fmt.Errorf("store transition: %w", err)
		}
		m.logger.Error("trustee transition stalled",
			zap.Uint32("from", status.From),
			zap.Uint32("to", status.To),
			zap.Time("deadline", status.Deadline))
	}
	return status, fmt.Errorf("%w: session %d to %d, deadline %s", model.ErrTransitionStalled, status.From, status.To, status.Deadline.Format(time.RFC3339))
}

// ResolveStall closes a stalled transition on operator request.
func (m *Manager) ResolveStall(ctx context.Context) (*model.TransitionStatus, error) {
	status, err := m.repo.Transition(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transition: %w", err)
	}
	if !status.Active() || !status.Stalled {
		return nil, fmt.Errorf("%w: no stalled transition", model.ErrInvalidStateTransition)
	}
	status.Completed = true
	if err := m.repo.PutTransition(ctx, status); err != nil {
		return nil, fmt.Errorf("store transition: %w", err)
	}
	m.logger.Warn("stalled trustee transition resolved by operator", zap.Uint32("from", status.From), zap.Uint32("to", status.To))
	return status, nil
}

// RecordSignature counts one contributed signature.
func (m *Manager) RecordSignature(ctx context.Context, number uint32, account model.AccountID) error {
	session, err := m.Session(ctx, number)
	if err != nil {
		return err
	}
	idx, ok := session.Member(account)
	if !ok {
		return fmt.Errorf("%w: %s in session %d", model.ErrNotTrustee, account, number)
	}
	session.Trustees[idx].SigCount++
	if err := m.repo.PutSession(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// ConsumeSignatureRecords returns the signature counters of a session and
// resets them.
func (m *Manager) ConsumeSignatureRecords(ctx context.Context, number uint32) ([]SignatureRecord, error) {
	session, err := m.Session(ctx, number)
	if err != nil {
		return nil, err
	}
	records := make([]SignatureRecord, 0, len(session.Trustees))
	for i := range session.Trustees {
		records = append(records, SignatureRecord{Account: session.Trustees[i].Account, Count: session.Trustees[i].SigCount})
		session.Trustees[i].SigCount = 0
	}
	if err := m.repo.PutSession(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return records, nil
}

// SetPenalty moves an account in or out of the penalty set. Entering it
// zeroes the account's counter in the current session.
func (m *Manager) SetPenalty(ctx context.Context, account model.AccountID, in bool) error {
	if err := m.repo.SetPenalized(ctx, account, in); err != nil {
		return fmt.Errorf("store penalty: %w", err)
	}
	m.logger.Warn("trustee penalty changed", zap.Stringer("account", account), zap.Bool("penalized", in))
	if !in {
		return nil
	}
	session, err := m.repo.LatestSession(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load latest session: %w", err)
	}
	idx, ok := session.Member(account)
	if !ok || session.Trustees[idx].SigCount == 0 {
		return nil
	}
	session.Trustees[idx].SigCount = 0
	if err := m.repo.PutSession(ctx, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Current returns the latest session.
func (m *Manager) Current(ctx context.Context) (*model.TrusteeSessionInfo, error) {
	session, err := m.repo.LatestSession(ctx)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrNoTrusteeSession
	}
	if err != nil {
		return nil, fmt.Errorf("load latest session: %w", err)
	}
	return session, nil
}

// Previous returns the session before the current one, nil for the first.
func (m *Manager) Previous(ctx context.Context) (*model.TrusteeSessionInfo, error) {
	current, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current.Number == 0 {
		return nil, nil
	}
	return m.Session(ctx, current.Number-1)
}

// Session returns a session by number.
func (m *Manager) Session(ctx context.Context, number uint32) (*model.TrusteeSessionInfo, error) {
	session, err := m.repo.Session(ctx, number)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: session %d", model.ErrNoTrusteeSession, number)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %d: %w", number, err)
	}
	return session, nil
}

// Pair returns the hot and cold addresses of a session.
func (m *Manager) Pair(ctx context.Context, number uint32) (model.TrusteePair, error) {
	session, err := m.Session(ctx, number)
	if err != nil {
		return model.TrusteePair{}, err
	}
	return session.Pair(), nil
}

// IsTrustee reports whether the account sits in the current session.
func (m *Manager) IsTrustee(ctx context.Context, account model.AccountID) (bool, error) {
	current, err := m.Current(ctx)
	if errors.Is(err, model.ErrNoTrusteeSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, ok := current.Member(account)
	return ok, nil
}

// Transition returns the last transition record, nil before the first one.
func (m *Manager) Transition(ctx context.Context) (*model.TransitionStatus, error) {
	status, err := m.repo.Transition(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transition: %w", err)
	}
	return status, nil
}

// Intention returns the key material of an account.
func (m *Manager) Intention(ctx context.Context, account model.AccountID) (*model.TrusteeIntentionProps, error) {
	return m.repo.Intention(ctx, account)
}
