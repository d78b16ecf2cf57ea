// Package memory is an in-process implementation of every repository and of the transaction
// manager. It backs STORAGE=memory demo mode and the simulation tests.
//
// One mutex guards all state. A transaction holds it for its whole duration, which makes
// transactions serializable; writes are undone from a snapshot when the transaction fails.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

type txKey struct{ store *Store }

// Store holds all state in memory
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	cases    map[int64]*domain.CatalogCase
	accounts map[uuid.UUID]domain.Account

	movements []domain.MoneyMovement
	cash      domain.CashPosition

	rtp              domain.RTPConfig
	rtpHistory       []domain.RTPHistoryEntry
	emergency        domain.EmergencyState
	emergencyHistory []domain.EmergencyHistoryEntry

	sessions map[uuid.UUID]domain.UserCaseSession

	audit      map[uuid.UUID]domain.AuditRecord
	auditOrder []uuid.UUID
	blocked    []domain.BlockedPrizeEvent

	nextID   int64
	failures map[string]failure
}

type failure struct {
	err      error
	panicMsg string
}

// New creates a store seeded like a freshly migrated database: a 15% RTP target with its
// bootstrap history entry and emergency mode off
func New() *Store {
	s := &Store{
		now:      time.Now,
		cases:    make(map[int64]*domain.CatalogCase),
		accounts: make(map[uuid.UUID]domain.Account),
		sessions: make(map[uuid.UUID]domain.UserCaseSession),
		audit:    make(map[uuid.UUID]domain.AuditRecord),
		failures: make(map[string]failure),
	}
	now := s.now()
	s.rtp = domain.RTPConfig{TargetRatio: DefaultTargetRatio, UpdatedBy: SystemActor, UpdatedAt: now, Version: 1}
	s.rtpHistory = append(s.rtpHistory, domain.RTPHistoryEntry{
		ID:        s.id(),
		NewRatio:  DefaultTargetRatio,
		Reason:    "initial target",
		Actor:     SystemActor,
		Source:    domain.RTPSourceBootstrap,
		CreatedAt: now,
	})
	s.emergency = domain.EmergencyState{ChangedAt: now}
	return s
}

// SetClock replaces the time source used for stored timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOnce makes the next call of the named repository method return err
func (s *Store) FailOnce(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = failure{err: err}
}

// PanicOnce makes the next call of the named repository method panic
func (s *Store) PanicOnce(method, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = failure{panicMsg: msg}
}

// injected consumes a pending failure for method. Callers hold mu.
func (s *Store) injected(method string) error {
	f, ok := s.failures[method]
	if !ok {
		return nil
	}
	delete(s.failures, method)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.err
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) inTx(ctx context.Context) bool {
	return ctx.Value(txKey{s}) != nil
}

// locked runs fn holding the store mutex unless ctx already belongs to a transaction of this
// store, which holds it
func (s *Store) locked(ctx context.Context, method string, fn func() error) error {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.injected(method); err != nil {
		return err
	}
	return fn()
}

// snapshot captures what a transaction may change. Append-only slices are restored by length.
type snapshot struct {
	accounts         map[uuid.UUID]domain.Account
	sessions         map[uuid.UUID]domain.UserCaseSession
	movements        int
	cash             domain.CashPosition
	rtp              domain.RTPConfig
	rtpHistory       int
	emergency        domain.EmergencyState
	emergencyHistory int
	auditOrder       int
	blocked          int
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		accounts:         make(map[uuid.UUID]domain.Account, len(s.accounts)),
		sessions:         make(map[uuid.UUID]domain.UserCaseSession, len(s.sessions)),
		movements:        len(s.movements),
		cash:             s.cash,
		rtp:              s.rtp,
		rtpHistory:       len(s.rtpHistory),
		emergency:        s.emergency,
		emergencyHistory: len(s.emergencyHistory),
		auditOrder:       len(s.auditOrder),
		blocked:          len(s.blocked),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.sessions {
		snap.sessions[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.sessions = snap.sessions
	s.movements = s.movements[:snap.movements]
	s.cash = snap.cash
	s.rtp = snap.rtp
	s.rtpHistory = s.rtpHistory[:snap.rtpHistory]
	s.emergency = snap.emergency
	s.emergencyHistory = s.emergencyHistory[:snap.emergencyHistory]
	for _, id := range s.auditOrder[snap.auditOrder:] {
		delete(s.audit, id)
	}
	s.auditOrder = s.auditOrder[:snap.auditOrder]
	s.blocked = s.blocked[:min(snap.blocked, len(s.blocked))]
}

// Do runs fn as one transaction. Calls made with the ctx passed to fn join it, including nested
// Do calls. A returned error or a panic restores the state from before the transaction.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{s}, struct{}{})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	committed = true
	return nil
}

var _ repository.TxManager = (*Store)(nil)

// Seeding and inspection helpers

// AddCase stores a catalog case and returns its id. Prize ids are assigned when zero.
func (s *Store) AddCase(c domain.CatalogCase) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	prizes := make([]domain.CatalogPrize, len(c.Prizes))
	for i, p := range c.Prizes {
		if p.ID == 0 {
			p.ID = s.id()
		}
		p.CaseID = c.ID
		prizes[i] = p
	}
	c.Prizes = prizes
	s.cases[c.ID] = &c
	return c.ID
}

// SetCaseActive toggles a case
func (s *Store) SetCaseActive(caseID int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cases[caseID]; ok {
		c.Active = active
	}
}

// AddAccount stores an account. A positive balance is booked as a deposit so the ledger stays
// consistent with the balance.
func (s *Store) AddAccount(acc domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	opening := acc.Balance
	acc.Balance = 0
	s.accounts[acc.ID] = acc
	if opening > 0 {
		s.bookLocked(acc.ID, domain.MovementDeposit, opening)
	}
}

// Book records a movement for an account and applies it to the balance. It is the seam for
// deposits, withdrawals, commissions and test funding, which other systems own.
func (s *Store) Book(userID uuid.UUID, kind domain.MovementKind, amount domain.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[userID]; !ok {
		return domain.ErrUserNotFound
	}
	if amount < 0 {
		return domain.ErrNegativeAmount
	}
	s.bookLocked(userID, kind, amount)
	return nil
}

func (s *Store) bookLocked(userID uuid.UUID, kind domain.MovementKind, amount domain.Money) {
	acc := s.accounts[userID]
	switch kind {
	case domain.MovementDeposit, domain.MovementTestFunding:
		acc.Balance += amount
	case domain.MovementWithdrawal:
		acc.Balance -= amount
	}
	s.accounts[userID] = acc
	m := domain.MoneyMovement{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		Demo:      acc.Demo,
		CreatedAt: s.now(),
	}
	s.movements = append(s.movements, m)
	s.cash.Add(m)
}

// Account returns a copy of the account
func (s *Store) Account(userID uuid.UUID) (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[userID]
	return acc, ok
}

// Movements returns a copy of every movement in insertion order
func (s *Store) Movements() []domain.MoneyMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.MoneyMovement(nil), s.movements...)
}

// AuditRecords returns a copy of every audit record in insertion order
func (s *Store) AuditRecords() []domain.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditRecord, 0, len(s.auditOrder))
	for _, id := range s.auditOrder {
		out = append(out, s.audit[id])
	}
	return out
}

// BlockedEvents returns a copy of every blocked-prize event
func (s *Store) BlockedEvents() []domain.BlockedPrizeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BlockedPrizeEvent(nil), s.blocked...)
}

// Sessions returns a copy of every session
func (s *Store) Sessions() []domain.UserCaseSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserCaseSession, 0, len(s.sessions))
	for _, v := range s.sessions {
		out = append(out, v)
	}
	return out
}

// Ping reports whether the store accepts calls. The in-memory store is always ready unless a
// failure was injected for Ping.
func (s *Store) Ping(ctx context.Context) error {
	return s.locked(ctx, "Ping", func() error { return nil })
}

// SeedCase adds the case unless one with the same name exists
func (s *Store) SeedCase(_ context.Context, c domain.CatalogCase) (int64, bool, error) {
	s.mu.Lock()
	for id, existing := range s.cases {
		if existing.Name == c.Name {
			s.mu.Unlock()
			return id, false, nil
		}
	}
	s.mu.Unlock()
	return s.AddCase(c), true, nil
}

// SeedAccount adds the account unless it exists
func (s *Store) SeedAccount(_ context.Context, acc domain.Account) (bool, error) {
	if _, ok := s.Account(acc.ID); ok {
		return false, nil
	}
	s.AddAccount(acc)
	return true, nil
}
