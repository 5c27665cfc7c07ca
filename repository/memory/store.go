// Package memory is an in-process implementation of the repositories and
// unit of work. Writes are staged per unit of work and applied atomically on
// commit; a balance that changed since the unit of work read it fails the
// commit with ErrConcurrencyConflict, mirroring the postgres compare-and-set.
package memory

import (
	"sync"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"
)

// Store holds committed state shared by every unit of work
type Store struct {
	mu        sync.RWMutex
	accounts  map[int64]*entities.Account
	wagers    []*entities.Wager
	ledger    []*entities.LedgerEntry
	claims    []*entities.Claim
	transfers []*entities.TransferEntry
	published []events.Event

	nextID int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{accounts: make(map[int64]*entities.Account)}
}

// Create returns a new unit of work over the store
func (s *Store) Create() interfaces.UnitOfWork {
	return newUnitOfWork(s)
}

func (s *Store) allocateID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

// PublishedEvents returns the events flushed by committed units of work
func (s *Store) PublishedEvents() []events.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]events.Event, len(s.published))
	copy(out, s.published)
	return out
}

// Counts returns committed row counts
func (s *Store) Counts() (wagers, ledger, claims, transfers int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wagers), len(s.ledger), len(s.claims), len(s.transfers)
}

// SetAccountBalance overwrites a committed balance without a ledger entry.
// Only tests use it, to simulate a writer outside the engine.
func (s *Store) SetAccountBalance(id, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[id]; ok {
		account.Balance = balance
	}
}

func copyAccount(a *entities.Account) *entities.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
