package memory

import (
	"context"
	"errors"
	"fmt"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"
)

var errNotInTransaction = errors.New("unit of work not started")

// unitOfWork stages changes until Commit
type unitOfWork struct {
	store  *Store
	active bool

	// accounts read or written, and the committed balance first observed
	accounts map[int64]*entities.Account
	observed map[int64]int64
	created  map[int64]bool
	dirty    map[int64]bool

	wagers    []*entities.Wager
	ledger    []*entities.LedgerEntry
	claims    []*entities.Claim
	transfers []*entities.TransferEntry

	deleteWagers, deleteLedger, deleteClaims, deleteTransfers bool

	pending []events.Event
}

func newUnitOfWork(store *Store) *unitOfWork {
	return &unitOfWork{store: store}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return errors.New("transaction already started")
	}
	u.active = true
	u.accounts = make(map[int64]*entities.Account)
	u.observed = make(map[int64]int64)
	u.created = make(map[int64]bool)
	u.dirty = make(map[int64]bool)
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.active {
		return errNotInTransaction
	}
	defer u.clear()

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range u.dirty {
		committed, exists := s.accounts[id]
		if u.created[id] {
			if exists {
				return fmt.Errorf("account %d already exists", id)
			}
			continue
		}
		if !exists {
			return fmt.Errorf("account %d not found", id)
		}
		if expected, ok := u.observed[id]; ok && committed.Balance != expected {
			return entities.ErrConcurrencyConflict
		}
	}

	for id := range u.dirty {
		s.accounts[id] = copyAccount(u.accounts[id])
	}
	if u.deleteWagers {
		s.wagers = nil
	}
	if u.deleteLedger {
		s.ledger = nil
	}
	if u.deleteClaims {
		s.claims = nil
	}
	if u.deleteTransfers {
		s.transfers = nil
	}
	s.wagers = append(s.wagers, u.wagers...)
	s.ledger = append(s.ledger, u.ledger...)
	s.claims = append(s.claims, u.claims...)
	s.transfers = append(s.transfers, u.transfers...)
	s.published = append(s.published, u.pending...)
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.active {
		return nil
	}
	u.clear()
	return nil
}

func (u *unitOfWork) clear() {
	u.active = false
	u.accounts = nil
	u.observed = nil
	u.created = nil
	u.dirty = nil
	u.wagers, u.ledger, u.claims, u.transfers = nil, nil, nil, nil
	u.deleteWagers, u.deleteLedger, u.deleteClaims, u.deleteTransfers = false, false, false, false
	u.pending = nil
}

// account returns the working copy of an account, loading it on first use
func (u *unitOfWork) account(id int64) *entities.Account {
	if a, ok := u.accounts[id]; ok {
		return a
	}
	u.store.mu.RLock()
	committed := copyAccount(u.store.accounts[id])
	u.store.mu.RUnlock()
	if committed == nil {
		return nil
	}
	u.accounts[id] = committed
	u.observed[id] = committed.Balance
	return committed
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	return &accountRepository{uow: u}
}

func (u *unitOfWork) WagerRepository() interfaces.WagerRepository {
	return &wagerRepository{uow: u}
}

func (u *unitOfWork) LedgerRepository() interfaces.LedgerRepository {
	return &ledgerRepository{uow: u}
}

func (u *unitOfWork) ClaimRepository() interfaces.ClaimRepository {
	return &claimRepository{uow: u}
}

func (u *unitOfWork) TransferRepository() interfaces.TransferRepository {
	return &transferRepository{uow: u}
}

func (u *unitOfWork) StatsRepository() interfaces.StatsRepository {
	return &statsRepository{uow: u}
}

func (u *unitOfWork) EventPublisher() interfaces.EventPublisher {
	return u
}

// Publish buffers an event until commit
func (u *unitOfWork) Publish(event events.Event) error {
	if !u.active {
		return errNotInTransaction
	}
	u.pending = append(u.pending, event)
	return nil
}
