package services

import (
	"context"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ResetSummary reports what an administrative reset removed
type ResetSummary struct {
	Accounts      int64
	Wagers        int64
	LedgerEntries int64
	Claims        int64
	TransferRows  int64
}

// AdminService holds operations that are only reachable by administrators
type AdminService struct {
	runner          *TransactionRunner
	ledger          *LedgerService
	cache           interfaces.LeaderboardCache
	startingBalance int64
}

// NewAdminService creates an admin service. cache may be nil.
func NewAdminService(runner *TransactionRunner, ledger *LedgerService, cache interfaces.LeaderboardCache, startingBalance int64) *AdminService {
	return &AdminService{
		runner:          runner,
		ledger:          ledger,
		cache:           cache,
		startingBalance: startingBalance,
	}
}

// ResetLedger wipes all wagers, ledger entries, claims and transfers, then
// restores every account to the starting balance with a fresh initial entry.
// It is the only path that deletes ledger rows.
func (s *AdminService) ResetLedger(ctx context.Context, confirmed bool) (*ResetSummary, error) {
	if !confirmed {
		return nil, entities.NewValidationError("confirmation_required",
			"Resetting the ledger erases all history. Repeat with confirmation to proceed.")
	}

	var ids []int64
	err := s.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		var err error
		ids, err = uow.AccountRepository().ListIDs(ctx)
		if err != nil {
			return entities.NewPersistenceError("list accounts", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Every account stays locked from before the first delete to after the
	// initial entries are written, so no wager lands between the two.
	unlock := s.runner.LockAllAccounts(ids)
	defer unlock()

	var summary *ResetSummary
	err = s.runner.Transact(ctx, "reset_ledger", func(uow interfaces.UnitOfWork) error {
		summary = &ResetSummary{}
		if err := uow.AccountRepository().LockAllForReset(ctx); err != nil {
			return entities.NewPersistenceError("lock accounts", err)
		}
		var err error

		if summary.Wagers, err = uow.WagerRepository().DeleteAll(ctx); err != nil {
			return entities.NewPersistenceError("delete wagers", err)
		}
		if summary.LedgerEntries, err = uow.LedgerRepository().DeleteAll(ctx); err != nil {
			return entities.NewPersistenceError("delete ledger", err)
		}
		if summary.Claims, err = uow.ClaimRepository().DeleteAll(ctx); err != nil {
			return entities.NewPersistenceError("delete claims", err)
		}
		if summary.TransferRows, err = uow.TransferRepository().DeleteAll(ctx); err != nil {
			return entities.NewPersistenceError("delete transfers", err)
		}
		if summary.Accounts, err = uow.AccountRepository().ResetAll(ctx, 0); err != nil {
			return entities.NewPersistenceError("reset accounts", err)
		}

		if s.startingBalance == 0 {
			return nil
		}
		ids, err := uow.AccountRepository().ListIDs(ctx)
		if err != nil {
			return entities.NewPersistenceError("list accounts", err)
		}
		for _, id := range ids {
			account, err := load(ctx, uow, id)
			if err != nil {
				return err
			}
			if _, err := s.ledger.ApplyEffect(ctx, uow, account, BalanceChange{
				Delta:    s.startingBalance,
				Source:   entities.EntrySourceInitial,
				Metadata: map[string]any{"reset": true},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	log.WithFields(log.Fields{
		"accounts":      summary.Accounts,
		"wagers":        summary.Wagers,
		"ledgerEntries": summary.LedgerEntries,
		"claims":        summary.Claims,
		"transfers":     summary.TransferRows,
	}).Warn("Ledger reset")
	return summary, nil
}
