package services

import (
	"context"
	"fmt"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ReconciliationService replays each account's ledger and compares the
// result with the stored balance.
type ReconciliationService struct {
	runner *TransactionRunner
}

// NewReconciliationService creates a reconciliation service
func NewReconciliationService(runner *TransactionRunner) *ReconciliationService {
	return &ReconciliationService{runner: runner}
}

// Reconcile checks one account. The account lock is held so the balance and
// ledger are read at the same point.
func (s *ReconciliationService) Reconcile(ctx context.Context, accountID int64) (entities.ReconciliationReport, error) {
	unlock := s.runner.LockAccount(accountID)
	defer unlock()

	var report entities.ReconciliationReport
	err := s.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		account, err := uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return entities.NewPersistenceError("get account", err)
		}
		if account == nil {
			return fmt.Errorf("account %d not found", accountID)
		}
		entries, err := uow.LedgerRepository().GetByAccount(ctx, accountID)
		if err != nil {
			return entities.NewPersistenceError("get ledger", err)
		}
		report = Replay(account, entries)
		return nil
	})
	if err != nil {
		return report, err
	}

	s.runner.Metrics().ReconciliationChecked(report.Consistent())
	if !report.Consistent() {
		log.WithFields(log.Fields{
			"accountID":         report.AccountID,
			"storedBalance":     report.StoredBalance,
			"calculatedBalance": report.CalculatedBalance,
			"brokenEntries":     report.BrokenEntries,
		}).Error("Ledger does not reconcile with stored balance")
	}
	return report, nil
}

// ReconcileAll checks every account and returns only the inconsistent ones
func (s *ReconciliationService) ReconcileAll(ctx context.Context) ([]entities.ReconciliationReport, int, error) {
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
		return nil, 0, err
	}

	var mismatches []entities.ReconciliationReport
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return mismatches, 0, err
		}
		report, err := s.Reconcile(ctx, id)
		if err != nil {
			return mismatches, 0, fmt.Errorf("failed to reconcile account %d: %w", id, err)
		}
		if !report.Consistent() {
			mismatches = append(mismatches, report)
		}
	}

	log.WithFields(log.Fields{
		"accounts":   len(ids),
		"mismatches": len(mismatches),
	}).Info("Completed ledger reconciliation")
	return mismatches, len(ids), nil
}

// Replay folds ledger entries in order. Each entry must start where the
// previous one ended (the first from zero) and must match its own effect.
func Replay(account *entities.Account, entries []*entities.LedgerEntry) entities.ReconciliationReport {
	report := entities.ReconciliationReport{
		AccountID:     account.ID,
		StoredBalance: account.Balance,
		EntryCount:    len(entries),
	}

	var running int64
	for _, entry := range entries {
		if entry.BalanceBefore != running || !entry.IsConsistent() {
			report.BrokenEntries = append(report.BrokenEntries, entry.ID)
		}
		running += entry.Effect
	}
	report.CalculatedBalance = running
	return report
}
