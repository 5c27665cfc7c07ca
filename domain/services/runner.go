package services

import (
	"context"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/domain/locks"
)

// TransactionRunner opens one unit of work per attempt and owns the
// per-account lock table shared by every service that changes balances.
type TransactionRunner struct {
	uowFactory interfaces.UnitOfWorkFactory
	locks      *locks.KeyedMutex
	metrics    interfaces.MetricsRecorder
	clock      func() time.Time
}

// NewTransactionRunner creates a runner. A nil metrics recorder disables metrics.
func NewTransactionRunner(uowFactory interfaces.UnitOfWorkFactory, keyedLocks *locks.KeyedMutex, metrics interfaces.MetricsRecorder) *TransactionRunner {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if keyedLocks == nil {
		keyedLocks = locks.NewKeyedMutex()
	}
	return &TransactionRunner{
		uowFactory: uowFactory,
		locks:      keyedLocks,
		metrics:    metrics,
		clock:      time.Now,
	}
}

// SetClock replaces the time source, used by tests to move across cooldown windows
func (r *TransactionRunner) SetClock(clock func() time.Time) {
	r.clock = clock
}

// Now returns the current time in UTC
func (r *TransactionRunner) Now() time.Time {
	return r.clock().UTC()
}

// Metrics returns the configured recorder
func (r *TransactionRunner) Metrics() interfaces.MetricsRecorder {
	return r.metrics
}

// LockAccount acquires the account's exclusion scope
func (r *TransactionRunner) LockAccount(accountID int64) func() {
	return r.locks.Lock(accountID)
}

// LockAccounts acquires two accounts' scopes in ascending id order
func (r *TransactionRunner) LockAccounts(a, b int64) func() {
	return r.locks.LockPair(a, b)
}

// LockAllAccounts acquires every given account's scope in ascending id order
func (r *TransactionRunner) LockAllAccounts(ids []int64) func() {
	return r.locks.LockAll(ids)
}

// Transact runs fn inside a transaction and commits if it returns nil.
// A compare-and-set conflict is retried once with a fresh transaction.
func (r *TransactionRunner) Transact(ctx context.Context, operation string, fn func(uow interfaces.UnitOfWork) error) error {
	return retryOnConflict(ctx, operation, r.metrics, func() error {
		return r.transactOnce(ctx, fn)
	})
}

// Read runs fn inside a transaction that is always rolled back
func (r *TransactionRunner) Read(ctx context.Context, fn func(uow interfaces.UnitOfWork) error) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return entities.NewPersistenceError("begin transaction", err)
	}
	defer uow.Rollback()

	return fn(uow)
}

func (r *TransactionRunner) transactOnce(ctx context.Context, fn func(uow interfaces.UnitOfWork) error) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return entities.NewPersistenceError("begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			uow.Rollback()
		}
	}()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return entities.NewPersistenceError("commit transaction", err)
	}
	committed = true
	return nil
}

type noopMetrics struct{}

func (noopMetrics) WagerSettled(entities.Game, int64, int64, time.Duration) {}
func (noopMetrics) LedgerEntryRecorded(entities.EntrySource)                {}
func (noopMetrics) CommandRejected(string, string)                          {}
func (noopMetrics) ConflictRetried(string)                                  {}
func (noopMetrics) ReconciliationChecked(bool)                              {}
