package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gambler/wager-engine/config"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/games"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/domain/locks"
	"gambler/wager-engine/repository/memory"

	"github.com/stretchr/testify/require"
)

// testClock is a settable time source
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// flakyFactory fails the next N commits with a concurrency conflict
type flakyFactory struct {
	store     *memory.Store
	conflicts atomic.Int32
	creates   atomic.Int32
}

func (f *flakyFactory) Create() interfaces.UnitOfWork {
	f.creates.Add(1)
	return &flakyUnitOfWork{UnitOfWork: f.store.Create(), factory: f}
}

type flakyUnitOfWork struct {
	interfaces.UnitOfWork
	factory *flakyFactory
}

func (u *flakyUnitOfWork) Commit() error {
	if u.factory.conflicts.Add(-1) >= 0 {
		u.UnitOfWork.Rollback()
		return entities.ErrConcurrencyConflict
	}
	return u.UnitOfWork.Commit()
}

type testEnv struct {
	cfg       *config.Config
	store     *memory.Store
	factory   *flakyFactory
	clock     *testClock
	runner    *TransactionRunner
	registry  *games.Registry
	accounts  *AccountService
	wagers    *WagerService
	transfers *TransferService
	rewards   *RewardService
	stats     *StatsService
	recon     *ReconciliationService
	audit     *AuditService
	admin     *AdminService
}

func newTestEnv(t *testing.T, configure ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.NewTestConfig()
	for _, fn := range configure {
		fn(cfg)
	}
	require.NoError(t, cfg.Validate())

	store := memory.NewStore()
	factory := &flakyFactory{store: store}
	clock := &testClock{now: time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)}

	runner := NewTransactionRunner(factory, locks.NewKeyedMutex(), nil)
	runner.SetClock(clock.Now)

	registry, err := games.NewRegistry(cfg)
	require.NoError(t, err)

	ledger := NewLedgerService(runner.Now)
	accounts := NewAccountService(runner, ledger, cfg.StartingBalance)
	validator := NewWagerValidator(registry, cfg, cfg.MinWager)
	rewards, err := NewRewardService(runner, accounts, ledger, NewCooldownService(), cfg)
	require.NoError(t, err)

	return &testEnv{
		cfg:       cfg,
		store:     store,
		factory:   factory,
		clock:     clock,
		runner:    runner,
		registry:  registry,
		accounts:  accounts,
		wagers:    NewWagerService(runner, accounts, ledger, validator),
		transfers: NewTransferService(runner, accounts, ledger, cfg.TransfersEnabled),
		rewards:   rewards,
		stats:     NewStatsService(runner, nil, cfg.MaxLeaderboardSize),
		recon:     NewReconciliationService(runner),
		audit:     NewAuditService(runner, registry),
		admin:     NewAdminService(runner, ledger, nil, cfg.StartingBalance),
	}
}

func (e *testEnv) balance(t *testing.T, accountID int64) int64 {
	t.Helper()
	account, err := e.accounts.GetAccount(context.Background(), accountID)
	require.NoError(t, err)
	return account.Balance
}

func (e *testEnv) wagerCount(t *testing.T, accountID int64) int64 {
	t.Helper()
	var count int64
	err := e.runner.Read(context.Background(), func(uow interfaces.UnitOfWork) error {
		var err error
		count, err = uow.WagerRepository().CountByAccount(context.Background(), accountID)
		return err
	})
	require.NoError(t, err)
	return count
}

func (e *testEnv) ledgerCount(t *testing.T, accountID int64) int64 {
	t.Helper()
	var count int64
	err := e.runner.Read(context.Background(), func(uow interfaces.UnitOfWork) error {
		var err error
		count, err = uow.LedgerRepository().CountByAccount(context.Background(), accountID)
		return err
	})
	require.NoError(t, err)
	return count
}

func (e *testEnv) claimCount(t *testing.T, accountID int64, kind entities.ClaimKind) int64 {
	t.Helper()
	var count int64
	err := e.runner.Read(context.Background(), func(uow interfaces.UnitOfWork) error {
		var err error
		count, err = uow.ClaimRepository().CountByAccount(context.Background(), accountID, kind)
		return err
	})
	require.NoError(t, err)
	return count
}

// requireReconciled asserts the ledger of every account replays to its stored balance
func (e *testEnv) requireReconciled(t *testing.T) {
	t.Helper()
	mismatches, _, err := e.recon.ReconcileAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, mismatches, "ledger replay does not match stored balances")
}

func requireValidationReason(t *testing.T, err error, reason string) {
	t.Helper()
	validationErr, ok := entities.IsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	require.Equal(t, reason, validationErr.Reason)
}

func diceBet(accountID, amount int64) entities.WagerRequest {
	return entities.WagerRequest{AccountID: accountID, Game: entities.GameDice, Amount: amount}
}
