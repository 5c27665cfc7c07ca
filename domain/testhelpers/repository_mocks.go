package testhelpers

import (
	"context"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) CompareAndSetBalance(ctx context.Context, update entities.BalanceUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateState(ctx context.Context, id int64, state entities.AccountState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateSeed(ctx context.Context, id int64, seed int64) error {
	args := m.Called(ctx, id, seed)
	return args.Error(0)
}

func (m *MockAccountRepository) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockAccountRepository) LockAllForReset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAccountRepository) ResetAll(ctx context.Context, balance int64) (int64, error) {
	args := m.Called(ctx, balance)
	return args.Get(0).(int64), args.Error(1)
}

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerRepository) GetByID(ctx context.Context, id int64) (*entities.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Wager, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Wager), args.Error(1)
}

func (m *MockWagerRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWagerRepository) TotalsSince(ctx context.Context, accountID int64, since time.Time) (entities.WagerTotals, error) {
	args := m.Called(ctx, accountID, since)
	return args.Get(0).(entities.WagerTotals), args.Error(1)
}

func (m *MockWagerRepository) GameBreakdown(ctx context.Context, accountID int64) ([]entities.GameStats, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.GameStats), args.Error(1)
}

func (m *MockWagerRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByAccount(ctx context.Context, accountID int64) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockClaimRepository is a mock implementation of ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, claim *entities.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) GetLatest(ctx context.Context, accountID int64, kind entities.ClaimKind, label string) (*entities.Claim, error) {
	args := m.Called(ctx, accountID, kind, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) CountByAccount(ctx context.Context, accountID int64, kind entities.ClaimKind) (int64, error) {
	args := m.Called(ctx, accountID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransferRepository is a mock implementation of TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) CreatePair(ctx context.Context, debit, credit *entities.TransferEntry) error {
	args := m.Called(ctx, debit, credit)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByLink(ctx context.Context, linkID uuid.UUID) ([]*entities.TransferEntry, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TransferEntry), args.Error(1)
}

func (m *MockTransferRepository) Summary(ctx context.Context, accountID int64) (entities.TransferSummary, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(entities.TransferSummary), args.Error(1)
}

func (m *MockTransferRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Leaderboard(ctx context.Context, metric entities.LeaderboardMetric, limit int) ([]entities.LeaderboardEntry, error) {
	args := m.Called(ctx, metric, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.LeaderboardEntry), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockTransactionalEventPublisher is a mock implementation of TransactionalEventPublisher
type MockTransactionalEventPublisher struct {
	mock.Mock
}

func (m *MockTransactionalEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionalEventPublisher) Discard() {
	m.Called()
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return m.Called().Get(0).(interfaces.AccountRepository)
}

func (m *MockUnitOfWork) WagerRepository() interfaces.WagerRepository {
	return m.Called().Get(0).(interfaces.WagerRepository)
}

func (m *MockUnitOfWork) LedgerRepository() interfaces.LedgerRepository {
	return m.Called().Get(0).(interfaces.LedgerRepository)
}

func (m *MockUnitOfWork) ClaimRepository() interfaces.ClaimRepository {
	return m.Called().Get(0).(interfaces.ClaimRepository)
}

func (m *MockUnitOfWork) TransferRepository() interfaces.TransferRepository {
	return m.Called().Get(0).(interfaces.TransferRepository)
}

func (m *MockUnitOfWork) StatsRepository() interfaces.StatsRepository {
	return m.Called().Get(0).(interfaces.StatsRepository)
}

func (m *MockUnitOfWork) EventPublisher() interfaces.EventPublisher {
	return m.Called().Get(0).(interfaces.EventPublisher)
}

// MockLeaderboardCache is a mock implementation of LeaderboardCache
type MockLeaderboardCache struct {
	mock.Mock
}

func (m *MockLeaderboardCache) Get(ctx context.Context, metric entities.LeaderboardMetric, limit int) ([]entities.LeaderboardEntry, bool) {
	args := m.Called(ctx, metric, limit)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]entities.LeaderboardEntry), args.Bool(1)
}

func (m *MockLeaderboardCache) Set(ctx context.Context, metric entities.LeaderboardMetric, limit int, entries []entities.LeaderboardEntry) {
	m.Called(ctx, metric, limit, entries)
}

func (m *MockLeaderboardCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}
