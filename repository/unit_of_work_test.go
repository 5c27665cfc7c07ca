package repository

import (
	"context"
	"testing"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/testhelpers"
	"gambler/wager-engine/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := new(testhelpers.MockTransactionalEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil)
	publisher.On("Flush", mock.Anything).Return(nil)

	uow := NewUnitOfWorkFactory(testDB.DB).CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.AccountRepository().Create(ctx, testutil.CreateTestAccount(1)))
	require.NoError(t, uow.EventPublisher().Publish(events.AccountCreatedEvent{AccountID: 1, InitialBalance: 100000}))
	require.NoError(t, uow.Commit())

	publisher.AssertCalled(t, "Flush", mock.Anything)
	publisher.AssertNotCalled(t, "Discard")

	account, err := NewAccountRepository(testDB.DB).GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, account)
}

func TestUnitOfWork_RollbackDiscardsEverything(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	publisher := new(testhelpers.MockTransactionalEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil)
	publisher.On("Discard").Return()

	uow := NewUnitOfWorkFactory(testDB.DB).CreateWithPublisher(publisher)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.AccountRepository().Create(ctx, testutil.CreateTestAccount(1)))
	require.NoError(t, uow.EventPublisher().Publish(events.AccountCreatedEvent{AccountID: 1}))
	require.NoError(t, uow.Rollback())
	require.NoError(t, uow.Rollback())

	publisher.AssertNotCalled(t, "Flush", mock.Anything)
	publisher.AssertCalled(t, "Discard")

	account, err := NewAccountRepository(testDB.DB).GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestUnitOfWork_RepositoriesRequireBegin(t *testing.T) {
	uow := NewUnitOfWorkFactory(nil).CreateWithPublisher(nil)
	assert.Panics(t, func() { uow.AccountRepository() })
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}

func TestStatsRepository_Leaderboard(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	accounts := NewAccountRepository(testDB.DB)
	wagers := NewWagerRepository(testDB.DB)
	for id, balance := range map[int64]int64{1: 500, 2: 900, 3: 900, 4: 5000} {
		require.NoError(t, accounts.Create(ctx, testutil.CreateTestAccountWithBalance(id, balance)))
	}
	require.NoError(t, accounts.UpdateState(ctx, 4, entities.AccountStateAbandoned))
	require.NoError(t, wagers.Create(ctx, testutil.CreateTestWager(1, 100, 1000)))
	require.NoError(t, wagers.Create(ctx, testutil.CreateTestWager(2, 100, 0)))

	stats := NewStatsRepository(testDB.DB)

	t.Run("balance ties break by id and abandoned accounts are hidden", func(t *testing.T) {
		entries, err := stats.Leaderboard(ctx, entities.LeaderboardBalance, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, int64(2), entries[0].AccountID)
		assert.Equal(t, int64(3), entries[1].AccountID)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, 3, entries[2].Rank)
	})

	t.Run("profit sums wager effects", func(t *testing.T) {
		entries, err := stats.Leaderboard(ctx, entities.LeaderboardProfit, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(1), entries[0].AccountID)
		assert.Equal(t, int64(900), entries[0].Value)
		assert.Equal(t, int64(3), entries[1].AccountID)
		assert.Zero(t, entries[1].Value)
	})

	t.Run("unknown metric", func(t *testing.T) {
		_, err := stats.Leaderboard(ctx, entities.LeaderboardMetric("karma"), 10)
		assert.Error(t, err)
	})
}
