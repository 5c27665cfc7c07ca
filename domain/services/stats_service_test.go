package services

import (
	"context"
	"testing"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard_SizeRejectedBeforeAggregation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before := env.factory.creates.Load()
	for _, n := range []int{15, 11, 0, -1} {
		_, err := env.stats.Leaderboard(ctx, entities.LeaderboardBalance, n)
		requireValidationReason(t, err, "invalid_size")
	}
	assert.Equal(t, before, env.factory.creates.Load(), "no unit of work may be opened for a rejected size")
}

func TestLeaderboard_RanksAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		_ = env.balance(t, id)
	}
	_, err := env.transfers.Transfer(ctx, 1, 3, 40_000)
	require.NoError(t, err)
	_, err = env.transfers.Transfer(ctx, 2, 4, 10_000)
	require.NoError(t, err)

	entries, err := env.stats.Leaderboard(ctx, entities.LeaderboardBalance, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entities.LeaderboardEntry{Rank: 1, AccountID: 3, Value: 140_000}, entries[0])
	assert.Equal(t, entities.LeaderboardEntry{Rank: 2, AccountID: 4, Value: 110_000}, entries[1])
	assert.Equal(t, entities.LeaderboardEntry{Rank: 3, AccountID: 2, Value: 90_000}, entries[2])

	_, err = env.stats.Leaderboard(ctx, "luck", 3)
	requireValidationReason(t, err, "invalid_metric")
}

func TestRecentWagers_SizeRejectedBeforeQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before := env.factory.creates.Load()
	for _, n := range []int{0, -1, MaxRecentWagers + 1, 1 << 30} {
		_, err := env.stats.RecentWagers(ctx, 1, n)
		requireValidationReason(t, err, "invalid_size")
	}
	assert.Equal(t, before, env.factory.creates.Load(), "no unit of work may be opened for a rejected size")
}

func TestRecentWagers_NewestFirstWithinLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var placed []*entities.Wager
	for i := 0; i < 5; i++ {
		result, err := env.wagers.PlaceWager(ctx, diceBet(1, int64(100*(i+1))))
		require.NoError(t, err)
		placed = append(placed, result.Wager)
	}
	_, err := env.wagers.PlaceWager(ctx, diceBet(2, 100))
	require.NoError(t, err)

	wagers, err := env.stats.RecentWagers(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, wagers, 3)
	for i, wager := range wagers {
		assert.Equal(t, placed[4-i].ID, wager.ID)
		assert.Equal(t, int64(1), wager.AccountID)
	}

	wagers, err = env.stats.RecentWagers(ctx, 1, MaxRecentWagers)
	require.NoError(t, err)
	assert.Len(t, wagers, 5)
}

func TestLeaderboard_UsesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cached := []entities.LeaderboardEntry{{Rank: 1, AccountID: 42, Value: 7}}
	cache := new(testhelpers.MockLeaderboardCache)
	cache.On("Get", ctx, entities.LeaderboardWagered, 5).Return(cached, true)

	stats := NewStatsService(env.runner, cache, 10)
	before := env.factory.creates.Load()

	entries, err := stats.Leaderboard(ctx, entities.LeaderboardWagered, 5)
	require.NoError(t, err)
	assert.Equal(t, cached, entries)
	assert.Equal(t, before, env.factory.creates.Load())
	cache.AssertExpectations(t)
}

func TestLeaderboard_FillsCacheOnMiss(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_ = env.balance(t, 1)

	cache := new(testhelpers.MockLeaderboardCache)
	cache.On("Get", ctx, entities.LeaderboardBalance, 1).Return(nil, false)
	cache.On("Set", ctx, entities.LeaderboardBalance, 1, mock.MatchedBy(func(entries []entities.LeaderboardEntry) bool {
		return len(entries) == 1 && entries[0].AccountID == 1
	})).Return()

	stats := NewStatsService(env.runner, cache, 10)
	_, err := stats.Leaderboard(ctx, entities.LeaderboardBalance, 1)
	require.NoError(t, err)
	cache.AssertExpectations(t)
}
