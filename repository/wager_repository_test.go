package repository

import (
	"context"
	"testing"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWagerRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	repo := NewWagerRepository(testDB.DB)
	ctx := context.Background()
	require.NoError(t, accounts.Create(ctx, testutil.CreateTestAccount(7)))

	start := time.Now().Add(-time.Minute)

	win := testutil.CreateTestWager(7, 100, 198)
	loss := testutil.CreateTestWager(7, 300, 0)
	loss.DrawNonce = 1
	require.NoError(t, repo.Create(ctx, win))
	require.NoError(t, repo.Create(ctx, loss))
	assert.NotZero(t, win.ID)

	t.Run("get by id round trips params and outcome", func(t *testing.T) {
		wager, err := repo.GetByID(ctx, win.ID)
		require.NoError(t, err)
		require.NotNil(t, wager)
		assert.Equal(t, entities.GameDice, wager.Game)
		assert.Equal(t, win.Params, wager.Params)
		assert.Equal(t, 75.5, wager.Outcome["roll"])
		assert.Equal(t, int64(98), wager.Effect)

		missing, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("recent wagers newest first", func(t *testing.T) {
		wagers, err := repo.GetByAccount(ctx, 7, 10)
		require.NoError(t, err)
		require.Len(t, wagers, 2)
		assert.Equal(t, loss.ID, wagers[0].ID)

		count, err := repo.CountByAccount(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("totals since", func(t *testing.T) {
		totals, err := repo.TotalsSince(ctx, 7, start)
		require.NoError(t, err)
		assert.Equal(t, int64(2), totals.Count)
		assert.Equal(t, int64(400), totals.Staked)
		assert.Equal(t, int64(198), totals.Payout)
		assert.Equal(t, int64(202), totals.NetLoss())

		totals, err = repo.TotalsSince(ctx, 7, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, totals.Count)
	})

	t.Run("game breakdown", func(t *testing.T) {
		stats, err := repo.GameBreakdown(ctx, 7)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, int64(2), stats[0].Count)
		assert.Equal(t, int64(1), stats[0].Wins)
		assert.Equal(t, int64(98), stats[0].Biggest)
		assert.Equal(t, int64(-202), stats[0].Net())
	})

	t.Run("delete all", func(t *testing.T) {
		n, err := repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestRepositories_StoreCallerCreationTime(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	// A clock far from the database's own, with a non-UTC zone
	stamp := time.Date(2021, 3, 4, 5, 6, 7, 0, time.FixedZone("west", -5*3600))

	account := testutil.CreateTestAccount(11)
	account.CreatedAt = stamp
	require.NoError(t, NewAccountRepository(testDB.DB).Create(ctx, account))
	require.NoError(t, NewAccountRepository(testDB.DB).Create(ctx, testutil.CreateTestAccount(12)))
	assert.True(t, stamp.Equal(account.CreatedAt), "account created_at %v", account.CreatedAt)

	wagers := NewWagerRepository(testDB.DB)
	early := testutil.CreateTestWager(11, 100, 0)
	early.CreatedAt = stamp
	late := testutil.CreateTestWager(11, 200, 0)
	late.DrawNonce = 1
	late.CreatedAt = stamp.Add(time.Hour)
	require.NoError(t, wagers.Create(ctx, early))
	require.NoError(t, wagers.Create(ctx, late))
	assert.True(t, stamp.Equal(early.CreatedAt), "wager created_at %v", early.CreatedAt)

	t.Run("totals since compare against the stored time", func(t *testing.T) {
		totals, err := wagers.TotalsSince(ctx, 11, stamp)
		require.NoError(t, err)
		assert.Equal(t, int64(1), totals.Count)
		assert.Equal(t, int64(200), totals.Staked)

		totals, err = wagers.TotalsSince(ctx, 11, stamp.Add(-time.Second))
		require.NoError(t, err)
		assert.Equal(t, int64(2), totals.Count)

		totals, err = wagers.TotalsSince(ctx, 11, stamp.Add(time.Hour))
		require.NoError(t, err)
		assert.Zero(t, totals.Count)
	})

	t.Run("ledger entry keeps its time", func(t *testing.T) {
		ledger := NewLedgerRepository(testDB.DB)
		entry := testutil.CreateTestLedgerEntry(11, entities.EntrySourceInitial, 0, 100000)
		entry.CreatedAt = stamp
		require.NoError(t, ledger.Record(ctx, entry))

		entries, err := ledger.GetByAccount(ctx, 11)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, stamp.Equal(entries[0].CreatedAt), "ledger created_at %v", entries[0].CreatedAt)
	})

	t.Run("transfer entries keep their time", func(t *testing.T) {
		transfers := NewTransferRepository(testDB.DB)
		link := uuid.New()
		debit := &entities.TransferEntry{LinkID: link, AccountID: 11, Amount: -50, CreatedAt: stamp}
		credit := &entities.TransferEntry{LinkID: link, AccountID: 12, Amount: 50, CreatedAt: stamp}
		require.NoError(t, transfers.CreatePair(ctx, debit, credit))

		entries, err := transfers.GetByLink(ctx, link)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, entry := range entries {
			assert.True(t, stamp.Equal(entry.CreatedAt), "transfer created_at %v", entry.CreatedAt)
		}
	})

	t.Run("unset time falls back to now", func(t *testing.T) {
		wager := testutil.CreateTestWager(12, 100, 0)
		before := time.Now().Add(-time.Minute)
		require.NoError(t, wagers.Create(ctx, wager))
		assert.True(t, wager.CreatedAt.After(before))
	})
}
