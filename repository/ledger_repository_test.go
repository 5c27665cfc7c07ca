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

func TestLedgerRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	require.NoError(t, NewAccountRepository(testDB.DB).Create(context.Background(), testutil.CreateTestAccount(1)))
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	first := testutil.CreateTestLedgerEntry(1, entities.EntrySourceInitial, 0, 100000)
	second := testutil.CreateTestLedgerEntry(1, entities.EntrySourceWager, 100000, -500)
	related := int64(77)
	second.RelatedID = &related
	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))

	entries, err := repo.GetByAccount(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Nil(t, entries[0].RelatedID)
	require.NotNil(t, entries[1].RelatedID)
	assert.Equal(t, related, *entries[1].RelatedID)
	assert.Equal(t, true, entries[1].Metadata["test"])
	assert.True(t, entries[1].IsConsistent())

	t.Run("inconsistent snapshot is refused by the schema", func(t *testing.T) {
		bad := testutil.CreateTestLedgerEntry(1, entities.EntrySourceWager, 99500, -500)
		bad.BalanceAfter = 1
		assert.Error(t, repo.Record(ctx, bad))
	})

	count, err := repo.CountByAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestClaimRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	require.NoError(t, NewAccountRepository(testDB.DB).Create(context.Background(), testutil.CreateTestAccount(1)))
	repo := NewClaimRepository(testDB.DB)
	ctx := context.Background()

	latest, err := repo.GetLatest(ctx, 1, entities.ClaimKindCounter, "gg")
	require.NoError(t, err)
	assert.Nil(t, latest)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestClaim(1, entities.ClaimKindCounter, "gg", base)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestClaim(1, entities.ClaimKindCounter, "gg", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestClaim(1, entities.ClaimKindCounter, "other", base.Add(2*time.Hour))))

	latest, err = repo.GetLatest(ctx, 1, entities.ClaimKindCounter, "gg")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.ClaimedAt.Equal(base.Add(time.Hour)))

	count, err := repo.CountByAccount(ctx, 1, entities.ClaimKindCounter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestTransferRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accounts := NewAccountRepository(testDB.DB)
	ctx := context.Background()
	require.NoError(t, accounts.Create(ctx, testutil.CreateTestAccount(1)))
	require.NoError(t, accounts.Create(ctx, testutil.CreateTestAccount(2)))
	repo := NewTransferRepository(testDB.DB)

	link := uuid.New()
	debit := &entities.TransferEntry{LinkID: link, AccountID: 1, Amount: -250}
	credit := &entities.TransferEntry{LinkID: link, AccountID: 2, Amount: 250}
	require.NoError(t, repo.CreatePair(ctx, debit, credit))

	entries, err := repo.GetByLink(ctx, link)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(0), entries[0].Amount+entries[1].Amount)

	summary, err := repo.Summary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), summary.Sent)
	assert.Equal(t, int64(1), summary.SentCount)
	assert.Zero(t, summary.Received)

	t.Run("unbalanced pair rejected", func(t *testing.T) {
		other := uuid.New()
		err := repo.CreatePair(ctx,
			&entities.TransferEntry{LinkID: other, AccountID: 1, Amount: -10},
			&entities.TransferEntry{LinkID: other, AccountID: 2, Amount: 20},
		)
		assert.Error(t, err)
	})
}
