package repository

import (
	"context"
	"testing"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("account not found", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("account found", func(t *testing.T) {
		created := testutil.CreateTestAccount(123456)
		require.NoError(t, repo.Create(ctx, created))
		assert.False(t, created.CreatedAt.IsZero())

		account, err := repo.GetByID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, created.Balance, account.Balance)
		assert.Equal(t, entities.AccountStateActive, account.State)
		assert.Equal(t, created.DrawSeed, account.DrawSeed)
		assert.Equal(t, uint64(0), account.DrawNonce)
	})
}

func TestAccountRepository_CompareAndSetBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testutil.CreateTestAccountWithBalance(1, 1000)))

	t.Run("matching balance applies update", func(t *testing.T) {
		err := repo.CompareAndSetBalance(ctx, entities.BalanceUpdate{
			AccountID:       1,
			ExpectedBalance: 1000,
			NewBalance:      900,
			WageredDelta:    100,
			AdvanceNonce:    true,
		})
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(900), account.Balance)
		assert.Equal(t, int64(100), account.TotalWagered)
		assert.Equal(t, uint64(1), account.DrawNonce)
	})

	t.Run("stale balance is a conflict", func(t *testing.T) {
		err := repo.CompareAndSetBalance(ctx, entities.BalanceUpdate{
			AccountID:       1,
			ExpectedBalance: 1000,
			NewBalance:      2000,
		})
		assert.ErrorIs(t, err, entities.ErrConcurrencyConflict)

		account, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(900), account.Balance)
	})

	t.Run("negative balance is refused by the schema", func(t *testing.T) {
		err := repo.CompareAndSetBalance(ctx, entities.BalanceUpdate{
			AccountID:       1,
			ExpectedBalance: 900,
			NewBalance:      -1,
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrConcurrencyConflict)
	})
}

func TestAccountRepository_StateSeedAndReset(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()
	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestAccount(id)))
	}

	require.NoError(t, repo.UpdateState(ctx, 2, entities.AccountStateExcluded))
	require.NoError(t, repo.CompareAndSetBalance(ctx, entities.BalanceUpdate{AccountID: 3, ExpectedBalance: 100000, NewBalance: 100000, AdvanceNonce: true}))
	require.NoError(t, repo.UpdateSeed(ctx, 3, 42))

	account, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, entities.AccountStateExcluded, account.State)

	account, err = repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(42), account.DrawSeed)
	assert.Equal(t, uint64(0), account.DrawNonce)

	assert.Error(t, repo.UpdateState(ctx, 404, entities.AccountStateActive))

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	n, err := repo.ResetAll(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	account, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance)
	assert.Equal(t, int64(0), account.TotalWagered)
}

func TestAccountRepository_LockAllForResetWaitsForRowLocks(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	require.NoError(t, NewAccountRepository(testDB.DB).Create(ctx, testutil.CreateTestAccount(1)))

	// A wager transaction holds the account row
	wagerTx, err := testDB.DB.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = wagerTx.Rollback(ctx) }()
	_, err = newAccountRepository(wagerTx).GetByID(ctx, 1)
	require.NoError(t, err)

	locked := make(chan error, 1)
	resetTx, err := testDB.DB.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = resetTx.Rollback(ctx) }()
	go func() { locked <- newAccountRepository(resetTx).LockAllForReset(ctx) }()

	select {
	case <-locked:
		t.Fatal("reset lock taken while a row was held for update")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, wagerTx.Commit(ctx))
	select {
	case err := <-locked:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reset lock not taken after the row was released")
	}

	// While the reset holds the table, new row locks wait
	read := make(chan error, 1)
	laterTx, err := testDB.DB.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = laterTx.Rollback(ctx) }()
	go func() {
		_, err := newAccountRepository(laterTx).GetByID(ctx, 1)
		read <- err
	}()

	select {
	case <-read:
		t.Fatal("row lock taken during a reset")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, resetTx.Commit(ctx))
	select {
	case err := <-read:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("row lock not taken after the reset committed")
	}
}
