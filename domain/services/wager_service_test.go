package services

import (
	"context"
	"math"
	"testing"
	"time"

	"gambler/wager-engine/config"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPlaceWager_InsufficientBalanceWritesNothing(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.StartingBalance = 50 })
	ctx := context.Background()

	result, err := env.wagers.PlaceWager(ctx, diceBet(1, 100))
	require.Error(t, err)
	assert.Nil(t, result)
	requireValidationReason(t, err, "insufficient_balance")

	assert.Equal(t, int64(0), env.wagerCount(t, 1))
	assert.Equal(t, int64(1), env.ledgerCount(t, 1), "only the initial entry")
	assert.Equal(t, int64(50), env.balance(t, 1))
	env.requireReconciled(t)
}

func TestPlaceWager_FullBalanceAccepted(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.StartingBalance = 100 })
	ctx := context.Background()

	result, err := env.wagers.PlaceWager(ctx, diceBet(1, 100))
	require.NoError(t, err)

	assert.Equal(t, int64(1), env.wagerCount(t, 1))
	assert.Equal(t, int64(100)-result.Wager.Stake+result.Wager.Payout, result.NewBalance)
	assert.Equal(t, result.NewBalance, env.balance(t, 1))
	env.requireReconciled(t)
}

func TestPlaceWager_AllInLossLeavesZero(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.StartingBalance = 100 })
	ctx := context.Background()

	// Keep going all-in until a loss; a 49.5% win chance makes 64 straight wins impossible in practice
	var last *entities.WagerResult
	for i := 0; i < 64; i++ {
		balance := env.balance(t, 1)
		result, err := env.wagers.PlaceWager(ctx, diceBet(1, balance))
		require.NoError(t, err)
		last = result
		if result.NewBalance == 0 {
			break
		}
	}

	require.NotNil(t, last)
	assert.Equal(t, int64(0), last.NewBalance)
	assert.Equal(t, int64(0), env.balance(t, 1))
	env.requireReconciled(t)

	_, err := env.wagers.PlaceWager(ctx, diceBet(1, 1))
	requireValidationReason(t, err, "insufficient_balance")
}

func TestPlaceWager_BalanceArithmetic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, game := range entities.AllGames {
		t.Run(string(game), func(t *testing.T) {
			req := entities.WagerRequest{AccountID: 7, Game: game, Amount: 1000}
			if game == entities.GameGuessNumber {
				req.Params.Guess = 3
			}

			before := env.balance(t, 7)
			result, err := env.wagers.PlaceWager(ctx, req)
			require.NoError(t, err)

			w := result.Wager
			assert.Equal(t, before-w.Stake+w.Payout, result.NewBalance)
			assert.Equal(t, w.Payout-w.Stake, w.Effect)
			assert.GreaterOrEqual(t, w.Stake, w.Amount)
			assert.Equal(t, result.NewBalance, env.balance(t, 7))
		})
	}
	env.requireReconciled(t)
}

func TestPlaceWager_RowsStampedByEngineClock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_ = env.balance(t, 7)
	env.clock.Advance(90 * time.Minute)

	result, err := env.wagers.PlaceWager(ctx, diceBet(7, 100))
	require.NoError(t, err)
	assert.Equal(t, env.clock.Now(), result.Wager.CreatedAt)

	var entries []*entities.LedgerEntry
	err = env.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		var err error
		entries, err = uow.LedgerRepository().GetByAccount(ctx, 7)
		return err
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, env.clock.Now().Add(-90*time.Minute), entries[0].CreatedAt)
	assert.Equal(t, env.clock.Now(), entries[1].CreatedAt)
}

func TestPlaceWager_TwoHundredSequentialWagers(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.StartingBalance = 10_000_000 })
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		_, err := env.wagers.PlaceWager(ctx, diceBet(1, 100))
		require.NoError(t, err)
	}

	assert.Equal(t, int64(200), env.wagerCount(t, 1))
	assert.Equal(t, int64(201), env.ledgerCount(t, 1))
	env.requireReconciled(t)

	account, err := env.accounts.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), account.DrawNonce)
	assert.Equal(t, int64(200*100), account.TotalWagered)
}

func TestPlaceWager_MixedGamesRowCounts(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.StartingBalance = 10_000_000 })
	ctx := context.Background()

	perGame := map[entities.Game]int{
		entities.GameDice:      7,
		entities.GameKeno:      5,
		entities.GameSlots:     4,
		entities.GamePlinko:    3,
		entities.GameBlackjack: 6,
	}
	total := 0
	for game, n := range perGame {
		for i := 0; i < n; i++ {
			_, err := env.wagers.PlaceWager(ctx, entities.WagerRequest{AccountID: 1, Game: game, Amount: 100})
			require.NoError(t, err)
			total++
		}
	}

	breakdown, err := env.stats.GameBreakdown(ctx, 1)
	require.NoError(t, err)
	require.Len(t, breakdown, len(perGame))

	var sum int64
	for _, stats := range breakdown {
		assert.Equal(t, int64(perGame[stats.Game]), stats.Count, "game %s", stats.Game)
		sum += stats.Count
	}
	assert.Equal(t, int64(total), sum)
	assert.Equal(t, int64(total), env.wagerCount(t, 1))
	assert.Equal(t, int64(total+1), env.ledgerCount(t, 1), "one ledger entry per wager plus the initial entry")
	env.requireReconciled(t)
}

func TestPlaceWager_Rejections(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.StartingBalance = 1000
		c.DisabledGames = []string{"wheel"}
	})
	ctx := context.Background()

	tests := []struct {
		name   string
		req    entities.WagerRequest
		reason string
	}{
		{"zero amount", diceBet(1, 0), "invalid_amount"},
		{"negative amount", diceBet(1, -5), "invalid_amount"},
		{"unknown game", entities.WagerRequest{AccountID: 1, Game: "roulette", Amount: 10}, "unknown_game"},
		{"disabled game", entities.WagerRequest{AccountID: 1, Game: entities.GameWheel, Amount: 10}, "game_disabled"},
		{"bad dice target", entities.WagerRequest{AccountID: 1, Game: entities.GameDice, Amount: 10, Params: entities.GameParams{Target: 99.5}}, "invalid_params"},
		{"missing guess", entities.WagerRequest{AccountID: 1, Game: entities.GameGuessNumber, Amount: 10}, "invalid_params"},
		{"blackjack needs double cover", entities.WagerRequest{AccountID: 1, Game: entities.GameBlackjack, Amount: 600}, "insufficient_balance"},
		{"below minimum", diceBet(1, 99), "below_minimum"},
		{"NaN dice target", entities.WagerRequest{AccountID: 1, Game: entities.GameDice, Amount: 100, Params: entities.GameParams{Target: math.NaN(), Over: true}}, "invalid_params"},
		{"infinite dice target", entities.WagerRequest{AccountID: 1, Game: entities.GameDice, Amount: 100, Params: entities.GameParams{Target: math.Inf(1)}}, "invalid_params"},
		{"NaN limbo multiplier", entities.WagerRequest{AccountID: 1, Game: entities.GameLimbo, Amount: 100, Params: entities.GameParams{Multiplier: math.NaN()}}, "invalid_params"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.wagers.PlaceWager(ctx, tt.req)
			requireValidationReason(t, err, tt.reason)
		})
	}

	assert.Equal(t, int64(0), env.wagerCount(t, 1))
	assert.Equal(t, int64(1000), env.balance(t, 1))
	env.requireReconciled(t)
}

func TestPlaceWager_InactiveAccountsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.GetAccount(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, env.accounts.SetExcluded(ctx, 1, true))

	_, err = env.wagers.PlaceWager(ctx, diceBet(1, 10))
	requireValidationReason(t, err, "account_inactive")

	require.NoError(t, env.accounts.SetExcluded(ctx, 1, false))
	_, err = env.wagers.PlaceWager(ctx, diceBet(1, 100))
	require.NoError(t, err)
}

func TestPlaceWager_RetriesOneConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.GetAccount(ctx, 1)
	require.NoError(t, err)

	env.factory.conflicts.Store(1)
	result, err := env.wagers.PlaceWager(ctx, diceBet(1, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(1), env.wagerCount(t, 1))
	assert.Equal(t, result.NewBalance, env.balance(t, 1))
}

func TestPlaceWager_SecondConflictRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.GetAccount(ctx, 1)
	require.NoError(t, err)

	env.factory.conflicts.Store(2)
	_, err = env.wagers.PlaceWager(ctx, diceBet(1, 100))
	requireValidationReason(t, err, "concurrent_update")

	env.factory.conflicts.Store(0)
	assert.Equal(t, int64(0), env.wagerCount(t, 1))
	assert.Equal(t, env.cfg.StartingBalance, env.balance(t, 1))
}

func TestPlaceWager_ExternalBalanceChangeDetected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.GetAccount(ctx, 1)
	require.NoError(t, err)

	// A writer outside this process moved the balance without a ledger entry
	env.store.SetAccountBalance(1, 12345)

	report, err := env.recon.Reconcile(ctx, 1)
	require.NoError(t, err)
	assert.False(t, report.Consistent())
	assert.Equal(t, int64(12345), report.StoredBalance)
	assert.Equal(t, env.cfg.StartingBalance, report.CalculatedBalance)
}

func TestPlaceWager_ConcurrentSameAccount(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.StartingBalance = 1_000_000 })
	ctx := context.Background()

	const workers, perWorker = 8, 25
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < perWorker; i++ {
				if _, err := env.wagers.PlaceWager(ctx, diceBet(1, 100)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(workers*perWorker), env.wagerCount(t, 1))
	env.requireReconciled(t)

	account, err := env.accounts.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*perWorker), account.DrawNonce, "every wager consumed its own draw position")
}

func TestPlaceWager_EventsPublishedAfterCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.wagers.PlaceWager(ctx, diceBet(1, 100))
	require.NoError(t, err)
	_, err = env.wagers.PlaceWager(ctx, diceBet(1, 0))
	require.Error(t, err)

	var settled, balanceChanges, created int
	for _, event := range env.store.PublishedEvents() {
		switch event.(type) {
		case events.WagerSettledEvent:
			settled++
		case events.BalanceChangeEvent:
			balanceChanges++
		case events.AccountCreatedEvent:
			created++
		}
	}
	assert.Equal(t, 1, settled)
	assert.Equal(t, 2, balanceChanges, "initial entry and one wager")
	assert.Equal(t, 1, created)
}

func TestAuditService_ReplayWager(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.StartingBalance = 1_000_000 })
	ctx := context.Background()

	var ids []int64
	for _, game := range entities.AllGames {
		req := entities.WagerRequest{AccountID: 1, Game: game, Amount: 250}
		if game == entities.GameGuessNumber {
			req.Params.Guess = 5
		}
		result, err := env.wagers.PlaceWager(ctx, req)
		require.NoError(t, err)
		ids = append(ids, result.Wager.ID)
	}

	// Reseeding must not affect replays of earlier wagers
	require.NoError(t, env.accounts.Reseed(ctx, 1))

	for _, id := range ids {
		replay, err := env.audit.ReplayWager(ctx, id)
		require.NoError(t, err)
		assert.True(t, replay.Matches(), "wager %d: recorded %d/%d replayed %d/%d", id,
			replay.RecordedStake, replay.RecordedPayout, replay.ReplayedStake, replay.ReplayedPayout)
	}

	_, err := env.audit.ReplayWager(ctx, 999_999)
	requireValidationReason(t, err, "unknown_wager")
}
