package services

import (
	"context"
	"testing"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerMocks struct {
	uow       *testhelpers.MockUnitOfWork
	accounts  *testhelpers.MockAccountRepository
	ledger    *testhelpers.MockLedgerRepository
	publisher *testhelpers.MockEventPublisher
}

func newLedgerMocks() *ledgerMocks {
	m := &ledgerMocks{
		uow:       new(testhelpers.MockUnitOfWork),
		accounts:  new(testhelpers.MockAccountRepository),
		ledger:    new(testhelpers.MockLedgerRepository),
		publisher: new(testhelpers.MockEventPublisher),
	}
	m.uow.On("AccountRepository").Return(m.accounts).Maybe()
	m.uow.On("LedgerRepository").Return(m.ledger).Maybe()
	m.uow.On("EventPublisher").Return(m.publisher).Maybe()
	return m
}

func TestApplyEffect_WritesSnapshotAndUpdatesBalance(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	account := &entities.Account{ID: 1, Balance: 1000, DrawNonce: 4}
	wagerID := int64(77)

	m.accounts.On("CompareAndSetBalance", ctx, entities.BalanceUpdate{
		AccountID:       1,
		ExpectedBalance: 1000,
		NewBalance:      1250,
		WageredDelta:    500,
		AdvanceNonce:    true,
	}).Return(nil)
	m.ledger.On("Record", ctx, mock.MatchedBy(func(e *entities.LedgerEntry) bool {
		return e.BalanceBefore == 1000 && e.BalanceAfter == 1250 && e.Effect == 250 &&
			e.Source == entities.EntrySourceWager && *e.RelatedID == wagerID
	})).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	stamp := time.Date(2024, 6, 1, 12, 30, 0, 0, time.FixedZone("east", 3600))
	entry, err := NewLedgerService(func() time.Time { return stamp }).ApplyEffect(ctx, m.uow, account, BalanceChange{
		Delta:        250,
		Source:       entities.EntrySourceWager,
		RelatedID:    &wagerID,
		WageredDelta: 500,
		AdvanceNonce: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1250), entry.BalanceAfter)
	assert.Equal(t, int64(1250), account.Balance)
	assert.Equal(t, int64(500), account.TotalWagered)
	assert.Equal(t, uint64(5), account.DrawNonce)
	assert.Equal(t, stamp.UTC(), entry.CreatedAt)
	assert.Equal(t, time.UTC, entry.CreatedAt.Location())

	m.accounts.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
}

func TestApplyEffect_RefusesNegativeBalance(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	account := &entities.Account{ID: 1, Balance: 100}

	_, err := NewLedgerService(nil).ApplyEffect(ctx, m.uow, account, BalanceChange{
		Delta:  -101,
		Source: entities.EntrySourceTransferDebit,
	})
	requireValidationReason(t, err, "insufficient_balance")
	assert.Equal(t, int64(100), account.Balance)

	m.accounts.AssertNotCalled(t, "CompareAndSetBalance", mock.Anything, mock.Anything)
	m.ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestApplyEffect_ConflictPassesThrough(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	account := &entities.Account{ID: 1, Balance: 100}

	m.accounts.On("CompareAndSetBalance", ctx, mock.Anything).Return(entities.ErrConcurrencyConflict)

	_, err := NewLedgerService(nil).ApplyEffect(ctx, m.uow, account, BalanceChange{Delta: -50, Source: entities.EntrySourceWager})
	assert.ErrorIs(t, err, entities.ErrConcurrencyConflict)
	assert.Equal(t, int64(100), account.Balance)
	m.ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestApplyEffect_StorageFailureIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	account := &entities.Account{ID: 1, Balance: 100}

	m.accounts.On("CompareAndSetBalance", ctx, mock.Anything).Return(nil)
	m.ledger.On("Record", ctx, mock.Anything).Return(assert.AnError)

	_, err := NewLedgerService(nil).ApplyEffect(ctx, m.uow, account, BalanceChange{Delta: 10, Source: entities.EntrySourceDailyBonus})
	var persistenceErr *entities.PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.ErrorIs(t, err, assert.AnError)
}
