package services

import (
	"context"
	"fmt"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/domain/utils"
)

// BalanceChange describes one signed effect on an account
type BalanceChange struct {
	Delta        int64
	Source       entities.EntrySource
	RelatedID    *int64
	Metadata     map[string]any
	WageredDelta int64
	AdvanceNonce bool
}

// LedgerService is the single write path for balances. Every change writes a
// ledger entry with a before/after snapshot and a compare-and-set update of
// the account row in the caller's transaction.
type LedgerService struct {
	now func() time.Time
}

// NewLedgerService creates a ledger service stamping entries with now
func NewLedgerService(now func() time.Time) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{now: now}
}

// ApplyEffect applies change to account inside uow. On success account is
// updated in place to reflect the committed-to-be state.
func (s *LedgerService) ApplyEffect(ctx context.Context, uow interfaces.UnitOfWork, account *entities.Account, change BalanceChange) (*entities.LedgerEntry, error) {
	newBalance := account.Balance + change.Delta
	if newBalance < 0 {
		return nil, entities.NewValidationError("insufficient_balance",
			fmt.Sprintf("Insufficient balance: you have %s", utils.FormatShortNotation(account.Balance)))
	}

	update := entities.BalanceUpdate{
		AccountID:       account.ID,
		ExpectedBalance: account.Balance,
		NewBalance:      newBalance,
		WageredDelta:    change.WageredDelta,
		AdvanceNonce:    change.AdvanceNonce,
	}
	if err := uow.AccountRepository().CompareAndSetBalance(ctx, update); err != nil {
		return nil, entities.NewPersistenceError("update balance", err)
	}

	entry := &entities.LedgerEntry{
		AccountID:     account.ID,
		Source:        change.Source,
		Effect:        change.Delta,
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		RelatedID:     change.RelatedID,
		Metadata:      change.Metadata,
		CreatedAt:     s.now().UTC(),
	}
	if err := utils.RecordLedgerEntry(ctx, uow.LedgerRepository(), uow.EventPublisher(), entry); err != nil {
		return nil, entities.NewPersistenceError("record ledger entry", err)
	}

	account.Balance = newBalance
	account.TotalWagered += change.WageredDelta
	if change.AdvanceNonce {
		account.DrawNonce++
	}
	return entry, nil
}
