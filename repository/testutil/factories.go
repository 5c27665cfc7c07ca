package testutil

import (
	"time"

	"gambler/wager-engine/domain/entities"
)

// CreateTestAccount creates an active account with default values
func CreateTestAccount(id int64) *entities.Account {
	return &entities.Account{
		ID:       id,
		Balance:  100000,
		State:    entities.AccountStateActive,
		DrawSeed: id * 7919,
	}
}

// CreateTestAccountWithBalance creates an active account with a specific balance
func CreateTestAccountWithBalance(id int64, balance int64) *entities.Account {
	account := CreateTestAccount(id)
	account.Balance = balance
	return account
}

// CreateTestWager creates a settled dice wager for an account
func CreateTestWager(accountID int64, amount, payout int64) *entities.Wager {
	return &entities.Wager{
		AccountID:  accountID,
		Game:       entities.GameDice,
		Amount:     amount,
		Stake:      amount,
		Payout:     payout,
		Effect:     payout - amount,
		Multiplier: float64(payout) / float64(amount),
		Params:     entities.GameParams{Target: 50, Over: true},
		Outcome:    map[string]any{"roll": 75.5},
		DrawSeed:   accountID * 7919,
	}
}

// CreateTestLedgerEntry creates a consistent ledger entry
func CreateTestLedgerEntry(accountID int64, source entities.EntrySource, before, effect int64) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		AccountID:     accountID,
		Source:        source,
		Effect:        effect,
		BalanceBefore: before,
		BalanceAfter:  before + effect,
		Metadata:      map[string]any{"test": true},
	}
}

// CreateTestClaim creates a claim at the given time
func CreateTestClaim(accountID int64, kind entities.ClaimKind, label string, at time.Time) *entities.Claim {
	return &entities.Claim{
		AccountID: accountID,
		Kind:      kind,
		Label:     label,
		ClaimedAt: at,
	}
}
