package entities

import "time"

// EntrySource identifies what caused a ledger entry
type EntrySource string

const (
	EntrySourceInitial        EntrySource = "initial"
	EntrySourceWager          EntrySource = "wager"
	EntrySourceTransferDebit  EntrySource = "transfer_debit"
	EntrySourceTransferCredit EntrySource = "transfer_credit"
	EntrySourceDailyBonus     EntrySource = "daily_bonus"
	EntrySourceRakeback       EntrySource = "rakeback"
	EntrySourceLossback       EntrySource = "lossback"
	EntrySourceCounterReward  EntrySource = "counter_reward"
)

// IsTransfer returns true for either side of a transfer
func (s EntrySource) IsTransfer() bool {
	return s == EntrySourceTransferDebit || s == EntrySourceTransferCredit
}

// IsReward returns true for cooldown-gated rewards
func (s EntrySource) IsReward() bool {
	return s == EntrySourceDailyBonus || s == EntrySourceRakeback ||
		s == EntrySourceLossback || s == EntrySourceCounterReward
}

// LedgerEntry is an immutable record of one balance change
type LedgerEntry struct {
	ID            int64          `db:"id"`
	AccountID     int64          `db:"account_id"`
	Source        EntrySource    `db:"source"`
	Effect        int64          `db:"effect"`
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	RelatedID     *int64         `db:"related_id"`
	Metadata      map[string]any `db:"metadata"`
	CreatedAt     time.Time      `db:"created_at"`
}

// IsConsistent returns true if the snapshot matches the effect
func (e *LedgerEntry) IsConsistent() bool {
	return e.BalanceAfter == e.BalanceBefore+e.Effect && e.BalanceAfter >= 0
}
