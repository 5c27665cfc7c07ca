package entities

import "time"

// ClaimKind identifies a cooldown-gated action
type ClaimKind string

const (
	ClaimKindCounter    ClaimKind = "counter"
	ClaimKindDailyBonus ClaimKind = "daily_bonus"
	ClaimKindRakeback   ClaimKind = "rakeback"
	ClaimKindLossback   ClaimKind = "lossback"
)

// EntrySource returns the ledger source used when the claim pays out
func (k ClaimKind) EntrySource() EntrySource {
	switch k {
	case ClaimKindDailyBonus:
		return EntrySourceDailyBonus
	case ClaimKindRakeback:
		return EntrySourceRakeback
	case ClaimKindLossback:
		return EntrySourceLossback
	default:
		return EntrySourceCounterReward
	}
}

// Claim is an append-only record of a cooldown-gated action.
// A counter entry is a claim of kind counter labelled with the counter name.
type Claim struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	Kind      ClaimKind `db:"kind"`
	Label     string    `db:"label"`
	Amount    int64     `db:"amount"`
	ClaimedAt time.Time `db:"claimed_at"`
}

// ClaimResult describes the outcome of a reward claim
type ClaimResult struct {
	Kind       ClaimKind
	Amount     int64
	NewBalance int64
	Recorded   bool
	NextClaim  time.Time
}
