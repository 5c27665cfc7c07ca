package entities

import "time"

// AccountState is the lifecycle state of a casino account
type AccountState string

const (
	AccountStateActive    AccountState = "active"
	AccountStateAbandoned AccountState = "abandoned"
	AccountStateExcluded  AccountState = "excluded"
)

// Valid returns true if the state is known
func (s AccountState) Valid() bool {
	return s == AccountStateActive || s == AccountStateAbandoned || s == AccountStateExcluded
}

// Account holds a user's casino balance and draw stream position
type Account struct {
	ID           int64        `db:"id"`
	Balance      int64        `db:"balance"`
	TotalWagered int64        `db:"total_wagered"`
	State        AccountState `db:"state"`
	DrawSeed     int64        `db:"draw_seed"`
	DrawNonce    uint64       `db:"draw_nonce"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// IsActive returns true if the account may wager and claim rewards
func (a *Account) IsActive() bool {
	return a.State == AccountStateActive
}

// CanTransitionTo reports whether a state change is allowed.
// Abandoned is terminal; Active and Excluded can swap freely.
func (a *Account) CanTransitionTo(next AccountState) bool {
	if !next.Valid() || a.State == AccountStateAbandoned {
		return false
	}
	return a.State != next
}

// BalanceUpdate describes a compare-and-set change to an account row.
// ExpectedBalance must match the stored balance or the update is a conflict.
type BalanceUpdate struct {
	AccountID       int64
	ExpectedBalance int64
	NewBalance      int64
	WageredDelta    int64
	AdvanceNonce    bool
}
