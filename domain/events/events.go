package events

import "gambler/wager-engine/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeAccountCreated    EventType = "account_created"
	EventTypeWagerSettled      EventType = "wager_settled"
	EventTypeTransferCompleted EventType = "transfer_completed"
	EventTypeRewardClaimed     EventType = "reward_claimed"
	EventTypeAccountState      EventType = "account_state_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted for every ledger entry
type BalanceChangeEvent struct {
	AccountID  int64                `json:"account_id"`
	OldBalance int64                `json:"old_balance"`
	NewBalance int64                `json:"new_balance"`
	Source     entities.EntrySource `json:"source"`
	Effect     int64                `json:"effect"`
	EntryID    int64                `json:"entry_id"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted when an account is first created
type AccountCreatedEvent struct {
	AccountID      int64 `json:"account_id"`
	InitialBalance int64 `json:"initial_balance"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// WagerSettledEvent is emitted once a wager has been committed
type WagerSettledEvent struct {
	WagerID    int64         `json:"wager_id"`
	AccountID  int64         `json:"account_id"`
	Game       entities.Game `json:"game"`
	Amount     int64         `json:"amount"`
	Stake      int64         `json:"stake"`
	Payout     int64         `json:"payout"`
	Multiplier float64       `json:"multiplier"`
}

func (e WagerSettledEvent) Type() EventType {
	return EventTypeWagerSettled
}

// TransferCompletedEvent is emitted after both sides of a transfer are written
type TransferCompletedEvent struct {
	LinkID      string `json:"link_id"`
	FromAccount int64  `json:"from_account"`
	ToAccount   int64  `json:"to_account"`
	Amount      int64  `json:"amount"`
}

func (e TransferCompletedEvent) Type() EventType {
	return EventTypeTransferCompleted
}

// RewardClaimedEvent is emitted when a cooldown-gated claim is recorded
type RewardClaimedEvent struct {
	AccountID int64              `json:"account_id"`
	Kind      entities.ClaimKind `json:"kind"`
	Label     string             `json:"label,omitempty"`
	Amount    int64              `json:"amount"`
}

func (e RewardClaimedEvent) Type() EventType {
	return EventTypeRewardClaimed
}

// AccountStateChangedEvent is emitted on abandon/exclude/reinstate
type AccountStateChangedEvent struct {
	AccountID int64                 `json:"account_id"`
	From      entities.AccountState `json:"from"`
	To        entities.AccountState `json:"to"`
}

func (e AccountStateChangedEvent) Type() EventType {
	return EventTypeAccountState
}
