package entities

import (
	"time"

	"github.com/google/uuid"
)

// TransferEntry is one side of a transfer. Entries are written in pairs
// sharing a LinkID: the sender's with -amount and the recipient's with +amount.
type TransferEntry struct {
	ID        int64     `db:"id"`
	LinkID    uuid.UUID `db:"link_id"`
	AccountID int64     `db:"account_id"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

// TransferResult is returned after a completed transfer
type TransferResult struct {
	LinkID           uuid.UUID
	Amount           int64
	SenderBalance    int64
	RecipientBalance int64
}

// TransferSummary aggregates an account's transfers
type TransferSummary struct {
	Sent          int64
	Received      int64
	SentCount     int64
	ReceivedCount int64
}
