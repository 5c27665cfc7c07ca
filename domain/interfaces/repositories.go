package interfaces

import (
	"context"
	"time"

	"gambler/wager-engine/domain/entities"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account, returning nil when it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// Create inserts a new account
	Create(ctx context.Context, account *entities.Account) error

	// CompareAndSetBalance applies the update only if the stored balance still
	// equals update.ExpectedBalance, otherwise returns ErrConcurrencyConflict
	CompareAndSetBalance(ctx context.Context, update entities.BalanceUpdate) error

	// UpdateState changes the account lifecycle state
	UpdateState(ctx context.Context, id int64, state entities.AccountState) error

	// UpdateSeed stores a new draw seed and resets the nonce to zero
	UpdateSeed(ctx context.Context, id int64, seed int64) error

	// ListIDs returns every account id in ascending order
	ListIDs(ctx context.Context) ([]int64, error)

	// LockAllForReset blocks until no other transaction holds or can take a
	// write lock on any account, for the rest of the transaction
	LockAllForReset(ctx context.Context) error

	// ResetAll sets every balance to the given value and clears wagered totals
	ResetAll(ctx context.Context, balance int64) (int64, error)
}

// WagerRepository defines the interface for wager records
type WagerRepository interface {
	// Create inserts a wager and sets its ID and CreatedAt
	Create(ctx context.Context, wager *entities.Wager) error

	// GetByID retrieves a wager, returning nil when it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Wager, error)

	// GetByAccount returns the most recent wagers for an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Wager, error)

	// CountByAccount returns how many wagers an account has placed
	CountByAccount(ctx context.Context, accountID int64) (int64, error)

	// TotalsSince sums stakes and payouts for wagers created after since
	TotalsSince(ctx context.Context, accountID int64, since time.Time) (entities.WagerTotals, error)

	// GameBreakdown aggregates an account's wagers per game
	GameBreakdown(ctx context.Context, accountID int64) ([]entities.GameStats, error)

	// DeleteAll removes every wager (administrative reset only)
	DeleteAll(ctx context.Context) (int64, error)
}

// LedgerRepository defines the interface for the append-only ledger
type LedgerRepository interface {
	// Record appends an entry and sets its ID and CreatedAt
	Record(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByAccount returns every entry for an account in insertion order
	GetByAccount(ctx context.Context, accountID int64) ([]*entities.LedgerEntry, error)

	// CountByAccount returns how many entries an account has
	CountByAccount(ctx context.Context, accountID int64) (int64, error)

	// DeleteAll removes every entry (administrative reset only)
	DeleteAll(ctx context.Context) (int64, error)
}

// ClaimRepository defines the interface for cooldown-gated claims
type ClaimRepository interface {
	// Create appends a claim and sets its ID
	Create(ctx context.Context, claim *entities.Claim) error

	// GetLatest returns the newest claim of a kind and label, or nil
	GetLatest(ctx context.Context, accountID int64, kind entities.ClaimKind, label string) (*entities.Claim, error)

	// CountByAccount returns how many claims of a kind an account has
	CountByAccount(ctx context.Context, accountID int64, kind entities.ClaimKind) (int64, error)

	// DeleteAll removes every claim (administrative reset only)
	DeleteAll(ctx context.Context) (int64, error)
}

// TransferRepository defines the interface for linked transfer entries
type TransferRepository interface {
	// CreatePair writes both sides of a transfer
	CreatePair(ctx context.Context, debit, credit *entities.TransferEntry) error

	// GetByLink returns both sides of a transfer
	GetByLink(ctx context.Context, linkID uuid.UUID) ([]*entities.TransferEntry, error)

	// Summary aggregates an account's sent and received transfers
	Summary(ctx context.Context, accountID int64) (entities.TransferSummary, error)

	// DeleteAll removes every transfer entry (administrative reset only)
	DeleteAll(ctx context.Context) (int64, error)
}

// StatsRepository defines cross-account aggregate queries
type StatsRepository interface {
	// Leaderboard ranks accounts by a metric
	Leaderboard(ctx context.Context, metric entities.LeaderboardMetric, limit int) ([]entities.LeaderboardEntry, error)
}
