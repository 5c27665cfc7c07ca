package interfaces

import (
	"context"
	"time"

	"gambler/wager-engine/domain/entities"
)

// AccountLookup resolves a display name to an account id. Fuzzy matching
// lives with the orchestrator; the engine only consumes the result.
type AccountLookup interface {
	ResolveAccount(ctx context.Context, name string) (int64, error)
}

// MetricsRecorder receives operational measurements from the domain services
type MetricsRecorder interface {
	WagerSettled(game entities.Game, stake, payout int64, duration time.Duration)
	LedgerEntryRecorded(source entities.EntrySource)
	CommandRejected(command, reason string)
	ConflictRetried(operation string)
	ReconciliationChecked(consistent bool)
}

// LeaderboardCache stores computed leaderboards for a short time
type LeaderboardCache interface {
	Get(ctx context.Context, metric entities.LeaderboardMetric, limit int) ([]entities.LeaderboardEntry, bool)
	Set(ctx context.Context, metric entities.LeaderboardMetric, limit int, entries []entities.LeaderboardEntry)
	Invalidate(ctx context.Context)
}
