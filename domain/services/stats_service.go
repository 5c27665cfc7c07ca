package services

import (
	"context"
	"fmt"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"
)

// MaxRecentWagers caps how many wagers one history request may return
const MaxRecentWagers = 20

// StatsService answers aggregate queries over wagers, balances and transfers
type StatsService struct {
	runner             *TransactionRunner
	cache              interfaces.LeaderboardCache
	maxLeaderboardSize int
}

// NewStatsService creates a stats service. cache may be nil.
func NewStatsService(runner *TransactionRunner, cache interfaces.LeaderboardCache, maxLeaderboardSize int) *StatsService {
	return &StatsService{
		runner:             runner,
		cache:              cache,
		maxLeaderboardSize: maxLeaderboardSize,
	}
}

// Leaderboard returns the top n accounts by metric. Out-of-range n is
// rejected before any aggregation runs.
func (s *StatsService) Leaderboard(ctx context.Context, metric entities.LeaderboardMetric, n int) ([]entities.LeaderboardEntry, error) {
	if n <= 0 || n > s.maxLeaderboardSize {
		s.runner.Metrics().CommandRejected("leaderboard", "invalid_size")
		return nil, entities.NewValidationError("invalid_size",
			fmt.Sprintf("Leaderboard size must be between 1 and %d.", s.maxLeaderboardSize))
	}
	if !metric.Valid() {
		s.runner.Metrics().CommandRejected("leaderboard", "invalid_metric")
		return nil, entities.NewValidationError("invalid_metric",
			fmt.Sprintf("Unknown leaderboard %q.", metric))
	}

	if s.cache != nil {
		if entries, ok := s.cache.Get(ctx, metric, n); ok {
			return entries, nil
		}
	}

	var entries []entities.LeaderboardEntry
	err := s.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		var err error
		entries, err = uow.StatsRepository().Leaderboard(ctx, metric, n)
		if err != nil {
			return entities.NewPersistenceError("leaderboard", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, metric, n, entries)
	}
	return entries, nil
}

// GameBreakdown returns per-game totals for an account
func (s *StatsService) GameBreakdown(ctx context.Context, accountID int64) ([]entities.GameStats, error) {
	var stats []entities.GameStats
	err := s.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		var err error
		stats, err = uow.WagerRepository().GameBreakdown(ctx, accountID)
		if err != nil {
			return entities.NewPersistenceError("game breakdown", err)
		}
		return nil
	})
	return stats, err
}

// TransferSummary returns what an account has sent and received
func (s *StatsService) TransferSummary(ctx context.Context, accountID int64) (entities.TransferSummary, error) {
	var summary entities.TransferSummary
	err := s.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		var err error
		summary, err = uow.TransferRepository().Summary(ctx, accountID)
		if err != nil {
			return entities.NewPersistenceError("transfer summary", err)
		}
		return nil
	})
	return summary, err
}

// RecentWagers returns an account's latest wagers, newest first. Out-of-range
// limits are rejected before the repository is queried.
func (s *StatsService) RecentWagers(ctx context.Context, accountID int64, limit int) ([]*entities.Wager, error) {
	if limit <= 0 || limit > MaxRecentWagers {
		s.runner.Metrics().CommandRejected("history", "invalid_size")
		return nil, entities.NewValidationError("invalid_size",
			fmt.Sprintf("History size must be between 1 and %d.", MaxRecentWagers))
	}
	var wagers []*entities.Wager
	err := s.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		var err error
		wagers, err = uow.WagerRepository().GetByAccount(ctx, accountID, limit)
		if err != nil {
			return entities.NewPersistenceError("recent wagers", err)
		}
		return nil
	})
	return wagers, err
}
