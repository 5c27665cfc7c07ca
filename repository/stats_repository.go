package repository

import (
	"context"
	"fmt"

	"gambler/wager-engine/database"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"
)

type statsRepository struct {
	q Queryable
}

// NewStatsRepository creates a stats repository outside of a transaction
func NewStatsRepository(db *database.DB) interfaces.StatsRepository {
	return &statsRepository{q: db.Pool}
}

func newStatsRepository(tx Queryable) interfaces.StatsRepository {
	return &statsRepository{q: tx}
}

// leaderboardQueries rank non-abandoned accounts, ties broken by account id
var leaderboardQueries = map[entities.LeaderboardMetric]string{
	entities.LeaderboardBalance: `
		SELECT id, balance
		FROM accounts
		WHERE state <> 'abandoned'
		ORDER BY balance DESC, id
		LIMIT $1`,
	entities.LeaderboardWagered: `
		SELECT id, total_wagered
		FROM accounts
		WHERE state <> 'abandoned'
		ORDER BY total_wagered DESC, id
		LIMIT $1`,
	entities.LeaderboardProfit: `
		SELECT a.id, COALESCE(SUM(w.effect), 0)::BIGINT AS profit
		FROM accounts a
		LEFT JOIN wagers w ON w.account_id = a.id
		WHERE a.state <> 'abandoned'
		GROUP BY a.id
		ORDER BY profit DESC, a.id
		LIMIT $1`,
}

func (r *statsRepository) Leaderboard(ctx context.Context, metric entities.LeaderboardMetric, limit int) ([]entities.LeaderboardEntry, error) {
	query, ok := leaderboardQueries[metric]
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard metric %q", metric)
	}

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []entities.LeaderboardEntry
	for rows.Next() {
		entry := entities.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.AccountID, &entry.Value); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return entries, nil
}
