package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gambler/wager-engine/database"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type wagerRepository struct {
	q Queryable
}

// NewWagerRepository creates a wager repository outside of a transaction
func NewWagerRepository(db *database.DB) interfaces.WagerRepository {
	return &wagerRepository{q: db.Pool}
}

func newWagerRepository(tx Queryable) interfaces.WagerRepository {
	return &wagerRepository{q: tx}
}

const wagerColumns = `id, account_id, game, amount, stake, payout, effect, multiplier, params, outcome, draw_seed, draw_nonce, created_at`

func scanWager(row pgx.Row) (*entities.Wager, error) {
	var wager entities.Wager
	var params, outcome []byte
	err := row.Scan(
		&wager.ID,
		&wager.AccountID,
		&wager.Game,
		&wager.Amount,
		&wager.Stake,
		&wager.Payout,
		&wager.Effect,
		&wager.Multiplier,
		&params,
		&outcome,
		&wager.DrawSeed,
		&wager.DrawNonce,
		&wager.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(params, &wager.Params); err != nil {
		return nil, fmt.Errorf("failed to decode wager params: %w", err)
	}
	if err := json.Unmarshal(outcome, &wager.Outcome); err != nil {
		return nil, fmt.Errorf("failed to decode wager outcome: %w", err)
	}
	return &wager, nil
}

func (r *wagerRepository) Create(ctx context.Context, wager *entities.Wager) error {
	params, err := json.Marshal(wager.Params)
	if err != nil {
		return fmt.Errorf("failed to encode wager params: %w", err)
	}
	outcome, err := json.Marshal(wager.Outcome)
	if err != nil {
		return fmt.Errorf("failed to encode wager outcome: %w", err)
	}

	query := `
		INSERT INTO wagers (account_id, game, amount, stake, payout, effect, multiplier, params, outcome, draw_seed, draw_nonce, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err = r.q.QueryRow(ctx, query,
		wager.AccountID,
		wager.Game,
		wager.Amount,
		wager.Stake,
		wager.Payout,
		wager.Effect,
		wager.Multiplier,
		params,
		outcome,
		wager.DrawSeed,
		wager.DrawNonce,
		stampOf(wager.CreatedAt),
	).Scan(&wager.ID, &wager.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wager: %w", err)
	}
	return nil
}

func (r *wagerRepository) GetByID(ctx context.Context, id int64) (*entities.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE id = $1`

	wager, err := scanWager(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	return wager, nil
}

func (r *wagerRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query wagers: %w", err)
	}
	defer rows.Close()

	var wagers []*entities.Wager
	for rows.Next() {
		wager, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, wager)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wagers: %w", err)
	}
	return wagers, nil
}

func (r *wagerRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM wagers WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count wagers: %w", err)
	}
	return count, nil
}

func (r *wagerRepository) TotalsSince(ctx context.Context, accountID int64, since time.Time) (entities.WagerTotals, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(stake), 0)::BIGINT, COALESCE(SUM(payout), 0)::BIGINT
		FROM wagers
		WHERE account_id = $1 AND created_at > $2`

	var totals entities.WagerTotals
	err := r.q.QueryRow(ctx, query, accountID, since).Scan(&totals.Count, &totals.Staked, &totals.Payout)
	if err != nil {
		return totals, fmt.Errorf("failed to sum wagers: %w", err)
	}
	return totals, nil
}

func (r *wagerRepository) GameBreakdown(ctx context.Context, accountID int64) ([]entities.GameStats, error) {
	query := `
		SELECT game,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE effect > 0),
		       SUM(stake)::BIGINT,
		       SUM(payout)::BIGINT,
		       MAX(effect)
		FROM wagers
		WHERE account_id = $1
		GROUP BY game`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game breakdown: %w", err)
	}
	defer rows.Close()

	byGame := make(map[entities.Game]entities.GameStats)
	for rows.Next() {
		var stats entities.GameStats
		if err := rows.Scan(&stats.Game, &stats.Count, &stats.Wins, &stats.Staked, &stats.Payout, &stats.Biggest); err != nil {
			return nil, fmt.Errorf("failed to scan game breakdown: %w", err)
		}
		byGame[stats.Game] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game breakdown: %w", err)
	}

	var out []entities.GameStats
	for _, game := range entities.AllGames {
		if stats, ok := byGame[game]; ok {
			out = append(out, stats)
		}
	}
	return out, nil
}

func (r *wagerRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM wagers`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete wagers: %w", err)
	}
	return tag.RowsAffected(), nil
}
