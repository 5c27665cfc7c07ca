package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gambler/wager-engine/database"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"
)

type ledgerRepository struct {
	q Queryable
}

// NewLedgerRepository creates a ledger repository outside of a transaction
func NewLedgerRepository(db *database.DB) interfaces.LedgerRepository {
	return &ledgerRepository{q: db.Pool}
}

func newLedgerRepository(tx Queryable) interfaces.LedgerRepository {
	return &ledgerRepository{q: tx}
}

func (r *ledgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode ledger metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_entries (account_id, source, effect, balance_before, balance_after, related_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err = r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Source,
		entry.Effect,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.RelatedID,
		encoded,
		stampOf(entry.CreatedAt),
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetByAccount(ctx context.Context, accountID int64) ([]*entities.LedgerEntry, error) {
	query := `
		SELECT id, account_id, source, effect, balance_before, balance_after, related_id, metadata, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		var entry entities.LedgerEntry
		var metadata []byte
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Source,
			&entry.Effect,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.RelatedID,
			&metadata,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode ledger metadata: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

func (r *ledgerRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM ledger_entries`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ledger entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
